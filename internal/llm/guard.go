package llm

import (
	"context"
	"time"

	"github.com/belonio2793/backlinkoo-solar-system-sub047/infrastructure/circuitbreaker"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/infrastructure/logger"
)

// Guarded wraps a Generator with a circuit breaker so a failing provider
// is skipped quickly and callers fall back to template content.
type Guarded struct {
	next    Generator
	breaker *circuitbreaker.Breaker
}

// NewGuarded wraps next. State transitions are logged.
func NewGuarded(next Generator, threshold int, cooldown time.Duration, log logger.Logger) *Guarded {
	return &Guarded{
		next: next,
		breaker: circuitbreaker.New(circuitbreaker.Config{
			FailureThreshold: threshold,
			Cooldown:         cooldown,
			OnStateChange: func(from, to circuitbreaker.State) {
				log.Warn("LLM circuit breaker state changed",
					logger.String("from", from.String()),
					logger.String("to", to.String()),
				)
			},
		}),
	}
}

// Complete implements Generator.
func (g *Guarded) Complete(ctx context.Context, system, prompt string) (string, error) {
	var out string
	err := g.breaker.Execute(func() error {
		text, err := g.next.Complete(ctx, system, prompt)
		out = text
		return err
	})
	return out, err
}
