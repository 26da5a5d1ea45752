package keywords

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/llm"
)

// ErrNoGenerator is returned when suggestions are requested without a
// configured text generator.
var ErrNoGenerator = errors.New("keyword suggestions require an LLM provider")

// Suggester asks a language model for keywords related to a seed.
type Suggester struct {
	gen llm.Generator
}

// NewSuggester creates a Suggester. gen may be nil.
func NewSuggester(gen llm.Generator) *Suggester {
	return &Suggester{gen: gen}
}

// Suggest returns up to MaxKeywords keywords for seed.
func (s *Suggester) Suggest(ctx context.Context, seed string) ([]string, error) {
	if s.gen == nil {
		return nil, ErrNoGenerator
	}
	seed = strings.TrimSpace(seed)
	if seed == "" {
		return nil, errors.New("seed keyword is required")
	}
	out, err := s.gen.Complete(ctx, llm.KeywordSystemPrompt, llm.KeywordPrompt(seed))
	if err != nil {
		return nil, fmt.Errorf("suggest keywords: %w", err)
	}
	return Parse(out), nil
}
