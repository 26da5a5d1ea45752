// Package scheduler runs the periodic maintenance jobs.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/belonio2793/backlinkoo-solar-system-sub047/infrastructure/logger"
	"github.com/robfig/cron/v3"
)

// Config selects job schedules. Specs use five-field cron syntax or
// descriptors such as "@every 1h". An empty spec disables a job.
type Config struct {
	Enabled      bool          `env:"SCHEDULER_ENABLED"       yaml:"enabled"`
	DomainSync   string        `env:"SCHEDULER_DOMAIN_SYNC"   yaml:"domain_sync"`
	TrialCleanup string        `env:"SCHEDULER_TRIAL_CLEANUP" yaml:"trial_cleanup"`
	JobTimeout   time.Duration `env:"SCHEDULER_JOB_TIMEOUT"   yaml:"job_timeout"`
}

// SetDefaults fills empty schedules.
func (c *Config) SetDefaults() {
	if c.DomainSync == "" {
		c.DomainSync = "@every 1h"
	}
	if c.TrialCleanup == "" {
		c.TrialCleanup = "@every 6h"
	}
	if c.JobTimeout <= 0 {
		c.JobTimeout = 5 * time.Minute
	}
}

// JobFunc is one unit of scheduled work.
type JobFunc func(ctx context.Context) error

// ErrUnknownJob is returned by RunNow for unregistered names.
var ErrUnknownJob = errors.New("unknown job")

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Scheduler wraps a cron runner. Overlapping runs of one job are skipped
// and panics are recovered and logged.
type Scheduler struct {
	cron    *cron.Cron
	log     logger.Logger
	timeout time.Duration

	mu   sync.Mutex
	jobs map[string]JobFunc

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a stopped Scheduler.
func New(timeout time.Duration, log logger.Logger) *Scheduler {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	cl := cronLogger{log: log}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithParser(parser),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		log:     log,
		timeout: timeout,
		jobs:    make(map[string]JobFunc),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Add registers fn under name on spec.
func (s *Scheduler) Add(name, spec string, fn JobFunc) error {
	schedule, err := parser.Parse(spec)
	if err != nil {
		return fmt.Errorf("parse schedule %q for %s: %w", spec, name, err)
	}

	s.mu.Lock()
	s.jobs[name] = fn
	s.mu.Unlock()

	s.cron.Schedule(schedule, cron.FuncJob(func() {
		if err := s.run(name, fn); err != nil {
			s.log.Error("Scheduled job failed", logger.String("job", name), logger.Error(err))
		}
	}))
	s.log.Info("Job scheduled",
		logger.String("job", name),
		logger.String("schedule", spec),
		logger.Time("next_run", schedule.Next(time.Now())),
	)
	return nil
}

// RunNow runs a registered job synchronously.
func (s *Scheduler) RunNow(name string) error {
	s.mu.Lock()
	fn, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}
	return s.run(name, fn)
}

func (s *Scheduler) run(name string, fn JobFunc) (err error) {
	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("job %s panicked: %v", name, rec)
		}
	}()

	start := time.Now()
	if err = fn(ctx); err != nil {
		return err
	}
	s.log.Info("Scheduled job completed", logger.String("job", name), logger.Duration("duration", time.Since(start)))
	return nil
}

// Start begins running jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop cancels running jobs and waits for them until ctx ends.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.cancel()
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler stop: %w", ctx.Err())
	}
}

// cronLogger adapts logger.Logger to cron.Logger.
type cronLogger struct {
	log logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug("cron: "+msg, logger.Any("details", keysAndValues))
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error("cron: "+msg, logger.Error(err), logger.Any("details", keysAndValues))
}
