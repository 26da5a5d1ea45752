package scheduler_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/belonio2793/backlinkoo-solar-system-sub047/infrastructure/logger"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/domainsync"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSyncer struct {
	calls int
	err   error
}

func (f *fakeSyncer) SyncFromDB(context.Context) (*domainsync.DBSyncResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &domainsync.DBSyncResult{Total: 2, Added: []string{"a.com"}}, nil
}

type fakeCleaner struct {
	at time.Time
}

func (f *fakeCleaner) DeleteExpiredTrialPosts(_ context.Context, now time.Time) (int64, error) {
	f.at = now
	return 3, nil
}

func TestRegisterAndRunNow(t *testing.T) {
	s := scheduler.New(time.Second, logger.NewNop())
	syncer := &fakeSyncer{}
	cleaner := &fakeCleaner{}

	require.NoError(t, scheduler.Register(s, scheduler.Config{}, syncer, cleaner, nil, logger.NewNop()))

	require.NoError(t, s.RunNow(scheduler.JobDomainSync))
	assert.Equal(t, 1, syncer.calls)

	require.NoError(t, s.RunNow(scheduler.JobTrialCleanup))
	assert.False(t, cleaner.at.IsZero())

	require.ErrorIs(t, s.RunNow("nope"), scheduler.ErrUnknownJob)
}

func TestAdd_BadSpec(t *testing.T) {
	s := scheduler.New(time.Second, logger.NewNop())
	err := s.Add("x", "every now and then", func(context.Context) error { return nil })
	require.Error(t, err)
}

func TestRunNow_ErrorsAndPanics(t *testing.T) {
	s := scheduler.New(time.Second, logger.NewNop())
	syncErr := errors.New("netlify down")
	require.NoError(t, s.Add("sync", "@every 1h", scheduler.DomainSyncJob(&fakeSyncer{err: syncErr}, logger.NewNop())))
	require.NoError(t, s.Add("boom", "@every 1h", func(context.Context) error { panic("boom") }))

	require.ErrorIs(t, s.RunNow("sync"), syncErr)
	err := s.RunNow("boom")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panicked")
}

func TestStartStop(t *testing.T) {
	s := scheduler.New(time.Second, logger.NewNop())
	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
}
