package domainsync_test

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/infrastructure/logger"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/domainsync"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/models"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/netlify"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHosting struct {
	mu       sync.Mutex
	site     netlify.Site
	patches  [][]string
	setErr   error
	patchErr error
	setCalls int
}

func (f *fakeHosting) SiteID() string { return "site-1" }

func (f *fakeHosting) GetSite(context.Context) (*netlify.Site, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	site := f.site
	site.DomainAliases = slices.Clone(f.site.DomainAliases)
	return &site, nil
}

func (f *fakeHosting) PatchAliases(_ context.Context, aliases []string) (*netlify.Site, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.patchErr != nil {
		return nil, f.patchErr
	}
	f.patches = append(f.patches, slices.Clone(aliases))
	f.site.DomainAliases = slices.Clone(aliases)
	site := f.site
	return &site, nil
}

func (f *fakeHosting) SetCustomDomain(_ context.Context, host string) (*netlify.Site, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setCalls++
	if f.setErr != nil {
		return nil, f.setErr
	}
	f.site.CustomDomain = host
	site := f.site
	return &site, nil
}

type fakeStore struct {
	mu       sync.Mutex
	rows     map[string]*models.Domain
	blogs    map[uuid.UUID]string
	attached []string
	failed   []string
	stamped  []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: map[string]*models.Domain{}, blogs: map[uuid.UUID]string{}}
}

func (f *fakeStore) UpsertDomain(_ context.Context, u models.DomainUpsert) (*models.Domain, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[u.Domain]
	if !ok {
		row = &models.Domain{ID: uuid.New(), Domain: u.Domain, Status: models.DomainStatusPending}
		f.rows[u.Domain] = row
	}
	if u.Status != "" {
		row.Status = u.Status
	}
	row.NetlifyVerified = row.NetlifyVerified || u.NetlifyVerified
	return row, nil
}

func (f *fakeStore) EnsureBlogSetup(_ context.Context, id uuid.UUID, theme, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blogs[id] = theme
	return nil
}

func (f *fakeStore) MarkDomainsAttached(_ context.Context, hosts []string, status string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attached = append(f.attached, hosts...)
	for _, h := range hosts {
		if row, ok := f.rows[h]; ok {
			row.Status = status
		}
	}
	return int64(len(hosts)), nil
}

func (f *fakeStore) MarkDomainsFailed(_ context.Context, hosts []string, _ string) error {
	f.failed = append(f.failed, hosts...)
	return nil
}

func (f *fakeStore) StampSiteID(_ context.Context, hosts []string, _ string) error {
	f.stamped = append(f.stamped, hosts...)
	return nil
}

func (f *fakeStore) ListDomains(context.Context) ([]models.Domain, error) {
	out := make([]models.Domain, 0, len(f.rows))
	for _, row := range f.rows {
		out = append(out, *row)
	}
	slices.SortFunc(out, func(a, b models.Domain) int { return strings.Compare(a.Domain, b.Domain) })
	return out, nil
}

func (f *fakeStore) DeleteDomainByName(_ context.Context, host string) (bool, error) {
	_, ok := f.rows[host]
	delete(f.rows, host)
	return ok, nil
}

type logEntry struct {
	level string
	msg   string
}

type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *recordingLogger) add(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, msg: msg})
}

func (l *recordingLogger) Debug(msg string, _ ...logger.Field) { l.add("debug", msg) }
func (l *recordingLogger) Info(msg string, _ ...logger.Field)  { l.add("info", msg) }
func (l *recordingLogger) Warn(msg string, _ ...logger.Field)  { l.add("warn", msg) }
func (l *recordingLogger) Error(msg string, _ ...logger.Field) { l.add("error", msg) }
func (l *recordingLogger) Fatal(msg string, _ ...logger.Field) { l.add("fatal", msg) }
func (l *recordingLogger) With(...logger.Field) logger.Logger  { return l }
func (l *recordingLogger) Sync() error                         { return nil }

func newService(h *fakeHosting, s *fakeStore) *domainsync.Service {
	return domainsync.NewService(h, s, domainsync.NewLocalLocker(), nil, nil, logger.NewNop(), domainsync.Config{})
}

func TestSync_NormalizesAndSkipsNoop(t *testing.T) {
	hosting := &fakeHosting{site: netlify.Site{ID: "site-1", DomainAliases: []string{"old.com"}}}
	store := newFakeStore()
	svc := newService(hosting, store)

	res, err := svc.Sync(context.Background(), []string{"https://Example.com/", "www.example.com"}, "user-1")
	require.NoError(t, err)
	assert.True(t, res.Patched)
	assert.Equal(t, []string{"example.com"}, res.Added)
	assert.Equal(t, []string{"old.com", "example.com"}, res.Aliases)
	require.Contains(t, store.rows, "example.com")
	assert.True(t, store.rows["example.com"].NetlifyVerified)
	assert.Equal(t, "minimal", store.blogs[store.rows["example.com"].ID])

	res, err = svc.Sync(context.Background(), []string{"example.com"}, "user-1")
	require.NoError(t, err)
	assert.False(t, res.Patched)
	assert.Empty(t, res.Added)
	assert.Len(t, hosting.patches, 1)
}

func TestSync_PreservesExistingAliases(t *testing.T) {
	hosting := &fakeHosting{site: netlify.Site{DomainAliases: []string{"www.keep.com", "keep.com", "Shop.Other.com"}}}
	svc := newService(hosting, newFakeStore())

	res, err := svc.Sync(context.Background(), []string{"new.com", "shop.other.com"}, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"new.com"}, res.Added)
	require.Len(t, hosting.patches, 1)
	assert.Equal(t, []string{"www.keep.com", "keep.com", "Shop.Other.com", "new.com"}, hosting.patches[0])

	rm, err := svc.Remove(context.Background(), "keep.com")
	require.NoError(t, err)
	assert.True(t, rm.RemovedAlias)
	require.Len(t, hosting.patches, 2)
	assert.Equal(t, []string{"www.keep.com", "Shop.Other.com", "new.com"}, hosting.patches[1])
}

func TestSync_RejectsInvalidBatch(t *testing.T) {
	hosting := &fakeHosting{}
	svc := newService(hosting, newFakeStore())

	_, err := svc.Sync(context.Background(), []string{"good.com", "not a domain"}, "")
	var invalid *models.InvalidDomainsError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, []string{"not a domain"}, invalid.Inputs)
	assert.ErrorIs(t, err, models.ErrInvalidDomain)
	assert.Empty(t, hosting.patches)
}

func TestAdd(t *testing.T) {
	t.Run("apex becomes primary", func(t *testing.T) {
		hosting := &fakeHosting{}
		res, err := newService(hosting, newFakeStore()).Add(context.Background(), "example.com", "")
		require.NoError(t, err)
		assert.Equal(t, domainsync.ModePrimary, res.Mode)
		assert.Equal(t, "example.com", hosting.site.CustomDomain)
		assert.Empty(t, hosting.patches)
	})

	t.Run("subdomain becomes alias", func(t *testing.T) {
		hosting := &fakeHosting{site: netlify.Site{CustomDomain: "main.com"}}
		res, err := newService(hosting, newFakeStore()).Add(context.Background(), "blog.example.com", "")
		require.NoError(t, err)
		assert.Equal(t, domainsync.ModeAlias, res.Mode)
		assert.Zero(t, hosting.setCalls)
		assert.Equal(t, [][]string{{"blog.example.com"}}, hosting.patches)
	})

	t.Run("primary failure falls back to alias", func(t *testing.T) {
		hosting := &fakeHosting{setErr: errors.New("422 unprocessable")}
		res, err := newService(hosting, newFakeStore()).Add(context.Background(), "example.com", "")
		require.NoError(t, err)
		assert.Equal(t, domainsync.ModeAlias, res.Mode)
		assert.Equal(t, []string{"example.com"}, res.Aliases)
	})

	t.Run("owned elsewhere is terminal", func(t *testing.T) {
		hosting := &fakeHosting{setErr: netlify.ErrDomainOwnedElsewhere}
		store := newFakeStore()
		_, err := newService(hosting, store).Add(context.Background(), "example.com", "")
		require.ErrorIs(t, err, netlify.ErrDomainOwnedElsewhere)
		assert.Empty(t, hosting.patches)
		assert.Empty(t, store.rows)
	})

	t.Run("already attached", func(t *testing.T) {
		hosting := &fakeHosting{site: netlify.Site{DomainAliases: []string{"example.com"}}}
		res, err := newService(hosting, newFakeStore()).Add(context.Background(), "EXAMPLE.com", "")
		require.NoError(t, err)
		assert.Equal(t, domainsync.ModeExisting, res.Mode)
		assert.NotNil(t, res.Domain)
		assert.Empty(t, hosting.patches)
	})
}

func TestAddBulk(t *testing.T) {
	hosting := &fakeHosting{site: netlify.Site{DomainAliases: []string{"a.com"}}}
	store := newFakeStore()

	res, err := newService(hosting, store).AddBulk(context.Background(), []string{"a.com", "b.com", "bad domain"}, "user-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.com", "b.com"}, res.Attached)
	assert.Equal(t, []string{"b.com"}, res.Added)
	assert.Equal(t, []string{"bad domain"}, res.Invalid)
	assert.Len(t, hosting.patches, 1)
	assert.Equal(t, models.DomainStatusDNSReady, store.rows["b.com"].Status)
}

func TestAddBulk_PatchFailureMarksRows(t *testing.T) {
	hosting := &fakeHosting{patchErr: errors.New("boom")}
	store := newFakeStore()

	_, err := newService(hosting, store).AddBulk(context.Background(), []string{"b.com"}, "")
	require.Error(t, err)
	assert.Equal(t, []string{"b.com"}, store.failed)
	assert.Equal(t, models.DomainStatusPending, store.rows["b.com"].Status)
}

func TestRemove(t *testing.T) {
	hosting := &fakeHosting{site: netlify.Site{DomainAliases: []string{"a.com", "b.com"}}}
	store := newFakeStore()
	store.rows["b.com"] = &models.Domain{ID: uuid.New(), Domain: "b.com"}
	store.rows["c.com"] = &models.Domain{ID: uuid.New(), Domain: "c.com"}
	svc := newService(hosting, store)

	res, err := svc.Remove(context.Background(), "B.com")
	require.NoError(t, err)
	assert.True(t, res.RemovedAlias)
	assert.True(t, res.DeletedRow)
	assert.Equal(t, []string{"a.com"}, res.Aliases)

	res, err = svc.Remove(context.Background(), "c.com")
	require.NoError(t, err)
	assert.False(t, res.RemovedAlias)
	assert.True(t, res.DeletedRow)
	assert.Len(t, hosting.patches, 1)
}

func TestSyncFromDB(t *testing.T) {
	hosting := &fakeHosting{site: netlify.Site{CustomDomain: "main.com", DomainAliases: []string{"a.com"}}}
	store := newFakeStore()
	for _, host := range []string{"a.com", "main.com", "z.com"} {
		store.rows[host] = &models.Domain{ID: uuid.New(), Domain: host}
	}

	res, err := newService(hosting, store).SyncFromDB(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, []string{"z.com"}, res.Added)
	assert.True(t, res.Patched)
	assert.Equal(t, []string{"a.com", "main.com", "z.com"}, store.stamped)
}

func TestRedisLocker(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	locker := domainsync.NewRedisLocker(client, time.Minute, 300*time.Millisecond, nil)
	unlock, err := locker.Lock(context.Background(), "lock:test")
	require.NoError(t, err)
	assert.True(t, mr.Exists("lock:test"))

	_, err = locker.Lock(context.Background(), "lock:test")
	require.ErrorIs(t, err, domainsync.ErrLockTimeout)

	unlock()
	assert.False(t, mr.Exists("lock:test"))

	unlock, err = locker.Lock(context.Background(), "lock:test")
	require.NoError(t, err)
	unlock()
}

func TestRedisLocker_LogsFailedRelease(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	log := &recordingLogger{}
	locker := domainsync.NewRedisLocker(client, time.Second, 300*time.Millisecond, log)

	unlock, err := locker.Lock(context.Background(), "lock:expire")
	require.NoError(t, err)
	mr.FastForward(2 * time.Second)
	unlock()
	require.Len(t, log.entries, 1)
	assert.Equal(t, logEntry{level: "warn", msg: "Domain alias lock expired before release"}, log.entries[0])

	down, err := miniredis.Run()
	require.NoError(t, err)
	downClient := redis.NewClient(&redis.Options{Addr: down.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = downClient.Close() })
	downLocker := domainsync.NewRedisLocker(downClient, time.Minute, 300*time.Millisecond, log)

	unlock, err = downLocker.Lock(context.Background(), "lock:down")
	require.NoError(t, err)
	down.Close()
	unlock()
	require.Len(t, log.entries, 2)
	assert.Equal(t, logEntry{level: "error", msg: "Failed to release domain alias lock"}, log.entries[1])
}

func TestLocalLocker_RespectsContext(t *testing.T) {
	locker := domainsync.NewLocalLocker()
	unlock, err := locker.Lock(context.Background(), "k")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(ctx, "k")
	require.ErrorIs(t, err, domainsync.ErrLockTimeout)

	unlock()
	unlock, err = locker.Lock(context.Background(), "k")
	require.NoError(t, err)
	unlock()
}
