// Package domainsync keeps the hosting site's custom domains in step with
// the domains users register.
package domainsync

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/belonio2793/backlinkoo-solar-system-sub047/infrastructure/logger"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/activity"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/hostname"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/metrics"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/models"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/netlify"
	"github.com/google/uuid"
)

const aliasLockKey = "lock:netlify:aliases"

// Hosting is the subset of the hosting-provider client used here.
type Hosting interface {
	SiteID() string
	GetSite(ctx context.Context) (*netlify.Site, error)
	PatchAliases(ctx context.Context, aliases []string) (*netlify.Site, error)
	SetCustomDomain(ctx context.Context, host string) (*netlify.Site, error)
}

// Store persists domain rows.
type Store interface {
	UpsertDomain(ctx context.Context, u models.DomainUpsert) (*models.Domain, error)
	EnsureBlogSetup(ctx context.Context, domainID uuid.UUID, theme, themeName string) error
	MarkDomainsAttached(ctx context.Context, hosts []string, status string) (int64, error)
	MarkDomainsFailed(ctx context.Context, hosts []string, msg string) error
	StampSiteID(ctx context.Context, hosts []string, siteID string) error
	ListDomains(ctx context.Context) ([]models.Domain, error)
	DeleteDomainByName(ctx context.Context, host string) (bool, error)
}

// Config holds the blog defaults applied to newly attached domains.
type Config struct {
	DefaultTheme     string
	DefaultThemeName string
}

// Service is safe for concurrent use; alias updates are serialized by the Locker.
type Service struct {
	hosting  Hosting
	store    Store
	locker   Locker
	recorder *activity.Recorder
	metrics  *metrics.Metrics
	log      logger.Logger
	cfg      Config
}

// NewService creates a Service. recorder and m may be nil.
func NewService(
	hosting Hosting,
	store Store,
	locker Locker,
	recorder *activity.Recorder,
	m *metrics.Metrics,
	log logger.Logger,
	cfg Config,
) *Service {
	if cfg.DefaultTheme == "" {
		cfg.DefaultTheme = "minimal"
	}
	if cfg.DefaultThemeName == "" {
		cfg.DefaultThemeName = "Minimal Clean"
	}
	if locker == nil {
		locker = NewLocalLocker()
	}
	return &Service{
		hosting:  hosting,
		store:    store,
		locker:   locker,
		recorder: recorder,
		metrics:  m,
		log:      log,
		cfg:      cfg,
	}
}

// SyncResult reports an alias merge.
type SyncResult struct {
	Aliases []string `json:"aliases"`
	Added   []string `json:"added"`
	Patched bool     `json:"patched"`
	SiteURL string   `json:"site_url,omitempty"`
}

// Add modes.
const (
	ModeExisting = "existing"
	ModePrimary  = "primary"
	ModeAlias    = "alias"
)

// AddResult reports a single-domain attach.
type AddResult struct {
	Domain  *models.Domain `json:"domain,omitempty"`
	Mode    string         `json:"mode"`
	Aliases []string       `json:"aliases"`
	SiteURL string         `json:"site_url,omitempty"`
}

// BulkResult reports a bulk attach.
type BulkResult struct {
	Attached []string `json:"attached"`
	Added    []string `json:"added"`
	Invalid  []string `json:"invalid,omitempty"`
	Aliases  []string `json:"aliases"`
}

// RemoveResult reports a detach.
type RemoveResult struct {
	Domain       string   `json:"domain"`
	RemovedAlias bool     `json:"removed_alias"`
	DeletedRow   bool     `json:"deleted_row"`
	Aliases      []string `json:"aliases"`
}

// ListResult is the site's current domain configuration.
type ListResult struct {
	SiteID       string   `json:"site_id"`
	CustomDomain string   `json:"custom_domain,omitempty"`
	Aliases      []string `json:"aliases"`
}

// DBSyncResult reports a reconcile from the domains table.
type DBSyncResult struct {
	Total   int      `json:"total"`
	Added   []string `json:"added"`
	Skipped []string `json:"skipped,omitempty"`
	Patched bool     `json:"patched"`
	Aliases []string `json:"aliases"`
}

// Sync attaches every input as an alias. All inputs must be valid. When
// every hostname is already on the site no update is sent.
func (s *Service) Sync(ctx context.Context, raws []string, userID string) (*SyncResult, error) {
	hosts, invalid := hostname.ParseAll(raws)
	if len(invalid) > 0 {
		return nil, &models.InvalidDomainsError{Inputs: invalid}
	}
	if len(hosts) == 0 {
		return nil, fmt.Errorf("%w: no domains given", models.ErrInvalidDomain)
	}

	unlock, err := s.locker.Lock(ctx, aliasLockKey)
	if err != nil {
		return nil, err
	}
	defer unlock()

	site, err := s.hosting.GetSite(ctx)
	if err != nil {
		return nil, err
	}

	merged, added := hostname.Merge(site.DomainAliases, withoutPrimary(hosts, site))
	result := &SyncResult{Aliases: merged, Added: nonNil(added), SiteURL: site.PublicURL()}
	if len(added) > 0 {
		updated, patchErr := s.hosting.PatchAliases(ctx, merged)
		if patchErr != nil {
			return nil, patchErr
		}
		result.Aliases = updated.DomainAliases
		result.Patched = true
		s.metrics.AliasPatched("sync")
		s.metrics.DomainsAdded(len(added))
	}

	for _, host := range hosts {
		s.attachRow(ctx, host, userID)
	}

	s.log.Info("Domain aliases synced",
		logger.Int("incoming", len(hosts)),
		logger.Int("added", len(added)),
		logger.Bool("patched", result.Patched),
	)
	s.recorder.Record(ctx, models.ActivityDomainsSynced, fmt.Sprintf("Synced %d domain(s), %d new", len(hosts), len(added)),
		map[string]any{"domains": hosts, "added": result.Added, "user_id": userID})
	return result, nil
}

// Add attaches one domain. Apex domains become the site's primary domain
// when none is set; otherwise, or if that fails, the domain is added as an
// alias. A domain owned by another account is a terminal failure.
func (s *Service) Add(ctx context.Context, raw, userID string) (*AddResult, error) {
	host, err := hostname.Parse(raw)
	if err != nil {
		return nil, err
	}

	unlock, err := s.locker.Lock(ctx, aliasLockKey)
	if err != nil {
		return nil, err
	}
	defer unlock()

	site, err := s.hosting.GetSite(ctx)
	if err != nil {
		return nil, err
	}

	result := &AddResult{Aliases: site.DomainAliases, SiteURL: site.PublicURL()}
	switch {
	case strings.EqualFold(site.CustomDomain, host) || hostname.Contains(site.DomainAliases, host):
		result.Mode = ModeExisting

	case hostname.IsApex(host) && site.CustomDomain == "":
		updated, setErr := s.hosting.SetCustomDomain(ctx, host)
		if setErr == nil {
			result.Mode = ModePrimary
			result.Aliases = updated.DomainAliases
			s.metrics.DomainsAdded(1)
			break
		}
		if errors.Is(setErr, netlify.ErrDomainOwnedElsewhere) {
			return nil, setErr
		}
		s.log.Warn("Setting primary domain failed, falling back to alias",
			logger.String("domain", host),
			logger.Error(setErr),
		)
		fallthrough

	default:
		merged, _ := hostname.Merge(site.DomainAliases, []string{host})
		updated, patchErr := s.hosting.PatchAliases(ctx, merged)
		if patchErr != nil {
			return nil, patchErr
		}
		result.Mode = ModeAlias
		result.Aliases = updated.DomainAliases
		result.SiteURL = updated.PublicURL()
		s.metrics.AliasPatched("add")
		s.metrics.DomainsAdded(1)
	}

	result.Domain = s.attachRow(ctx, host, userID)
	s.log.Info("Domain attached", logger.String("domain", host), logger.String("mode", result.Mode))
	s.recorder.Record(ctx, models.ActivityDomainsSynced, "Attached "+host,
		map[string]any{"domain": host, "mode": result.Mode, "user_id": userID})
	return result, nil
}

// AddBulk registers many domains with one alias update. Invalid inputs are
// reported and skipped. Rows start pending and move to dns_ready once the
// site carries them.
func (s *Service) AddBulk(ctx context.Context, raws []string, userID string) (*BulkResult, error) {
	hosts, invalid := hostname.ParseAll(raws)
	if len(hosts) == 0 {
		if len(invalid) > 0 {
			return nil, &models.InvalidDomainsError{Inputs: invalid}
		}
		return nil, fmt.Errorf("%w: no domains given", models.ErrInvalidDomain)
	}

	for _, host := range hosts {
		if _, err := s.store.UpsertDomain(ctx, models.DomainUpsert{
			Domain: host,
			UserID: userID,
			Status: models.DomainStatusPending,
		}); err != nil {
			return nil, err
		}
	}

	unlock, err := s.locker.Lock(ctx, aliasLockKey)
	if err != nil {
		return nil, err
	}
	defer unlock()

	site, err := s.hosting.GetSite(ctx)
	if err != nil {
		return nil, err
	}

	merged, added := hostname.Merge(site.DomainAliases, withoutPrimary(hosts, site))
	result := &BulkResult{Attached: hosts, Added: nonNil(added), Invalid: invalid, Aliases: merged}
	if len(added) > 0 {
		updated, patchErr := s.hosting.PatchAliases(ctx, merged)
		if patchErr != nil {
			if markErr := s.store.MarkDomainsFailed(ctx, added, patchErr.Error()); markErr != nil {
				s.log.Warn("Failed to record domain errors", logger.Error(markErr))
			}
			return nil, patchErr
		}
		result.Aliases = updated.DomainAliases
		s.metrics.AliasPatched("bulk")
		s.metrics.DomainsAdded(len(added))
	}

	if _, err = s.store.MarkDomainsAttached(ctx, hosts, models.DomainStatusDNSReady); err != nil {
		return nil, err
	}
	for _, host := range hosts {
		s.attachRow(ctx, host, userID)
	}

	s.log.Info("Bulk domains attached",
		logger.Int("valid", len(hosts)),
		logger.Int("invalid", len(invalid)),
		logger.Int("added", len(added)),
	)
	s.recorder.Record(ctx, models.ActivityDomainsSynced, fmt.Sprintf("Bulk attached %d domain(s)", len(hosts)),
		map[string]any{"domains": hosts, "invalid": invalid, "user_id": userID})
	return result, nil
}

// Remove detaches a domain from the site aliases and deletes its row. The
// alias list is only updated when the domain is on it.
func (s *Service) Remove(ctx context.Context, raw string) (*RemoveResult, error) {
	host, err := hostname.Parse(raw)
	if err != nil {
		return nil, err
	}

	unlock, err := s.locker.Lock(ctx, aliasLockKey)
	if err != nil {
		return nil, err
	}
	defer unlock()

	site, err := s.hosting.GetSite(ctx)
	if err != nil {
		return nil, err
	}

	result := &RemoveResult{Domain: host, Aliases: site.DomainAliases}
	if next, found := hostname.Without(site.DomainAliases, host); found {
		updated, patchErr := s.hosting.PatchAliases(ctx, next)
		if patchErr != nil {
			return nil, patchErr
		}
		result.RemovedAlias = true
		result.Aliases = updated.DomainAliases
		s.metrics.AliasPatched("remove")
	}

	if result.DeletedRow, err = s.store.DeleteDomainByName(ctx, host); err != nil {
		return nil, err
	}

	s.log.Info("Domain removed",
		logger.String("domain", host),
		logger.Bool("removed_alias", result.RemovedAlias),
		logger.Bool("deleted_row", result.DeletedRow),
	)
	s.recorder.Record(ctx, models.ActivityDomainRemoved, "Removed "+host, map[string]any{"domain": host})
	return result, nil
}

// List returns the site's primary domain and aliases.
func (s *Service) List(ctx context.Context) (*ListResult, error) {
	site, err := s.hosting.GetSite(ctx)
	if err != nil {
		return nil, err
	}
	return &ListResult{SiteID: site.ID, CustomDomain: site.CustomDomain, Aliases: nonNil(site.DomainAliases)}, nil
}

// SyncFromDB attaches every stored domain missing from the site and stamps
// the rows with the site id.
func (s *Service) SyncFromDB(ctx context.Context) (*DBSyncResult, error) {
	rows, err := s.store.ListDomains(ctx)
	if err != nil {
		return nil, err
	}
	raws := make([]string, 0, len(rows))
	for i := range rows {
		raws = append(raws, rows[i].Domain)
	}
	hosts, skipped := hostname.ParseAll(raws)
	result := &DBSyncResult{Total: len(rows), Skipped: skipped}

	unlock, err := s.locker.Lock(ctx, aliasLockKey)
	if err != nil {
		return nil, err
	}
	defer unlock()

	site, err := s.hosting.GetSite(ctx)
	if err != nil {
		return nil, err
	}

	merged, added := hostname.Merge(site.DomainAliases, withoutPrimary(hosts, site))
	result.Added = nonNil(added)
	result.Aliases = merged
	if len(added) > 0 {
		updated, patchErr := s.hosting.PatchAliases(ctx, merged)
		if patchErr != nil {
			return nil, patchErr
		}
		result.Aliases = updated.DomainAliases
		result.Patched = true
		s.metrics.AliasPatched("sync_from_db")
		s.metrics.DomainsAdded(len(added))
	}

	if err = s.store.StampSiteID(ctx, hosts, s.hosting.SiteID()); err != nil {
		return nil, err
	}

	s.log.Info("Domains reconciled from database",
		logger.Int("total", result.Total),
		logger.Int("added", len(added)),
		logger.Int("skipped", len(skipped)),
	)
	if len(added) > 0 {
		s.recorder.Record(ctx, models.ActivityDomainsSynced, fmt.Sprintf("Reconciled %d domain(s) from database", len(added)),
			map[string]any{"added": added})
	}
	return result, nil
}

// attachRow upserts the row for host and enables blogging on it. Failures
// are logged; the site change has already happened.
func (s *Service) attachRow(ctx context.Context, host, userID string) *models.Domain {
	row, err := s.store.UpsertDomain(ctx, models.DomainUpsert{
		Domain:          host,
		UserID:          userID,
		NetlifySiteID:   s.hosting.SiteID(),
		NetlifyVerified: true,
	})
	if err != nil {
		s.log.Warn("Failed to upsert domain row", logger.String("domain", host), logger.Error(err))
		return nil
	}
	if err = s.store.EnsureBlogSetup(ctx, row.ID, s.cfg.DefaultTheme, s.cfg.DefaultThemeName); err != nil {
		s.log.Warn("Failed to enable blog on domain", logger.String("domain", host), logger.Error(err))
	}
	return row
}

func withoutPrimary(hosts []string, site *netlify.Site) []string {
	if site.CustomDomain == "" {
		return hosts
	}
	return slices.DeleteFunc(slices.Clone(hosts), func(h string) bool { return strings.EqualFold(h, site.CustomDomain) })
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
