package dedupe

import (
	"context"
	"errors"
	"fmt"

	"github.com/belonio2793/backlinkoo-solar-system-sub047/infrastructure/logger"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/models"
	"github.com/google/uuid"
)

// Removal modes.
const (
	ModeArchive = "archive"
	ModeDelete  = "delete"
)

// DefaultPageSize is the number of rows loaded per query.
const DefaultPageSize = 500

// ErrInvalidMode is returned for a mode other than archive or delete.
var ErrInvalidMode = errors.New("mode must be archive or delete")

// Store reads and removes blog post rows.
type Store interface {
	ListBlogPostPage(ctx context.Context, table string, limit, offset int) ([]models.BlogPost, error)
	ArchiveBlogPosts(ctx context.Context, table string, ids []uuid.UUID) (int64, error)
	DeleteBlogPosts(ctx context.Context, table string, ids []uuid.UUID) (int64, error)
}

// Options controls a run. Without Apply the run only reports.
type Options struct {
	Table    string
	Mode     string
	Apply    bool
	PageSize int
}

// Report summarizes a run.
type Report struct {
	Table   string
	Mode    string
	Applied bool
	Scanned int
	Groups  []Group
	Removed int64
	Planned int
}

// Runner executes duplicate removal against a Store.
type Runner struct {
	store Store
	log   logger.Logger
}

// NewRunner creates a Runner.
func NewRunner(store Store, log logger.Logger) *Runner {
	return &Runner{store: store, log: log}
}

// Run loads every page, builds the plan and applies it when opts.Apply.
func (r *Runner) Run(ctx context.Context, opts Options) (*Report, error) {
	if opts.Mode == "" {
		opts.Mode = ModeArchive
	}
	if opts.Mode != ModeArchive && opts.Mode != ModeDelete {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, opts.Mode)
	}
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}

	var posts []models.BlogPost
	for offset := 0; ; offset += opts.PageSize {
		page, err := r.store.ListBlogPostPage(ctx, opts.Table, opts.PageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("load %s page at %d: %w", opts.Table, offset, err)
		}
		posts = append(posts, page...)
		if len(page) < opts.PageSize {
			break
		}
	}

	plan := BuildPlan(posts)
	report := &Report{
		Table:   opts.Table,
		Mode:    opts.Mode,
		Applied: opts.Apply,
		Scanned: len(posts),
		Groups:  plan.Groups,
		Planned: len(plan.Losers),
	}
	r.log.Info("Duplicate scan complete",
		logger.String("table", opts.Table),
		logger.Int("scanned", report.Scanned),
		logger.Int("groups", len(plan.Groups)),
		logger.Int("duplicates", report.Planned),
	)

	if !opts.Apply || len(plan.Losers) == 0 {
		return report, nil
	}

	ids := make([]uuid.UUID, 0, len(plan.Losers))
	for _, p := range plan.Losers {
		ids = append(ids, p.ID)
	}

	var (
		removed int64
		err     error
	)
	if opts.Mode == ModeDelete {
		removed, err = r.store.DeleteBlogPosts(ctx, opts.Table, ids)
	} else {
		removed, err = r.store.ArchiveBlogPosts(ctx, opts.Table, ids)
	}
	if err != nil {
		return report, fmt.Errorf("%s duplicates: %w", opts.Mode, err)
	}
	report.Removed = removed

	r.log.Info("Duplicates removed",
		logger.String("table", opts.Table),
		logger.String("mode", opts.Mode),
		logger.Int64("removed", removed),
	)
	return report, nil
}
