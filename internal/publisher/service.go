// Package publisher places one generated article per campaign on a
// user-owned domain.
package publisher

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/belonio2793/backlinkoo-solar-system-sub047/infrastructure/logger"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/activity"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/content"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/database"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/llm"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/metrics"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/models"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/slug"
	"github.com/google/uuid"
)

// Content sources reported to metrics.
const (
	SourceProvided = "provided"
	SourceLLM      = "llm"
	SourceFallback = "fallback"
)

// optionalColumns may be missing on older schemas and are dropped from the
// insert when Postgres reports them.
var optionalColumns = map[string]bool{
	database.ColumnBlogTheme:   true,
	database.ColumnBlogThemeID: true,
	database.ColumnKeywords:    true,
	database.ColumnAnchorTexts: true,
}

// Store is the persistence the publisher needs.
type Store interface {
	GetCampaign(ctx context.Context, id uuid.UUID) (*models.Campaign, error)
	GetDomain(ctx context.Context, id uuid.UUID) (*models.Domain, error)
	NextPublishableDomain(ctx context.Context, userID string) (*models.Domain, error)
	GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error)
	GetPostByCampaignDomain(ctx context.Context, campaignID, domainID uuid.UUID) (*models.Post, error)
	SlugExists(ctx context.Context, domainID uuid.UUID, slug string) (bool, error)
	InsertPost(ctx context.Context, post *models.Post, omit map[string]bool) error
	IncrementDomainPostCount(ctx context.Context, domainID uuid.UUID, at time.Time) error
	AppendPublishedArticle(ctx context.Context, id uuid.UUID, article models.PublishedArticle) error
}

// Config tunes the publisher.
type Config struct {
	// PublicBaseURL replaces https://<domain> in published URLs when set.
	PublicBaseURL string        `env:"PUBLISHER_PUBLIC_BASE_URL" yaml:"public_base_url"`
	DefaultTheme  string        `env:"PUBLISHER_DEFAULT_THEME"   yaml:"default_theme"`
	MaxSlugSuffix int           `env:"PUBLISHER_MAX_SLUG_SUFFIX" yaml:"max_slug_suffix"`
	DedupTTL      time.Duration `env:"PUBLISHER_DEDUP_TTL"       yaml:"dedup_ttl"`
}

// SetDefaults fills zero fields.
func (c *Config) SetDefaults() {
	if c.DefaultTheme == "" {
		c.DefaultTheme = slug.DefaultTheme
	}
	if c.MaxSlugSuffix <= 0 {
		c.MaxSlugSuffix = 50
	}
	if c.DedupTTL <= 0 {
		c.DedupTTL = 30 * 24 * time.Hour
	}
}

// Deps are the collaborators of a Service. Only Store and Logger are
// required.
type Deps struct {
	Store     Store
	Tracker   Tracker
	Generator llm.Generator
	Blog      Blog
	Recorder  *activity.Recorder
	Metrics   *metrics.Metrics
	Logger    logger.Logger
}

// Service publishes posts. It is safe for concurrent use; concurrent
// publishes of one pair are resolved by the (campaign, domain) unique key.
type Service struct {
	store     Store
	tracker   Tracker
	generator llm.Generator
	blog      Blog
	recorder  *activity.Recorder
	metrics   *metrics.Metrics
	log       logger.Logger
	cfg       Config
	now       func() time.Time
}

// NewService creates a Service.
func NewService(deps Deps, cfg Config) *Service {
	cfg.SetDefaults()
	if deps.Tracker == nil {
		deps.Tracker = NopTracker{}
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNop()
	}
	return &Service{
		store:     deps.Store,
		tracker:   deps.Tracker,
		generator: deps.Generator,
		blog:      deps.Blog,
		recorder:  deps.Recorder,
		metrics:   deps.Metrics,
		log:       deps.Logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Publish places the campaign's post on a domain, or returns the post it
// already has there.
func (s *Service) Publish(ctx context.Context, req models.PublishRequest) (*models.PublishResult, error) {
	campaign, err := s.store.GetCampaign(ctx, req.CampaignID)
	if err != nil {
		return nil, err
	}

	domain, err := s.resolveDomain(ctx, campaign, req.DomainID)
	if err != nil {
		return nil, err
	}

	if existing, found := s.existingPost(ctx, campaign.ID, domain.ID); found {
		s.metrics.PostPublished(metrics.OutcomeExisting)
		return &models.PublishResult{
			Post:             existing,
			Domain:           domain,
			Campaign:         campaign,
			PublishedURL:     existing.URL,
			AlreadyPublished: true,
		}, nil
	}

	body := s.articleBody(ctx, campaign, domain, req.Content)
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = content.ExtractTitle(body)
	}
	if title == "" {
		title = campaign.PrimaryKeyword()
	}

	theme := slug.Theme(domain.Theme(s.cfg.DefaultTheme))
	fullSlug, err := slug.Unique(ctx, theme, slug.Make(title), s.cfg.MaxSlugSuffix,
		func(ctx context.Context, candidate string) (bool, error) {
			return s.store.SlugExists(ctx, domain.ID, candidate)
		}, s.now)
	if err != nil {
		s.metrics.PostPublished(metrics.OutcomeFailed)
		return nil, err
	}

	post := &models.Post{
		AutomationID: campaign.ID,
		DomainID:     domain.ID,
		UserID:       campaign.UserID,
		Slug:         fullSlug,
		Title:        title,
		Content:      body,
		URL:          s.publicURL(domain, theme, slug.Inner(fullSlug)),
		Status:       models.PostStatusPublished,
		BlogTheme:    &theme,
		BlogThemeID:  &theme,
		Keywords:     campaign.Keywords,
		AnchorTexts:  campaign.AnchorTexts,
	}

	existing, err := s.insert(ctx, post)
	if err != nil {
		s.metrics.PostPublished(metrics.OutcomeFailed)
		return nil, err
	}
	if existing != nil {
		s.metrics.PostPublished(metrics.OutcomeExisting)
		return &models.PublishResult{
			Post:             existing,
			Domain:           domain,
			Campaign:         campaign,
			PublishedURL:     existing.URL,
			AlreadyPublished: true,
		}, nil
	}

	s.afterPublish(ctx, campaign, domain, post)
	return &models.PublishResult{
		Post:         post,
		Domain:       domain,
		Campaign:     campaign,
		PublishedURL: post.URL,
	}, nil
}

func (s *Service) resolveDomain(ctx context.Context, campaign *models.Campaign, domainID *uuid.UUID) (*models.Domain, error) {
	if domainID == nil {
		return s.store.NextPublishableDomain(ctx, campaign.UserID)
	}
	domain, err := s.store.GetDomain(ctx, *domainID)
	if err != nil {
		return nil, err
	}
	if domain.UserID == nil || *domain.UserID != campaign.UserID || !domain.Publishable() {
		return nil, fmt.Errorf("%w: %s", models.ErrDomainNotEligible, domain.Domain)
	}
	return domain, nil
}

func (s *Service) existingPost(ctx context.Context, campaignID, domainID uuid.UUID) (*models.Post, bool) {
	if postID, ok := s.tracker.Lookup(ctx, campaignID, domainID); ok {
		if post, err := s.store.GetPost(ctx, postID); err == nil {
			return post, true
		}
	}
	post, err := s.store.GetPostByCampaignDomain(ctx, campaignID, domainID)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			s.log.Warn("Existing post lookup failed", logger.Error(err))
		}
		return nil, false
	}
	return post, true
}

// articleBody returns sanitized HTML carrying the campaign backlink.
func (s *Service) articleBody(ctx context.Context, campaign *models.Campaign, domain *models.Domain, provided string) string {
	keyword := campaign.PrimaryKeyword()
	anchor := campaign.PrimaryAnchor()

	var raw, source string
	switch {
	case strings.TrimSpace(provided) != "":
		raw, source = provided, SourceProvided
	case s.generator != nil:
		prompt := llm.ArticlePrompt(keyword, anchor, campaign.TargetURL, domain.PostCount)
		generated, err := s.generator.Complete(ctx, llm.ArticleSystemPrompt, prompt)
		if err != nil {
			s.log.Warn("Article generation failed, using fallback",
				logger.String("campaign_id", campaign.ID.String()),
				logger.Error(err),
			)
		} else if len(strings.TrimSpace(generated)) >= content.MinArticleLength {
			raw, source = generated, SourceLLM
		}
	}
	if raw == "" {
		raw, source = content.FallbackArticle(keyword, anchor, campaign.TargetURL), SourceFallback
	}
	s.metrics.ContentSource(source)

	body := content.Sanitize(content.ToHTML(raw))
	return content.EnsureBacklink(body, anchor, campaign.TargetURL)
}

func (s *Service) publicURL(domain *models.Domain, theme, inner string) string {
	base := strings.TrimRight(s.cfg.PublicBaseURL, "/")
	if base == "" {
		base = "https://" + domain.Domain
	}
	return base + "/" + theme + "/" + inner + "/"
}

// insert writes post, dropping optional columns the table lacks. A unique
// violation on the pair returns the winner of the race.
func (s *Service) insert(ctx context.Context, post *models.Post) (*models.Post, error) {
	omit := map[string]bool{}
	for {
		err := s.store.InsertPost(ctx, post, omit)
		if err == nil {
			return nil, nil
		}

		var mismatch *models.SchemaMismatchError
		if errors.As(err, &mismatch) && optionalColumns[mismatch.Column] && !omit[mismatch.Column] {
			s.log.Warn("Column missing, retrying insert without it",
				logger.String("table", mismatch.Table),
				logger.String("column", mismatch.Column),
			)
			s.metrics.SchemaFallback(mismatch.Table, mismatch.Column)
			omit[mismatch.Column] = true
			continue
		}

		if errors.Is(err, models.ErrAlreadyExists) {
			existing, getErr := s.store.GetPostByCampaignDomain(ctx, post.AutomationID, post.DomainID)
			if getErr == nil {
				return existing, nil
			}
		}
		return nil, err
	}
}

// afterPublish runs the follow-up writes. None of them fail the publish.
func (s *Service) afterPublish(ctx context.Context, campaign *models.Campaign, domain *models.Domain, post *models.Post) {
	at := s.now().UTC()

	if err := s.store.IncrementDomainPostCount(ctx, domain.ID, at); err != nil {
		s.log.Warn("Failed to update domain post count", logger.String("domain", domain.Domain), logger.Error(err))
	}
	if err := s.store.AppendPublishedArticle(ctx, campaign.ID, models.PublishedArticle{
		PostID:      post.ID,
		URL:         post.URL,
		Title:       post.Title,
		Domain:      domain.Domain,
		PublishedAt: at,
	}); err != nil {
		s.log.Warn("Failed to append published article", logger.String("campaign_id", campaign.ID.String()), logger.Error(err))
	}
	if err := s.tracker.Mark(ctx, campaign.ID, domain.ID, post.ID); err != nil {
		s.log.Warn("Failed to set publish marker", logger.Error(err))
	}

	s.recorder.Record(ctx, models.ActivityPostPublished, "Published "+post.URL, map[string]any{
		"campaign_id": campaign.ID.String(),
		"domain":      domain.Domain,
		"post_id":     post.ID.String(),
		"url":         post.URL,
	})
	s.metrics.PostPublished(metrics.OutcomePublished)
	s.log.Info("Post published",
		logger.String("campaign_id", campaign.ID.String()),
		logger.String("domain", domain.Domain),
		logger.String("slug", post.Slug),
		logger.String("url", post.URL),
	)
}
