// Package api exposes the automation service over HTTP.
package api

import (
	"context"
	"time"

	infragin "github.com/belonio2793/backlinkoo-solar-system-sub047/infrastructure/gin"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/infrastructure/logger"
	inframetrics "github.com/belonio2793/backlinkoo-solar-system-sub047/infrastructure/metrics"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/config"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/domainsync"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/models"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/writeas"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	defaultReadTimeout  = 30 * time.Second
	defaultWriteTimeout = 120 * time.Second
	defaultIdleTimeout  = 120 * time.Second
	healthCheckTimeout  = 2 * time.Second
)

// DomainService manages the hosting site's domain aliases.
type DomainService interface {
	List(ctx context.Context) (*domainsync.ListResult, error)
	Add(ctx context.Context, raw, userID string) (*domainsync.AddResult, error)
	AddBulk(ctx context.Context, raws []string, userID string) (*domainsync.BulkResult, error)
	Sync(ctx context.Context, raws []string, userID string) (*domainsync.SyncResult, error)
	SyncFromDB(ctx context.Context) (*domainsync.DBSyncResult, error)
	Remove(ctx context.Context, raw string) (*domainsync.RemoveResult, error)
}

// PublishService places campaign posts and syndicates them.
type PublishService interface {
	Publish(ctx context.Context, req models.PublishRequest) (*models.PublishResult, error)
	Syndicate(ctx context.Context, postID uuid.UUID) (*writeas.Post, error)
}

// Store is the persistence used directly by handlers.
type Store interface {
	CreateCampaign(ctx context.Context, req *models.CampaignCreateRequest) (*models.Campaign, error)
	GetCampaign(ctx context.Context, id uuid.UUID) (*models.Campaign, error)
	ListCampaigns(ctx context.Context, filter models.CampaignFilter) ([]models.Campaign, error)
	UpdateCampaign(ctx context.Context, id uuid.UUID, req *models.CampaignUpdateRequest) (*models.Campaign, error)
	DeleteCampaign(ctx context.Context, id uuid.UUID) error
	ListPostsByCampaign(ctx context.Context, campaignID uuid.UUID) ([]models.Post, error)
	GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error)
	ListUnclaimedBlogPosts(ctx context.Context, limit int) ([]models.BlogPost, error)
	ClaimBlogPost(ctx context.Context, id uuid.UUID, userID string) (*models.BlogPost, error)
}

// Activity records and lists activity entries.
type Activity interface {
	Record(ctx context.Context, activityType, message string, details map[string]any)
	List(ctx context.Context, activityType string, limit int) ([]models.ActivityLog, error)
}

// KeywordSuggester proposes keywords for a seed.
type KeywordSuggester interface {
	Suggest(ctx context.Context, seed string) ([]string, error)
}

// Deps are the collaborators of the router. DBPing and RedisPing feed
// /health; a nil RedisPing omits the redis check.
type Deps struct {
	Domains   DomainService
	Publisher PublishService
	Store     Store
	Activity  Activity
	Keywords  KeywordSuggester
	Metrics   *inframetrics.HTTPMetrics
	DBPing    func(ctx context.Context) error
	RedisPing func(ctx context.Context) error
	Logger    logger.Logger
}

// Router holds the API dependencies
type Router struct {
	deps Deps
	cfg  config.ServiceConfig
	log  logger.Logger
}

// NewRouter creates a new API router
func NewRouter(deps Deps, cfg config.ServiceConfig) *Router {
	log := deps.Logger
	if log == nil {
		log = logger.NewNop()
	}
	return &Router{deps: deps, cfg: cfg, log: log}
}

// NewServer creates the HTTP server with health, metrics and the v1 routes.
func (r *Router) NewServer() *infragin.Server {
	builder := infragin.NewServerBuilder(r.cfg.Name, r.cfg.Port).
		WithLogger(r.log).
		WithDebug(r.cfg.Debug).
		WithVersion(r.cfg.Version).
		WithTimeouts(defaultReadTimeout, defaultWriteTimeout, defaultIdleTimeout).
		WithCORS(infragin.CORSConfig{
			Enabled:          len(r.cfg.CORSOrigins) > 0,
			AllowedOrigins:   r.cfg.CORSOrigins,
			AllowCredentials: true,
		})

	if r.deps.Metrics != nil {
		builder = builder.WithMiddleware(r.deps.Metrics.Middleware())
	}
	if r.deps.DBPing != nil {
		builder = builder.WithDatabaseHealthCheck(pingWithTimeout(r.deps.DBPing))
	}
	if r.deps.RedisPing != nil {
		builder = builder.WithRedisHealthCheck(pingWithTimeout(r.deps.RedisPing))
	}

	return builder.WithRoutes(r.setupServiceRoutes).Build()
}

func pingWithTimeout(ping func(ctx context.Context) error) func() error {
	return func() error {
		ctx, cancel := context.WithTimeout(context.Background(), healthCheckTimeout)
		defer cancel()
		return ping(ctx)
	}
}

// setupServiceRoutes configures the service routes. Health routes are
// registered by the infrastructure gin package.
func (r *Router) setupServiceRoutes(router *gin.Engine) {
	if r.deps.Metrics != nil {
		r.deps.Metrics.Register(router)
	}

	v1 := infragin.ProtectedGroup(router, "/api/v1", r.cfg.JWTSecret)

	// Domains
	domains := v1.Group("/domains")
	domains.GET("", r.listDomains)
	domains.POST("", r.addDomain)
	domains.POST("/bulk", r.addDomainsBulk)
	domains.POST("/sync", r.syncDomains)
	domains.POST("/sync-from-db", r.syncDomainsFromDB)
	domains.DELETE("/:domain", r.removeDomain)

	// Campaigns
	campaigns := v1.Group("/campaigns")
	campaigns.GET("", r.listCampaigns)
	campaigns.POST("", r.createCampaign)
	campaigns.GET("/:id", r.getCampaign)
	campaigns.PUT("/:id", r.updateCampaign)
	campaigns.DELETE("/:id", r.deleteCampaign)
	campaigns.GET("/:id/posts", r.listCampaignPosts)
	campaigns.POST("/:id/publish", r.publishCampaign)

	// Posts
	v1.GET("/posts/:id/html", r.renderPost)
	v1.POST("/posts/:id/syndicate", r.syndicatePost)

	// Trial blog posts
	blogPosts := v1.Group("/blog-posts")
	blogPosts.GET("/unclaimed", r.listUnclaimedBlogPosts)
	blogPosts.POST("/:id/claim", r.claimBlogPost)

	// Keywords
	keywords := v1.Group("/keywords")
	keywords.POST("/parse", r.parseKeywords)
	keywords.POST("/suggest", r.suggestKeywords)

	v1.GET("/activity", r.listActivity)
}
