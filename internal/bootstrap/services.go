package bootstrap

import (
	"fmt"
	"time"

	"github.com/belonio2793/backlinkoo-solar-system-sub047/infrastructure/logger"
	infraredis "github.com/belonio2793/backlinkoo-solar-system-sub047/infrastructure/redis"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/activity"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/config"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/database"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/dedupe"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/domainsync"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/keywords"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/llm"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/metrics"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/netlify"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/publisher"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/writeas"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

const (
	llmBreakerThreshold = 3
	llmBreakerCooldown  = time.Minute
)

// App is the wired dependency graph shared by the server and the CLI.
type App struct {
	Config   *config.Config
	Log      logger.Logger
	DB       *sqlx.DB
	Redis    *redis.Client // nil when Redis is disabled or unreachable
	Repo     *database.Repository
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics
	Activity *activity.Recorder

	Domains   *domainsync.Service
	Publisher *publisher.Service
	Keywords  *keywords.Suggester
	Dedupe    *dedupe.Runner
}

// NewApp connects to Postgres, optionally Redis, and builds every service.
func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	db, err := database.NewPostgresConnection(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("database connection: %w", err)
	}
	log.Info("Connected to database",
		logger.String("host", cfg.Database.Host),
		logger.String("dbname", cfg.Database.DBName),
	)

	app := &App{
		Config:   cfg,
		Log:      log,
		DB:       db,
		Repo:     database.NewRepository(db),
		Registry: prometheus.NewRegistry(),
	}
	app.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	app.Metrics = metrics.New(app.Registry)
	app.Activity = activity.NewRecorder(app.Repo, log)
	app.Redis = setupRedis(cfg.Redis, log)

	gen, err := llm.New(cfg.LLM)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("llm provider: %w", err)
	}
	if gen != nil {
		gen = llm.NewGuarded(gen, llmBreakerThreshold, llmBreakerCooldown, log)
		log.Info("LLM content generation enabled", logger.String("provider", cfg.LLM.Provider))
	} else {
		log.Info("No LLM provider configured, using template articles")
	}

	var locker domainsync.Locker
	var tracker publisher.Tracker
	if app.Redis != nil {
		locker = domainsync.NewRedisLocker(app.Redis, cfg.Domains.LockTTL, cfg.Domains.LockWait, log)
		tracker = publisher.NewRedisTracker(app.Redis, cfg.Publisher.DedupTTL, log)
	}

	if !cfg.Netlify.Configured() {
		log.Warn("Netlify site id or token missing, domain operations will fail")
	}
	app.Domains = domainsync.NewService(
		netlify.NewClient(cfg.Netlify, app.Metrics),
		app.Repo,
		locker,
		app.Activity,
		app.Metrics,
		log.With(logger.String("component", "domainsync")),
		domainsync.Config{
			DefaultTheme:     cfg.Domains.DefaultTheme,
			DefaultThemeName: cfg.Domains.DefaultThemeName,
		},
	)

	app.Publisher = publisher.NewService(publisher.Deps{
		Store:     app.Repo,
		Tracker:   tracker,
		Generator: gen,
		Blog:      writeas.NewClient(cfg.WriteAs),
		Recorder:  app.Activity,
		Metrics:   app.Metrics,
		Logger:    log.With(logger.String("component", "publisher")),
	}, cfg.Publisher)

	app.Keywords = keywords.NewSuggester(gen)
	app.Dedupe = dedupe.NewRunner(app.Repo, log.With(logger.String("component", "dedupe")))
	return app, nil
}

// setupRedis returns nil when Redis is disabled or unavailable; callers
// fall back to in-process locking and database-only dedup.
func setupRedis(cfg infraredis.Config, log logger.Logger) *redis.Client {
	if !cfg.Enabled() {
		return nil
	}
	client, err := infraredis.NewClient(cfg)
	if err != nil {
		log.Warn("Redis not available, using in-process locks", logger.Error(err))
		return nil
	}
	log.Info("Connected to Redis", logger.String("address", cfg.Address))
	return client
}

// Close releases connections.
func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Log.Error("Failed to close Redis", logger.Error(err))
		}
	}
	if err := database.Close(a.DB); err != nil {
		a.Log.Error("Failed to close database", logger.Error(err))
	}
}
