package bootstrap

import (
	"context"

	infragin "github.com/belonio2793/backlinkoo-solar-system-sub047/infrastructure/gin"
	inframetrics "github.com/belonio2793/backlinkoo-solar-system-sub047/infrastructure/metrics"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/api"
)

const httpMetricsNamespace = "backlink"

// SetupHTTPServer creates and configures the HTTP server.
func SetupHTTPServer(app *App) *infragin.Server {
	deps := api.Deps{
		Domains:   app.Domains,
		Publisher: app.Publisher,
		Store:     app.Repo,
		Activity:  app.Activity,
		Keywords:  app.Keywords,
		Metrics:   inframetrics.NewHTTPMetrics(httpMetricsNamespace, app.Registry, app.Registry),
		DBPing:    app.DB.PingContext,
		Logger:    app.Log,
	}
	if app.Redis != nil {
		deps.RedisPing = func(ctx context.Context) error { return app.Redis.Ping(ctx).Err() }
	}
	return api.NewRouter(deps, app.Config.Service).NewServer()
}
