package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	infraconfig "github.com/belonio2793/backlinkoo-solar-system-sub047/infrastructure/config"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
service:
  port: 9000
  cors_origins: ["https://app.backlinkoo.com"]
database:
  user: backlink
  dbname: backlink
netlify:
  site_id: site-1
  access_token: token
publisher:
  public_base_url: https://blogs.backlinkoo.com
llm:
  provider: anthropic
  api_key: key
scheduler:
  enabled: true
  domain_sync: "0 * * * *"
`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("NETLIFY_SITE_ID", "site-from-env")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 9000, cfg.Service.Port)
	assert.Equal(t, "backlink-automation", cfg.Service.Name)
	assert.Equal(t, "site-from-env", cfg.Netlify.SiteID)
	assert.Equal(t, "https://api.netlify.com/api/v1", cfg.Netlify.APIURL)
	assert.Equal(t, "0 * * * *", cfg.Scheduler.DomainSync)
	assert.Equal(t, "@every 6h", cfg.Scheduler.TrialCleanup)
	assert.Equal(t, "minimal", cfg.Publisher.DefaultTheme)
	assert.Equal(t, 50, cfg.Publisher.MaxSlugSuffix)
	assert.Equal(t, 30*time.Second, cfg.Domains.LockTTL)
	assert.Equal(t, "Minimal Clean", cfg.Domains.DefaultThemeName)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		field  string
	}{
		{name: "missing database user", mutate: func(c *config.Config) { c.Database.User = "" }, field: "database.user"},
		{name: "bad port", mutate: func(c *config.Config) { c.Service.Port = 70000 }, field: "service.port"},
		{name: "bad public url", mutate: func(c *config.Config) { c.Publisher.PublicBaseURL = "blogs" }, field: "publisher.public_base_url"},
		{name: "unknown provider", mutate: func(c *config.Config) { c.LLM.Provider = "gpt" }, field: "llm.provider"},
		{name: "auth required without secret", mutate: func(c *config.Config) { c.Service.RequireAuth = true }, field: "service.jwt_secret"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{}
			cfg.Database.User = "u"
			cfg.Database.DBName = "d"
			config.SetDefaults(cfg)
			require.NoError(t, cfg.Validate())

			tt.mutate(cfg)
			err := cfg.Validate()
			var verr *infraconfig.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}
