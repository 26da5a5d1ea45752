// Package config defines the automation service configuration.
package config

import (
	"errors"
	"time"

	infraconfig "github.com/belonio2793/backlinkoo-solar-system-sub047/infrastructure/config"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/infrastructure/logger"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/infrastructure/profiling"
	infraredis "github.com/belonio2793/backlinkoo-solar-system-sub047/infrastructure/redis"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/database"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/llm"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/netlify"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/publisher"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/scheduler"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/writeas"
)

// Default configuration values.
const (
	defaultServiceName = "backlink-automation"
	defaultPort        = 8095
	defaultThemeName   = "Minimal Clean"
	defaultConfigPath  = "config.yml"
)

// Config holds all configuration for the automation service.
type Config struct {
	Service   ServiceConfig     `yaml:"service"`
	Database  database.Config   `yaml:"database"`
	Redis     infraredis.Config `yaml:"redis"`
	Netlify   netlify.Config    `yaml:"netlify"`
	Domains   DomainsConfig     `yaml:"domains"`
	Publisher publisher.Config  `yaml:"publisher"`
	LLM       llm.Config        `yaml:"llm"`
	WriteAs   writeas.Config    `yaml:"writeas"`
	Scheduler scheduler.Config  `yaml:"scheduler"`
	Logging   logger.Config     `yaml:"logging"`
	Pprof     PprofConfig       `yaml:"pprof"`

	Pyroscope profiling.PyroscopeConfig `yaml:"pyroscope"`
}

// ServiceConfig holds the HTTP service settings.
type ServiceConfig struct {
	Name        string   `env:"SERVICE_NAME"        yaml:"name"`
	Version     string   `env:"SERVICE_VERSION"     yaml:"version"`
	Port        int      `env:"AUTOMATION_PORT"     yaml:"port"`
	Debug       bool     `env:"APP_DEBUG"           yaml:"debug"`
	CORSOrigins []string `env:"CORS_ORIGINS"        yaml:"cors_origins"`
	JWTSecret   string   `env:"AUTH_JWT_SECRET"     yaml:"jwt_secret"`
	// RequireAuth refuses to start without a JWT secret.
	RequireAuth bool `env:"AUTH_REQUIRED" yaml:"require_auth"`
}

// DomainsConfig holds the defaults applied to newly attached domains and
// the alias lock timings.
type DomainsConfig struct {
	DefaultTheme     string        `env:"DOMAINS_DEFAULT_THEME"      yaml:"default_theme"`
	DefaultThemeName string        `env:"DOMAINS_DEFAULT_THEME_NAME" yaml:"default_theme_name"`
	LockTTL          time.Duration `env:"DOMAINS_LOCK_TTL"           yaml:"lock_ttl"`
	LockWait         time.Duration `env:"DOMAINS_LOCK_WAIT"          yaml:"lock_wait"`
}

// PprofConfig enables the profiling listener.
type PprofConfig struct {
	Enabled bool   `env:"PPROF_ENABLED" yaml:"enabled"`
	Address string `env:"PPROF_ADDRESS" yaml:"address"`
}

// Load reads the file at CONFIG_PATH (default config.yml). A missing file
// is allowed so the service can run from the environment alone.
func Load() (*Config, error) {
	return infraconfig.LoadOptionalWithDefaults[Config](infraconfig.GetConfigPath(defaultConfigPath), SetDefaults)
}

// SetDefaults fills zero values.
func SetDefaults(cfg *Config) {
	if cfg.Service.Name == "" {
		cfg.Service.Name = defaultServiceName
	}
	if cfg.Service.Version == "" {
		cfg.Service.Version = "dev"
	}
	if cfg.Service.Port == 0 {
		cfg.Service.Port = defaultPort
	}

	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == "" {
		cfg.Database.Port = "5432"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}

	if cfg.Netlify.APIURL == "" {
		cfg.Netlify.APIURL = netlify.DefaultAPIURL
	}
	if cfg.Domains.DefaultTheme == "" {
		cfg.Domains.DefaultTheme = "minimal"
	}
	if cfg.Domains.DefaultThemeName == "" {
		cfg.Domains.DefaultThemeName = defaultThemeName
	}
	if cfg.Domains.LockTTL == 0 {
		cfg.Domains.LockTTL = 30 * time.Second
	}
	if cfg.Domains.LockWait == 0 {
		cfg.Domains.LockWait = 15 * time.Second
	}

	cfg.Publisher.SetDefaults()
	cfg.Scheduler.SetDefaults()

	if cfg.WriteAs.APIURL == "" {
		cfg.WriteAs.APIURL = writeas.DefaultAPIURL
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
		if cfg.Service.Debug {
			cfg.Logging.Level = "debug"
		}
	}
	if cfg.Pprof.Address == "" {
		cfg.Pprof.Address = profiling.DefaultPprofAddress
	}
}

// Validate checks the configuration. All failures are joined.
func (c *Config) Validate() error {
	errs := []error{
		infraconfig.ValidatePort("service.port", c.Service.Port),
		infraconfig.ValidateRequired("database.host", c.Database.Host),
		infraconfig.ValidateRequired("database.user", c.Database.User),
		infraconfig.ValidateRequired("database.dbname", c.Database.DBName),
		infraconfig.ValidateURL("netlify.api_url", c.Netlify.APIURL),
		infraconfig.ValidateURL("publisher.public_base_url", c.Publisher.PublicBaseURL),
		infraconfig.ValidateURL("llm.base_url", c.LLM.BaseURL),
		infraconfig.ValidateURL("writeas.api_url", c.WriteAs.APIURL),
		infraconfig.ValidateURL("pyroscope.server_url", c.Pyroscope.ServerURL),
		infraconfig.ValidateLogLevel("logging.level", c.Logging.Level),
	}
	if c.Service.RequireAuth {
		errs = append(errs, infraconfig.ValidateRequired("service.jwt_secret", c.Service.JWTSecret))
	}
	switch c.LLM.Provider {
	case "", llm.ProviderXAI, llm.ProviderAnthropic:
	default:
		errs = append(errs, &infraconfig.ValidationError{Field: "llm.provider", Message: "must be xai or anthropic"})
	}
	return errors.Join(errs...)
}
