package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/belonio2793/backlinkoo-solar-system-sub047/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleConfig struct {
	Name    string        `yaml:"name"`
	Port    int           `env:"SAMPLE_PORT"    yaml:"port"`
	Timeout time.Duration `env:"SAMPLE_TIMEOUT" yaml:"timeout"`
	Debug   bool          `env:"SAMPLE_DEBUG"   yaml:"debug"`
	Nested  struct {
		Origins []string `env:"SAMPLE_ORIGINS" yaml:"origins"`
	} `yaml:"nested"`
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "name: api\nport: 8080\ntimeout: 5s\n")
	t.Setenv("SAMPLE_PORT", "9090")
	t.Setenv("SAMPLE_DEBUG", "yes")
	t.Setenv("SAMPLE_ORIGINS", "https://a.test, https://b.test,")

	cfg, err := config.Load[sampleConfig](path)
	require.NoError(t, err)

	assert.Equal(t, "api", cfg.Name)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.True(t, cfg.Debug)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.Nested.Origins)
}

func TestLoadWithDefaults_EnvBeatsDefaults(t *testing.T) {
	path := writeConfig(t, "name: api\n")
	t.Setenv("SAMPLE_TIMEOUT", "2m")

	cfg, err := config.LoadWithDefaults[sampleConfig](path, func(c *sampleConfig) {
		if c.Port == 0 {
			c.Port = 8080
		}
		c.Timeout = time.Second
	})
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 2*time.Minute, cfg.Timeout)
}

func TestLoad_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.yml")

	_, err := config.Load[sampleConfig](missing)
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrConfigNotFound))

	cfg, err := config.LoadOptional[sampleConfig](missing)
	require.NoError(t, err)
	assert.Empty(t, cfg.Name)
}

func TestValidationHelpers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{"required empty", config.ValidateRequired("netlify.site_id", ""), "netlify.site_id: is required"},
		{"required set", config.ValidateRequired("netlify.site_id", "abc"), ""},
		{"port zero", config.ValidatePort("service.port", 0), "service.port: must be between 1 and 65535"},
		{"port ok", config.ValidatePort("service.port", 8080), ""},
		{"url relative", config.ValidateURL("netlify.api_url", "/sites"), "netlify.api_url: must be an absolute http(s) URL"},
		{"url ok", config.ValidateURL("netlify.api_url", "https://api.netlify.com/api/v1"), ""},
		{"level bad", config.ValidateLogLevel("logging.level", "loud"), "logging.level: must be one of: debug, info, warn, error, fatal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.wantMsg == "" {
				assert.NoError(t, tt.err)
				return
			}
			require.Error(t, tt.err)
			assert.Equal(t, tt.wantMsg, tt.err.Error())
		})
	}
}
