package profiling

import (
	"fmt"
	"os"
	"runtime"

	"github.com/belonio2793/backlinkoo-solar-system-sub047/infrastructure/logger"
	"github.com/grafana/pyroscope-go"
)

// PyroscopeConfig enables continuous profiling.
type PyroscopeConfig struct {
	Enabled     bool   `env:"PYROSCOPE_ENABLED"     yaml:"enabled"`
	ServerURL   string `env:"PYROSCOPE_SERVER_URL"  yaml:"server_url"`
	Environment string `env:"PYROSCOPE_ENVIRONMENT" yaml:"environment"`
}

// PyroscopeProfiler holds the Pyroscope profiler instance
type PyroscopeProfiler struct {
	profiler *pyroscope.Profiler
}

// StartPyroscope starts continuous profiling for serviceName. It returns a
// nil profiler when cfg is disabled; Stop is safe on nil.
func StartPyroscope(cfg PyroscopeConfig, serviceName, version string, log logger.Logger) (*PyroscopeProfiler, error) {
	if !cfg.Enabled {
		return nil, nil //nolint:nilnil // disabled is not an error
	}
	if cfg.ServerURL == "" {
		cfg.ServerURL = "http://pyroscope:4040"
	}
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: "backlinkoo." + serviceName,
		ServerAddress:   cfg.ServerURL,
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
		},
		Tags: map[string]string{
			"environment": cfg.Environment,
			"version":     version,
			"hostname":    hostname(),
			"go_version":  runtime.Version(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start Pyroscope profiler: %w", err)
	}

	log.Info("Pyroscope continuous profiling started",
		logger.String("server", cfg.ServerURL),
		logger.String("environment", cfg.Environment),
	)
	return &PyroscopeProfiler{profiler: profiler}, nil
}

// Stop flushes and stops the profiler.
func (p *PyroscopeProfiler) Stop() error {
	if p == nil || p.profiler == nil {
		return nil
	}
	return p.profiler.Stop()
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return h
}
