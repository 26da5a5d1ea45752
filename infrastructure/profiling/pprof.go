// Package profiling exposes runtime profiles: a pprof listener and optional
// continuous profiling through Pyroscope.
package profiling

import (
	"context"
	"errors"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/belonio2793/backlinkoo-solar-system-sub047/infrastructure/logger"
)

// DefaultPprofAddress binds to loopback only.
const DefaultPprofAddress = "localhost:6060"

// PprofServer serves /debug/pprof/ on its own listener.
type PprofServer struct {
	server *http.Server
	log    logger.Logger
}

// NewPprofServer creates a server for addr; an empty addr uses DefaultPprofAddress.
func NewPprofServer(addr string, log logger.Logger) *PprofServer {
	if addr == "" {
		addr = DefaultPprofAddress
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	return &PprofServer{
		server: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		log: log,
	}
}

// Handler returns the pprof mux, mainly for tests.
func (p *PprofServer) Handler() http.Handler { return p.server.Handler }

// Start listens in the background.
func (p *PprofServer) Start() {
	go func() {
		p.log.Info("Starting pprof server", logger.String("address", p.server.Addr))
		if err := p.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			p.log.Error("pprof server error", logger.Error(err))
		}
	}()
}

// Shutdown stops the listener.
func (p *PprofServer) Shutdown(ctx context.Context) error {
	return p.server.Shutdown(ctx)
}
