package profiling_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/belonio2793/backlinkoo-solar-system-sub047/infrastructure/logger"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/infrastructure/profiling"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPprofServer_ServesIndex(t *testing.T) {
	t.Parallel()

	srv := profiling.NewPprofServer("", logger.NewNop())
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/debug/pprof/", http.NoBody))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "goroutine")
}

func TestStartPyroscope_Disabled(t *testing.T) {
	t.Parallel()

	p, err := profiling.StartPyroscope(profiling.PyroscopeConfig{}, "backlink-automation", "test", logger.NewNop())
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.NoError(t, p.Stop())
}
