package cmd

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexia-ai/sous/internal/config"
	"github.com/lexia-ai/sous/internal/log"
)

func serveConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Addr:           "127.0.0.1:8002",
		MaxHistory:     10,
		Language:       "es",
		RetailerSite:   "carrefour.es",
		TempDir:        t.TempDir(),
		SearchEndpoint: "https://google.serper.dev",
		SearchTimeout:  30000,
		SearchRate:     5,
	}
}

func TestBuildServer(t *testing.T) {
	t.Parallel()

	srv, err := buildServer(serveConfig(t), log.NewNop())
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8002", srv.Addr)
	assert.Equal(t, writeTimeout, srv.WriteTimeout)
	require.NotNil(t, srv.Handler)

	// The wired handler serves the probes.
	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBuildServer_InvalidRetailerSite(t *testing.T) {
	t.Parallel()

	cfg := serveConfig(t)
	cfg.RetailerSite = ""
	_, err := buildServer(cfg, log.NewNop())
	require.Error(t, err)
}
