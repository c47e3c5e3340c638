package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/lexia-ai/sous/internal/agent"
	"github.com/lexia-ai/sous/internal/api"
	"github.com/lexia-ai/sous/internal/config"
	"github.com/lexia-ai/sous/internal/extract"
	"github.com/lexia-ai/sous/internal/log"
	"github.com/lexia-ai/sous/internal/memory"
	"github.com/lexia-ai/sous/internal/pantry"
	"github.com/lexia-ai/sous/internal/search"
)

// Server timeout configuration.
const (
	readHeaderTimeout = 10 * time.Second
	readTimeout       = 30 * time.Second
	writeTimeout      = 2 * time.Minute // SSE streaming needs longer timeout
	idleTimeout       = 2 * time.Minute
	shutdownTimeout   = 30 * time.Second
)

// buildServer wires the full pipeline behind an http.Server.
func buildServer(cfg *config.Config, logger log.Logger) (*http.Server, error) {
	searcher := search.NewClient(search.Options{
		Endpoint:      cfg.SearchEndpoint,
		HTTPClient:    &http.Client{Timeout: cfg.SearchTimeoutDuration()},
		RatePerSecond: cfg.SearchRate,
		Logger:        logger,
	})

	a, err := agent.New(agent.Options{
		Store:        memory.NewStore(cfg.MaxHistory),
		Pantry:       pantry.NewStore(cfg.TempDir, logger),
		Extractor:    extract.New(cfg.OpenAIBaseURL, logger),
		Searcher:     searcher,
		RetailerSite: cfg.RetailerSite,
		DefaultLang:  cfg.Language,
		Logger:       logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating agent: %w", err)
	}

	apiServer, err := api.NewServer(api.ServerConfig{
		Logger:       logger,
		Agent:        a,
		Searcher:     searcher,
		SearchAPIKey: cfg.SearchAPIKey,
		CORSOrigins:  cfg.CORSOrigins,
		TrustProxy:   cfg.TrustProxy,
		RateBurst:    cfg.RateBurst,
	})
	if err != nil {
		return nil, fmt.Errorf("creating API server: %w", err)
	}

	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}, nil
}

// runServe wires the pipeline and starts the HTTP server.
func runServe(logger log.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("starting agent server", "version", AppVersion)

	srv, err := buildServer(cfg, logger)
	if err != nil {
		return err
	}

	logger.Info("HTTP server ready",
		"addr", cfg.Addr,
		"api", "/api/v1/*",
		"health", "/health, /ready",
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down HTTP server")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down server: %w", err)
		}
		<-errCh
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	}
}
