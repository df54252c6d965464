// Package application assembles the configured service: it builds the cache
// manager, the formatter, and the HTTP surface from one resolved snapshot.
package application

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/pmf-io/matrix-formatter/internal/api"
	"github.com/pmf-io/matrix-formatter/internal/cache"
	"github.com/pmf-io/matrix-formatter/internal/config"
	"github.com/pmf-io/matrix-formatter/internal/matrix"
)

const (
	listenAddr        = ":8080"
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 15 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
)

// App holds the assembled service and its HTTP server.
type App struct {
	cfg    *config.Config
	logger *zap.Logger
	server *http.Server
}

// New wires the collaborators together. Every component reads the same
// snapshot, so the process behaves according to one consistent resolution.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	cacheManager, err := cache.NewManager(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("building cache manager: %w", err)
	}

	formatter := matrix.NewFormatter(cfg, logger)
	handler := api.NewHandler(cfg, formatter, cacheManager)
	router := api.NewRouter(handler, logger,
		api.WithAccessLogs(cfg.Debug().Enabled()),
	)

	server := &http.Server{
		Addr:              listenAddr,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	return &App{
		cfg:    cfg,
		logger: logger,
		server: server,
	}, nil
}

// Server exposes the underlying HTTP server for lifecycle control.
func (a *App) Server() *http.Server {
	return a.server
}

// Start begins serving and blocks until the server stops.
func (a *App) Start() error {
	a.logger.Info("server starting",
		zap.String("addr", a.server.Addr),
		zap.Bool("cacheEnabled", a.cfg.Cache().Enabled()),
		zap.String("outputFormat", a.cfg.Output().Format()),
	)
	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}
