// Command server resolves the process configuration and serves the matrix
// formatting API until interrupted.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/pmf-io/matrix-formatter/internal/application"
	"github.com/pmf-io/matrix-formatter/internal/config"
	"github.com/pmf-io/matrix-formatter/internal/logging"
)

const shutdownGrace = 10 * time.Second

// signalNotify is a seam for the shutdown test.
var signalNotify = signal.Notify

func main() {
	app := kingpin.New("matrix-formatter", "Matrix formatting service with file and environment configuration.")
	configFile := app.Flag("config", "Path to the YAML configuration file.").Short('c').String()
	kingpin.MustParse(app.Parse(os.Args[1:]))

	cfg, err := config.Load(*configFile)
	if err != nil {
		kingpin.Fatalf("resolving configuration: %v", err)
	}

	logger, err := logging.New(cfg)
	if err != nil {
		kingpin.Fatalf("building logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Debug().Enabled() {
		logger.Debug("effective configuration",
			zap.String("logLevel", cfg.Logging().Level()),
			zap.Int("workers", cfg.Parallel().Workers()),
			zap.Int("chunkSize", cfg.Parallel().ChunkSize()),
			zap.Int("maxMatrixSize", cfg.Matrix().MaxSize()),
			zap.Int("defaultPrecision", cfg.Matrix().DefaultPrecision()),
			zap.String("outputFormat", cfg.Output().Format()),
			zap.Bool("compression", cfg.Output().Compression()),
			zap.Bool("cacheEnabled", cfg.Cache().Enabled()),
			zap.Int("cacheTTL", cfg.Cache().TTL()),
			zap.String("cacheBackend", cfg.Cache().Backend()),
			zap.Bool("profiling", cfg.Debug().Profiling()),
		)
	}

	service, err := application.New(cfg, logger)
	if err != nil {
		logger.Fatal("assembling application", zap.Error(err))
	}

	go shutdown(service.Server(), shutdownGrace, logger)

	if err := service.Start(); err != nil {
		logger.Fatal("serving", zap.Error(err))
	}
	logger.Info("server stopped")
}

// shutdown blocks until an interrupt arrives, then drains the server within
// the grace period.
func shutdown(server *http.Server, grace time.Duration, logger *zap.Logger) {
	stop := make(chan os.Signal, 1)
	signalNotify(stop, os.Interrupt, syscall.SIGTERM)
	sig := <-stop

	logger.Info("shutdown requested", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
		_ = server.Close()
	}
}
