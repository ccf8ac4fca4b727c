package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/felixgeelhaar/priora/adapter/api"
	"github.com/felixgeelhaar/priora/internal/engine/builtin"
	"github.com/felixgeelhaar/priora/pkg/config"
	"github.com/felixgeelhaar/priora/pkg/observability"
	"golang.org/x/sync/errgroup"
)

func main() {
	logger := observability.NewLogger(observability.LogConfig{Service: "priora-scorer"})

	cfg, err := config.Load(os.Getenv("PRIORA_CONFIG"))
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger = observability.NewLogger(observability.LogConfig{
		Level:   cfg.LogLevel,
		Format:  observability.LogFormat(cfg.LogFormat),
		Service: "priora-scorer",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine := builtin.NewDefaultScoringEngine()
	metrics := observability.NewInMemoryMetrics()
	health := observability.NewHealthRegistry()
	health.Register("engine", func(ctx context.Context) observability.HealthCheckResult {
		if status := engine.HealthCheck(ctx); !status.Healthy {
			return observability.HealthCheckResult{Status: observability.HealthStatusUnhealthy, Message: status.Message}
		}
		return observability.HealthCheckResult{Status: observability.HealthStatusHealthy, Message: "engine healthy"}
	})

	serverCfg := api.DefaultServerConfig()
	serverCfg.Addr = cfg.ScorerAddr
	server := api.NewServer(serverCfg, api.NewScoringHandler(engine, logger), health, metrics, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("scoring service stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("scoring service stopped")
}
