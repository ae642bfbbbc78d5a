package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"breakeven-simulator/internal/config"
	"breakeven-simulator/internal/middleware"
	"breakeven-simulator/internal/observability"
	"breakeven-simulator/internal/server"
	"breakeven-simulator/internal/services"
)

const presetLoadTimeout = 30 * time.Second

// newSimulator applies the simulation settings, loading the preset file when
// one is configured.
func newSimulator(cfg *config.Config, logger *slog.Logger) (*services.Simulator, error) {
	simulator := services.NewSimulator()
	simulator.SetLogger(logger)
	simulator.SetWorkers(cfg.Simulation.Workers)
	if err := simulator.SetStartMonth(cfg.Simulation.StartMonth); err != nil {
		return nil, err
	}

	if cfg.Simulation.ScenariosFile != "" {
		ctx, cancel := context.WithTimeout(context.Background(), presetLoadTimeout)
		defer cancel()

		if err := simulator.LoadPresets(ctx, cfg.Simulation.ScenariosFile); err != nil {
			return nil, err
		}
	}

	return simulator, nil
}

func newHandler(cfg *config.Config, logger *slog.Logger, simulator *services.Simulator) http.Handler {
	srv := server.NewServer(simulator, logger)

	rateLimiter := middleware.NewRateLimiter(cfg.Security)

	middlewareChain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(logger),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(rateLimiter, logger),
	)

	return middlewareChain(srv)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", "1.0.0",
		"config", cfg,
	)

	start := time.Now()
	simulator, err := newSimulator(cfg, logger)
	if err != nil {
		logger.Error("failed to prepare simulator", "error", err)
		os.Exit(1)
	}
	logger.Info("simulator ready",
		"presets", len(simulator.Presets()),
		"duration", time.Since(start),
	)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      newHandler(cfg, logger, simulator),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg)

	gracefulServer.RegisterShutdownHook(func(ctx context.Context) error {
		logger.Info("simulator stats at shutdown", "stats", simulator.Stats())
		return nil
	})

	if err := gracefulServer.Run(context.Background()); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}
