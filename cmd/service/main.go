// Package main is the entry point for the horoscope service.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/horoscope-service/internal/adapters/auth"
	"github.com/jsamuelsen/horoscope-service/internal/adapters/clients"
	"github.com/jsamuelsen/horoscope-service/internal/adapters/clients/acl"
	"github.com/jsamuelsen/horoscope-service/internal/adapters/flags"
	"github.com/jsamuelsen/horoscope-service/internal/adapters/http"
	"github.com/jsamuelsen/horoscope-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/horoscope-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen/horoscope-service/internal/adapters/ledger"
	"github.com/jsamuelsen/horoscope-service/internal/adapters/profiles"
	"github.com/jsamuelsen/horoscope-service/internal/app"
	"github.com/jsamuelsen/horoscope-service/internal/domain"
	"github.com/jsamuelsen/horoscope-service/internal/platform/config"
	"github.com/jsamuelsen/horoscope-service/internal/platform/logging"
	"github.com/jsamuelsen/horoscope-service/internal/platform/telemetry"
	"github.com/jsamuelsen/horoscope-service/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the service.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// 1. Determine profile from environment
	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	// 2. Load and validate configuration (fail fast)
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// 3. Initialize logging
	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	logging.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
		slog.String("timezone", cfg.Fortune.Timezone),
	)

	// 4. Initialize telemetry (noop if disabled)
	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(ctx); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	metrics := telemetry.NewFortuneMetrics(prometheus.DefaultRegisterer)

	// 5. Create health registry
	healthRegistry := ports.NewHealthRegistry()

	// 6. Open the points ledger and fortune cache (Redis or process memory)
	stores, err := ledger.Open(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("opening ledger: %w", err)
	}

	defer closeWithLog(logger, "ledger", stores.Close)

	if err := registerHealth(healthRegistry, stores.Health); err != nil {
		return err
	}

	// 7. Open the profile store
	profileStore, profileHealth, err := profiles.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("opening profile store: %w", err)
	}

	defer closeWithLog(logger, "profiles", profileStore.Close)

	if err := registerHealth(healthRegistry, profileHealth); err != nil {
		return err
	}

	// 8. Create the fortune writer (ACL over the language model API)
	oracle := acl.NewOracleClient(acl.OracleConfig{
		APIKey:      cfg.Oracle.APIKey,
		Model:       cfg.Oracle.Model,
		BaseURL:     cfg.Oracle.BaseURL,
		Temperature: cfg.Oracle.Temperature,
		Timeout:     cfg.Oracle.Timeout,
		Circuit: clients.CircuitBreakerConfig{
			MaxFailures:   cfg.Client.CircuitBreaker.MaxFailures,
			Timeout:       cfg.Client.CircuitBreaker.Timeout,
			HalfOpenLimit: cfg.Client.CircuitBreaker.HalfOpenLimit,
		},
		Metrics: metrics,
		Logger:  logger,
	})

	// Template fortunes keep working without the model, so it only degrades readiness.
	if err := healthRegistry.RegisterOptional(oracle); err != nil {
		return fmt.Errorf("registering oracle health check: %w", err)
	}

	if cfg.Oracle.APIKey == "" {
		logger.Warn("oracle api key not set; llm fortunes will be refused")
	}

	// 9. Create application services
	fortuneService := app.NewFortuneService(app.FortuneServiceConfig{
		Writer:              oracle,
		Profiles:            profileStore,
		Ledger:              stores.Ledger,
		Cache:               stores.Cache,
		Flags:               flags.NewStatic(cfg.Features),
		Metrics:             metrics,
		Logger:              logger,
		DefaultSource:       domain.Source(cfg.Fortune.DefaultSource),
		CacheTTL:            cfg.Oracle.CacheTTL,
		OverviewConcurrency: cfg.Fortune.OverviewConcurrency,
	})

	pointsService := app.NewPointsService(app.PointsServiceConfig{
		Ledger:     stores.Ledger,
		UnlockCost: int64(cfg.Fortune.UnlockCost),
		Metrics:    metrics,
		Logger:     logger,
	})

	verifier, err := tokenVerifier(&cfg.Auth)
	if err != nil {
		return fmt.Errorf("creating token verifier: %w", err)
	}

	// 10. Create handlers
	loc := cfg.Fortune.Location()
	buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime)

	// 11. Create HTTP server and wire the router
	server := http.New(&cfg.Server, logger)

	http.SetupRouter(server.Engine(), http.RouterConfig{
		Logger:         logger,
		AuthConfig:     &cfg.Auth,
		AppConfig:      &cfg.App,
		CORSConfig:     cfg.CORS,
		Verifier:       verifier,
		HealthHandler:  handlers.NewHealthHandler(healthRegistry, buildInfo, nil),
		FortuneHandler: handlers.NewFortuneHandler(fortuneService, loc, nil),
		OracleHandler:  handlers.NewOracleHandler(fortuneService),
		PointsHandler:  handlers.NewPointsHandler(pointsService, loc, nil),
		Timeout:        http.DefaultRequestTimeout,
	})

	// 12. Start server (non-blocking)
	serverErr := server.Start()

	// 13. Wait for shutdown signal
	return waitForShutdown(ctx, logger, server, serverErr, cfg.Server.ShutdownTimeout)
}

// tokenVerifier returns nil unless bearer tokens are checked in-process.
func tokenVerifier(cfg *config.AuthConfig) (middleware.TokenVerifier, error) {
	if cfg.Mode != middleware.AuthModeJWT {
		return nil, nil //nolint:nilnil // no verifier outside jwt mode
	}

	return auth.NewTokenVerifier(*cfg)
}

func registerHealth(registry ports.HealthRegistry, checker ports.HealthChecker) error {
	if checker == nil {
		return nil
	}

	if err := registry.Register(checker); err != nil {
		return fmt.Errorf("registering %s health check: %w", checker.Name(), err)
	}

	return nil
}

func closeWithLog(logger *slog.Logger, name string, closeFn func() error) {
	if err := closeFn(); err != nil {
		logger.Error("close failed", slog.String("component", name), slog.Any("error", err))
	}
}

// waitForShutdown blocks until a shutdown signal is received or server error occurs.
// It then performs graceful shutdown of the HTTP server.
func waitForShutdown(
	ctx context.Context,
	logger *slog.Logger,
	server *http.Server,
	serverErr <-chan error,
	shutdownTimeout time.Duration,
) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)

	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	logger.Info("initiating graceful shutdown",
		slog.Duration("timeout", shutdownTimeout),
	)

	// Stop accepting new requests, drain in-flight
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}
