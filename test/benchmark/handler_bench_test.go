package benchmark

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/horoscope-service/internal/adapters/flags"
	httpadapter "github.com/jsamuelsen/horoscope-service/internal/adapters/http"
	"github.com/jsamuelsen/horoscope-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/horoscope-service/internal/adapters/ledger"
	"github.com/jsamuelsen/horoscope-service/internal/adapters/profiles"
	"github.com/jsamuelsen/horoscope-service/internal/app"
	"github.com/jsamuelsen/horoscope-service/internal/domain"
	"github.com/jsamuelsen/horoscope-service/internal/fortune"
	"github.com/jsamuelsen/horoscope-service/internal/platform/config"
	"github.com/jsamuelsen/horoscope-service/internal/ports"
)

func init() {
	// Set Gin to release mode for accurate benchmarks
	gin.SetMode(gin.ReleaseMode)
}

// createGinContext creates a Gin context for handler testing.
func createGinContext(w http.ResponseWriter, r *http.Request) *gin.Context {
	c, _ := gin.CreateTestContext(w)
	c.Request = r
	return c
}

func setupHealthHandler(checkers ...ports.HealthChecker) *handlers.HealthHandler {
	registry := ports.NewHealthRegistry()
	for _, checker := range checkers {
		_ = registry.Register(checker)
	}

	buildInfo := handlers.NewBuildInfo("1.0.0", "abc123", "2024-01-01T00:00:00Z")

	return handlers.NewHealthHandler(registry, buildInfo, prometheus.NewRegistry())
}

// setupRouter builds the API with in-memory stores and no fortune writer.
func setupRouter() *gin.Engine {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	memory := ledger.NewMemoryLedger(time.Hour)

	fortunes := app.NewFortuneService(app.FortuneServiceConfig{
		Profiles: profiles.NoneStore{},
		Ledger:   memory,
		Cache:    ledger.NewMemoryCache(),
		Flags:    flags.NewStatic(nil),
		Logger:   logger,
	})
	points := app.NewPointsService(app.PointsServiceConfig{Ledger: memory, Logger: logger})

	engine := gin.New()
	httpadapter.SetupRouter(engine, httpadapter.RouterConfig{
		Logger:         logger,
		AppConfig:      &config.AppConfig{Name: "horoscope-bench"},
		AuthConfig:     &config.AuthConfig{Mode: "none"},
		CORSConfig:     config.CORSConfig{AllowOrigins: []string{"*"}},
		HealthHandler:  setupHealthHandler(),
		FortuneHandler: handlers.NewFortuneHandler(fortunes, time.UTC, nil),
		OracleHandler:  handlers.NewOracleHandler(fortunes),
		PointsHandler:  handlers.NewPointsHandler(points, time.UTC, nil),
	})

	return engine
}

// BenchmarkBuild measures assembling one fortune from its seed.
func BenchmarkBuild(b *testing.B) {
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = fortune.Build("scorpio", "2024-11-05")
	}
}

// BenchmarkBuild_AllSigns assembles the twelve fortunes of a day.
func BenchmarkBuild_AllSigns(b *testing.B) {
	signs := domain.Signs()

	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		for _, s := range signs {
			_ = fortune.Build(s.Key, "2024-11-05")
		}
	}
}

// BenchmarkLivenessHandler measures the performance of the liveness endpoint.
// This is a critical path for Kubernetes liveness checks and should be extremely fast.
func BenchmarkLivenessHandler(b *testing.B) {
	handler := setupHealthHandler()
	req := httptest.NewRequest(http.MethodGet, "/-/live", http.NoBody)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		c := createGinContext(w, req)
		handler.Liveness(c)
	}
}

// BenchmarkReadinessHandler_WithChecks measures readiness with the checks
// a production instance registers.
func BenchmarkReadinessHandler_WithChecks(b *testing.B) {
	handler := setupHealthHandler(
		&simpleHealthChecker{name: "ledger"},
		&simpleHealthChecker{name: "profiles"},
		&simpleHealthChecker{name: "oracle"},
	)
	req := httptest.NewRequest(http.MethodGet, "/-/ready", http.NoBody)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		c := createGinContext(w, req)
		handler.Readiness(c)
	}
}

// BenchmarkDailyFortune measures GET /api/v1/fortunes/:sign through the
// full middleware chain.
func BenchmarkDailyFortune(b *testing.B) {
	router := setupRouter()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/fortunes/aries?date=2024-01-01", http.NoBody)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			b.Fatalf("unexpected status %d", w.Code)
		}
	}
}

// BenchmarkOverview measures the twelve-sign digest endpoint.
func BenchmarkOverview(b *testing.B) {
	router := setupRouter()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/fortunes?date=2024-01-01", http.NoBody)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			b.Fatalf("unexpected status %d", w.Code)
		}
	}
}

// simpleHealthChecker is a minimal health checker for benchmarking.
type simpleHealthChecker struct {
	name string
}

func (s *simpleHealthChecker) Name() string {
	return s.name
}

func (s *simpleHealthChecker) Check(_ context.Context) error {
	return nil
}
