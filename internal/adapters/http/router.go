package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/horoscope-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/horoscope-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen/horoscope-service/internal/platform/config"
	"github.com/jsamuelsen/horoscope-service/internal/platform/telemetry"
)

// DefaultRequestTimeout is the deadline of /api/v1 requests. It leaves room
// for one language model call.
const DefaultRequestTimeout = 60 * time.Second

// RouterConfig contains everything SetupRouter wires.
type RouterConfig struct {
	Logger     *slog.Logger
	AppConfig  *config.AppConfig
	AuthConfig *config.AuthConfig
	CORSConfig config.CORSConfig

	// Verifier checks bearer tokens when AuthConfig.Mode is "jwt".
	Verifier middleware.TokenVerifier

	HealthHandler  *handlers.HealthHandler
	FortuneHandler *handlers.FortuneHandler
	OracleHandler  *handlers.OracleHandler
	PointsHandler  *handlers.PointsHandler

	Timeout time.Duration
}

// SetupRouter configures middleware and routes on engine.
// Global middleware, first to last:
//  1. Recovery
//  2. Request ID and correlation ID
//  3. OpenTelemetry span, then HTTP metrics
//  4. Logging (skips /-/ and preflights)
//
// /api/v1 adds CORS, the request deadline, caller identification and a
// per-request lookup cache. Points routes also require a reader.
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	serviceName := "horoscope-service"
	if cfg.AppConfig != nil && cfg.AppConfig.Name != "" {
		serviceName = cfg.AppConfig.Name
	}

	engine.Use(
		middleware.Recovery(cfg.Logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
		telemetry.TracingMiddleware(serviceName),
		telemetry.Middleware(),
		middleware.Logging(cfg.Logger),
	)

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutesOnEngine(engine)
	}

	apiV1 := engine.Group("/api/v1")
	apiV1.Use(middleware.CORS(cfg.CORSConfig))

	// Preflights never reach a handler; CORS answers them. The route only
	// has to exist for gin to run the group middleware.
	apiV1.OPTIONS("/*path", func(*gin.Context) {})

	if cfg.Timeout > 0 {
		apiV1.Use(middleware.Timeout(cfg.Timeout))
	}

	apiV1.Use(
		middleware.Authenticate(cfg.AuthConfig, cfg.Verifier),
		middleware.RequestScope(),
	)

	setupAPIRoutes(apiV1, cfg)
}

func setupAPIRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.FortuneHandler != nil {
		cfg.FortuneHandler.RegisterRoutes(rg)
	}

	if cfg.OracleHandler != nil {
		cfg.OracleHandler.RegisterRoutes(rg)
	}

	if cfg.PointsHandler != nil {
		protected := rg.Group("")
		protected.Use(middleware.RequireAuth())
		cfg.PointsHandler.RegisterRoutes(protected)
	}
}
