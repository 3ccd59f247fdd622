//go:build integration

package integration

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/horoscope-service/internal/adapters/auth"
	"github.com/jsamuelsen/horoscope-service/internal/adapters/clients"
	"github.com/jsamuelsen/horoscope-service/internal/adapters/clients/acl"
	"github.com/jsamuelsen/horoscope-service/internal/adapters/flags"
	httpadapter "github.com/jsamuelsen/horoscope-service/internal/adapters/http"
	"github.com/jsamuelsen/horoscope-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/horoscope-service/internal/adapters/ledger"
	"github.com/jsamuelsen/horoscope-service/internal/app"
	"github.com/jsamuelsen/horoscope-service/internal/platform/config"
	"github.com/jsamuelsen/horoscope-service/internal/platform/telemetry"
	"github.com/jsamuelsen/horoscope-service/internal/ports"
)

const (
	stackSecret   = "integration-secret-at-least-32-bytes"
	stackAudience = "authenticated"
	serviceKey    = "service-role-key"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeProfiles serves a PostgREST profile table held in memory.
type fakeProfiles struct {
	mu    sync.Mutex
	paid  map[string]*bool
	fail  atomic.Int32
	calls atomic.Int32

	lastHeaders atomic.Value // http.Header
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{paid: map[string]*bool{}}
}

func (f *fakeProfiles) setPaid(userID string, paid bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.paid[userID] = &paid
}

func (f *fakeProfiles) setNull(userID string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.paid[userID] = nil
}

// failNext makes the next n requests answer 503.
func (f *fakeProfiles) failNext(n int32) {
	f.fail.Store(n)
}

func (f *fakeProfiles) headers() http.Header {
	h, _ := f.lastHeaders.Load().(http.Header)
	return h
}

func (f *fakeProfiles) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.calls.Add(1)
	f.lastHeaders.Store(r.Header.Clone())

	if f.fail.Load() > 0 {
		f.fail.Add(-1)
		w.WriteHeader(http.StatusServiceUnavailable)

		return
	}

	if r.Header.Get("apikey") != serviceKey {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"message":"Invalid API key"}`)

		return
	}

	if r.URL.Path != "/rest/v1/profiles" {
		http.NotFound(w, r)
		return
	}

	id := strings.TrimPrefix(r.URL.Query().Get("id"), "eq.")

	f.mu.Lock()
	flag, ok := f.paid[id]
	f.mu.Unlock()

	rows := []map[string]any{}
	if ok {
		rows = append(rows, map[string]any{"id": id, "overall_unlocked": flag})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(rows)
}

// fakeModel answers chat completions with a fixed fortune.
type fakeModel struct {
	calls atomic.Int32
	down  atomic.Bool
}

func (m *fakeModel) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.calls.Add(1)

	w.Header().Set("Content-Type", "application/json")

	if m.down.Load() {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, `{"error":{"message":"bad gateway","type":"server_error"}}`)

		return
	}

	content, _ := json.Marshal(map[string]any{
		"digest": map[string]any{
			"theme":   "深呼吸の日",
			"oneLine": "急がず一つずつ。",
			"scores":  map[string]any{"overall": 4, "love": 3, "work": 5, "money": 2},
			"tips": map[string]any{
				"action":  "朝に窓を開ける",
				"caution": "寝不足",
				"lucky":   map[string]any{"color": "ミント", "item": "手帳", "time": "09:15"},
			},
		},
		"full": map[string]any{
			"overall": "全体の流れは穏やか。",
			"love":    "素直な言葉が届く。",
			"work":    "段取りが冴える。",
			"money":   "小さな出費に注意。",
		},
	})

	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":      "chatcmpl-int",
		"object":  "chat.completion",
		"created": 1735689600,
		"model":   "gpt-4o-mini",
		"choices": []any{map[string]any{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": string(content)},
		}},
	})
}

// stack is the whole service wired against in-process fakes: miniredis for
// the ledger and cache, a PostgREST stand-in for profiles and a chat
// completions stand-in for the oracle.
type stack struct {
	server   *httptest.Server
	redis    *miniredis.Miniredis
	profiles *fakeProfiles
	model    *fakeModel
	flags    *flags.Static
	health   *ports.DefaultHealthRegistry
}

func profileClientConfig(baseURL string) *clients.Config {
	return &clients.Config{
		BaseURL:     baseURL,
		ServiceName: acl.ProfileServiceName,
		Timeout:     2 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     3,
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     50 * time.Millisecond,
			Multiplier:      2.0,
		},
		Circuit: config.CircuitBreakerConfig{
			MaxFailures:   3,
			Timeout:       100 * time.Millisecond,
			HalfOpenLimit: 1,
		},
		Headers: acl.ServiceKeyHeaders(serviceKey),
	}
}

func newStack(t testing.TB) *stack {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := telemetry.NewFortuneMetrics(prometheus.NewRegistry())

	s := &stack{
		redis:    miniredis.RunT(t),
		profiles: newFakeProfiles(),
		model:    &fakeModel{},
		flags:    flags.NewStatic(map[string]bool{ports.FlagLLMFortunes: true}),
		health:   ports.NewHealthRegistry(),
	}

	rdb := redis.NewClient(&redis.Options{Addr: s.redis.Addr()})
	stores := ledger.NewRedisStores(rdb, "horoscope-it", 72*time.Hour)
	t.Cleanup(func() { _ = stores.Close() })

	profileServer := httptest.NewServer(s.profiles)
	t.Cleanup(profileServer.Close)

	profileClient, err := clients.New(profileClientConfig(profileServer.URL))
	require.NoError(t, err)

	profileStore := acl.NewProfileAdapter(profileClient, "profiles")

	modelServer := httptest.NewServer(s.model)
	t.Cleanup(modelServer.Close)

	oracle := acl.NewOracleClient(acl.OracleConfig{
		APIKey:     "sk-integration",
		BaseURL:    modelServer.URL,
		HTTPClient: modelServer.Client(),
		Timeout:    2 * time.Second,
		Metrics:    metrics,
		Logger:     logger,
	})

	require.NoError(t, s.health.Register(stores.Health))
	require.NoError(t, s.health.Register(profileStore))
	require.NoError(t, s.health.RegisterOptional(oracle))

	fortunes := app.NewFortuneService(app.FortuneServiceConfig{
		Writer:              oracle,
		Profiles:            profileStore,
		Ledger:              stores.Ledger,
		Cache:               stores.Cache,
		Flags:               s.flags,
		Metrics:             metrics,
		Logger:              logger,
		CacheTTL:            time.Hour,
		OverviewConcurrency: 4,
	})
	points := app.NewPointsService(app.PointsServiceConfig{
		Ledger:     stores.Ledger,
		UnlockCost: 1,
		Metrics:    metrics,
		Logger:     logger,
	})

	authCfg := &config.AuthConfig{Mode: "jwt", JWTSecret: stackSecret, Audience: stackAudience}

	verifier, err := auth.NewTokenVerifier(*authCfg)
	require.NoError(t, err)

	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	engine := gin.New()
	httpadapter.SetupRouter(engine, httpadapter.RouterConfig{
		Logger:     logger,
		AppConfig:  &config.AppConfig{Name: "horoscope-it", Version: "it", Environment: "test"},
		AuthConfig: authCfg,
		CORSConfig: config.CORSConfig{
			AllowOrigins: []string{"*"},
			AllowHeaders: []string{"authorization", "x-client-info", "apikey", "content-type"},
			MaxAge:       10 * time.Minute,
		},
		Verifier:       verifier,
		HealthHandler:  handlers.NewHealthHandler(s.health, handlers.NewBuildInfo("it", "none", "now"), prometheus.NewRegistry()),
		FortuneHandler: handlers.NewFortuneHandler(fortunes, loc, nil),
		OracleHandler:  handlers.NewOracleHandler(fortunes),
		PointsHandler:  handlers.NewPointsHandler(points, loc, nil),
		Timeout:        5 * time.Second,
	})

	s.server = httptest.NewServer(engine)
	t.Cleanup(s.server.Close)

	return s
}

// signToken mints a bearer token the stack accepts.
func signToken(subject string, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"aud": stackAudience,
		"exp": time.Now().Add(ttl).Unix(),
	})

	return token.SignedString([]byte(stackSecret))
}
