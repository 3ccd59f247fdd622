package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/horoscope-service/internal/adapters/auth"
	"github.com/jsamuelsen/horoscope-service/internal/adapters/flags"
	"github.com/jsamuelsen/horoscope-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/horoscope-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/horoscope-service/internal/adapters/ledger"
	"github.com/jsamuelsen/horoscope-service/internal/app"
	"github.com/jsamuelsen/horoscope-service/internal/domain"
	"github.com/jsamuelsen/horoscope-service/internal/fortune"
	"github.com/jsamuelsen/horoscope-service/internal/mocks"
	"github.com/jsamuelsen/horoscope-service/internal/platform/config"
	"github.com/jsamuelsen/horoscope-service/internal/platform/telemetry"
	"github.com/jsamuelsen/horoscope-service/internal/ports"
)

const (
	testSecret = "test-secret-at-least-32-bytes-long!!"
	testDate   = "2024-01-01"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type apiFixture struct {
	engine   *gin.Engine
	writer   *mocks.MockFortuneWriter
	profiles *mocks.MockProfileStore
	ledger   *ledger.MemoryLedger
	flags    *flags.Static
}

type fixtureOption func(*fixtureOptions)

type fixtureOptions struct {
	noWriter bool
	now      func() time.Time
}

func withoutWriter() fixtureOption {
	return func(o *fixtureOptions) { o.noWriter = true }
}

func withNow(now func() time.Time) fixtureOption {
	return func(o *fixtureOptions) { o.now = now }
}

func newAPIFixture(t *testing.T, opts ...fixtureOption) *apiFixture {
	t.Helper()

	var o fixtureOptions
	for _, opt := range opts {
		opt(&o)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := telemetry.NewFortuneMetrics(prometheus.NewRegistry())

	f := &apiFixture{
		writer:   mocks.NewMockFortuneWriter(t),
		profiles: mocks.NewMockProfileStore(t),
		ledger:   ledger.NewMemoryLedger(time.Hour),
		flags:    flags.NewStatic(nil),
	}

	var writer ports.FortuneWriter = f.writer
	if o.noWriter {
		writer = nil
	}

	fortunes := app.NewFortuneService(app.FortuneServiceConfig{
		Writer:   writer,
		Profiles: f.profiles,
		Ledger:   f.ledger,
		Cache:    ledger.NewMemoryCache(),
		Flags:    f.flags,
		Metrics:  metrics,
		Logger:   logger,
		CacheTTL: time.Hour,
	})
	points := app.NewPointsService(app.PointsServiceConfig{
		Ledger:     f.ledger,
		UnlockCost: 1,
		Metrics:    metrics,
		Logger:     logger,
	})

	authCfg := &config.AuthConfig{Mode: "jwt", JWTSecret: testSecret, Audience: "authenticated"}

	verifier, err := auth.NewTokenVerifier(*authCfg)
	require.NoError(t, err)

	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	f.engine = gin.New()
	SetupRouter(f.engine, RouterConfig{
		Logger:     logger,
		AppConfig:  &config.AppConfig{Name: "horoscope-test", Version: "test", Environment: "test"},
		AuthConfig: authCfg,
		CORSConfig: config.CORSConfig{
			AllowOrigins: []string{"*"},
			AllowHeaders: []string{"authorization", "x-client-info", "apikey", "content-type"},
			MaxAge:       10 * time.Minute,
		},
		Verifier:       verifier,
		HealthHandler:  handlers.NewHealthHandler(ports.NewHealthRegistry(), handlers.BuildInfo{Version: "test"}, prometheus.NewRegistry()),
		FortuneHandler: handlers.NewFortuneHandler(fortunes, loc, o.now),
		OracleHandler:  handlers.NewOracleHandler(fortunes),
		PointsHandler:  handlers.NewPointsHandler(points, loc, o.now),
		Timeout:        5 * time.Second,
	})

	return f
}

func signToken(t *testing.T, subject string, ttl time.Duration) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"aud": "authenticated",
		"exp": time.Now().Add(ttl).Unix(),
	})

	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)

	return signed
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)

		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)

	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())

	return v
}

func TestRouter_ListSigns(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodGet, "/api/v1/signs", "", nil)

	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[dto.SignsResponse](t, w)
	require.Len(t, resp.Signs, 12)
	assert.Equal(t, "aries", resp.Signs[0].Key)
	assert.Equal(t, "pisces", resp.Signs[11].Key)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_Daily_AnonymousIsLocked(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodGet, "/api/v1/fortunes/aries?date="+testDate, "", nil)

	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[dto.FortuneResponse](t, w)
	assert.True(t, resp.Locked)
	assert.Equal(t, "free", resp.Access)
	assert.Equal(t, "template", resp.Source)
	assert.Nil(t, resp.Full)
	assert.Equal(t, fortune.Build("aries", testDate).Digest, resp.Digest)
	assert.NotContains(t, w.Body.String(), `"full"`)
}

func TestRouter_Daily_DefaultsToTodayInZone(t *testing.T) {
	// 20:00 UTC on the 9th is already the 10th in Tokyo.
	now := func() time.Time { return time.Date(2024, 3, 9, 20, 0, 0, 0, time.UTC) }
	f := newAPIFixture(t, withNow(now))

	w := f.do(t, http.MethodGet, "/api/v1/fortunes/leo", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2024-03-10", decode[dto.FortuneResponse](t, w).Date)
}

func TestRouter_Daily_RejectsBadInput(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantCode   string
	}{
		{"unknown sign", "/api/v1/fortunes/ophiuchus?date=" + testDate, http.StatusBadRequest, dto.ErrorCodeValidation},
		{"malformed date", "/api/v1/fortunes/aries?date=2024-1-1", http.StatusBadRequest, dto.ErrorCodeValidation},
		{"impossible date", "/api/v1/fortunes/aries?date=2024-02-30", http.StatusBadRequest, dto.ErrorCodeValidation},
		{"unknown source", "/api/v1/fortunes/aries?source=tarot", http.StatusBadRequest, dto.ErrorCodeValidation},
		{"llm source switched off", "/api/v1/fortunes/aries?source=llm&date=" + testDate, http.StatusForbidden, dto.ErrorCodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAPIFixture(t)

			w := f.do(t, http.MethodGet, tt.path, "", nil)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, decode[dto.ErrorResponse](t, w).Error.Code)
		})
	}
}

func TestRouter_Daily_LLMSourceWhenEnabled(t *testing.T) {
	f := newAPIFixture(t)
	f.flags.Set(ports.FlagLLMFortunes, true)

	written := fortune.Build("virgo", testDate)
	written.Digest.Theme = "星の声"

	f.writer.EXPECT().WriteFortune(mock.Anything, mock.Anything).Return(&written, nil).Once()

	for range 2 {
		w := f.do(t, http.MethodGet, "/api/v1/fortunes/virgo?source=llm&date="+testDate, "", nil)

		require.Equal(t, http.StatusOK, w.Code)

		resp := decode[dto.FortuneResponse](t, w)
		assert.Equal(t, "llm", resp.Source)
		assert.Equal(t, "星の声", resp.Digest.Theme)
	}
}

func TestRouter_Overview(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodGet, "/api/v1/fortunes?date="+testDate, "", nil)

	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[dto.OverviewResponse](t, w)
	assert.Equal(t, testDate, resp.Date)
	require.Len(t, resp.Fortunes, 12)

	for i, sign := range domain.Signs() {
		assert.Equal(t, sign.Key, resp.Fortunes[i].Sign.Key)
		assert.Equal(t, fortune.Digest(sign.Key, testDate), resp.Fortunes[i].Digest)
	}
}

func TestRouter_PointsRequireReader(t *testing.T) {
	tests := []struct {
		name        string
		token       func(t *testing.T) string
		wantMessage string
	}{
		{
			name:        "no token",
			token:       func(*testing.T) string { return "" },
			wantMessage: "authentication required",
		},
		{
			name:        "expired token",
			token:       func(t *testing.T) string { return signToken(t, "user-1", -time.Hour) },
			wantMessage: "token expired",
		},
		{
			name:        "garbage token",
			token:       func(*testing.T) string { return "not.a.jwt" },
			wantMessage: "token invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAPIFixture(t)

			w := f.do(t, http.MethodGet, "/api/v1/points", tt.token(t), nil)

			assert.Equal(t, http.StatusUnauthorized, w.Code)

			resp := decode[dto.ErrorResponse](t, w)
			assert.Equal(t, dto.ErrorCodeUnauthorized, resp.Error.Code)
			assert.Contains(t, resp.Error.Message, tt.wantMessage)
		})
	}
}

func TestRouter_InvalidTokenStillReadsFreeContent(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodGet, "/api/v1/fortunes/aries?date="+testDate, "not.a.jwt", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[dto.FortuneResponse](t, w).Locked)
}

func TestRouter_PurchaseAndUnlock(t *testing.T) {
	f := newAPIFixture(t)
	f.profiles.EXPECT().OverallUnlocked(mock.Anything, "user-1").Return(false, nil).Maybe()

	token := signToken(t, "user-1", time.Hour)

	w := f.do(t, http.MethodPost, "/api/v1/points/purchase", token, dto.PurchaseRequest{Pack: 1})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.PurchaseResponse{Added: 1, Balance: 1}, decode[dto.PurchaseResponse](t, w))

	w = f.do(t, http.MethodPost, "/api/v1/fortunes/aries/unlock", token, dto.UnlockRequest{Date: testDate})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.UnlockResponse{Sign: "aries", Date: testDate, Spent: 1, Balance: 0},
		decode[dto.UnlockResponse](t, w))

	w = f.do(t, http.MethodGet, "/api/v1/fortunes/aries?date="+testDate, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	view := decode[dto.FortuneResponse](t, w)
	assert.False(t, view.Locked)
	assert.Equal(t, "paid", view.Access)
	require.NotNil(t, view.Full)
	assert.Equal(t, fortune.Build("aries", testDate).Full, *view.Full)

	w = f.do(t, http.MethodPost, "/api/v1/fortunes/aries/unlock", token, dto.UnlockRequest{Date: testDate})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[dto.UnlockResponse](t, w).Already)

	w = f.do(t, http.MethodPost, "/api/v1/fortunes/taurus/unlock", token, dto.UnlockRequest{Date: testDate})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, dto.ErrorCodeNoPoints, decode[dto.ErrorResponse](t, w).Error.Code)

	w = f.do(t, http.MethodGet, "/api/v1/points", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.BalanceResponse{Balance: 0, UnlockCost: 1}, decode[dto.BalanceResponse](t, w))
}

func TestRouter_PurchaseRejectsUnknownPack(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodPost, "/api/v1/points/purchase", signToken(t, "user-1", time.Hour), dto.PurchaseRequest{Pack: 5})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	resp := decode[dto.ErrorResponse](t, w)
	assert.Equal(t, dto.ErrorCodeValidation, resp.Error.Code)
	assert.Contains(t, resp.Error.Details, "pack")
}

func TestRouter_Oracle(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		body       any
		opts       []fixtureOption
		setup      func(*apiFixture)
		wantStatus int
		wantError  string
	}{
		{
			name:       "other methods",
			method:     http.MethodGet,
			wantStatus: http.StatusMethodNotAllowed,
			wantError:  "POST only",
		},
		{
			name:       "unknown sign",
			method:     http.MethodPost,
			body:       dto.OracleRequest{SignKey: "dragon", DateKey: testDate},
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid signKey",
		},
		{
			name:       "no body",
			method:     http.MethodPost,
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid signKey",
		},
		{
			name:       "sign of the wrong type",
			method:     http.MethodPost,
			body:       map[string]any{"signKey": 5, "dateKey": testDate},
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid signKey",
		},
		{
			name:       "date of the wrong type",
			method:     http.MethodPost,
			body:       map[string]any{"signKey": "aries", "dateKey": 20250101},
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid dateKey",
		},
		{
			name:       "bad date",
			method:     http.MethodPost,
			body:       dto.OracleRequest{SignKey: "aries", DateKey: "01/01/2024"},
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid dateKey",
		},
		{
			name:       "writer not configured",
			method:     http.MethodPost,
			body:       dto.OracleRequest{SignKey: "aries", DateKey: testDate},
			opts:       []fixtureOption{withoutWriter()},
			wantStatus: http.StatusInternalServerError,
			wantError:  "Missing OPENAI_API_KEY on server",
		},
		{
			name:   "upstream failure",
			method: http.MethodPost,
			body:   dto.OracleRequest{SignKey: "aries", DateKey: testDate},
			setup: func(f *apiFixture) {
				f.writer.EXPECT().WriteFortune(mock.Anything, mock.Anything).
					Return(nil, domain.NewUnavailableError("oracle", "no output_text"))
			},
			wantStatus: http.StatusBadGateway,
			wantError:  "no output_text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAPIFixture(t, tt.opts...)
			if tt.setup != nil {
				tt.setup(f)
			}

			w := f.do(t, tt.method, "/api/v1/fortune", "", tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)

			resp := decode[dto.OracleError](t, w)
			assert.False(t, resp.OK)
			assert.Contains(t, resp.Error, tt.wantError)
		})
	}
}

func TestRouter_Oracle_MalformedBodyReadsAsEmpty(t *testing.T) {
	f := newAPIFixture(t)

	for _, raw := range []string{"", "{not json", "null", "[1,2]"} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/fortune", strings.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		f.engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, "body %q", raw)

		resp := decode[dto.OracleError](t, w)
		assert.Equal(t, "invalid signKey", resp.Error, "body %q", raw)
	}
}

func TestRouter_Oracle_Success(t *testing.T) {
	f := newAPIFixture(t)

	written := fortune.Build("gemini", testDate)
	f.writer.EXPECT().
		WriteFortune(mock.Anything, mock.MatchedBy(func(req ports.FortuneRequest) bool {
			return req.Sign.Key == "gemini" && req.DateKey == testDate && req.Paid
		})).
		Return(&written, nil)

	w := f.do(t, http.MethodPost, "/api/v1/fortune", "", dto.OracleRequest{SignKey: "gemini", DateKey: testDate, Paid: true})

	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[dto.OracleResponse](t, w)
	assert.True(t, resp.OK)
	assert.Equal(t, "gemini", resp.SignKey)
	assert.Equal(t, testDate, resp.DateKey)
	assert.Equal(t, written.Full, resp.Full)
}

func TestRouter_Reading_PaidNeedsPaidProfile(t *testing.T) {
	f := newAPIFixture(t)
	f.profiles.EXPECT().OverallUnlocked(mock.Anything, "user-2").Return(true, nil).Once()

	f.writer.EXPECT().WriteReading(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, req ports.ReadingRequest) (*domain.Reading, error) {
			if req.Level != domain.AccessPaid {
				return nil, errors.New("expected a paid request")
			}

			c := domain.Category{Stars5: 9, Axis: "a", Summary: "s"}

			return &domain.Reading{
				SchemaVersion: domain.ReadingSchemaVersion,
				Free:          &domain.FreeReading{OneLine: "dropped"},
				Paid: &domain.PaidReading{
					Overall: c, Love: c, Work: c, Money: c,
					Lucky: domain.LuckyPair{Color: "金", Item: "手帳"},
				},
			}, nil
		})

	w := f.do(t, http.MethodPost, "/api/v1/readings", signToken(t, "user-2", time.Hour), dto.ReadingRequest{
		DateKey:     testDate,
		SignKey:     "cancer",
		AccessLevel: "paid",
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	reading := decode[domain.Reading](t, w)
	assert.Nil(t, reading.Free)
	require.NotNil(t, reading.Paid)
	assert.Equal(t, 5, reading.Paid.Overall.Stars5)
	assert.Equal(t, domain.AccessPaid, reading.Meta.AccessLevel)
	assert.Equal(t, "蟹座", reading.Meta.SignLabel)
}

func TestRouter_Reading_ValidatesBody(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodPost, "/api/v1/readings", "", map[string]string{"date_key": "yesterday", "sign_key": "aries"})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	resp := decode[dto.ErrorResponse](t, w)
	assert.Equal(t, dto.ErrorCodeValidation, resp.Error.Code)
	assert.Contains(t, resp.Error.Details, "date_key")
}

func TestRouter_CORSPreflight(t *testing.T) {
	f := newAPIFixture(t)

	preflight := func(method string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/fortunes/aries", nil)
		req.Header.Set("Origin", "https://app.example")
		req.Header.Set("Access-Control-Request-Method", method)
		req.Header.Set("Access-Control-Request-Headers", "authorization, apikey")

		w := httptest.NewRecorder()
		f.engine.ServeHTTP(w, req)
		return w
	}

	w := preflight(http.MethodGet)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.MethodGet, w.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "authorization, apikey", strings.ToLower(w.Header().Get("Access-Control-Allow-Headers")))
	assert.Equal(t, "600", w.Header().Get("Access-Control-Max-Age"))

	w = preflight(http.MethodDelete)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Methods"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/signs", nil)
	req.Header.Set("Origin", "https://app.example")
	w = httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_HealthRoutes(t *testing.T) {
	f := newAPIFixture(t)

	for _, path := range []string{"/-/live", "/-/ready", "/-/build", "/-/metrics"} {
		w := f.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestSetupRouter_WithoutOptionalHandlers(t *testing.T) {
	engine := gin.New()

	require.NotPanics(t, func() {
		SetupRouter(engine, RouterConfig{
			Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
			AuthConfig: &config.AuthConfig{Mode: "none"},
		})
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/signs", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func testServerConfig(host string, port int) *config.ServerConfig {
	return &config.ServerConfig{
		Host:           host,
		Port:           port,
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    30 * time.Second,
		MaxRequestSize: 1 << 20,
	}
}

func TestServerAddr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"localhost", 8080, "localhost:8080"},
		{"0.0.0.0", 3000, "0.0.0.0:3000"},
		{"::1", 8080, "[::1]:8080"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			srv := New(testServerConfig(tt.host, tt.port), slog.New(slog.NewTextHandler(io.Discard, nil)))

			assert.Equal(t, tt.want, srv.Addr())
			assert.NotNil(t, srv.Engine())
		})
	}
}

func TestServerStartShutdown(t *testing.T) {
	srv := New(testServerConfig("127.0.0.1", 0), slog.New(slog.NewTextHandler(io.Discard, nil)))
	errCh := srv.Start()

	time.Sleep(50 * time.Millisecond)

	select {
	case err := <-errCh:
		require.NoError(t, err)
	default:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, srv.Shutdown(ctx))

	select {
	case _, ok := <-errCh:
		assert.False(t, ok, "error channel should be closed")
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for server to stop")
	}
}

func TestMaxBodySize(t *testing.T) {
	srv := New(&config.ServerConfig{Host: "localhost", Port: 0, MaxRequestSize: 8}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	srv.Engine().POST("/echo", func(c *gin.Context) {
		_, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}

		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", bytes.NewReader([]byte("far more than eight bytes"))))

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
