package clients

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/horoscope-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen/horoscope-service/internal/platform/config"
)

type profileRow struct {
	ID              string `json:"id"`
	OverallUnlocked bool   `json:"overall_unlocked"`
}

// profileTable answers the first failures calls with status, then serves a
// single paid row.
type profileTable struct {
	calls    atomic.Int32
	failures int32
	status   int
	seen     atomic.Pointer[http.Header]
}

func (p *profileTable) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	n := p.calls.Add(1)
	header := r.Header.Clone()
	p.seen.Store(&header)

	if n <= p.failures {
		w.WriteHeader(p.status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, `[{"id":"reader-1","overall_unlocked":true}]`)
}

func newTestClient(t *testing.T, baseURL string, tweak func(*Config)) *Client {
	t.Helper()

	cfg := &Config{
		BaseURL:     baseURL,
		ServiceName: "profiles",
		Timeout:     2 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     3,
			InitialInterval: time.Millisecond,
			MaxInterval:     5 * time.Millisecond,
			Multiplier:      2,
		},
		Circuit: config.CircuitBreakerConfig{
			MaxFailures:   5,
			Timeout:       time.Second,
			HalfOpenLimit: 1,
		},
	}
	if tweak != nil {
		tweak(cfg)
	}

	client, err := New(cfg)
	require.NoError(t, err)

	return client
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil)
	require.ErrorContains(t, err, "config is required")

	_, err = New(&Config{BaseURL: "https://db.example.com"})
	require.ErrorContains(t, err, "service name is required")

	client, err := New(&Config{BaseURL: "https://db.example.com/", ServiceName: "profiles"})
	require.NoError(t, err)
	assert.Equal(t, "https://db.example.com", client.baseURL)
	assert.Equal(t, 1, client.retry.attempts, "at least one attempt")
	assert.Equal(t, defaultTimeout, client.http.Timeout)
}

func TestClient_GetJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/profiles", r.URL.Path)
		assert.Equal(t, "eq.reader-1", r.URL.Query().Get("id"))
		_, _ = io.WriteString(w, `[{"id":"reader-1","overall_unlocked":true}]`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, nil)

	var rows []profileRow
	require.NoError(t, client.GetJSON(context.Background(), "rest/v1/profiles?id=eq.reader-1", &rows))
	require.Len(t, rows, 1)
	assert.True(t, rows[0].OverallUnlocked)
}

func TestClient_GetJSON_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{name: "rejected key", status: http.StatusUnauthorized, body: `{"message":"Invalid API key"}`, wantErr: "Invalid API key"},
		{name: "missing table", status: http.StatusNotFound, body: `{}`, wantErr: "unexpected status 404"},
		{name: "malformed body", status: http.StatusOK, body: `not json`, wantErr: "decoding profiles response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer server.Close()

			client := newTestClient(t, server.URL, nil)

			var rows []profileRow
			err := client.GetJSON(context.Background(), "/rest/v1/profiles", &rows)
			require.ErrorContains(t, err, tt.wantErr)

			if tt.status >= http.StatusBadRequest {
				var statusErr *StatusError
				require.ErrorAs(t, err, &statusErr)
				assert.Equal(t, tt.status, statusErr.StatusCode)
			}
		})
	}
}

func TestClient_Headers(t *testing.T) {
	table := &profileTable{}
	server := httptest.NewServer(table)
	defer server.Close()

	client := newTestClient(t, server.URL, func(cfg *Config) {
		cfg.Headers = map[string]string{
			"apikey":        "service-key",
			"Authorization": "Bearer service-key",
		}
	})

	ctx := middleware.ContextWithRequestID(context.Background(), "req-1")
	ctx = middleware.ContextWithCorrelationID(ctx, "corr-1")

	var rows []profileRow
	require.NoError(t, client.GetJSON(ctx, "/rest/v1/profiles", &rows))

	header := *table.seen.Load()
	assert.Equal(t, "service-key", header.Get("apikey"))
	assert.Equal(t, "Bearer service-key", header.Get("Authorization"))
	assert.Equal(t, "req-1", header.Get(middleware.HeaderRequestID))
	assert.Equal(t, "corr-1", header.Get(middleware.HeaderCorrelationID))
}

func TestClient_Retries(t *testing.T) {
	tests := []struct {
		name      string
		failures  int32
		status    int
		wantCalls int32
		wantErr   error
	}{
		{name: "recovers after server errors", failures: 2, status: http.StatusServiceUnavailable, wantCalls: 3},
		{name: "gives up after max attempts", failures: 5, status: http.StatusInternalServerError, wantCalls: 3, wantErr: ErrMaxRetriesExceeded},
		{name: "client errors are final", failures: 5, status: http.StatusBadRequest, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := &profileTable{failures: tt.failures, status: tt.status}
			server := httptest.NewServer(table)
			defer server.Close()

			client := newTestClient(t, server.URL, nil)

			resp, err := client.Get(context.Background(), "/rest/v1/profiles")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				_ = resp.Body.Close()
			}

			assert.Equal(t, tt.wantCalls, table.calls.Load())
		})
	}
}

func TestClient_CircuitOpensAndShortCircuits(t *testing.T) {
	table := &profileTable{failures: 100, status: http.StatusServiceUnavailable}
	server := httptest.NewServer(table)
	defer server.Close()

	client := newTestClient(t, server.URL, func(cfg *Config) {
		cfg.Retry.MaxAttempts = 1
		cfg.Circuit.MaxFailures = 2
	})

	assert.Equal(t, "profiles", client.Name())
	require.NoError(t, client.Check(context.Background()))

	for range 2 {
		_, err := client.Get(context.Background(), "/")
		require.Error(t, err)
	}

	assert.Equal(t, StateOpen, client.CircuitState())
	require.ErrorIs(t, client.Check(context.Background()), ErrCircuitOpen)

	calls := table.calls.Load()
	_, err := client.Get(context.Background(), "/")
	require.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, calls, table.calls.Load(), "open circuit makes no call")
}

func TestClient_AttemptTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := newTestClient(t, server.URL, func(cfg *Config) {
		cfg.Timeout = 30 * time.Millisecond
		cfg.Retry.MaxAttempts = 1
	})

	_, err := client.Get(context.Background(), "/")
	require.ErrorIs(t, err, ErrMaxRetriesExceeded)
}

func TestClient_CallerCancellationIsNotAFailure(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := newTestClient(t, server.URL, func(cfg *Config) {
		cfg.Circuit.MaxFailures = 1
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := client.Get(ctx, "/")
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, StateClosed, client.CircuitState())
}

func TestRetryPolicy_Delay(t *testing.T) {
	p := newRetryPolicy(config.RetryConfig{
		MaxAttempts:     4,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     time.Second,
		Multiplier:      2,
	})

	tests := []struct {
		name string
		unit float64
		n    int
		want time.Duration
	}{
		{name: "no jitter first retry", unit: 0.5, n: 1, want: 200 * time.Millisecond},
		{name: "no jitter second retry", unit: 0.5, n: 2, want: 400 * time.Millisecond},
		{name: "capped", unit: 0.5, n: 10, want: time.Second},
		{name: "low jitter", unit: 0, n: 1, want: 150 * time.Millisecond},
		{name: "high jitter on cap", unit: 1, n: 10, want: 1250 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p.unit = func() float64 { return tt.unit }
			assert.Equal(t, tt.want, p.delay(tt.n))
		})
	}
}

type fakeNetError struct{ timeout bool }

func (e fakeNetError) Error() string   { return "fake net error" }
func (e fakeNetError) Timeout() bool   { return e.timeout }
func (e fakeNetError) Temporary() bool { return false }

func TestTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "canceled", err: context.Canceled, want: false},
		{name: "deadline", err: context.DeadlineExceeded, want: false},
		{name: "network timeout", err: fakeNetError{timeout: true}, want: true},
		{name: "other network error", err: fakeNetError{}, want: false},
		{name: "connection refused", err: &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, transient(tt.err))
		})
	}
}
