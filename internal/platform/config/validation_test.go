package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a configuration that passes Validate.
func validConfig() *Config {
	return &Config{
		App: AppConfig{Name: "horoscope-test", Version: "1.0.0", Environment: "local"},
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxRequestSize:  DefaultMaxRequestSize,
		},
		Log: LogConfig{Level: "info", Format: "json"},
		Client: ClientConfig{
			Timeout: 30 * time.Second,
			Retry: RetryConfig{
				MaxAttempts:     DefaultClientRetryMaxAttempts,
				InitialInterval: 100 * time.Millisecond,
				MaxInterval:     5 * time.Second,
				Multiplier:      DefaultClientRetryMultiplier,
				JitterFactor:    DefaultClientRetryJitterFactor,
			},
			CircuitBreaker: CircuitBreakerConfig{
				MaxFailures:   DefaultClientCircuitMaxFailures,
				Timeout:       30 * time.Second,
				HalfOpenLimit: DefaultClientCircuitHalfOpenLimit,
			},
			Transport: TransportConfig{
				MaxIdleConns:        DefaultTransportMaxIdleConns,
				MaxIdleConnsPerHost: DefaultTransportMaxIdleConnsPerHost,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		Auth: AuthConfig{Mode: "none"},
		Fortune: FortuneConfig{
			Timezone:            DefaultTimezone,
			UnlockCost:          DefaultUnlockCost,
			DefaultSource:       "template",
			OverviewConcurrency: DefaultOverviewConcurrency,
		},
		Oracle: OracleConfig{
			Model:       DefaultOracleModel,
			Temperature: DefaultOracleTemperature,
			Timeout:     45 * time.Second,
		},
		Profiles: ProfilesConfig{Driver: "none", Table: "profiles"},
	}
}

func TestConfig_Validate_Accepts(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"defaults", func(*Config) {}},
		{"environment prod", func(c *Config) { c.App.Environment = "prod" }},
		{"environment test", func(c *Config) { c.App.Environment = "test" }},
		{"port 1", func(c *Config) { c.Server.Port = 1 }},
		{"port 65535", func(c *Config) { c.Server.Port = 65535 }},
		{"trace level", func(c *Config) { c.Log.Level = "trace" }},
		{"pretty format", func(c *Config) { c.Log.Format = "pretty" }},
		{"file sink off without path", func(c *Config) { c.Log.File.Path = "" }},
		{"file sink on", func(c *Config) {
			c.Log.File = LogFileConfig{Enabled: true, Path: "/var/log/horoscope.log", MaxSizeMB: 100, MaxBackups: 3, MaxAgeDays: 28}
		}},
		{"telemetry off without endpoint", func(c *Config) { c.Telemetry.Endpoint = "" }},
		{"telemetry on", func(c *Config) {
			c.Telemetry = TelemetryConfig{Enabled: true, Endpoint: "http://localhost:4317", ServiceName: "horoscope", SamplingRate: 0.5}
		}},
		{"sampling rate 0", func(c *Config) { c.Telemetry.SamplingRate = 0 }},
		{"sampling rate 1", func(c *Config) { c.Telemetry.SamplingRate = 1 }},
		{"jwt with secret", func(c *Config) { c.Auth.Mode = "jwt"; c.Auth.JWTSecret = "super-secret" }},
		{"gateway with header", func(c *Config) { c.Auth.Mode = "gateway"; c.Auth.SubjectHeader = "X-User-ID" }},
		{"llm default source", func(c *Config) { c.Fortune.DefaultSource = "llm" }},
		{"concurrency 12", func(c *Config) { c.Fortune.OverviewConcurrency = 12 }},
		{"no api key", func(c *Config) { c.Oracle.APIKey = "" }},
		{"redis on", func(c *Config) {
			c.Redis = RedisConfig{Enabled: true, Addr: "localhost:6379", KeyPrefix: "horoscope"}
		}},
		{"postgres profiles", func(c *Config) {
			c.Profiles.Driver = "postgres"
			c.Profiles.DSN = "postgres://localhost/horoscope"
		}},
		{"rest profiles", func(c *Config) {
			c.Profiles.Driver = "rest"
			c.Profiles.BaseURL = "https://project.example.co"
			c.Profiles.ServiceKey = "service-role"
		}},
		{"one attempt", func(c *Config) { c.Client.Retry.MaxAttempts = 1 }},
		{"ten attempts", func(c *Config) { c.Client.Retry.MaxAttempts = 10 }},
		{"multiplier 1.1", func(c *Config) { c.Client.Retry.Multiplier = 1.1 }},
		{"multiplier 10", func(c *Config) { c.Client.Retry.Multiplier = 10 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.NoError(t, cfg.Validate())
		})
	}
}

func TestConfig_Validate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   []string
	}{
		{"missing name", func(c *Config) { c.App.Name = "" }, []string{"app.name is required"}},
		{"missing version", func(c *Config) { c.App.Version = "" }, []string{"app.version is required"}},
		{"unknown environment", func(c *Config) { c.App.Environment = "staging" },
			[]string{"app.environment must be one of: local dev qa prod test"}},
		{"zero port", func(c *Config) { c.Server.Port = 0 }, []string{"server.port is required"}},
		{"negative port", func(c *Config) { c.Server.Port = -1 }, []string{"server.port must be at least 1"}},
		{"port too high", func(c *Config) { c.Server.Port = 65536 }, []string{"server.port must be at most 65535"}},
		{"missing host", func(c *Config) { c.Server.Host = "" }, []string{"server.host is required"}},
		{"short read timeout", func(c *Config) { c.Server.ReadTimeout = 500 * time.Millisecond },
			[]string{"server.read_timeout must be at least 1s"}},
		{"no request size", func(c *Config) { c.Server.MaxRequestSize = 0 }, []string{"server.max_request_size"}},
		{"unknown level", func(c *Config) { c.Log.Level = "verbose" }, []string{"log.level must be one of"}},
		{"uppercase level", func(c *Config) { c.Log.Level = "DEBUG" }, []string{"log.level"}},
		{"unknown format", func(c *Config) { c.Log.Format = "xml" }, []string{"log.format must be one of"}},
		{"file sink without path", func(c *Config) { c.Log.File.Enabled = true }, []string{"log.file.path is required when"}},
		{"file sink too large", func(c *Config) {
			c.Log.File = LogFileConfig{Enabled: true, Path: "/var/log/horoscope.log", MaxSizeMB: 1025}
		}, []string{"log.file.max_size must be at most 1024"}},
		{"telemetry without endpoint", func(c *Config) {
			c.Telemetry = TelemetryConfig{Enabled: true, ServiceName: "horoscope"}
		}, []string{"telemetry.endpoint is required"}},
		{"telemetry without service name", func(c *Config) {
			c.Telemetry = TelemetryConfig{Enabled: true, Endpoint: "http://localhost:4317"}
		}, []string{"telemetry.service_name is required"}},
		{"telemetry endpoint not a url", func(c *Config) {
			c.Telemetry = TelemetryConfig{Enabled: true, Endpoint: "not-a-url", ServiceName: "horoscope"}
		}, []string{"telemetry.endpoint must be a valid URL"}},
		{"negative sampling rate", func(c *Config) { c.Telemetry.SamplingRate = -0.1 }, []string{"telemetry.sampling_rate"}},
		{"sampling rate above one", func(c *Config) { c.Telemetry.SamplingRate = 1.1 }, []string{"telemetry.sampling_rate"}},
		{"unknown auth mode", func(c *Config) { c.Auth.Mode = "oauth" }, []string{"auth.mode must be one of"}},
		{"jwt without secret", func(c *Config) { c.Auth.Mode = "jwt" }, []string{"auth.jwt_secret is required when"}},
		{"gateway without header", func(c *Config) { c.Auth.Mode = "gateway" }, []string{"auth.subject_header"}},
		{"unknown zone", func(c *Config) { c.Fortune.Timezone = "Mars/Olympus" },
			[]string{"fortune.timezone must be an IANA time zone name"}},
		{"free unlocks", func(c *Config) { c.Fortune.UnlockCost = 0 }, []string{"fortune.unlock_cost"}},
		{"unknown source", func(c *Config) { c.Fortune.DefaultSource = "tarot" }, []string{"fortune.default_source"}},
		{"concurrency above signs", func(c *Config) { c.Fortune.OverviewConcurrency = 13 },
			[]string{"fortune.overview_concurrency must be at most 12"}},
		{"hot oracle", func(c *Config) { c.Oracle.Temperature = 2.5 }, []string{"oracle.temperature must be at most 2"}},
		{"oracle base url", func(c *Config) { c.Oracle.BaseURL = "not a url" }, []string{"oracle.base_url must be a valid URL"}},
		{"redis without addr", func(c *Config) {
			c.Redis = RedisConfig{Enabled: true, KeyPrefix: "horoscope"}
		}, []string{"redis.addr is required"}},
		{"postgres without dsn", func(c *Config) { c.Profiles.Driver = "postgres" }, []string{"profiles.dsn is required"}},
		{"rest without endpoint", func(c *Config) { c.Profiles.Driver = "rest" },
			[]string{"profiles.base_url is required", "profiles.service_key is required"}},
		{"short client timeout", func(c *Config) { c.Client.Timeout = 50 * time.Millisecond }, []string{"client.timeout"}},
		{"no attempts", func(c *Config) { c.Client.Retry.MaxAttempts = 0 }, []string{"client.retry.max_attempts"}},
		{"eleven attempts", func(c *Config) { c.Client.Retry.MaxAttempts = 11 }, []string{"client.retry.max_attempts"}},
		{"short initial interval", func(c *Config) { c.Client.Retry.InitialInterval = 5 * time.Millisecond },
			[]string{"client.retry.initial_interval"}},
		{"short max interval", func(c *Config) { c.Client.Retry.MaxInterval = 50 * time.Millisecond },
			[]string{"client.retry.max_interval"}},
		{"flat multiplier", func(c *Config) { c.Client.Retry.Multiplier = 1.0 }, []string{"client.retry.multiplier"}},
		{"steep multiplier", func(c *Config) { c.Client.Retry.Multiplier = 10.1 }, []string{"client.retry.multiplier"}},
		{"breaker never trips", func(c *Config) { c.Client.CircuitBreaker.MaxFailures = 0 },
			[]string{"client.circuit_breaker.max_failures"}},
		{"short breaker cooldown", func(c *Config) { c.Client.CircuitBreaker.Timeout = 500 * time.Millisecond },
			[]string{"client.circuit_breaker.timeout"}},
		{"no half-open trials", func(c *Config) { c.Client.CircuitBreaker.HalfOpenLimit = 0 },
			[]string{"client.circuit_breaker.half_open_limit"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "config validation failed")
			for _, want := range tt.want {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}

func TestConfig_Validate_ReportsEveryFailure(t *testing.T) {
	cfg := &Config{App: AppConfig{Environment: "staging"}, Server: ServerConfig{Port: -1}}

	err := cfg.Validate()
	require.Error(t, err)

	for _, key := range []string{"app.name", "app.version", "app.environment", "server.port", "server.host"} {
		assert.Contains(t, err.Error(), key)
	}
}

func TestKeyPath(t *testing.T) {
	tests := map[string]string{
		"Config.server.port":                    "server.port",
		"Config.client.retry.max_attempts":      "client.retry.max_attempts",
		"Config.log.file.path":                  "log.file.path",
		"Config.client.circuit_breaker.timeout": "client.circuit_breaker.timeout",
		"Config":                                "Config",
	}

	for namespace, want := range tests {
		t.Run(namespace, func(t *testing.T) {
			assert.Equal(t, want, keyPath(namespace))
		})
	}
}
