// Package config loads the horoscope service configuration with koanf.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Defaults that other packages and the tests refer to by name. Durations
// live in defaults() as strings.
const (
	DefaultServerPort     = 8080
	DefaultMaxRequestSize = 1 << 20

	DefaultClientRetryMaxAttempts     = 3
	DefaultClientRetryMultiplier      = 2.0
	DefaultClientRetryJitterFactor    = 0.25 // ±25%
	DefaultClientCircuitMaxFailures   = 5
	DefaultClientCircuitHalfOpenLimit = 3

	DefaultTransportMaxIdleConns        = 100
	DefaultTransportMaxIdleConnsPerHost = 10

	DefaultLogFileMaxSizeMB  = 100
	DefaultLogFileMaxBackups = 3
	DefaultLogFileMaxAgeDays = 28

	// DefaultTimezone decides what "today" is for every reader.
	DefaultTimezone = "Asia/Tokyo"

	// DefaultUnlockCost is the points spent to unlock one full reading.
	DefaultUnlockCost = 1

	DefaultOracleModel = "gpt-4o-mini"
	// DefaultOracleTemperature matches the hosted endpoint's sampling.
	DefaultOracleTemperature = 0.9

	// DefaultOverviewConcurrency bounds parallel generation for the overview.
	DefaultOverviewConcurrency = 4
)

// Config is the root configuration structure.
type Config struct {
	App       AppConfig       `koanf:"app"       validate:"required"`
	Server    ServerConfig    `koanf:"server"    validate:"required"`
	Log       LogConfig       `koanf:"log"       validate:"required"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Auth      AuthConfig      `koanf:"auth"`
	Client    ClientConfig    `koanf:"client"    validate:"required"`
	Fortune   FortuneConfig   `koanf:"fortune"   validate:"required"`
	Oracle    OracleConfig    `koanf:"oracle"    validate:"required"`
	Redis     RedisConfig     `koanf:"redis"`
	Profiles  ProfilesConfig  `koanf:"profiles"  validate:"required"`
	CORS      CORSConfig      `koanf:"cors"`
	Features  map[string]bool `koanf:"features"`
}

// AppConfig contains application-level settings.
type AppConfig struct {
	Name        string `koanf:"name"        validate:"required"`
	Version     string `koanf:"version"     validate:"required"`
	Environment string `koanf:"environment" validate:"required,oneof=local dev qa prod test"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"             validate:"required,min=1,max=65535"`
	Host            string        `koanf:"host"             validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"required,min=1s"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"required,min=1s"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"     validate:"required,min=1s"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"required,min=1s"`
	MaxRequestSize  int64         `koanf:"max_request_size" validate:"required,min=1"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string        `koanf:"level"  validate:"required,oneof=trace debug info warn error"`
	Format string        `koanf:"format" validate:"required,oneof=json text pretty"`
	File   LogFileConfig `koanf:"file"`
}

// LogFileConfig contains rolling log file settings.
type LogFileConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"        validate:"required_if=Enabled true"`
	MaxSizeMB  int    `koanf:"max_size"    validate:"omitempty,min=1,max=1024"`
	MaxBackups int    `koanf:"max_backups" validate:"omitempty,min=0,max=100"`
	MaxAgeDays int    `koanf:"max_age"     validate:"omitempty,min=0,max=365"`
	Compress   bool   `koanf:"compress"`
}

// TelemetryConfig points the OTLP exporters at a collector.
type TelemetryConfig struct {
	Enabled      bool    `koanf:"enabled"`
	Endpoint     string  `koanf:"endpoint"      validate:"required_if=Enabled true,omitempty,url"`
	ServiceName  string  `koanf:"service_name"  validate:"required_if=Enabled true"`
	SamplingRate float64 `koanf:"sampling_rate" validate:"min=0,max=1"`
}

// AuthConfig selects how callers are identified.
//
// Mode "jwt" verifies HS256 bearer tokens issued by the hosted auth service.
// Mode "gateway" trusts identity headers set by an upstream gateway.
// Mode "none" treats every caller as anonymous.
type AuthConfig struct {
	Mode          string `koanf:"mode"           validate:"required,oneof=none gateway jwt"`
	JWTSecret     string `koanf:"jwt_secret"     validate:"required_if=Mode jwt"`
	Issuer        string `koanf:"issuer"`
	Audience      string `koanf:"audience"`
	RolesHeader   string `koanf:"roles_header"`
	SubjectHeader string `koanf:"subject_header" validate:"required_if=Mode gateway"`
}

// ClientConfig is shared by the profile REST client and the model client.
type ClientConfig struct {
	Timeout        time.Duration        `koanf:"timeout"         validate:"required,min=100ms"`
	Retry          RetryConfig          `koanf:"retry"           validate:"required"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker" validate:"required"`
	Transport      TransportConfig      `koanf:"transport"       validate:"required"`
}

// RetryConfig shapes the exponential backoff between attempts.
type RetryConfig struct {
	MaxAttempts     int           `koanf:"max_attempts"     validate:"required,min=1,max=10"`
	InitialInterval time.Duration `koanf:"initial_interval" validate:"required,min=10ms"`
	MaxInterval     time.Duration `koanf:"max_interval"     validate:"required,min=100ms"`
	Multiplier      float64       `koanf:"multiplier"       validate:"required,min=1.1,max=10"`
	JitterFactor    float64       `koanf:"jitter_factor"    validate:"min=0,max=1"`
}

// CircuitBreakerConfig trips after MaxFailures consecutive failures and
// lets HalfOpenLimit trial calls through once Timeout has passed.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"    validate:"required,min=1"`
	Timeout       time.Duration `koanf:"timeout"         validate:"required,min=1s"`
	HalfOpenLimit int           `koanf:"half_open_limit" validate:"required,min=1"`
}

// TransportConfig sizes the idle connection pool.
type TransportConfig struct {
	MaxIdleConns        int           `koanf:"max_idle_conns"          validate:"required,min=1"`
	MaxIdleConnsPerHost int           `koanf:"max_idle_conns_per_host" validate:"required,min=1"`
	IdleConnTimeout     time.Duration `koanf:"idle_conn_timeout"       validate:"required,min=1s"`
}

// FortuneConfig contains settings of the fortune product itself.
type FortuneConfig struct {
	Timezone            string `koanf:"timezone"             validate:"required,timezone"`
	UnlockCost          int    `koanf:"unlock_cost"          validate:"required,min=1"`
	DefaultSource       string `koanf:"default_source"       validate:"required,oneof=template llm"`
	OverviewConcurrency int    `koanf:"overview_concurrency" validate:"required,min=1,max=12"`
}

// Location resolves Timezone. It falls back to UTC on error; Validate
// rejects unknown zones before this is reached.
func (f FortuneConfig) Location() *time.Location {
	loc, err := time.LoadLocation(f.Timezone)
	if err != nil {
		return time.UTC
	}

	return loc
}

// OracleConfig contains settings for the language model writer.
// An empty APIKey is allowed at startup; requests that need the model then fail.
type OracleConfig struct {
	APIKey      string        `koanf:"api_key"`
	Model       string        `koanf:"model"       validate:"required"`
	BaseURL     string        `koanf:"base_url"    validate:"omitempty,url"`
	Temperature float64       `koanf:"temperature" validate:"min=0,max=2"`
	Timeout     time.Duration `koanf:"timeout"     validate:"required,min=1s"`
	CacheTTL    time.Duration `koanf:"cache_ttl"   validate:"min=0"`
}

// RedisConfig contains settings for the points ledger and fortune cache.
// When disabled an in-process store is used.
type RedisConfig struct {
	Enabled   bool          `koanf:"enabled"`
	Addr      string        `koanf:"addr"       validate:"required_if=Enabled true"`
	Password  string        `koanf:"password"`
	DB        int           `koanf:"db"         validate:"min=0,max=15"`
	KeyPrefix string        `koanf:"key_prefix" validate:"required_if=Enabled true"`
	UnlockTTL time.Duration `koanf:"unlock_ttl" validate:"min=0"`
}

// ProfilesConfig selects where the paid profile flag is read from.
type ProfilesConfig struct {
	Driver     string `koanf:"driver"      validate:"required,oneof=none postgres rest"`
	DSN        string `koanf:"dsn"         validate:"required_if=Driver postgres"`
	BaseURL    string `koanf:"base_url"    validate:"required_if=Driver rest,omitempty,url"`
	ServiceKey string `koanf:"service_key" validate:"required_if=Driver rest"`
	Table      string `koanf:"table"       validate:"required"`
}

// CORSConfig contains cross-origin settings for browser clients.
type CORSConfig struct {
	AllowOrigins []string      `koanf:"allow_origins"`
	AllowHeaders []string      `koanf:"allow_headers"`
	MaxAge       time.Duration `koanf:"max_age"`
}

// defaults is the lowest configuration layer.
func defaults() map[string]any {
	return map[string]any{
		"app.name":        "horoscope-service",
		"app.version":     "dev",
		"app.environment": "local",

		"server.port":             DefaultServerPort,
		"server.host":             "0.0.0.0",
		"server.read_timeout":     "30s",
		"server.write_timeout":    "60s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "10s",
		"server.max_request_size": DefaultMaxRequestSize,

		"log.level":            "info",
		"log.format":           "json",
		"log.file.enabled":     false,
		"log.file.path":        "./logs/horoscope.log",
		"log.file.max_size":    DefaultLogFileMaxSizeMB,
		"log.file.max_backups": DefaultLogFileMaxBackups,
		"log.file.max_age":     DefaultLogFileMaxAgeDays,
		"log.file.compress":    true,

		"telemetry.enabled":       false,
		"telemetry.endpoint":      "",
		"telemetry.service_name":  "horoscope-service",
		"telemetry.sampling_rate": 1.0,

		"auth.mode":           "none",
		"auth.jwt_secret":     "",
		"auth.issuer":         "",
		"auth.audience":       "authenticated",
		"auth.roles_header":   "X-User-Roles",
		"auth.subject_header": "X-User-ID",

		"client.timeout":                           "30s",
		"client.retry.max_attempts":                DefaultClientRetryMaxAttempts,
		"client.retry.initial_interval":            "100ms",
		"client.retry.max_interval":                "5s",
		"client.retry.multiplier":                  DefaultClientRetryMultiplier,
		"client.retry.jitter_factor":               DefaultClientRetryJitterFactor,
		"client.circuit_breaker.max_failures":      DefaultClientCircuitMaxFailures,
		"client.circuit_breaker.timeout":           "30s",
		"client.circuit_breaker.half_open_limit":   DefaultClientCircuitHalfOpenLimit,
		"client.transport.max_idle_conns":          DefaultTransportMaxIdleConns,
		"client.transport.max_idle_conns_per_host": DefaultTransportMaxIdleConnsPerHost,
		"client.transport.idle_conn_timeout":       "90s",

		"fortune.timezone":             DefaultTimezone,
		"fortune.unlock_cost":          DefaultUnlockCost,
		"fortune.default_source":       "template",
		"fortune.overview_concurrency": DefaultOverviewConcurrency,

		"oracle.api_key":     "",
		"oracle.model":       DefaultOracleModel,
		"oracle.base_url":    "",
		"oracle.temperature": DefaultOracleTemperature,
		"oracle.timeout":     "45s",
		"oracle.cache_ttl":   "36h",

		"redis.enabled":    false,
		"redis.addr":       "localhost:6379",
		"redis.password":   "",
		"redis.db":         0,
		"redis.key_prefix": "horoscope",
		"redis.unlock_ttl": "72h",

		"profiles.driver":      "none",
		"profiles.dsn":         "",
		"profiles.base_url":    "",
		"profiles.service_key": "",
		"profiles.table":       "profiles",

		"cors.allow_origins": []string{"*"},
		"cors.allow_headers": []string{"authorization", "x-client-info", "apikey", "content-type"},
		"cors.max_age":       "10m",

		"features.llm-fortunes": false,
	}
}

// Load layers, lowest first: defaults(), configs/base.yaml,
// configs/<profile>.yaml, the OPENAI_ variables the hosted endpoint read,
// then APP_ variables. It does not validate; call Validate on the result.
func Load(profile string) (*Config, error) {
	k := koanf.New(".")

	err := k.Load(confmap.Provider(defaults(), "."), nil)
	if err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	err = loadFileIfExists(k, "configs/base.yaml")
	if err != nil {
		return nil, fmt.Errorf("loading base config: %w", err)
	}

	if profile != "" {
		profilePath := fmt.Sprintf("configs/%s.yaml", profile)

		err := loadFileIfExists(k, profilePath)
		if err != nil {
			return nil, fmt.Errorf("loading profile config %q: %w", profile, err)
		}
	}

	err = k.Load(env.Provider("OPENAI_", ".", openAIEnvKey), nil)
	if err != nil {
		return nil, fmt.Errorf("loading OPENAI env vars: %w", err)
	}

	err = k.Load(env.Provider("APP_", ".", envKeyMapper(k.Keys())), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	var cfg Config

	err = k.Unmarshal("", &cfg)
	if err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return &cfg, nil
}

// openAIEnvKey maps the environment variables the hosted endpoint used.
// Unknown OPENAI_ variables are skipped.
func openAIEnvKey(s string) string {
	switch s {
	case "OPENAI_API_KEY":
		return "oracle.api_key"
	case "OPENAI_MODEL":
		return "oracle.model"
	case "OPENAI_BASE_URL":
		return "oracle.base_url"
	default:
		return ""
	}
}

// envKeyMapper turns APP_ORACLE_API_KEY into oracle.api_key when that key is
// known, so keys that contain underscores stay reachable from the
// environment. Unknown names fall back to replacing every underscore.
func envKeyMapper(known []string) func(string) string {
	flat := make(map[string]string, len(known))
	for _, key := range known {
		flat[strings.NewReplacer(".", "_", "-", "_").Replace(key)] = key
	}

	return func(s string) string {
		name := strings.ToLower(strings.TrimPrefix(s, "APP_"))
		if key, ok := flat[name]; ok {
			return key
		}

		return strings.ReplaceAll(name, "_", ".")
	}
}

// loadFileIfExists skips a missing file. A malformed one is an error.
func loadFileIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return k.Load(file.Provider(path), yaml.Parser())
}
