package acl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/jsamuelsen/horoscope-service/internal/adapters/clients"
	"github.com/jsamuelsen/horoscope-service/internal/domain"
	"github.com/jsamuelsen/horoscope-service/internal/platform/logging"
	"github.com/jsamuelsen/horoscope-service/internal/platform/telemetry"
	"github.com/jsamuelsen/horoscope-service/internal/ports"
)

// OracleServiceName names the language model in logs, errors and health checks.
const OracleServiceName = "oracle"

const (
	defaultOracleModel       = "gpt-4o-mini"
	defaultOracleTemperature = 0.9
	defaultOracleTimeout     = 45 * time.Second

	defaultOracleMaxFailures   = 5
	defaultOracleCircuitWait   = 30 * time.Second
	defaultOracleHalfOpenLimit = 1
)

var errEmptyCompletion = errors.New("completion has no choices")

// OracleConfig configures an OracleClient.
type OracleConfig struct {
	// APIKey authenticates against the model API. Without it every call
	// fails with ports.ErrWriterNotConfigured.
	APIKey string

	Model       string
	BaseURL     string
	Temperature float64

	// Timeout bounds a single completion.
	Timeout time.Duration

	Circuit clients.CircuitBreakerConfig

	// HTTPClient replaces the SDK's default client, mainly for tests.
	HTTPClient *http.Client

	Metrics *telemetry.FortuneMetrics
	Logger  *slog.Logger
}

// OracleClient implements ports.FortuneWriter with OpenAI Chat Completions
// and strict JSON schema output.
type OracleClient struct {
	client      openai.Client
	model       string
	temperature float64
	timeout     time.Duration
	configured  bool
	cb          *clients.CircuitBreaker
	metrics     *telemetry.FortuneMetrics
	logger      *slog.Logger
}

// NewOracleClient creates the language model adapter. SDK retries are
// disabled; the circuit breaker decides when to stop calling.
func NewOracleClient(cfg OracleConfig) *OracleClient {
	if cfg.Model == "" {
		cfg.Model = defaultOracleModel
	}

	if cfg.Temperature <= 0 {
		cfg.Temperature = defaultOracleTemperature
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultOracleTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger = logger.With(slog.String("component", "acl.OracleClient"))

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}

	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")+"/"))
	}

	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	circuit := cfg.Circuit
	if circuit.MaxFailures <= 0 {
		circuit.MaxFailures = defaultOracleMaxFailures
	}

	if circuit.Timeout <= 0 {
		circuit.Timeout = defaultOracleCircuitWait
	}

	if circuit.HalfOpenLimit <= 0 {
		circuit.HalfOpenLimit = defaultOracleHalfOpenLimit
	}

	cb := clients.NewCircuitBreaker(circuit)
	cb.OnStateChange(func(from, to clients.State) {
		logger.Warn("circuit breaker state changed",
			slog.String("from", from.String()),
			slog.String("to", to.String()),
		)
	})

	return &OracleClient{
		client:      openai.NewClient(opts...),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
		configured:  cfg.APIKey != "",
		cb:          cb,
		metrics:     cfg.Metrics,
		logger:      logger,
	}
}

// Name implements ports.HealthChecker.
func (c *OracleClient) Name() string {
	return OracleServiceName
}

// Check implements ports.HealthChecker. It reports the circuit state only;
// a missing API key does not make the service unready.
func (c *OracleClient) Check(_ context.Context) error {
	if c.cb.State() == clients.StateOpen {
		return clients.ErrCircuitOpen
	}

	return nil
}

const fortuneSystemPrompt = `あなたは日本語で書く占い師です。やさしく前向きに、断定しすぎず、今日できる行動に落とし込んでください。
不安を煽る表現、病気や投資についての断定、強いスピリチュアルな断言は避けてください。
出力は指定された JSON スキーマに厳密に従ってください。`

// WriteFortune implements ports.FortuneWriter.
func (c *OracleClient) WriteFortune(ctx context.Context, req ports.FortuneRequest) (*domain.Fortune, error) {
	detail := "full は各項目3〜4文で具体的に書く。"
	if !req.Paid {
		detail = "full は各項目1文の要点だけにする。"
	}

	user := fmt.Sprintf(`日付: %s
星座: %s (%s)

- digest.theme は「〜の日」のように短く。
- digest.oneLine は1〜2文で心に残る一言。
- scores は各1〜5の整数。
- tips.action と tips.caution は具体的な行動。
- tips.lucky は color / item / time (HH:MM) をすべて埋める。
- %s`, req.DateKey, req.Sign.Label, req.Sign.Key, detail)

	content, err := c.complete(ctx, "fortune", "fortune", fortuneSchema(), fortuneSystemPrompt, user)
	if err != nil {
		return nil, err
	}

	raw, err := DecodeJSON[rawFortune](content)
	if err != nil {
		return nil, domain.NewUnavailableError(OracleServiceName, err.Error())
	}

	fortune, err := translateFortune(raw, req.Sign.Key, req.DateKey)
	if err != nil {
		return nil, domain.NewUnavailableError(OracleServiceName, err.Error())
	}

	return fortune, nil
}

const readingSystemPrompt = `あなたは上品でロジカルな占いの書き手です。出力は JSON のみで、コードブロックは使いません。
恐怖や不安に訴える表現は禁止です。言い切らず「〜しやすい」「〜が吉」くらいの強さで書いてください。

access_level が free のときは free.one_line と free.lucky(color, item) だけを書きます。
access_level が paid のときは paid の4カテゴリと lucky だけを書きます。
本文に星の記号(★)を入れないでください。

stars_5 は0〜5で、低いほど守り・整理・減らす、高いほど推進・決断・攻めの助言にします。
0〜1でも価値が下がらないよう、代わりの案や手順を必ず添えてください。

医療・法律・投資について断定的な助言はしません。ユーザーが書いていない個人情報を推測しません。`

// readingInput is sent to the model as the user message.
type readingInput struct {
	SchemaVersion string `json:"schema_version"`
	DateKey       string `json:"date_key"`
	SignKey       string `json:"sign_key"`
	SignLabel     string `json:"sign_label"`
	AccessLevel   string `json:"access_level"`
	UserContext   string `json:"user_context"`
}

// WriteReading implements ports.FortuneWriter.
func (c *OracleClient) WriteReading(ctx context.Context, req ports.ReadingRequest) (*domain.Reading, error) {
	level := req.Level
	if level != domain.AccessPaid {
		level = domain.AccessFree
	}

	meta := domain.NewReadingMeta(req.DateKey, req.Sign, level)

	input, err := json.Marshal(readingInput{
		SchemaVersion: domain.ReadingSchemaVersion,
		DateKey:       meta.DateKey,
		SignKey:       meta.SignKey,
		SignLabel:     meta.SignLabel,
		AccessLevel:   string(level),
		UserContext:   req.UserContext,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding reading input: %w", err)
	}

	schemaName, schema := "reading_free", freeReadingSchema()
	if level == domain.AccessPaid {
		schemaName, schema = "reading_paid", paidReadingSchema()
	}

	content, err := c.complete(ctx, "reading_"+string(level), schemaName, schema, readingSystemPrompt, string(input))
	if err != nil {
		return nil, err
	}

	raw, err := DecodeJSON[rawReading](content)
	if err != nil {
		return nil, domain.NewUnavailableError(OracleServiceName, err.Error())
	}

	reading, err := translateReading(raw, level, meta)
	if err != nil {
		return nil, domain.NewUnavailableError(OracleServiceName, "unusable reading: "+err.Error())
	}

	return reading, nil
}

// complete runs one chat completion and returns the message content.
func (c *OracleClient) complete(ctx context.Context, kind, schemaName string, schema map[string]any, system, user string) (string, error) {
	if !c.configured {
		return "", ports.ErrWriterNotConfigured
	}

	logger := c.logger.With(
		slog.String("downstream", OracleServiceName),
		slog.String("kind", kind),
		slog.String("model", c.model),
	)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var content string

	start := time.Now()
	err := c.cb.Run(ctx, func(ctx context.Context) error {
		resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Model: openai.ChatModel(c.model),
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.SystemMessage(system),
				openai.UserMessage(user),
			},
			Temperature: openai.Float(c.temperature),
			ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
				OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
					JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
						Name:   schemaName,
						Schema: schema,
						Strict: openai.Bool(true),
					},
				},
			},
		})
		if err != nil {
			return err
		}

		if len(resp.Choices) == 0 {
			return errEmptyCompletion
		}

		msg := resp.Choices[0].Message
		if msg.Refusal != "" {
			return fmt.Errorf("model refused: %s", msg.Refusal)
		}

		content = msg.Content

		return nil
	})
	elapsed := time.Since(start)

	if err != nil {
		c.metrics.OracleCall(kind, "error", elapsed.Seconds())
		logger.ErrorContext(ctx, "completion failed",
			slog.Duration("duration", elapsed),
			slog.Any("error", err),
		)

		return "", MapUpstreamError(err, OracleServiceName, kind, "")
	}

	c.metrics.OracleCall(kind, "ok", elapsed.Seconds())
	logger.DebugContext(ctx, "completion received",
		slog.Duration("duration", elapsed),
		slog.Int("bytes", len(content)),
	)
	logger.Log(ctx, logging.LevelTrace, "completion content", slog.String("content", content))

	return content, nil
}
