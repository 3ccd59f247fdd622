package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	appctx "github.com/jsamuelsen/horoscope-service/internal/app/context"
	"github.com/jsamuelsen/horoscope-service/internal/domain"
	"github.com/jsamuelsen/horoscope-service/internal/fortune"
	"github.com/jsamuelsen/horoscope-service/internal/platform/telemetry"
	"github.com/jsamuelsen/horoscope-service/internal/ports"
)

// DailyQuery selects one sign's fortune for a reader.
type DailyQuery struct {
	Sign    domain.Sign
	DateKey string

	// UserID is empty for anonymous readers.
	UserID string

	// Source is empty for the configured default.
	Source domain.Source
}

// FortuneView is a fortune as a particular reader may see it.
// When Locked is true, Fortune.Full is empty.
type FortuneView struct {
	Fortune domain.Fortune
	Sign    domain.Sign
	Source  domain.Source
	Access  domain.AccessLevel
	Locked  bool
}

// SignDigest is one row of the daily overview.
type SignDigest struct {
	Sign   domain.Sign
	Digest domain.Digest
}

// GenerateRequest asks for a language model fortune.
type GenerateRequest struct {
	SignKey string
	DateKey string
	Paid    bool
}

// ReadingQuery asks for a structured reading. DesiredLevel is a client hint;
// the paid level is granted only when the profile store confirms it.
type ReadingQuery struct {
	Sign         domain.Sign
	DateKey      string
	DesiredLevel domain.AccessLevel
	UserID       string
	UserContext  string
}

// FortuneServiceConfig holds the dependencies of FortuneService.
// Profiles and Ledger are required.
type FortuneServiceConfig struct {
	Writer   ports.FortuneWriter
	Profiles ports.ProfileStore
	Ledger   ports.PointsLedger
	Cache    ports.Cache
	Flags    ports.FeatureFlags
	Metrics  *telemetry.FortuneMetrics
	Logger   *slog.Logger

	DefaultSource       domain.Source
	CacheTTL            time.Duration
	OverviewConcurrency int
}

// FortuneService serves daily fortunes and readings.
type FortuneService struct {
	writer   ports.FortuneWriter
	profiles ports.ProfileStore
	ledger   ports.PointsLedger
	cache    ports.Cache
	flags    ports.FeatureFlags
	metrics  *telemetry.FortuneMetrics
	exec     *Executor
	logger   *slog.Logger

	defaultSource domain.Source
	cacheTTL      time.Duration
	overviewLimit int
}

// NewFortuneService creates the service. It panics when a required
// dependency is missing.
func NewFortuneService(cfg FortuneServiceConfig) *FortuneService {
	if cfg.Profiles == nil {
		panic("app: FortuneServiceConfig.Profiles is required")
	}

	if cfg.Ledger == nil {
		panic("app: FortuneServiceConfig.Ledger is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	source := cfg.DefaultSource
	if source == "" {
		source = domain.SourceTemplate
	}

	limit := cfg.OverviewConcurrency
	if limit < 1 {
		limit = 4
	}

	logger = logger.With(slog.String("component", "app.FortuneService"))

	return &FortuneService{
		writer:        cfg.Writer,
		profiles:      cfg.Profiles,
		ledger:        cfg.Ledger,
		cache:         cfg.Cache,
		flags:         cfg.Flags,
		metrics:       cfg.Metrics,
		exec:          NewExecutor(logger),
		logger:        logger,
		defaultSource: source,
		cacheTTL:      cfg.CacheTTL,
		overviewLimit: limit,
	}
}

// Daily returns q.Sign's fortune for q.DateKey. The full section is withheld
// unless the reader's profile is paid or they unlocked this date and sign.
func (s *FortuneService) Daily(ctx context.Context, q DailyQuery) (*FortuneView, error) {
	if _, err := domain.ParseDateKey(q.DateKey); err != nil {
		return nil, err
	}

	source := q.Source
	if source == "" {
		source = s.defaultSource
	}

	if source == domain.SourceLLM && !s.llmEnabled(ctx) {
		return nil, domain.NewForbiddenError("llm fortune", "feature disabled")
	}

	access, err := s.access(ctx, q.UserID, q.DateKey, q.Sign.Key)
	if err != nil {
		return nil, fmt.Errorf("resolving access: %w", err)
	}

	var f domain.Fortune

	switch source {
	case domain.SourceLLM:
		generated, err := s.Generate(ctx, GenerateRequest{
			SignKey: q.Sign.Key,
			DateKey: q.DateKey,
			Paid:    access == domain.AccessPaid,
		})
		if err != nil {
			return nil, err
		}

		f = *generated
	default:
		f = fortune.Build(q.Sign.Key, q.DateKey)
	}

	view := &FortuneView{
		Fortune: f,
		Sign:    q.Sign,
		Source:  source,
		Access:  access,
	}

	if access != domain.AccessPaid {
		view.Fortune.Full = domain.Full{}
		view.Locked = true
	}

	s.metrics.FortuneServed(string(source), string(access))

	return view, nil
}

// Overview returns the free digest of every sign for dateKey.
func (s *FortuneService) Overview(ctx context.Context, dateKey string) ([]SignDigest, error) {
	if _, err := domain.ParseDateKey(dateKey); err != nil {
		return nil, err
	}

	signs := domain.Signs()
	fns := make([]func(context.Context) (SignDigest, error), len(signs))

	for i, sign := range signs {
		fns[i] = func(ctx context.Context) (SignDigest, error) {
			if err := ctx.Err(); err != nil {
				return SignDigest{}, err
			}

			return SignDigest{Sign: sign, Digest: fortune.Digest(sign.Key, dateKey)}, nil
		}
	}

	return ParallelLimit(ctx, s.overviewLimit, fns...)
}

type generated struct {
	fortune *domain.Fortune
	cached  bool
}

// Generate returns a language model fortune. A day's text is cached per
// sign, date and level so repeated calls agree.
func (s *FortuneService) Generate(ctx context.Context, req GenerateRequest) (*domain.Fortune, error) {
	var sign domain.Sign

	op := Operation[GenerateRequest, generated, generated, *domain.Fortune]{
		Name: "GenerateFortune",
		Validate: func(_ context.Context, in GenerateRequest) error {
			if s.writer == nil {
				return ports.ErrWriterNotConfigured
			}

			var err error
			if sign, err = domain.ParseSign(in.SignKey); err != nil {
				return err
			}

			_, err = domain.ParseDateKey(in.DateKey)

			return err
		},
		Perform: func(ctx context.Context, in GenerateRequest) (generated, error) {
			if f, ok := s.cachedFortune(ctx, in); ok {
				return generated{fortune: f, cached: true}, nil
			}

			f, err := s.writer.WriteFortune(ctx, ports.FortuneRequest{
				Sign:    sign,
				DateKey: in.DateKey,
				Paid:    in.Paid,
			})
			if err != nil {
				return generated{}, err
			}

			return generated{fortune: f}, nil
		},
		Verify: func(_ context.Context, in GenerateRequest, g generated) (generated, error) {
			return g, verifyFortune(g.fortune, in)
		},
		Archive: func(ctx context.Context, in GenerateRequest, g generated) error {
			if g.cached {
				return nil
			}

			s.storeFortune(ctx, in, g.fortune)

			return nil
		},
		Respond: func(_ context.Context, _ GenerateRequest, g generated) (*domain.Fortune, error) {
			return g.fortune, nil
		},
	}

	return Execute(ctx, s.exec, op, req)
}

// Reading returns a structured reading at the level the reader is entitled to.
func (s *FortuneService) Reading(ctx context.Context, q ReadingQuery) (*domain.Reading, error) {
	if s.writer == nil {
		return nil, ports.ErrWriterNotConfigured
	}

	if _, err := domain.ParseDateKey(q.DateKey); err != nil {
		return nil, err
	}

	level := domain.AccessFree

	if q.DesiredLevel == domain.AccessPaid && q.UserID != "" {
		paid, err := s.profilePaid(ctx, q.UserID)
		if err != nil {
			return nil, fmt.Errorf("checking profile: %w", err)
		}

		if paid {
			level = domain.AccessPaid
		}
	}

	reading, err := s.writer.WriteReading(ctx, ports.ReadingRequest{
		Sign:        q.Sign,
		DateKey:     q.DateKey,
		Level:       level,
		UserContext: q.UserContext,
	})
	if err != nil {
		return nil, err
	}

	if err := reading.Normalize(level, domain.NewReadingMeta(q.DateKey, q.Sign, level)); err != nil {
		return nil, domain.NewUnavailableError("oracle", err.Error())
	}

	s.metrics.FortuneServed("reading", string(level))

	return reading, nil
}

func (s *FortuneService) llmEnabled(ctx context.Context) bool {
	return s.flags != nil && s.flags.IsEnabled(ctx, ports.FlagLLMFortunes, false)
}

// access resolves the reader's level for one date and sign. The profile and
// unlock lookups run concurrently.
func (s *FortuneService) access(ctx context.Context, userID, dateKey, signKey string) (domain.AccessLevel, error) {
	if userID == "" {
		return domain.AccessFree, nil
	}

	paid, unlocked, err := Parallel2(ctx,
		func(ctx context.Context) (bool, error) { return s.profilePaid(ctx, userID) },
		func(ctx context.Context) (bool, error) { return s.ledger.IsUnlocked(ctx, userID, dateKey, signKey) },
	)
	if err != nil {
		return "", err
	}

	if paid || unlocked {
		return domain.AccessPaid, nil
	}

	return domain.AccessFree, nil
}

// profileFlag memoises the paid profile flag for the request.
type profileFlag struct {
	store  ports.ProfileStore
	userID string
}

func (p profileFlag) Key() string { return "profile:" + p.userID }

func (p profileFlag) Fetch(ctx context.Context) (bool, error) {
	return p.store.OverallUnlocked(ctx, p.userID)
}

func (s *FortuneService) profilePaid(ctx context.Context, userID string) (bool, error) {
	return appctx.Get[bool](appctx.Ensure(ctx), profileFlag{store: s.profiles, userID: userID})
}

func fortuneCacheKey(in GenerateRequest) string {
	level := domain.AccessFree
	if in.Paid {
		level = domain.AccessPaid
	}

	return fmt.Sprintf("fortune:%s:%s:%s:%s", domain.SourceLLM, in.SignKey, in.DateKey, level)
}

func (s *FortuneService) cachedFortune(ctx context.Context, in GenerateRequest) (*domain.Fortune, bool) {
	if s.cache == nil {
		return nil, false
	}

	raw, err := s.cache.Get(ctx, fortuneCacheKey(in))
	if err != nil {
		if !domain.IsNotFound(err) {
			s.logger.WarnContext(ctx, "fortune cache read failed", slog.Any("error", err))
		}

		return nil, false
	}

	var f domain.Fortune
	if err := json.Unmarshal(raw, &f); err != nil {
		s.logger.WarnContext(ctx, "discarding unreadable cached fortune", slog.Any("error", err))
		return nil, false
	}

	return &f, true
}

// storeFortune caches f. A cache failure only costs a regenerated text later.
func (s *FortuneService) storeFortune(ctx context.Context, in GenerateRequest, f *domain.Fortune) {
	if s.cache == nil {
		return
	}

	raw, err := json.Marshal(f)
	if err != nil {
		s.logger.WarnContext(ctx, "encoding fortune for cache", slog.Any("error", err))
		return
	}

	if err := s.cache.Set(ctx, fortuneCacheKey(in), raw, s.cacheTTL); err != nil {
		s.logger.WarnContext(ctx, "fortune cache write failed", slog.Any("error", err))
	}
}

func verifyFortune(f *domain.Fortune, in GenerateRequest) error {
	if f == nil {
		return domain.NewUnavailableError("oracle", "empty fortune")
	}

	if f.Date != in.DateKey || f.SignKey != in.SignKey {
		return domain.NewUnavailableError("oracle",
			fmt.Sprintf("fortune for %s/%s returned for %s/%s", f.SignKey, f.Date, in.SignKey, in.DateKey))
	}

	if f.Digest.Theme == "" || f.Digest.OneLine == "" {
		return domain.NewUnavailableError("oracle", "fortune digest incomplete")
	}

	if f.Digest.Scores != f.Digest.Scores.ClampScores() {
		return domain.NewUnavailableError("oracle", "fortune scores out of range")
	}

	return nil
}
