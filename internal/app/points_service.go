package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	appctx "github.com/jsamuelsen/horoscope-service/internal/app/context"
	"github.com/jsamuelsen/horoscope-service/internal/domain"
	"github.com/jsamuelsen/horoscope-service/internal/platform/telemetry"
	"github.com/jsamuelsen/horoscope-service/internal/ports"
)

// Point packs a reader can buy. Payment itself happens elsewhere.
var purchasePacks = map[int]bool{1: true, 10: true}

// Unlock outcomes, also used as metric labels.
const (
	UnlockResultUnlocked = "unlocked"
	UnlockResultAlready  = "already"
	UnlockResultNoPoints = domain.ReasonNoPoints
)

// errRaceLost is returned by the mark action when a concurrent request
// unlocked the same pair first.
var errRaceLost = errors.New("unlock recorded by a concurrent request")

// PurchaseRequest buys a pack of points.
type PurchaseRequest struct {
	UserID string
	Pack   int
}

// PurchaseResult is the balance after a purchase.
type PurchaseResult struct {
	Added   int64
	Balance int64
}

// UnlockRequest spends points on one date and sign.
type UnlockRequest struct {
	UserID  string
	Sign    domain.Sign
	DateKey string
}

// UnlockResult reports an unlock. Already is true when nothing was spent.
type UnlockResult struct {
	Already bool
	Spent   int64
	Balance int64
}

// PointsServiceConfig holds the dependencies of PointsService.
type PointsServiceConfig struct {
	Ledger     ports.PointsLedger
	UnlockCost int64
	Metrics    *telemetry.FortuneMetrics
	Logger     *slog.Logger
}

// PointsService manages reader balances and unlocks.
type PointsService struct {
	ledger     ports.PointsLedger
	unlockCost int64
	metrics    *telemetry.FortuneMetrics
	exec       *Executor
	logger     *slog.Logger
}

// NewPointsService creates the service. It panics without a ledger.
func NewPointsService(cfg PointsServiceConfig) *PointsService {
	if cfg.Ledger == nil {
		panic("app: PointsServiceConfig.Ledger is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	cost := cfg.UnlockCost
	if cost < 1 {
		cost = 1
	}

	logger = logger.With(slog.String("component", "app.PointsService"))

	return &PointsService{
		ledger:     cfg.Ledger,
		unlockCost: cost,
		metrics:    cfg.Metrics,
		exec:       NewExecutor(logger),
		logger:     logger,
	}
}

// UnlockCost is the price of one unlock.
func (s *PointsService) UnlockCost() int64 {
	return s.unlockCost
}

// Balance returns userID's balance.
func (s *PointsService) Balance(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, domain.NewUnauthorizedError("sign in to use points")
	}

	return s.ledger.Balance(ctx, userID)
}

// Purchase credits a pack of points.
func (s *PointsService) Purchase(ctx context.Context, req PurchaseRequest) (*PurchaseResult, error) {
	op := Operation[PurchaseRequest, int64, int64, *PurchaseResult]{
		Name: "PurchasePoints",
		Validate: func(_ context.Context, in PurchaseRequest) error {
			if in.UserID == "" {
				return domain.NewUnauthorizedError("sign in to use points")
			}

			if !purchasePacks[in.Pack] {
				return domain.NewValidationErrorWithValue("pack", "must be 1 or 10", in.Pack)
			}

			return nil
		},
		Perform: func(ctx context.Context, in PurchaseRequest) (int64, error) {
			return s.ledger.Credit(ctx, in.UserID, int64(in.Pack))
		},
		Verify: func(_ context.Context, in PurchaseRequest, balance int64) (int64, error) {
			if balance < int64(in.Pack) {
				return 0, fmt.Errorf("balance %d below purchased pack %d", balance, in.Pack)
			}

			return balance, nil
		},
		Respond: func(_ context.Context, in PurchaseRequest, balance int64) (*PurchaseResult, error) {
			return &PurchaseResult{Added: int64(in.Pack), Balance: balance}, nil
		},
	}

	return Execute(ctx, s.exec, op, req)
}

// Unlock spends the unlock cost on req's date and sign. Unlocking a pair
// twice costs nothing the second time. The debit is refunded when the
// unlock cannot be recorded.
func (s *PointsService) Unlock(ctx context.Context, req UnlockRequest) (*UnlockResult, error) {
	if req.UserID == "" {
		return nil, domain.NewUnauthorizedError("sign in to use points")
	}

	if _, err := domain.ParseDateKey(req.DateKey); err != nil {
		return nil, err
	}

	already, err := s.ledger.IsUnlocked(ctx, req.UserID, req.DateKey, req.Sign.Key)
	if err != nil {
		return nil, fmt.Errorf("checking unlock: %w", err)
	}

	if already {
		return s.alreadyUnlocked(ctx, req.UserID)
	}

	debit := &debitAction{ledger: s.ledger, userID: req.UserID, amount: s.unlockCost}
	mark := &markUnlockedAction{ledger: s.ledger, req: req}

	rc := appctx.New(ctx)
	_ = rc.AddAction(debit)
	_ = rc.AddAction(mark)

	if err := rc.Commit(ctx); err != nil {
		switch {
		case errors.Is(err, errRaceLost):
			return s.alreadyUnlocked(ctx, req.UserID)
		case domain.IsInsufficientPoints(err):
			s.metrics.Unlock(UnlockResultNoPoints)
		}

		return nil, err
	}

	s.metrics.Unlock(UnlockResultUnlocked)
	s.logger.InfoContext(ctx, "fortune unlocked",
		slog.String("sign", req.Sign.Key),
		slog.String("date", req.DateKey),
		slog.Int64("balance", debit.balance),
	)

	return &UnlockResult{Spent: s.unlockCost, Balance: debit.balance}, nil
}

func (s *PointsService) alreadyUnlocked(ctx context.Context, userID string) (*UnlockResult, error) {
	s.metrics.Unlock(UnlockResultAlready)

	balance, err := s.ledger.Balance(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &UnlockResult{Already: true, Balance: balance}, nil
}

type debitAction struct {
	ledger  ports.PointsLedger
	userID  string
	amount  int64
	balance int64
}

func (a *debitAction) Execute(ctx context.Context) error {
	balance, err := a.ledger.Debit(ctx, a.userID, a.amount)
	if err != nil {
		return err
	}

	a.balance = balance

	return nil
}

func (a *debitAction) Rollback(ctx context.Context) error {
	_, err := a.ledger.Credit(ctx, a.userID, a.amount)
	return err
}

func (a *debitAction) Description() string {
	return fmt.Sprintf("debit %d points", a.amount)
}

type markUnlockedAction struct {
	ledger ports.PointsLedger
	req    UnlockRequest
}

func (a *markUnlockedAction) Execute(ctx context.Context) error {
	created, err := a.ledger.MarkUnlocked(ctx, a.req.UserID, a.req.DateKey, a.req.Sign.Key)
	if err != nil {
		return err
	}

	if !created {
		return errRaceLost
	}

	return nil
}

func (a *markUnlockedAction) Rollback(ctx context.Context) error {
	return a.ledger.ClearUnlock(ctx, a.req.UserID, a.req.DateKey, a.req.Sign.Key)
}

func (a *markUnlockedAction) Description() string {
	return "mark " + a.req.DateKey + "_" + a.req.Sign.Key + " unlocked"
}
