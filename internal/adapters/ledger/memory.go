package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/jsamuelsen/horoscope-service/internal/domain"
)

// MemoryLedger implements ports.PointsLedger in process memory.
// State is lost on restart.
type MemoryLedger struct {
	mu        sync.Mutex
	balances  map[string]int64
	unlocks   map[string]time.Time // expiry, zero means never
	unlockTTL time.Duration
	now       func() time.Time
}

// NewMemoryLedger creates an empty ledger.
func NewMemoryLedger(unlockTTL time.Duration) *MemoryLedger {
	return &MemoryLedger{
		balances:  make(map[string]int64),
		unlocks:   make(map[string]time.Time),
		unlockTTL: unlockTTL,
		now:       time.Now,
	}
}

func memoryUnlockKey(userID, dateKey, signKey string) string {
	return userID + ":" + dateKey + "_" + signKey
}

// Balance implements ports.PointsLedger.
func (l *MemoryLedger) Balance(_ context.Context, userID string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.balances[userID], nil
}

// Credit implements ports.PointsLedger.
func (l *MemoryLedger) Credit(_ context.Context, userID string, amount int64) (int64, error) {
	if err := validateAmount(amount); err != nil {
		return 0, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.balances[userID] += amount

	return l.balances[userID], nil
}

// Debit implements ports.PointsLedger.
func (l *MemoryLedger) Debit(_ context.Context, userID string, amount int64) (int64, error) {
	if err := validateAmount(amount); err != nil {
		return 0, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	balance := l.balances[userID]
	if balance < amount {
		return balance, domain.NewInsufficientPointsError(balance, amount)
	}

	l.balances[userID] = balance - amount

	return l.balances[userID], nil
}

// IsUnlocked implements ports.PointsLedger.
func (l *MemoryLedger) IsUnlocked(_ context.Context, userID, dateKey, signKey string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.liveLocked(memoryUnlockKey(userID, dateKey, signKey)), nil
}

// MarkUnlocked implements ports.PointsLedger.
func (l *MemoryLedger) MarkUnlocked(_ context.Context, userID, dateKey, signKey string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := memoryUnlockKey(userID, dateKey, signKey)
	if l.liveLocked(key) {
		return false, nil
	}

	var expiry time.Time
	if l.unlockTTL > 0 {
		expiry = l.now().Add(l.unlockTTL)
	}

	l.unlocks[key] = expiry

	return true, nil
}

// ClearUnlock implements ports.PointsLedger.
func (l *MemoryLedger) ClearUnlock(_ context.Context, userID, dateKey, signKey string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.unlocks, memoryUnlockKey(userID, dateKey, signKey))

	return nil
}

// liveLocked reports whether key is present and unexpired. Caller holds mu.
func (l *MemoryLedger) liveLocked(key string) bool {
	expiry, ok := l.unlocks[key]
	if !ok {
		return false
	}

	if !expiry.IsZero() && !l.now().Before(expiry) {
		delete(l.unlocks, key)
		return false
	}

	return true
}
