// Package ports declares what the application needs from the outside world.
// Adapters implement these interfaces; the app layer only sees them.
//
// Every method takes a context first and returns domain types and domain
// errors (domain.ErrNotFound, domain.ErrUnavailable, ...), never adapter
// DTOs or driver errors.
package ports

import (
	"context"
	"errors"
	"time"

	"github.com/jsamuelsen/horoscope-service/internal/domain"
)

// ErrWriterNotConfigured is returned by a FortuneWriter that has no
// credentials for its model.
var ErrWriterNotConfigured = errors.New("fortune writer not configured")

// FortuneRequest asks the language model for a daily fortune.
type FortuneRequest struct {
	Sign    domain.Sign
	DateKey string

	// Paid asks for a complete full section. Unpaid requests get a shortened one.
	Paid bool
}

// ReadingRequest asks the language model for a structured reading.
type ReadingRequest struct {
	Sign        domain.Sign
	DateKey     string
	Level       domain.AccessLevel
	UserContext string
}

// FortuneWriter writes fortunes with a language model.
type FortuneWriter interface {
	// WriteFortune returns a fortune in the same shape as the template generator.
	// Returns domain.ErrUnavailable when the model cannot be reached or its
	// output cannot be used.
	WriteFortune(ctx context.Context, req FortuneRequest) (*domain.Fortune, error)

	// WriteReading returns a normalised reading for req.Level only.
	WriteReading(ctx context.Context, req ReadingRequest) (*domain.Reading, error)
}

// ProfileStore answers whether a reader bought the full reading.
type ProfileStore interface {
	// OverallUnlocked reports the paid flag of userID. Unknown users are not paid.
	OverallUnlocked(ctx context.Context, userID string) (bool, error)
}

// PointsLedger keeps reader balances and the (date, sign) pairs they unlocked.
type PointsLedger interface {
	// Balance returns the current balance; unknown users have zero.
	Balance(ctx context.Context, userID string) (int64, error)

	// Credit adds amount and returns the new balance.
	Credit(ctx context.Context, userID string, amount int64) (int64, error)

	// Debit removes amount atomically and returns the new balance.
	// Returns a conflict (domain.IsInsufficientPoints) when the balance is too low.
	Debit(ctx context.Context, userID string, amount int64) (int64, error)

	// IsUnlocked reports whether the pair was unlocked by userID.
	IsUnlocked(ctx context.Context, userID, dateKey, signKey string) (bool, error)

	// MarkUnlocked records the pair. It returns false when it was already recorded.
	MarkUnlocked(ctx context.Context, userID, dateKey, signKey string) (bool, error)

	// ClearUnlock removes the pair. Missing pairs are not an error.
	ClearUnlock(ctx context.Context, userID, dateKey, signKey string) error
}

// Cache stores serialized values by key.
type Cache interface {
	// Get returns domain.ErrNotFound on a miss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value. A ttl of 0 means no expiration.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
}
