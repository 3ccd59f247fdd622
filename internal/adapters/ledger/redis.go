package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jsamuelsen/horoscope-service/internal/domain"
)

const redisServiceName = "redis"

// debitLuaScript takes ARGV[1] points from KEYS[1] only when the balance
// covers it. Returns {1, new balance} or {0, current balance}.
const debitLuaScript = `
local balance = tonumber(redis.call("GET", KEYS[1]) or "0")
local cost = tonumber(ARGV[1])

if balance < cost then
    return {0, balance}
end

return {1, redis.call("DECRBY", KEYS[1], cost)}
`

// RedisLedger implements ports.PointsLedger on Redis.
type RedisLedger struct {
	rdb         redis.UniversalClient
	prefix      string
	unlockTTL   time.Duration
	debitScript *redis.Script
}

// NewRedisLedger creates a ledger. unlockTTL of 0 keeps unlock markers forever.
func NewRedisLedger(rdb redis.UniversalClient, prefix string, unlockTTL time.Duration) *RedisLedger {
	return &RedisLedger{
		rdb:         rdb,
		prefix:      prefix,
		unlockTTL:   unlockTTL,
		debitScript: redis.NewScript(debitLuaScript),
	}
}

func (l *RedisLedger) pointsKey(userID string) string {
	return fmt.Sprintf("%s:points:%s", l.prefix, userID)
}

func (l *RedisLedger) unlockKey(userID, dateKey, signKey string) string {
	return fmt.Sprintf("%s:unlock:%s:%s_%s", l.prefix, userID, dateKey, signKey)
}

// Balance implements ports.PointsLedger.
func (l *RedisLedger) Balance(ctx context.Context, userID string) (int64, error) {
	balance, err := l.rdb.Get(ctx, l.pointsKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}

	if err != nil {
		return 0, unavailable("reading balance", err)
	}

	return balance, nil
}

// Credit implements ports.PointsLedger.
func (l *RedisLedger) Credit(ctx context.Context, userID string, amount int64) (int64, error) {
	if err := validateAmount(amount); err != nil {
		return 0, err
	}

	balance, err := l.rdb.IncrBy(ctx, l.pointsKey(userID), amount).Result()
	if err != nil {
		return 0, unavailable("crediting points", err)
	}

	return balance, nil
}

// Debit implements ports.PointsLedger. The check and the decrement run as
// one script, so concurrent debits cannot overdraw.
func (l *RedisLedger) Debit(ctx context.Context, userID string, amount int64) (int64, error) {
	if err := validateAmount(amount); err != nil {
		return 0, err
	}

	result, err := l.debitScript.Run(ctx, l.rdb, []string{l.pointsKey(userID)}, amount).Int64Slice()
	if err != nil {
		return 0, unavailable("debiting points", err)
	}

	if len(result) != 2 {
		return 0, unavailable("debiting points", fmt.Errorf("unexpected script result %v", result))
	}

	if result[0] == 0 {
		return result[1], domain.NewInsufficientPointsError(result[1], amount)
	}

	return result[1], nil
}

// IsUnlocked implements ports.PointsLedger.
func (l *RedisLedger) IsUnlocked(ctx context.Context, userID, dateKey, signKey string) (bool, error) {
	n, err := l.rdb.Exists(ctx, l.unlockKey(userID, dateKey, signKey)).Result()
	if err != nil {
		return false, unavailable("reading unlock", err)
	}

	return n > 0, nil
}

// MarkUnlocked implements ports.PointsLedger.
func (l *RedisLedger) MarkUnlocked(ctx context.Context, userID, dateKey, signKey string) (bool, error) {
	created, err := l.rdb.SetNX(ctx, l.unlockKey(userID, dateKey, signKey), time.Now().Unix(), l.unlockTTL).Result()
	if err != nil {
		return false, unavailable("marking unlock", err)
	}

	return created, nil
}

// ClearUnlock implements ports.PointsLedger.
func (l *RedisLedger) ClearUnlock(ctx context.Context, userID, dateKey, signKey string) error {
	if err := l.rdb.Del(ctx, l.unlockKey(userID, dateKey, signKey)).Err(); err != nil {
		return unavailable("clearing unlock", err)
	}

	return nil
}

// Name implements ports.HealthChecker.
func (l *RedisLedger) Name() string {
	return redisServiceName
}

// Check implements ports.HealthChecker.
func (l *RedisLedger) Check(ctx context.Context) error {
	return l.rdb.Ping(ctx).Err()
}

func validateAmount(amount int64) error {
	if amount <= 0 {
		return domain.NewValidationErrorWithValue("amount", "must be positive", amount)
	}

	return nil
}

func unavailable(operation string, err error) error {
	return domain.NewUnavailableError(redisServiceName, fmt.Sprintf("%s: %v", operation, err))
}
