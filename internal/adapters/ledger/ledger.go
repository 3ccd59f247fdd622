package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jsamuelsen/horoscope-service/internal/platform/config"
	"github.com/jsamuelsen/horoscope-service/internal/ports"
)

const connectTimeout = 5 * time.Second

// Stores bundles the ledger and cache built from one configuration.
type Stores struct {
	Ledger ports.PointsLedger
	Cache  ports.Cache

	// Health is nil for the in-process stores.
	Health ports.HealthChecker

	closer func() error
}

// Open connects to Redis when cfg.Enabled and falls back to process memory
// otherwise. A Redis that does not answer PING is an error.
func Open(ctx context.Context, cfg config.RedisConfig) (*Stores, error) {
	if !cfg.Enabled {
		return &Stores{
			Ledger: NewMemoryLedger(cfg.UnlockTTL),
			Cache:  NewMemoryCache(),
			closer: func() error { return nil },
		}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return NewRedisStores(rdb, cfg.KeyPrefix, cfg.UnlockTTL), nil
}

// NewRedisStores builds Redis-backed stores on an existing client.
func NewRedisStores(rdb redis.UniversalClient, prefix string, unlockTTL time.Duration) *Stores {
	l := NewRedisLedger(rdb, prefix, unlockTTL)

	return &Stores{
		Ledger: l,
		Cache:  NewRedisCache(rdb, prefix),
		Health: l,
		closer: rdb.Close,
	}
}

// Close releases the Redis connection, if any.
func (s *Stores) Close() error {
	return s.closer()
}
