package clients

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"net"
	"time"

	"github.com/jsamuelsen/horoscope-service/internal/platform/config"
)

// defaultJitterFactor applies when the config leaves JitterFactor at zero.
const defaultJitterFactor = 0.25

// retryPolicy is jittered exponential backoff: initial * multiplier^n,
// capped at ceiling, then moved by up to ±jitter of itself.
type retryPolicy struct {
	attempts   int
	initial    time.Duration
	ceiling    time.Duration
	multiplier float64
	jitter     float64

	// unit returns a value in [0,1). Tests pin it.
	unit func() float64
}

func newRetryPolicy(cfg config.RetryConfig) retryPolicy {
	p := retryPolicy{
		attempts:   max(cfg.MaxAttempts, 1),
		initial:    cfg.InitialInterval,
		ceiling:    cfg.MaxInterval,
		multiplier: cfg.Multiplier,
		jitter:     cfg.JitterFactor,
		unit:       rand.Float64, //nolint:gosec // backoff jitter
	}

	if p.jitter <= 0 {
		p.jitter = defaultJitterFactor
	}

	if p.multiplier < 1 {
		p.multiplier = 1
	}

	return p
}

// delay is the wait before attempt n (n >= 1).
func (p retryPolicy) delay(n int) time.Duration {
	d := float64(p.initial) * math.Pow(p.multiplier, float64(n))
	if p.ceiling > 0 && d > float64(p.ceiling) {
		d = float64(p.ceiling)
	}

	d += d * p.jitter * (2*p.unit() - 1)

	return time.Duration(d)
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// transient reports whether a transport error is worth another attempt:
// network timeouts and dial or connection failures. Context errors never are.
func transient(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var opErr *net.OpError

	return errors.As(err, &opErr)
}
