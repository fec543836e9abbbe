// Package retry retries startup operations with exponential backoff and jitter.
// Request handling never retries; this is used while the process waits for
// its database to come up.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Config holds the backoff parameters.
type Config struct {
	MaxAttempts    int
	InitialDelay   time.Duration
	MaxDelay       time.Duration
	Multiplier     float64
	JitterFraction float64 // 0.0 to 1.0
}

// StartupConfig waits up to roughly half a minute for a dependency to accept connections.
func StartupConfig() Config {
	return Config{
		MaxAttempts:    6,
		InitialDelay:   500 * time.Millisecond,
		MaxDelay:       10 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.1,
	}
}

func (c Config) policy() *backoff.ExponentialBackOff {
	jitter := c.JitterFraction
	if jitter < 0 {
		jitter = 0
	}
	if jitter > 1 {
		jitter = 1
	}
	bo := &backoff.ExponentialBackOff{
		InitialInterval:     c.InitialDelay,
		RandomizationFactor: jitter,
		Multiplier:          c.Multiplier,
		MaxInterval:         c.MaxDelay,
	}
	if bo.Multiplier < 1 {
		bo.Multiplier = 1
	}
	if bo.MaxInterval <= 0 {
		bo.MaxInterval = backoff.DefaultMaxInterval
	}
	bo.Reset()
	return bo
}

// onRetry is called with each wait before it starts; tests replace it.
var onRetry = func(time.Duration) {}

// WithBackoff calls fn until it succeeds, returns a non-retryable error, or
// MaxAttempts is reached. op names the operation in logs and errors.
func WithBackoff(ctx context.Context, cfg Config, op string, fn func(context.Context) error) error {
	attempts := max(cfg.MaxAttempts, 1)
	attempt := 0

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		err := fn(ctx)
		if err == nil {
			if attempt > 1 {
				slog.Info("operation succeeded after retry",
					slog.String("op", op),
					slog.Int("attempt", attempt))
			}
			return struct{}{}, nil
		}
		if !IsRetryable(err) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	},
		backoff.WithBackOff(cfg.policy()),
		backoff.WithMaxTries(uint(attempts)),
		backoff.WithNotify(func(err error, wait time.Duration) {
			slog.Warn("operation failed, retrying",
				slog.String("op", op),
				slog.Int("attempt", attempt),
				slog.Int("max_attempts", attempts),
				slog.Duration("delay", wait),
				slog.Any("error", err))
			onRetry(wait)
		}),
	)
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s: retry aborted: %w", op, ctxErr)
	}
	if IsRetryable(err) {
		return fmt.Errorf("%s: max retry attempts (%d) exceeded: %w", op, attempts, err)
	}
	return err
}

// IsRetryable reports whether err looks like a transient connection failure.
func IsRetryable(err error) bool {
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
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) && (dnsErr.IsTemporary || dnsErr.IsNotFound) {
		// コンテナ起動直後はホスト名がまだ解決できないことがある
		return true
	}

	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ETIMEDOUT) ||
		errors.Is(err, syscall.ENETUNREACH)
}
