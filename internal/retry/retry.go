// Package retry wraps remote calls with bounded exponential backoff.
// Only rate-limit-shaped failures are retried; everything else fails
// through immediately with the original error.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/inkwell-labs/lectern/internal/core/domain"
	"github.com/inkwell-labs/lectern/internal/logger"
)

// DefaultMaxDelay caps a single backoff wait. The source schedule was
// pure exponential with no ceiling; the cap keeps a long retry run
// from waiting unboundedly.
const DefaultMaxDelay = 30 * time.Second

// Do invokes op, retrying rate-limited failures up to maxRetries
// times with delays of baseDelay×2^attempt capped at DefaultMaxDelay.
// The wrapped operation runs at most maxRetries+1 times. On final
// failure the original error is returned unmodified.
func Do(ctx context.Context, maxRetries int, baseDelay time.Duration, op func(context.Context) error) error {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if baseDelay <= 0 {
		baseDelay = time.Second
	}

	backoff := retry.WithMaxRetries(
		uint64(maxRetries),
		retry.WithCappedDuration(DefaultMaxDelay, retry.NewExponential(baseDelay)),
	)

	attempt := 0
	var lastErr error
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if domain.IsRateLimited(lastErr) {
			logger.Debug("Rate limited on attempt %d: %v", attempt, lastErr)
			return retry.RetryableError(lastErr)
		}
		return lastErr
	})
	if err == nil {
		return nil
	}

	// retry.Do hands back its RetryableError wrapper on exhaustion;
	// callers get the underlying error, not the wrapper.
	if lastErr != nil && errors.Is(err, lastErr) {
		return lastErr
	}
	return err
}
