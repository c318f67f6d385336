package util

import (
	"context"
	"errors"
)

// RetryWithContext calls fn up to maxTries times until it returns a nil
// error, or until ctx is done. If maxTries <= 0, it defaults to 1.
//
// retryable decides whether a failed attempt is tried again. A nil
// retryable retries every error except context cancellation and deadline
// errors. Returns ctx.Err() if the context is done, otherwise the last
// error.
func RetryWithContext[T any](
	ctx context.Context,
	maxTries int,
	retryable func(error) bool,
	fn func(context.Context) (T, error),
) (T, error) {
	if maxTries <= 0 {
		maxTries = 1
	}
	if retryable == nil {
		retryable = notContextError
	}

	var lastErr error
	var zero T
	for i := 0; i < maxTries; i++ {
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		if !retryable(err) {
			return zero, err
		}
		lastErr = err
	}
	return zero, lastErr
}

func notContextError(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}
