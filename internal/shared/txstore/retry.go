package txstore

import (
	"context"
	"errors"
	"time"
)

// DefaultAttempts matches the retry budget of hosted document stores.
const DefaultAttempts = 5

var baseBackoff = 5 * time.Millisecond

// Retry runs fn until it succeeds, fails with an error other than ErrConflict,
// or attempts are used up. The last conflict is returned wrapped.
func Retry(ctx context.Context, attempts int, fn func(ctx context.Context) error) error {
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		err = fn(ctx)
		if err == nil || !errors.Is(err, ErrConflict) {
			return err
		}
		if attempt == attempts-1 {
			break
		}
		timer := time.NewTimer(baseBackoff * time.Duration(attempt+1))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return err
}
