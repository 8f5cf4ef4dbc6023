package txstore

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetry_RetriesOnlyConflicts(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, func(context.Context) error {
		calls++
		if calls < 3 {
			return fmt.Errorf("commit: %w", ErrConflict)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)

	boom := errors.New("boom")
	calls = 0
	err = Retry(context.Background(), 3, func(context.Context) error {
		calls++
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestRetry_ExhaustedReturnsConflict(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 2, func(context.Context) error {
		calls++
		return ErrConflict
	})
	require.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, 2, calls)
}

func TestRetry_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Retry(ctx, 3, func(context.Context) error {
		t.Fatal("fn must not run")
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestUniqueSorted(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, uniqueSorted([]string{"c", "a", "b", "a"}))
	assert.Empty(t, uniqueSorted(nil))
}
