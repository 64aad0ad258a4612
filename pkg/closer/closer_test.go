package closer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClose_LIFOOrder(t *testing.T) {
	c := NewCloser(time.Second)

	var order []int
	for i := 1; i <= 3; i++ {
		i := i
		c.Add(func(_ context.Context) error {
			order = append(order, i)
			return nil
		})
	}

	require.NoError(t, c.Close(context.Background()))
	require.Equal(t, []int{3, 2, 1}, order)
}

func TestClose_CollectsErrors(t *testing.T) {
	c := NewCloser(time.Second)

	c.Add(func(_ context.Context) error { return nil })
	c.Add(func(_ context.Context) error { return errors.New("redis close failed") })

	err := c.Close(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "redis close failed")
}

func TestClose_Idempotent(t *testing.T) {
	c := NewCloser(time.Second)

	var calls int
	c.Add(func(_ context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, c.Close(context.Background()))
	require.NoError(t, c.Close(context.Background()))
	require.Equal(t, 1, calls)
}

func TestClose_ForcedOnExpiredContext(t *testing.T) {
	c := NewCloser(time.Second)

	c.Add(func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(5 * time.Second):
			return nil
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := c.Close(ctx)
	require.Error(t, err)
	// Заблокированная функция не удерживает Close дольше forcedTimeout
	require.Less(t, time.Since(start), 3*time.Second)
}
