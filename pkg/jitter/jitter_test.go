package jitter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDuration_WithinBounds(t *testing.T) {
	base := time.Second

	for i := 0; i < 100; i++ {
		d := Duration(base, DefaultJitter)
		require.GreaterOrEqual(t, d, base)
		require.LessOrEqual(t, d, base+base/2)
	}
}

func TestDuration_ZeroJitter(t *testing.T) {
	require.Equal(t, time.Second, Duration(time.Second, 0))
}

func TestExponentialBackoff(t *testing.T) {
	base := time.Second
	max := 30 * time.Second

	// Без джиттера рост строго удваивается до потолка
	require.Equal(t, time.Second, ExponentialBackoff(base, max, 0, 0))
	require.Equal(t, 2*time.Second, ExponentialBackoff(base, max, 1, 0))
	require.Equal(t, 8*time.Second, ExponentialBackoff(base, max, 3, 0))
	require.Equal(t, max, ExponentialBackoff(base, max, 10, 0))
	require.Equal(t, max, ExponentialBackoff(base, max, 100, 0))
}
