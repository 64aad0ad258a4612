package domain

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sergey-royt/effective-mobile-test-task/pkg/e"
)

func TestParseOrderStatus(t *testing.T) {
	for _, valid := range []string{"processed", "in_progress", "sent", "delivered"} {
		status, err := ParseOrderStatus(valid)
		require.NoError(t, err)
		require.Equal(t, OrderStatus(valid), status)
	}

	for _, invalid := range []string{"", "shipped", "PROCESSED", "done"} {
		_, err := ParseOrderStatus(invalid)
		require.ErrorIs(t, err, e.ErrInvalidOrderStatus)
	}
}

func TestDefaultOrderStatus(t *testing.T) {
	require.Equal(t, StatusProcessed, DefaultOrderStatus)
}
