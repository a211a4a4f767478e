package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatus_String(t *testing.T) {
	cases := []struct {
		status Status
		want   string
	}{
		{StatusPending, "Pending"},
		{StatusActive, "Active"},
		{StatusError, "Error"},
		{StatusUnsubscribed, "Unsubscribed"},
		{Status(42), "Unknown"},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, tc.status.String())
	}
}

func TestStatus_Terminal(t *testing.T) {
	require.False(t, StatusPending.Terminal())
	require.False(t, StatusActive.Terminal())
	require.False(t, StatusError.Terminal())
	require.True(t, StatusUnsubscribed.Terminal())
}
