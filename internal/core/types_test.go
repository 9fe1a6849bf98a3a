package core

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAvailabilityRendering(t *testing.T) {
	tests := []struct {
		value     Availability
		canonical string
		label     string
	}{
		{AvailabilityAvailable, "available", "Available"},
		{AvailabilityUnavailable, "unavailable", "Unavailable"},
		{AvailabilityUnknown, "unknown", "Unknown"},
		{Availability(42), "unknown", "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.canonical, func(t *testing.T) {
			require.Equal(t, tt.canonical, tt.value.String())
			require.Equal(t, tt.label, tt.value.Label())
		})
	}
}

func TestTimeoutErrorMatchesSentinel(t *testing.T) {
	var err error = &TimeoutError{Timeout: 250 * time.Millisecond}
	require.True(t, errors.Is(err, ErrTimeout))
	require.False(t, errors.Is(err, ErrEmptyName))
	require.Contains(t, err.Error(), "250ms")

	var timeoutErr *TimeoutError
	require.True(t, errors.As(err, &timeoutErr))
	require.Equal(t, 250*time.Millisecond, timeoutErr.Timeout)
}

func TestBatchResultPartitions(t *testing.T) {
	batch := &BatchResult{
		Results: []LookupResult{
			{Name: "serde", Availability: AvailabilityUnavailable},
			{Name: "", Err: ErrEmptyName},
			{Name: "fresh", Availability: AvailabilityAvailable},
		},
		Width: 5,
	}

	require.Equal(t, 3, batch.Len())
	succeeded := batch.Succeeded()
	require.Len(t, succeeded, 2)
	require.Equal(t, "serde", succeeded[0].Name)
	require.Equal(t, "fresh", succeeded[1].Name)

	failed := batch.Failed()
	require.Len(t, failed, 1)
	require.ErrorIs(t, failed[0].Err, ErrEmptyName)

	var empty *BatchResult
	require.Equal(t, 0, empty.Len())
	require.Nil(t, empty.Succeeded())
}
