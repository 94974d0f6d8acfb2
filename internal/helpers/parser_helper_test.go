package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	date, err := ParseDate("2025-06-15")
	require.NoError(t, err)
	require.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), date)

	date, err = ParseDate("2025-06-15T18:30:00Z")
	require.NoError(t, err)
	require.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), date)

	_, err = ParseDate("15/06/2025")
	require.Error(t, err)

	_, err = ParseDate("")
	require.Error(t, err)
}

func TestParseTimeOfDay(t *testing.T) {
	got, err := ParseTimeOfDay("18:30")
	require.NoError(t, err)
	require.Equal(t, "18:30", got)

	got, err = ParseTimeOfDay("09:05:30")
	require.NoError(t, err)
	require.Equal(t, "09:05", got)

	_, err = ParseTimeOfDay("25:00")
	require.Error(t, err)

	_, err = ParseTimeOfDay("evening")
	require.Error(t, err)
}

func TestValidPhoneNumber(t *testing.T) {
	require.True(t, ValidPhoneNumber("+6281234567890"))
	require.True(t, ValidPhoneNumber("081234567890"))
	require.False(t, ValidPhoneNumber("12345"))
	require.False(t, ValidPhoneNumber("not-a-number"))
	require.False(t, ValidPhoneNumber("+00 123 456 789"))
}

func TestDateOf(t *testing.T) {
	ts := time.Date(2025, 3, 9, 23, 59, 59, 0, time.UTC)
	require.Equal(t, time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC), DateOf(ts))
}
