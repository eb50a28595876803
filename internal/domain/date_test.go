package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wellsheli/pobboard/internal/domain"
)

// TestParseDate_RoundTrip verifies that a wire date parses to UTC
// midnight and formats back to the identical string. Dates must never
// shift across a day boundary, whatever the host timezone is.
func TestParseDate_RoundTrip(t *testing.T) {
	got, err := domain.ParseDate("2024-01-10")

	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), got)
	assert.Equal(t, "2024-01-10", domain.FormatDate(got))
}

func TestParseDate_Invalid(t *testing.T) {
	for _, s := range []string{"", "10/01/2024", "2024-13-01", "2024-01-10T12:00:00Z"} {
		_, err := domain.ParseDate(s)
		assert.ErrorIs(t, err, domain.ErrValidation, "input %q", s)
	}
}

// TestDay_StripsTimeAndZone verifies that Day collapses any timestamp
// to the UTC midnight of its wall-clock date.
func TestDay_StripsTimeAndZone(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	stamp := time.Date(2024, 1, 10, 23, 45, 0, 0, loc)

	got := domain.Day(stamp)

	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), got)
}

func TestSameDay(t *testing.T) {
	a := time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)
	b := time.Date(2024, 1, 10, 22, 30, 0, 0, time.UTC)
	c := time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC)

	assert.True(t, domain.SameDay(a, b))
	assert.False(t, domain.SameDay(a, c))
}

// TestTrip_LaneAt verifies lane resolution: a trip is incoming at its
// destination, outgoing at its origin, and absent everywhere else.
func TestTrip_LaneAt(t *testing.T) {
	trip := domain.Trip{FromOrigin: "NTM", ToDestination: "Ogle"}

	lane, ok := trip.LaneAt("Ogle")
	require.True(t, ok)
	assert.Equal(t, domain.LaneIncoming, lane)

	lane, ok = trip.LaneAt("NTM")
	require.True(t, ok)
	assert.Equal(t, domain.LaneOutgoing, lane)

	_, ok = trip.LaneAt("NSC")
	assert.False(t, ok)
}

func TestLane_Valid(t *testing.T) {
	assert.True(t, domain.LaneIncoming.Valid())
	assert.True(t, domain.LaneOutgoing.Valid())
	assert.False(t, domain.Lane("sideways").Valid())
	assert.False(t, domain.Lane("").Valid())
}

func TestKnownSite(t *testing.T) {
	for _, name := range []string{"NTM", "Ogle", "NSC", "NDT", "NBD", "STC"} {
		assert.True(t, domain.KnownSite(name), "site %q", name)
	}
	assert.False(t, domain.KnownSite("Atlantis"))
	assert.False(t, domain.KnownSite("ntm"), "site codes are case-sensitive")
}
