package timeframe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsheldon/courierlog/internal/domain"
)

func TestResolveAll(t *testing.T) {
	rng, err := Resolve(PeriodAll, "", "", time.Now(), time.UTC)
	require.NoError(t, err)
	assert.Nil(t, rng)

	rng, err = Resolve("", "", "", time.Now(), time.UTC)
	require.NoError(t, err)
	assert.Nil(t, rng)
}

func TestResolveMonthUTC(t *testing.T) {
	ref := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	rng, err := Resolve(PeriodMonth, "", "", ref, time.UTC)
	require.NoError(t, err)
	require.NotNil(t, rng)

	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), rng.Start)
	assert.Equal(t, time.Date(2025, 6, 30, 23, 59, 59, 999000000, time.UTC), rng.End)
}

func TestResolveMonthAcrossDSTTransition(t *testing.T) {
	// March 2025 in New York starts at UTC-5 and ends at UTC-4; each
	// boundary must carry the offset in effect on its own date.
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	ref := time.Date(2025, 3, 15, 12, 0, 0, 0, loc)

	rng, err := Resolve(PeriodMonth, "", "", ref, loc)
	require.NoError(t, err)
	require.NotNil(t, rng)

	assert.Equal(t, time.Date(2025, 3, 1, 5, 0, 0, 0, time.UTC), rng.Start)
	assert.Equal(t, time.Date(2025, 4, 1, 3, 59, 59, 999000000, time.UTC), rng.End)

	// A shift late on the local last day of March is inside the window
	// even though its UTC timestamp is already April.
	lastEvening := time.Date(2025, 3, 31, 23, 30, 0, 0, loc).UTC()
	assert.True(t, rng.Contains(lastEvening))

	// Local April 1 midnight is outside.
	aprilFirst := time.Date(2025, 4, 1, 0, 0, 0, 0, loc).UTC()
	assert.False(t, rng.Contains(aprilFirst))
}

func TestResolveMonthDecemberRollover(t *testing.T) {
	ref := time.Date(2025, 12, 20, 0, 0, 0, 0, time.UTC)

	rng, err := Resolve(PeriodMonth, "", "", ref, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 12, 31, 23, 59, 59, 999000000, time.UTC), rng.End)
}

func TestResolveCustom(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	rng, err := Resolve(PeriodCustom, "2025-03-01", "2025-03-31", time.Now(), loc)
	require.NoError(t, err)
	require.NotNil(t, rng)

	assert.Equal(t, time.Date(2025, 3, 1, 5, 0, 0, 0, time.UTC), rng.Start)
	assert.Equal(t, time.Date(2025, 4, 1, 3, 59, 59, 999000000, time.UTC), rng.End)
}

func TestResolveCustomSingleDay(t *testing.T) {
	rng, err := Resolve(PeriodCustom, "2025-06-05", "2025-06-05", time.Now(), time.UTC)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC), rng.Start)
	assert.Equal(t, time.Date(2025, 6, 5, 23, 59, 59, 999000000, time.UTC), rng.End)
	assert.True(t, rng.Contains(time.Date(2025, 6, 5, 23, 59, 59, 0, time.UTC)))
	assert.False(t, rng.Contains(time.Date(2025, 6, 6, 0, 0, 0, 0, time.UTC)))
}

func TestResolveCustomValidation(t *testing.T) {
	cases := []struct {
		name      string
		startDate string
		endDate   string
		field     string
	}{
		{"missing start", "", "2025-06-05", "start_date"},
		{"missing end", "2025-06-01", "", "end_date"},
		{"bad start format", "06/01/2025", "2025-06-05", "start_date"},
		{"bad end format", "2025-06-01", "yesterday", "end_date"},
		{"end before start", "2025-06-05", "2025-06-01", "end_date"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Resolve(PeriodCustom, tc.startDate, tc.endDate, time.Now(), time.UTC)
			require.Error(t, err)
			verr, ok := domain.AsValidation(err)
			require.True(t, ok)
			assert.Contains(t, verr.Fields, tc.field)
		})
	}
}

func TestResolveUnknownPeriod(t *testing.T) {
	_, err := Resolve("fortnight", "", "", time.Now(), time.UTC)
	require.Error(t, err)
	verr, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "period")
}

func TestResolveNilLocationDefaultsToUTC(t *testing.T) {
	ref := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	rng, err := Resolve(PeriodMonth, "", "", ref, nil)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), rng.Start)
}
