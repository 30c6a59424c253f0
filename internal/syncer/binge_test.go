package syncer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/trackarr/pkg/trakt"
)

func TestBingeDays(t *testing.T) {
	// Five episodes checked in on the same calendar day, one on another.
	eps := []trakt.EpisodeRef{
		{Season: 1, Number: 1, WatchedAt: ts(2025, 3, 10, 9)},
		{Season: 1, Number: 2, WatchedAt: ts(2025, 3, 10, 10)},
		{Season: 1, Number: 3, WatchedAt: ts(2025, 3, 10, 11)},
		{Season: 1, Number: 4, WatchedAt: ts(2025, 3, 10, 12)},
		{Season: 1, Number: 5, WatchedAt: ts(2025, 3, 10, 23)},
		{Season: 1, Number: 6, WatchedAt: ts(2025, 3, 12, 20)},
		{Season: 1, Number: 7}, // no timestamp, ignored
	}

	days := BingeDays(eps, DefaultBingeThreshold)
	assert.Equal(t, map[string]bool{"2025-03-10": true}, days)

	// Exactly at the threshold is plausible viewing, not a binge.
	four := eps[:4]
	assert.Empty(t, BingeDays(four, DefaultBingeThreshold))

	// Non-positive threshold falls back to the default.
	assert.Equal(t, days, BingeDays(eps, 0))
}

func TestApplyAirDates(t *testing.T) {
	eps := []trakt.EpisodeRef{
		{Season: 1, Number: 1, WatchedAt: ts(2025, 3, 10, 9)},
		{Season: 1, Number: 2, WatchedAt: ts(2025, 3, 10, 10)},
		{Season: 1, Number: 3, WatchedAt: ts(2025, 3, 12, 20)}, // not a binge day
		{Season: 1, Number: 4},                                 // no timestamp
	}
	days := map[string]bool{"2025-03-10": true}
	index := AirDateIndex{
		{Season: 1, Episode: 1}: time.Date(2008, 1, 20, 0, 0, 0, 0, time.UTC),
		// no air date for episode 2
		{Season: 1, Episode: 3}: time.Date(2008, 2, 3, 0, 0, 0, 0, time.UTC),
	}

	out := ApplyAirDates(eps, days, index)
	require.Len(t, out, 4)

	// Binge-day episode with a known air date gets the air date.
	require.NotNil(t, out[0].WatchedAt)
	assert.Equal(t, time.Date(2008, 1, 20, 0, 0, 0, 0, time.UTC), *out[0].WatchedAt)

	// Binge-day episode without an air date keeps its reported time.
	require.NotNil(t, out[1].WatchedAt)
	assert.Equal(t, *ts(2025, 3, 10, 10), *out[1].WatchedAt)

	// Off-day episode is untouched even though its air date is known.
	require.NotNil(t, out[2].WatchedAt)
	assert.Equal(t, *ts(2025, 3, 12, 20), *out[2].WatchedAt)

	assert.Nil(t, out[3].WatchedAt)

	// Input slice is not mutated.
	assert.Equal(t, *ts(2025, 3, 10, 9), *eps[0].WatchedAt)
}

func TestApplyAirDates_NoBingeDays(t *testing.T) {
	eps := []trakt.EpisodeRef{{Season: 1, Number: 1, WatchedAt: ts(2025, 3, 10, 9)}}
	out := ApplyAirDates(eps, nil, AirDateIndex{})
	assert.Equal(t, eps, out)
}
