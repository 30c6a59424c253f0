package syncer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vmunix/trackarr/pkg/trakt"
)

func TestMapRating(t *testing.T) {
	tests := []struct {
		source int
		want   int
	}{
		{1, 1},
		{2, 1},
		{3, 2},
		{4, 2},
		{5, 3},
		{6, 3},
		{7, 4},
		{8, 4},
		{9, 5},
		{10, 5},
		// Out-of-range values clamp instead of producing invalid ratings.
		{0, 1},
		{-3, 1},
		{11, 5},
		{100, 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MapRating(tt.source), "MapRating(%d)", tt.source)
	}
}

func TestRatingIndex(t *testing.T) {
	ratings := []trakt.Rating{
		{Rating: 9, Type: "movie", Movie: &trakt.Movie{Title: "Fight Club", IDs: trakt.IDs{Trakt: 101}}},
		{Rating: 7, Type: "show", Show: &trakt.Show{Title: "Breaking Bad", IDs: trakt.IDs{Trakt: 201}}},
		{Rating: 5, Type: "episode"}, // unsupported kinds are skipped
	}

	index := ratingIndex(ratings)

	if got := ratingFor(index, "movie", 101); assert.NotNil(t, got) {
		assert.Equal(t, 5, *got)
	}
	if got := ratingFor(index, "show", 201); assert.NotNil(t, got) {
		assert.Equal(t, 4, *got)
	}
	assert.Nil(t, ratingFor(index, "movie", 999))
}
