package syncer

import "github.com/vmunix/trackarr/pkg/trakt"

// MapRating converts a source-service rating (1-10) to the local 1-5
// scale, rounding half-steps up: 1-2 -> 1, 3-4 -> 2, ... 9-10 -> 5.
// Out-of-range input is clamped.
func MapRating(source int) int {
	if source < 1 {
		return 1
	}
	if source > 10 {
		return 5
	}
	return (source + 1) / 2
}

type ratingKey struct {
	kind    string // "movie" or "show"
	traktID int
}

// ratingIndex maps each rated item to its converted local rating.
func ratingIndex(ratings []trakt.Rating) map[ratingKey]int {
	index := make(map[ratingKey]int, len(ratings))
	for _, r := range ratings {
		switch r.Type {
		case "movie":
			if r.Movie != nil {
				index[ratingKey{"movie", r.Movie.IDs.Trakt}] = MapRating(r.Rating)
			}
		case "show":
			if r.Show != nil {
				index[ratingKey{"show", r.Show.IDs.Trakt}] = MapRating(r.Rating)
			}
		}
	}
	return index
}

func ratingFor(index map[ratingKey]int, kind string, traktID int) *int {
	if r, ok := index[ratingKey{kind, traktID}]; ok {
		return &r
	}
	return nil
}
