package syncer

import (
	"time"

	"github.com/vmunix/trackarr/pkg/trakt"
)

// DefaultBingeThreshold is the maximum number of episodes of one show
// that plausibly fit in a single calendar day. Days exceeding it are
// treated as bulk check-ins with unreliable timestamps.
const DefaultBingeThreshold = 4

// EpisodeKey identifies an episode within one show.
type EpisodeKey struct {
	Season  int
	Episode int
}

// AirDateIndex maps episodes to their original air dates.
type AirDateIndex map[EpisodeKey]time.Time

// watchDay buckets a timestamp into its UTC calendar date.
func watchDay(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// BingeDays groups episode watches by UTC calendar date and returns the
// dates holding more than threshold episodes. Episodes without a
// timestamp are ignored. A non-positive threshold falls back to the
// default.
func BingeDays(eps []trakt.EpisodeRef, threshold int) map[string]bool {
	if threshold <= 0 {
		threshold = DefaultBingeThreshold
	}
	perDay := make(map[string]int)
	for _, ep := range eps {
		if ep.WatchedAt == nil {
			continue
		}
		perDay[watchDay(*ep.WatchedAt)]++
	}
	days := make(map[string]bool)
	for day, n := range perDay {
		if n > threshold {
			days[day] = true
		}
	}
	return days
}

// ApplyAirDates returns a copy of eps with the watch time of every
// episode falling on a binge day replaced by its original air date.
// Episodes whose air date is unknown keep their reported timestamp.
func ApplyAirDates(eps []trakt.EpisodeRef, days map[string]bool, index AirDateIndex) []trakt.EpisodeRef {
	if len(days) == 0 {
		return eps
	}
	out := make([]trakt.EpisodeRef, len(eps))
	for i, ep := range eps {
		out[i] = ep
		if ep.WatchedAt == nil || !days[watchDay(*ep.WatchedAt)] {
			continue
		}
		if aired, ok := index[EpisodeKey{ep.Season, ep.Number}]; ok {
			out[i].WatchedAt = &aired
		}
	}
	return out
}
