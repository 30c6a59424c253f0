package match

import (
	"github.com/hbollon/go-edlib"
)

// MinScore is the similarity floor below which a candidate is not
// considered a match.
const MinScore = 0.85

// Candidate is one local library entry offered for matching.
type Candidate struct {
	ID    int64
	Title string
	Year  int
}

// Result is the outcome of a title match.
type Result struct {
	ID    int64
	Title string
	Score float64
}

// BestMatch finds the library entry most similar to the given title using
// Jaro-Winkler similarity over normalized titles. A candidate whose year
// differs by more than one from a nonzero query year is skipped; ties go
// to the earlier candidate. Returns ok=false when nothing clears MinScore.
func BestMatch(title string, year int, candidates []Candidate) (Result, bool) {
	normalized := Normalize(title)

	var best Result
	for _, c := range candidates {
		if year != 0 && c.Year != 0 && absDiff(year, c.Year) > 1 {
			continue
		}

		score := float64(edlib.JaroWinklerSimilarity(normalized, Normalize(c.Title)))
		if score > best.Score {
			best = Result{ID: c.ID, Title: c.Title, Score: score}
		}
	}

	if best.Score < MinScore {
		return Result{}, false
	}
	return best, true
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
