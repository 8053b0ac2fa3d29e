package chunker

import (
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

// Tier is a coarse, explainable relevance bucket.
type Tier string

const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
	TierNA     Tier = "n/a"
)

// Water marks for tier assignment. A single term occurring once scores
// 1.0, so "low" means any lexical overlap at all.
const (
	highWater = 4.0
	lowWater  = 1.5
)

// Score rates a unit of text against a free-text query. Both sides are
// width-folded (full-width input is common in Korean documents), case
// folded and stripped of punctuation. Repeated occurrences of a term
// count at diminishing weight so repetition cannot dominate, and the
// full query appearing verbatim earns a phrase bonus.
func Score(unit, query string) (float64, Tier) {
	q := normalize(query)
	terms := strings.Fields(q)
	if len(terms) == 0 {
		return 0, TierNA
	}

	u := normalize(unit)

	score := 0.0
	for _, term := range terms {
		n := strings.Count(u, term)
		weight := 1.0
		for range n {
			score += weight
			weight /= 2
		}
	}

	if len(terms) > 1 && strings.Contains(u, strings.Join(terms, " ")) {
		score += 2.0
	}

	return score, tierFor(score)
}

func tierFor(score float64) Tier {
	switch {
	case score >= highWater:
		return TierHigh
	case score >= lowWater:
		return TierMedium
	case score > 0:
		return TierLow
	}
	return TierNA
}

// NormalizeQuery exposes the scorer's query normalization so cache
// keys treat equivalent query spellings as one shape.
func NormalizeQuery(query string) string {
	return normalize(query)
}

// normalize folds width and case and replaces punctuation with spaces,
// so "KDS 14 20 52" and "ＫＤＳ-14.20.52" compare equal term-wise.
func normalize(s string) string {
	s = width.Fold.String(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			b.WriteRune(' ')
		default:
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
