// Package fuzzy scores how similar two names are on a 0-100 scale.
//
// The score is the classic ratio 2*M/T, where T is the total number of
// runes in both strings and M is the number of runes in the equal segments
// of a Myers diff between them. Both strings are Unicode case-folded first,
// so "Espada" and "ESPADA" score 100.
package fuzzy

import (
	"math"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
	"golang.org/x/text/cases"
)

// Max is the score of two identical, non-empty strings.
const Max = 100

// Scorer computes similarity scores. The zero value is not usable; use New.
type Scorer struct {
	dmp *diffmatchpatch.DiffMatchPatch
}

// New creates a Scorer.
func New() *Scorer {
	dmp := diffmatchpatch.New()
	// Names are short; never trade accuracy for speed.
	dmp.DiffTimeout = 0
	return &Scorer{dmp: dmp}
}

// Fold returns the case-folded form used for comparison.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// Ratio scores a and b after case folding.
func (s *Scorer) Ratio(a, b string) int {
	return s.RatioFolded(Fold(a), Fold(b))
}

// RatioFolded scores strings that are already folded. The resolver folds
// every cached name once and calls this in its hot loop.
func (s *Scorer) RatioFolded(a, b string) int {
	total := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	if total == 0 || a == "" || b == "" {
		return 0
	}
	if a == b {
		return Max
	}

	matched := 0
	for _, d := range s.dmp.DiffMain(a, b, false) {
		if d.Type == diffmatchpatch.DiffEqual {
			matched += utf8.RuneCountInString(d.Text)
		}
	}

	score := int(math.Round(float64(2*matched) * Max / float64(total)))
	return min(max(score, 0), Max)
}

// Ratio scores a and b with a fresh Scorer.
func Ratio(a, b string) int {
	return New().Ratio(a, b)
}
