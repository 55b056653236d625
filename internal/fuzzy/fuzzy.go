// Package fuzzy scores how well a short query matches part of a longer string.
package fuzzy

import (
	"math"

	"keybin-go/internal/kb"
)

// Matcher implements kb.Scorer with PartialRatio.
type Matcher struct{}

var _ kb.Scorer = Matcher{}

func (Matcher) PartialRatio(query, target string) int {
	return PartialRatio(query, target)
}

// PartialRatio returns the best similarity (0-100) between the shorter string
// and any alignment of it against the longer one. Alignments include windows
// that hang off either end of the longer string, so a prefix or suffix
// overlap still scores. Comparison is by rune and case sensitive.
func PartialRatio(a, b string) int {
	s1, s2 := []rune(a), []rune(b)
	if len(s1) > len(s2) {
		s1, s2 = s2, s1
	}
	if len(s1) == 0 {
		if len(s2) == 0 {
			return 100
		}
		return 0
	}

	n := len(s1)
	best := 0.0
	score := func(window []rune) bool {
		r := ratio(s1, window)
		if r > best {
			best = r
		}
		return best == 100
	}

	// Windows growing in from the left edge.
	for k := 1; k < n; k++ {
		if score(s2[:k]) {
			return 100
		}
	}
	// Full-length windows.
	for i := 0; i+n <= len(s2); i++ {
		if score(s2[i : i+n]) {
			return 100
		}
	}
	// Windows shrinking out past the right edge.
	for i := len(s2) - n + 1; i < len(s2); i++ {
		if score(s2[i:]) {
			return 100
		}
	}

	return percent(best)
}

// percent rounds a score to an integer, halves to even.
func percent(score float64) int {
	return int(math.RoundToEven(score))
}

// ratio is the normalized indel similarity: 200*LCS / (len(a)+len(b)).
func ratio(a, b []rune) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 100
	}
	return 200 * float64(lcs(a, b)) / float64(total)
}

// lcs returns the length of the longest common subsequence of a and b.
func lcs(a, b []rune) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				cur[j] = prev[j-1] + 1
			case prev[j] >= cur[j-1]:
				cur[j] = prev[j]
			default:
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
