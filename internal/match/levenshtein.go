package match

import (
	"sort"
	"strings"
)

// Levenshtein computes the edit distance between two strings: the minimum
// number of single-byte insertions, deletions or substitutions turning a into b.
func Levenshtein(a, b string) int {
	if a == b {
		return 0
	}

	if len(a) == 0 {
		return len(b)
	}

	if len(b) == 0 {
		return len(a)
	}

	// Keep a as the shorter string so the rows stay small.
	if len(a) > len(b) {
		a, b = b, a
	}

	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)

	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(b); j++ {
		curr[0] = j

		for i := 1; i <= len(a); i++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}

			curr[i] = min(prev[i]+1, curr[i-1]+1, prev[i-1]+cost)
		}

		prev, curr = curr, prev
	}

	return prev[len(a)]
}

// Suggest returns the candidates within a third of name's length in edit
// distance (at least 1, at most 3), closest first. Comparison ignores case,
// so "Create" suggests "create".
func Suggest(name string, candidates []string) []string {
	limit := len(name) / 3
	limit = max(1, min(limit, 3))

	type scored struct {
		name string
		dist int
	}

	var hits []scored

	lower := strings.ToLower(name)

	for _, c := range candidates {
		if c == name {
			continue
		}

		d := Levenshtein(lower, strings.ToLower(c))
		if d <= limit {
			hits = append(hits, scored{name: c, dist: d})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].dist < hits[j].dist
	})

	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.name
	}

	return out
}
