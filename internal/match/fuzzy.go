package match

import (
	"sort"
	"strings"
)

// Similarity is a normalized edit-distance ratio in [0,1], computed on
// lower-cased input. It depends only on the two strings, so identical
// inputs always score identically.
func Similarity(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if a == b {
		return 1
	}
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(levenshtein(a, b))/float64(maxLen)
}

// CloseMatches returns pool entries similar to query, ordered by
// descending similarity, truncated to maxResults, excluding candidates
// below minSimilarity. Ties keep original pool order (stable). A blank
// query or empty pool yields an empty result, not an error.
func CloseMatches(query string, pool []string, maxResults int, minSimilarity float64) []string {
	if strings.TrimSpace(query) == "" || len(pool) == 0 || maxResults <= 0 {
		return nil
	}

	type scored struct {
		text string
		sim  float64
	}
	candidates := make([]scored, 0, len(pool))
	for _, s := range pool {
		if sim := Similarity(query, s); sim >= minSimilarity {
			candidates = append(candidates, scored{text: s, sim: sim})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].sim > candidates[j].sim
	})

	if len(candidates) > maxResults {
		candidates = candidates[:maxResults]
	}
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.text
	}
	return out
}

// levenshtein computes edit distance with a single-row DP over bytes.
func levenshtein(a, b string) int {
	la, lb := len(a), len(b)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	prev := make([]int, lb+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		curr := make([]int, lb+1)
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = minInt(curr[j-1]+1, minInt(prev[j]+1, prev[j-1]+cost))
		}
		prev = curr
	}
	return prev[lb]
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
