package fuzzy

import (
	"strings"
	"unicode/utf8"
)

// LevenshteinDistance calculates the edit distance between two strings
// This measures how many single-character edits (insertions, deletions, or substitutions)
// are required to change one string into another. Distances count runes,
// not bytes, so CJK and Latin input are measured on the same scale.
func LevenshteinDistance(s1, s2 string) int {
	s1 = normalizeString(s1)
	s2 = normalizeString(s2)

	if s1 == "" {
		return utf8.RuneCountInString(s2)
	}
	if s2 == "" {
		return utf8.RuneCountInString(s1)
	}

	// Create matrix
	r1 := []rune(s1)
	r2 := []rune(s2)
	m := len(r1)
	n := len(r2)

	d := make([][]int, m+1)
	for i := range d {
		d[i] = make([]int, n+1)
	}

	for i := 0; i <= m; i++ {
		d[i][0] = i
	}
	for j := 0; j <= n; j++ {
		d[0][j] = j
	}

	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			d[i][j] = min3(
				d[i-1][j]+1,      // deletion
				d[i][j-1]+1,      // insertion
				d[i-1][j-1]+cost, // substitution
			)
		}
	}

	return d[m][n]
}

// FuzzyMatch checks if query fuzzy-matches text within a given threshold
// threshold is the maximum allowed edit distance
func FuzzyMatch(query, text string, threshold int) bool {
	query = normalizeString(query)
	text = normalizeString(text)

	// If query is contained in text, it's a match. Company names are often
	// CJK with no word boundaries, so the substring check carries most of
	// the weight for Japanese queries.
	if strings.Contains(text, query) {
		return true
	}

	// Check if any word in text fuzzy-matches the query
	words := strings.Fields(text)
	for _, word := range words {
		if LevenshteinDistance(query, word) <= threshold {
			return true
		}
		// Check if word starts with query (partial match)
		if strings.HasPrefix(word, query) {
			return true
		}
	}

	// Check overall distance for short texts
	if utf8.RuneCountInString(text) < 50 {
		distance := LevenshteinDistance(query, text)
		// Allow more tolerance for longer queries
		maxDistance := threshold + utf8.RuneCountInString(query)/5
		if distance <= maxDistance {
			return true
		}
	}

	return false
}

// CalculateRelevanceScore scores how relevant an event is to a query
// Higher score = more relevant
// Searches company name, title and location fields
func CalculateRelevanceScore(query, companyName, title, location string) float64 {
	query = normalizeString(query)
	score := 0.0

	// Exact match on company name (highest weight)
	companyNorm := normalizeString(companyName)
	if strings.Contains(companyNorm, query) {
		score += 100.0
		if companyNorm == query {
			score += 50.0
		}
	} else {
		dist := LevenshteinDistance(query, companyNorm)
		if dist <= 2 {
			score += 50.0 - float64(dist)*15
		}
		if strings.HasPrefix(companyNorm, query) {
			score += 40.0
		}
	}

	// Match in title
	titleNorm := normalizeString(title)
	if strings.Contains(titleNorm, query) {
		score += 80.0
	} else {
		titleWords := strings.Fields(titleNorm)
		for _, word := range titleWords {
			dist := LevenshteinDistance(query, word)
			if dist <= 2 {
				score += 40.0 - float64(dist)*12
			}
			if strings.HasPrefix(word, query) {
				score += 35.0
			}
		}
	}

	// Match in location
	locationNorm := normalizeString(location)
	if strings.Contains(locationNorm, query) {
		score += 60.0
	}

	return score
}

// FuzzyMatchEvent checks if an event matches the query
func FuzzyMatchEvent(query, companyName, title, location, memo string) bool {
	// Typo tolerance threshold based on query length, in runes
	threshold := 2
	queryLen := utf8.RuneCountInString(query)
	if queryLen <= 3 {
		threshold = 1
	} else if queryLen >= 8 {
		threshold = 3
	}

	if FuzzyMatch(query, companyName, threshold) {
		return true
	}

	if FuzzyMatch(query, title, threshold) {
		return true
	}

	if FuzzyMatch(query, location, threshold) {
		return true
	}

	if memo != "" {
		memoSnippet := memo
		if len(memoSnippet) > 500 {
			memoSnippet = memoSnippet[:500]
		}
		if FuzzyMatch(query, memoSnippet, threshold) {
			return true
		}
	}

	return false
}

// Helper functions

func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}

// normalizeString converts to lowercase and collapses whitespace
func normalizeString(s string) string {
	s = strings.ToLower(s)
	s = strings.Join(strings.Fields(s), " ")
	return s
}
