package domain

// SimilarityThreshold is the normalized edit-distance similarity above
// which two commune names are considered the same place. It absorbs minor
// spelling and diacritic drift across dataset years without merging
// distinct towns. The boundary is inclusive.
const SimilarityThreshold = 0.85

// Similarity returns the normalized Levenshtein similarity between two
// commune names: 1 - distance/max(len1, len2), computed over runes,
// case-sensitive. Two identical names score 1.0.
func (c City) Similarity(other City) float64 {
	a := []rune(string(c))
	b := []rune(string(other))
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 1.0
	}
	return 1.0 - float64(levenshtein(a, b))/float64(longest)
}

// SamePlace reports whether two commune names are similar enough to be
// treated as the same place.
func (c City) SamePlace(other City) bool {
	return c.Similarity(other) >= SimilarityThreshold
}

// levenshtein computes the edit distance between two rune slices with the
// standard dynamic-programming recurrence, unit cost for insert, delete
// and substitute.
func levenshtein(a, b []rune) int {
	rows := len(b) + 1
	cols := len(a) + 1

	prev := make([]int, cols)
	curr := make([]int, cols)
	for j := 0; j < cols; j++ {
		prev[j] = j
	}

	for i := 1; i < rows; i++ {
		curr[0] = i
		for j := 1; j < cols; j++ {
			cost := 1
			if a[j-1] == b[i-1] {
				cost = 0
			}
			curr[j] = min3(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[cols-1]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

// SameFamily reports whether two department codes belong to the same
// administrative family. Codes are padded postal-style (2-character codes
// to 4 characters, 3-character codes to 5, zero-extended); padded forms of
// different lengths never match, 4-character forms match on their first
// character and 5-character forms on their first two. This mirrors how
// department codes prefix postal codes rather than testing strict
// equality.
func (d DepartmentCode) SameFamily(other DepartmentCode) bool {
	a := padPostal(string(d))
	b := padPostal(string(other))
	if len(a) != len(b) {
		return false
	}
	switch len(a) {
	case 4:
		return a[0] == b[0]
	case 5:
		return a[:2] == b[:2]
	default:
		return false
	}
}

func padPostal(code string) string {
	return code + "00"
}
