// Package dedup finds near-duplicate documents by combining filename
// similarity (Ratcliff/Obershelp, case-sensitive) with a relative size
// similarity, under caller-supplied weights.
package dedup

// NameSimilarity is the Ratcliff/Obershelp ratio:
// 2·M/(len(a)+len(b)), where M counts matched characters across recursively
// found longest common substrings. Comparison is case-sensitive.
func NameSimilarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}
	return 2 * float64(matchingRunes(ra, rb)) / float64(total)
}

func matchingRunes(a, b []rune) int {
	ai, bi, size := longestCommonSubstring(a, b)
	if size == 0 {
		return 0
	}
	return size +
		matchingRunes(a[:ai], b[:bi]) +
		matchingRunes(a[ai+size:], b[bi+size:])
}

func longestCommonSubstring(a, b []rune) (ai, bi, size int) {
	// prev[j] is the match run ending at a[i-1], b[j-1].
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
				if cur[j] > size {
					size = cur[j]
					ai = i - size
					bi = j - size
				}
			} else {
				cur[j] = 0
			}
		}
		prev, cur = cur, prev
	}
	return ai, bi, size
}

// SizeSimilarity compares two sizes in MB: 1 − |a−b|/max(a,b). Two zero
// sizes are identical; one zero against a non-zero is fully dissimilar.
func SizeSimilarity(a, b float64) float64 {
	larger := a
	if b > larger {
		larger = b
	}
	if larger <= 0 {
		return 1
	}
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return 1 - diff/larger
}
