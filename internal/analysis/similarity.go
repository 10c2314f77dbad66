package analysis

// Similarity returns the Jaccard index of a and b.
// Two empty sets score 0, not 1.
func Similarity(a, b WordSet) float64 {
	if len(a) > len(b) {
		a, b = b, a
	}

	inter := 0
	for w := range a {
		if _, ok := b[w]; ok {
			inter++
		}
	}

	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
