package match

// Similarity scores two names in [0,1]. Implementations must be deterministic
// and symmetric, and must return 1.0 when both names normalize identically.
type Similarity func(a, b string) float64

// LevenshteinSimilarity is the default strategy: normalized edit distance over
// the delimiter-free normalized forms.
func LevenshteinSimilarity(a, b string) float64 {
	return LevenshteinNormalized(CompactName(a), CompactName(b))
}

// TokenOverlap scores the share of normalized tokens two names have in common
// (|A ∩ B| / |A ∪ B|). Word order is ignored, so "name product" and
// "product name" score 1.0.
func TokenOverlap(a, b string) float64 {
	if CompactName(a) == CompactName(b) {
		return 1.0
	}

	setA := tokenSet(a)
	setB := tokenSet(b)

	if len(setA) == 0 || len(setB) == 0 {
		return 0.0
	}

	shared := 0

	for t := range setA {
		if _, ok := setB[t]; ok {
			shared++
		}
	}

	union := len(setA) + len(setB) - shared

	return float64(shared) / float64(union)
}

// MaxOf combines strategies by taking the highest score any of them gives.
func MaxOf(strategies ...Similarity) Similarity {
	return func(a, b string) float64 {
		best := 0.0

		for _, s := range strategies {
			if score := s(a, b); score > best {
				best = score
			}
		}

		return best
	}
}

func tokenSet(s string) map[string]struct{} {
	tokens := TokenizeName(s)

	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}

	return set
}
