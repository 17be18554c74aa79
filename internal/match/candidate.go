package match

import (
	"sort"
)

// Candidate represents a potential mapping from a source column to a target field.
type Candidate struct {
	// Column is the raw source column name.
	Column string
	// Index is the column's position in the observed column list.
	Index int
	// Name is the field name or alias that produced Score.
	Name string

	Score   float64 // Similarity in [0,1]; 1.0 for exact normalized matches
	Quality Quality // How the score was obtained

	// Metadata for debugging/explanation
	NormalizedColumn string
}

// CandidateList is a list of candidates with ranking functionality.
type CandidateList []Candidate

// RankColumns scores every column against a field's candidate names (the
// canonical name first, then aliases) and returns the columns ranked best
// first. Columns and names that normalize to nothing are ignored.
func RankColumns(canonical string, aliases []string, columns []string, sim Similarity) CandidateList {
	if sim == nil {
		sim = LevenshteinSimilarity
	}

	canonicalNorm := NormalizeName(canonical)

	names := make([]string, 0, len(aliases)+1)
	normNames := make([]string, 0, len(aliases)+1)

	for _, name := range append([]string{canonical}, aliases...) {
		norm := NormalizeName(name)
		if norm == "" {
			continue
		}

		names = append(names, name)
		normNames = append(normNames, norm)
	}

	var candidates CandidateList

	for idx, column := range columns {
		colNorm := NormalizeName(column)
		if colNorm == "" {
			continue
		}

		cand := Candidate{
			Column:           column,
			Index:            idx,
			NormalizedColumn: colNorm,
		}

		for i, name := range names {
			if normNames[i] == colNorm {
				quality := QualityAlias
				if normNames[i] == canonicalNorm {
					quality = QualityCanonical
				}

				if quality > cand.Quality {
					cand.Name = name
					cand.Score = 1.0
					cand.Quality = quality
				}

				continue
			}

			if cand.Quality.IsExact() {
				continue
			}

			score := sim(colNorm, normNames[i])
			if cand.Quality == QualityNone || score > cand.Score {
				cand.Name = name
				cand.Score = score
				cand.Quality = QualityFuzzy
			}
		}

		candidates = append(candidates, cand)
	}

	sort.Sort(candidates)

	return candidates
}

// Beats reports whether c outranks other for the same column: a strictly
// higher score, or an equal score with a strictly better quality.
func (c Candidate) Beats(other Candidate) bool {
	if c.Score != other.Score {
		return c.Score > other.Score
	}

	return c.Quality > other.Quality
}

// Ties reports whether c and other are indistinguishable by score and quality.
func (c Candidate) Ties(other Candidate) bool {
	return c.Score == other.Score && c.Quality == other.Quality
}

// Len implements sort.Interface.
func (c CandidateList) Len() int { return len(c) }

// Swap implements sort.Interface.
func (c CandidateList) Swap(i, j int) { c[i], c[j] = c[j], c[i] }

// Less implements sort.Interface.
// Sorts by score descending, then exact matches before fuzzy ones, then the
// shorter column name, then the first-encountered column.
func (c CandidateList) Less(i, j int) bool {
	if c[i].Score != c[j].Score {
		return c[i].Score > c[j].Score
	}

	if c[i].Quality != c[j].Quality {
		return c[i].Quality > c[j].Quality
	}

	li, lj := len([]rune(c[i].NormalizedColumn)), len([]rune(c[j].NormalizedColumn))
	if li != lj {
		return li < lj
	}

	return c[i].Index < c[j].Index
}

// Top returns the top n candidates.
func (c CandidateList) Top(n int) CandidateList {
	if n >= len(c) {
		return c
	}
	return c[:n]
}

// Best returns the best candidate, or nil if no candidates.
func (c CandidateList) Best() *Candidate {
	if len(c) == 0 {
		return nil
	}
	return &c[0]
}

// IsAmbiguous returns true if the top two candidates are within the threshold.
func (c CandidateList) IsAmbiguous(threshold float64) bool {
	if len(c) < 2 {
		return false
	}
	diff := c[0].Score - c[1].Score
	return diff < threshold
}

// AboveThreshold returns candidates with a score at or above the threshold.
func (c CandidateList) AboveThreshold(threshold float64) CandidateList {
	var result CandidateList
	for _, cand := range c {
		if cand.Score >= threshold {
			result = append(result, cand)
		}
	}
	return result
}

// Confidence thresholds for accepting matches.
const (
	// DefaultConfidenceThreshold is the minimum score for accepting a column.
	DefaultConfidenceThreshold = 0.6
	// DefaultAmbiguityThreshold is the score difference that marks a near tie
	// worth reporting.
	DefaultAmbiguityThreshold = 0.05
)
