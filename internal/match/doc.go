// Package match provides name normalization, Levenshtein distance calculation,
// pluggable similarity strategies, and candidate ranking for column matching.
//
// Key functions:
//   - NormalizeName: normalizes field and column names for fuzzy matching
//   - Levenshtein: computes edit distance between strings
//   - LevenshteinSimilarity, TokenOverlap: similarity strategies in [0,1]
//   - RankColumns: ranks source columns against a field's candidate names
package match
