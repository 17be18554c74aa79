package sqlite

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

// Affinity is a SQLite column type.
type Affinity string

// Column affinities produced by InferAffinity.
const (
	Integer Affinity = "INTEGER"
	Real    Affinity = "REAL"
	Text    Affinity = "TEXT"
	Blob    Affinity = "BLOB"
)

// SampleSize is the number of rows inspected per column.
const SampleSize = 100

var (
	nonWord    = regexp.MustCompile(`[^\p{L}\p{N}_]`)
	underscore = regexp.MustCompile(`_+`)

	reservedWords = []string{"order", "group", "where", "select", "insert", "update", "delete", "from", "table"}
	idPatterns    = []string{"id", "identifier", "key", "pk", "primary_key", "uid", "uuid"}
)

// InferAffinity picks the affinity for a column's sample values. Nil and
// empty strings are ignored. At least 80% integers gives INTEGER, at least
// 80% numbers gives REAL, at least 50% byte slices gives BLOB, anything else
// is TEXT.
func InferAffinity(values []any) Affinity {
	var ints, reals, blobs, total int

	for _, v := range values {
		if v == nil || v == "" {
			continue
		}

		total++

		switch v := v.(type) {
		case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			ints++
		case float32, float64:
			reals++
		case []byte:
			blobs++
		case string:
			s := strings.TrimSpace(v)

			switch {
			case isIntegerString(s):
				ints++
			case isFloatString(s):
				reals++
			}
		}
	}

	if total == 0 {
		return Text
	}

	ratio := func(n int) float64 { return float64(n) / float64(total) }

	switch {
	case ratio(ints) >= 0.8:
		return Integer
	case ratio(ints+reals) >= 0.8:
		return Real
	case ratio(blobs) >= 0.5:
		return Blob
	default:
		return Text
	}
}

func isIntegerString(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)

	return err == nil
}

func isFloatString(s string) bool {
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return false
	}

	return strings.ContainsAny(s, ".eE")
}

// CleanName turns a column or table name into a bare SQLite identifier:
// non-word runes become underscores, runs collapse, edges are trimmed, a
// leading digit gets a col_ prefix and reserved words get a _field suffix.
func CleanName(name string) string {
	clean := nonWord.ReplaceAllString(name, "_")
	clean = underscore.ReplaceAllString(clean, "_")
	clean = strings.Trim(clean, "_")

	if clean == "" {
		return "unknown_column"
	}

	if unicode.IsDigit([]rune(clean)[0]) {
		clean = "col_" + clean
	}

	if slices.Contains(reservedWords, strings.ToLower(clean)) {
		clean += "_field"
	}

	return clean
}

// isIDColumn reports whether a source column looks like an identifier.
func isIDColumn(name string) bool {
	return slices.Contains(idPatterns, strings.ToLower(strings.TrimSpace(name)))
}

func quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
