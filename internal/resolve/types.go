package resolve

import (
	"errors"
	"fmt"
	"strings"

	"data-pipeline/internal/diagnostic"
	"data-pipeline/internal/match"
)

var (
	// ErrInvalidConfig is returned by NewResolver for out-of-range settings.
	ErrInvalidConfig = errors.New("invalid resolver config")
	// ErrAmbiguousMapping matches every *AmbiguousMappingError via errors.Is.
	ErrAmbiguousMapping = errors.New("ambiguous mapping")
)

// Mapping is the result of resolving a schema against a column list.
type Mapping struct {
	// Entries holds the mapped fields in schema order.
	Entries []Entry
	// Unmapped holds the fields without a column, in schema order.
	Unmapped []Unmapped
	// Ambiguities lists contests between equally strong fields for one column.
	Ambiguities []Ambiguity
	// Columns is the column list the mapping was computed from.
	Columns []string
	// Threshold is the confidence threshold that was applied.
	Threshold float64
	// Diagnostics contains warnings and explanations from resolution.
	Diagnostics diagnostic.Diagnostics
}

// Entry maps one field to one column.
type Entry struct {
	Field   string
	Column  string
	Score   float64
	Quality match.Quality
	// MatchedName is the field name or alias that matched the column.
	MatchedName string
	// Explanation describes why this mapping was chosen.
	Explanation string
}

// Unmapped describes a field that received no column.
type Unmapped struct {
	Field  string
	Reason string
	// Candidates are the best columns for the field regardless of threshold.
	Candidates match.CandidateList
}

// Ambiguity records a field that lost a column only by arrival order.
type Ambiguity struct {
	Column  string
	Holder  string // field that kept the column
	Field   string // field that tied and moved on
	Score   float64
	Quality match.Quality
}

// String returns a formatted ambiguity description.
func (a Ambiguity) String() string {
	return fmt.Sprintf("column %q: %s and %s tie at %.2f (%s)", a.Column, a.Holder, a.Field, a.Score, a.Quality)
}

// Column returns the column mapped to field, if any. Field names are
// compared in normalized form.
func (m *Mapping) Column(field string) (string, bool) {
	e, ok := m.Entry(field)
	if !ok {
		return "", false
	}

	return e.Column, true
}

// Entry returns the entry for field, if any.
func (m *Mapping) Entry(field string) (Entry, bool) {
	if m == nil {
		return Entry{}, false
	}

	key := match.NormalizeName(field)

	for _, e := range m.Entries {
		if match.NormalizeName(e.Field) == key {
			return e, true
		}
	}

	return Entry{}, false
}

// IsUnmapped returns true if field was left without a column.
func (m *Mapping) IsUnmapped(field string) bool {
	if m == nil {
		return false
	}

	key := match.NormalizeName(field)

	for _, u := range m.Unmapped {
		if match.NormalizeName(u.Field) == key {
			return true
		}
	}

	return false
}

// AsMap returns field → column for every mapped field.
func (m *Mapping) AsMap() map[string]string {
	out := make(map[string]string, len(m.Entries))
	for _, e := range m.Entries {
		out[e.Field] = e.Column
	}

	return out
}

// String renders the mapping one field per line.
func (m *Mapping) String() string {
	var b strings.Builder

	for _, e := range m.Entries {
		fmt.Fprintf(&b, "%s <- %q (%.2f, %s)\n", e.Field, e.Column, e.Score, e.Quality)
	}

	for _, u := range m.Unmapped {
		fmt.Fprintf(&b, "%s: unmapped: %s\n", u.Field, u.Reason)
	}

	return b.String()
}

// AmbiguousMappingError is returned when FailOnAmbiguity is set and at least
// one column was contested by equally strong fields.
type AmbiguousMappingError struct {
	Ambiguities []Ambiguity
}

func (e *AmbiguousMappingError) Error() string {
	parts := make([]string, len(e.Ambiguities))
	for i, a := range e.Ambiguities {
		parts[i] = a.String()
	}

	return "ambiguous mapping: " + strings.Join(parts, "; ")
}

// Is reports whether target is ErrAmbiguousMapping.
func (e *AmbiguousMappingError) Is(target error) bool {
	return target == ErrAmbiguousMapping
}
