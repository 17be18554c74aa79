package resolve

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"data-pipeline/internal/diagnostic"
	"data-pipeline/internal/match"
	"data-pipeline/internal/schema"
)

const unassigned = -1

// Resolver maps schema fields to source columns.
type Resolver struct {
	config Config
	log    zerolog.Logger
}

// NewResolver creates a new Resolver.
func NewResolver(config Config) (*Resolver, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if config.Similarity == nil {
		config.Similarity = match.LevenshteinSimilarity
	}

	return &Resolver{
		config: config,
		log:    config.Logger.With().Str("component", "resolver").Logger(),
	}, nil
}

// Config returns the resolver configuration.
func (r *Resolver) Config() Config {
	return r.config
}

// fieldState tracks one field through assignment.
type fieldState struct {
	field    schema.Field
	ranked   match.CandidateList // every column, best first
	accepted match.CandidateList // ranked columns at or above the threshold
	next     int                 // next accepted candidate to try
	assigned int                 // index into accepted, or unassigned
	moves    int                 // times the field was displaced
	pinned   *match.Candidate
	reason   string
}

func (s *fieldState) current() (match.Candidate, bool) {
	if s.pinned != nil {
		return *s.pinned, true
	}

	if s.assigned == unassigned {
		return match.Candidate{}, false
	}

	return s.accepted[s.assigned], true
}

// run holds the mutable state of a single Resolve call.
type run struct {
	states      []*fieldState
	claimed     map[int]int // column index -> field index
	queue       []int
	ambiguities []Ambiguity
	diags       diagnostic.Diagnostics
	limit       int
}

// Resolve computes the mapping from the schema's fields to columns.
func (r *Resolver) Resolve(s *schema.Schema, columns []string) (*Mapping, error) {
	if s == nil {
		return nil, errors.New("resolve: nil schema")
	}

	fields := s.Fields()

	state := &run{
		states:  make([]*fieldState, len(fields)),
		claimed: make(map[int]int),
		limit:   len(fields),
	}

	for i, f := range fields {
		state.states[i] = &fieldState{field: f, assigned: unassigned}
	}

	r.applyPins(state, columns)

	available, origIndex := freeColumns(columns, state.claimed)

	for i, st := range state.states {
		if st.pinned != nil {
			continue
		}

		st.ranked = r.rank(st.field, available, origIndex)
		st.accepted = st.ranked.AboveThreshold(r.config.ConfidenceThreshold)
		state.queue = append(state.queue, i)
	}

	for len(state.queue) > 0 {
		fi := state.queue[0]
		state.queue = state.queue[1:]

		r.place(state, fi)
	}

	m := &Mapping{
		Columns:     append([]string(nil), columns...),
		Threshold:   r.config.ConfidenceThreshold,
		Ambiguities: state.ambiguities,
		Diagnostics: state.diags,
	}

	r.collect(m, state)

	if r.config.FailOnAmbiguity && len(m.Ambiguities) > 0 {
		return nil, &AmbiguousMappingError{Ambiguities: m.Ambiguities}
	}

	return m, nil
}

// rank scores the free columns for one field and restores their original
// positions in the column list.
func (r *Resolver) rank(f schema.Field, available []string, origIndex []int) match.CandidateList {
	aliases := append([]string(nil), f.Aliases...)
	aliases = append(aliases, r.config.Catalog.Lookup(f.Name)...)

	ranked := match.RankColumns(f.Name, aliases, available, r.config.Similarity)
	for i := range ranked {
		ranked[i].Index = origIndex[ranked[i].Index]
	}

	return ranked
}

// place walks a field down its accepted candidates until it claims a column.
func (r *Resolver) place(state *run, fi int) {
	st := state.states[fi]

	for st.next < len(st.accepted) {
		idx := st.next
		cand := st.accepted[idx]
		st.next++

		holder, taken := state.claimed[cand.Index]
		if !taken {
			state.claimed[cand.Index] = fi
			st.assigned = idx

			return
		}

		hs := state.states[holder]

		held, _ := hs.current()
		if hs.pinned != nil {
			continue
		}

		switch {
		case cand.Beats(held):
			hs.assigned = unassigned
			hs.moves++

			state.claimed[cand.Index] = fi
			st.assigned = idx

			r.log.Debug().
				Str("column", cand.Column).
				Str("field", st.field.Name).
				Str("displaced", hs.field.Name).
				Msg("column reassigned")

			if hs.moves > state.limit {
				hs.reason = "re-resolution limit reached"
			} else {
				state.queue = append(state.queue, holder)
			}

			return
		case cand.Ties(held):
			state.ambiguities = append(state.ambiguities, Ambiguity{
				Column:  cand.Column,
				Holder:  hs.field.Name,
				Field:   st.field.Name,
				Score:   cand.Score,
				Quality: cand.Quality,
			})
		}
	}

	st.reason = r.unmappedReason(st)
}

func (r *Resolver) unmappedReason(st *fieldState) string {
	switch {
	case len(st.ranked) == 0:
		return "no candidate columns"
	case len(st.accepted) == 0:
		best := st.ranked[0]

		return fmt.Sprintf("best match %q (%.2f) below threshold %.2f",
			best.Column, best.Score, r.config.ConfidenceThreshold)
	default:
		return "every candidate column above threshold is taken by another field"
	}
}

// applyPins assigns the configured field→column pins before scoring.
func (r *Resolver) applyPins(state *run, columns []string) {
	if len(r.config.Pins) == 0 {
		return
	}

	pins := make(map[string]string, len(r.config.Pins))
	pinFields := make([]string, 0, len(r.config.Pins))

	for field, column := range r.config.Pins {
		pins[match.NormalizeName(field)] = column
		pinFields = append(pinFields, field)
	}

	sort.Strings(pinFields)

	known := make(map[string]bool, len(state.states))
	for _, st := range state.states {
		known[match.NormalizeName(st.field.Name)] = true
	}

	for _, field := range pinFields {
		if !known[match.NormalizeName(field)] {
			state.diags.AddWarning("unknown_pin_field",
				fmt.Sprintf("pinned field %q is not in the schema", field), field, r.config.Pins[field])
		}
	}

	for fi, st := range state.states {
		column, ok := pins[match.NormalizeName(st.field.Name)]
		if !ok {
			continue
		}

		idx := findColumn(columns, column)
		if idx < 0 {
			state.diags.AddWarning("pin_column_missing",
				fmt.Sprintf("pinned column %q not present; falling back to matching", column),
				st.field.Name, column)

			continue
		}

		if other, taken := state.claimed[idx]; taken {
			state.diags.AddWarning("pin_conflict",
				fmt.Sprintf("column %q already pinned to %q", columns[idx], state.states[other].field.Name),
				st.field.Name, columns[idx])

			continue
		}

		state.claimed[idx] = fi
		st.pinned = &match.Candidate{
			Column:           columns[idx],
			Index:            idx,
			Name:             column,
			Score:            1.0,
			Quality:          match.QualityPinned,
			NormalizedColumn: match.NormalizeName(columns[idx]),
		}
	}
}

// collect turns field states into mapping entries, unmapped fields and
// diagnostics, in schema order.
func (r *Resolver) collect(m *Mapping, state *run) {
	for _, st := range state.states {
		name := st.field.Name

		cand, ok := st.current()
		if !ok {
			m.Unmapped = append(m.Unmapped, Unmapped{
				Field:      name,
				Reason:     st.reason,
				Candidates: st.ranked.Top(r.config.MaxCandidates),
			})

			m.Diagnostics.AddWarning("unmapped_field",
				fmt.Sprintf("field %q: %s", name, st.reason), name, "")

			for _, c := range st.ranked.Top(r.config.MaxCandidates) {
				m.Diagnostics.AddSuggestion(fmt.Sprintf("%q (%.2f)", c.Column, c.Score))
			}

			r.log.Debug().Str("field", name).Str("reason", st.reason).Msg("field unmapped")

			continue
		}

		entry := Entry{
			Field:       name,
			Column:      cand.Column,
			Score:       cand.Score,
			Quality:     cand.Quality,
			MatchedName: cand.Name,
			Explanation: explain(cand),
		}

		m.Entries = append(m.Entries, entry)
		m.Diagnostics.AddInfo("mapped", entry.Explanation, name, cand.Column)

		if cand.Quality == match.QualityFuzzy && nearTie(st, cand, r.config.AmbiguityThreshold) {
			m.Diagnostics.AddWarning("near_tie",
				fmt.Sprintf("field %q: runner-up column is within %.2f of %q",
					name, r.config.AmbiguityThreshold, cand.Column), name, cand.Column)
		}

		r.log.Debug().
			Str("field", name).
			Str("column", cand.Column).
			Float64("score", cand.Score).
			Stringer("quality", cand.Quality).
			Msg("field mapped")
	}

	for _, a := range m.Ambiguities {
		m.Diagnostics.AddWarning("ambiguous_match", a.String(), a.Field, a.Column)
	}
}

func explain(c match.Candidate) string {
	switch c.Quality {
	case match.QualityPinned:
		return fmt.Sprintf("pinned to %q", c.Column)
	case match.QualityCanonical:
		return fmt.Sprintf("column %q matches the field name", c.Column)
	case match.QualityAlias:
		return fmt.Sprintf("column %q matches alias %q", c.Column, c.Name)
	default:
		return fmt.Sprintf("column %q resembles %q (score: %.2f)", c.Column, c.Name, c.Score)
	}
}

// nearTie reports whether another column scored within threshold of the
// accepted fuzzy candidate.
func nearTie(st *fieldState, accepted match.Candidate, threshold float64) bool {
	for _, c := range st.ranked {
		if c.Index == accepted.Index || c.Score > accepted.Score {
			continue
		}

		return accepted.Score-c.Score < threshold
	}

	return false
}

func freeColumns(columns []string, claimed map[int]int) ([]string, []int) {
	available := make([]string, 0, len(columns))
	origIndex := make([]int, 0, len(columns))

	for i, c := range columns {
		if _, taken := claimed[i]; taken {
			continue
		}

		available = append(available, c)
		origIndex = append(origIndex, i)
	}

	return available, origIndex
}

// findColumn finds a pinned column by exact name first, then by normalized
// name.
func findColumn(columns []string, name string) int {
	for i, c := range columns {
		if c == name {
			return i
		}
	}

	norm := match.NormalizeName(name)
	if norm == "" {
		return -1
	}

	for i, c := range columns {
		if match.NormalizeName(c) == norm {
			return i
		}
	}

	return -1
}
