package mapping

import (
	"fmt"
	"sort"

	"data-pipeline/internal/common"
	"data-pipeline/internal/diagnostic"
	"data-pipeline/internal/match"
	"data-pipeline/internal/schema"
)

// Validate validates a mapping definition against a target schema.
// Only the mapping whose target names the schema is checked field by field;
// global aliases for unknown fields are reported as infos since they may
// serve other targets.
func Validate(mf *MappingFile, s *schema.Schema) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if mf == nil {
		res.AddError("mapping_is_nil", "mapping file is nil", "", "")
		return res
	}

	if s == nil {
		res.AddError("schema_is_nil", "schema is nil", "", "")
		return res
	}

	for _, field := range sortedKeys(mf.Aliases) {
		if _, ok := s.Field(field); !ok {
			res.AddInfo("alias_unused",
				fmt.Sprintf("global aliases for %q match no field of %s", field, s.Name()), field, "")
		}
	}

	seenTargets := map[string]struct{}{}

	for i := range mf.TypeMappings {
		key := match.NormalizeName(mf.TypeMappings[i].Target)
		if _, dup := seenTargets[key]; dup {
			res.AddError("duplicate_target",
				fmt.Sprintf("target %q is mapped more than once", mf.TypeMappings[i].Target), "", "")
		}

		seenTargets[key] = struct{}{}
	}

	tm := mf.For(s.Name())
	if tm == nil {
		return res
	}

	if tm.Threshold != nil {
		if t := *tm.Threshold; !common.IsScore(t) {
			res.AddError("invalid_threshold", fmt.Sprintf("threshold %v not in [0,1]", t), "", "")
		}
	}

	validatePins(res, tm, s)

	for _, fm := range tm.Fields {
		if _, ok := s.Field(fm.Target); !ok {
			res.AddError("unknown_field", fmt.Sprintf("field %q not found in %s", fm.Target, s.Name()), fm.Target, "")
			continue
		}

		if fm.Source.IsEmpty() {
			res.AddWarning("empty_aliases", "field entry lists no source columns", fm.Target, "")
		}
	}

	return res
}

func validatePins(res *diagnostic.Diagnostics, tm *TypeMapping, s *schema.Schema) {
	pinnedBy := map[string]string{}

	for _, column := range sortedKeys(tm.OneToOne) {
		field := tm.OneToOne[column]

		f, ok := s.Field(field)
		if !ok {
			res.AddError("unknown_field",
				fmt.Sprintf("121 target field %q not found in %s", field, s.Name()), field, column)

			continue
		}

		if prev, dup := pinnedBy[f.Name]; dup {
			res.AddError("duplicate_pin",
				fmt.Sprintf("field pinned to both %q and %q", prev, column), f.Name, column)

			continue
		}

		pinnedBy[f.Name] = column
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
