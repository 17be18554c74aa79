package mapping

import (
	"data-pipeline/internal/match"
)

// MappingFile represents the root of a YAML mapping definition file.
// This is the authoritative, human-reviewed mapping configuration.
type MappingFile struct {
	// Version of the mapping schema (for future compatibility).
	Version string `yaml:"version,omitempty"`

	// Aliases apply to every target: field name -> extra column names.
	Aliases map[string]StringOrArray `yaml:"aliases,omitempty"`

	// TypeMappings is a list of per-target mappings.
	TypeMappings []TypeMapping `yaml:"mappings,omitempty"`
}

// TypeMapping defines how columns map onto one target schema.
type TypeMapping struct {
	// Target is the schema name (the struct type name for derived schemas).
	Target string `yaml:"target"`

	// Threshold overrides the confidence threshold for this target.
	Threshold *float64 `yaml:"threshold,omitempty"`

	// OneToOne is a simplified mapping syntax where keys are source columns
	// and values are target fields.
	// Priority: highest (applied first).
	// Example: { "Product Name": "name", "Qty": "count" }
	OneToOne map[string]string `yaml:"121,omitempty"`

	// Fields declares extra aliases per target field.
	Fields []FieldMapping `yaml:"fields,omitempty"`

	// Auto contains auto-matched fields from best-effort matching.
	// It is written by Export for review and ignored when loading options.
	Auto []FieldMapping `yaml:"auto,omitempty"`
}

// FieldMapping lists the columns recognized for one target field.
type FieldMapping struct {
	// Target field name.
	Target string `yaml:"target"`

	// Source column names treated as aliases of the field.
	Source StringOrArray `yaml:"source,omitempty"`
}

// StringOrArray is a slice of strings that can be unmarshaled from either
// a single string or an array of strings in YAML.
type StringOrArray []string

// For returns the mapping for the given target, or nil. Target names are
// compared in normalized form.
func (mf *MappingFile) For(target string) *TypeMapping {
	if mf == nil {
		return nil
	}

	key := match.NormalizeName(target)

	for i := range mf.TypeMappings {
		if match.NormalizeName(mf.TypeMappings[i].Target) == key {
			return &mf.TypeMappings[i]
		}
	}

	return nil
}

// AliasesFor returns the global aliases merged with the target's field
// aliases, keyed by field name.
func (mf *MappingFile) AliasesFor(target string) map[string][]string {
	out := make(map[string][]string)

	if mf == nil {
		return out
	}

	for field, aliases := range mf.Aliases {
		out[field] = append(out[field], aliases...)
	}

	if tm := mf.For(target); tm != nil {
		for _, fm := range tm.Fields {
			out[fm.Target] = append(out[fm.Target], fm.Source...)
		}
	}

	return out
}

// Pins returns the "121" shorthand as field -> column. When several columns
// name the same field, the first column in sorted order wins.
func (tm *TypeMapping) Pins() map[string]string {
	if tm == nil {
		return nil
	}

	pins := make(map[string]string, len(tm.OneToOne))

	for _, column := range sortedKeys(tm.OneToOne) {
		field := tm.OneToOne[column]
		if _, taken := pins[field]; !taken {
			pins[field] = column
		}
	}

	return pins
}
