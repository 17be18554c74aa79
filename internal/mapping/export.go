package mapping

import (
	"data-pipeline/internal/match"
	"data-pipeline/internal/resolve"
)

// Export turns a resolved mapping into a reviewable TypeMapping. Pinned
// entries stay in "121"; everything else goes to "auto".
func Export(target string, m *resolve.Mapping) TypeMapping {
	tm := TypeMapping{
		Target:   target,
		OneToOne: make(map[string]string),
	}

	if m == nil {
		return tm
	}

	for _, e := range m.Entries {
		if e.Quality == match.QualityPinned {
			tm.OneToOne[e.Column] = e.Field

			continue
		}

		tm.Auto = append(tm.Auto, FieldMapping{
			Target: e.Field,
			Source: StringOrArray{e.Column},
		})
	}

	return tm
}

// ExportFile wraps Export in a MappingFile.
func ExportFile(target string, m *resolve.Mapping) *MappingFile {
	return &MappingFile{
		Version:      "1",
		TypeMappings: []TypeMapping{Export(target, m)},
	}
}
