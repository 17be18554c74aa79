package match

// Quality describes how a column was matched to a field.
// Higher values win ties between equal scores.
type Quality int

const (
	// QualityNone means no candidate name produced a usable score.
	QualityNone Quality = iota
	// QualityFuzzy means the column is only similar to a candidate name.
	QualityFuzzy
	// QualityAlias means the column normalizes to one of the field's aliases.
	QualityAlias
	// QualityCanonical means the column normalizes to the field name itself.
	QualityCanonical
	// QualityPinned means the mapping was fixed explicitly by the caller.
	QualityPinned
)

// Verdicts are the names Quality.String reports in logs and ambiguity
// descriptions.
const (
	// VerdictNone names QualityNone.
	VerdictNone = "none"
	// VerdictFuzzy names QualityFuzzy.
	VerdictFuzzy = "fuzzy"
	// VerdictAlias names QualityAlias.
	VerdictAlias = "alias"
	// VerdictCanonical names QualityCanonical.
	VerdictCanonical = "canonical"
	// VerdictPinned names QualityPinned.
	VerdictPinned = "pinned"
)

// String returns a human-readable name for the quality level.
func (q Quality) String() string {
	switch q {
	case QualityNone:
		return VerdictNone
	case QualityFuzzy:
		return VerdictFuzzy
	case QualityAlias:
		return VerdictAlias
	case QualityCanonical:
		return VerdictCanonical
	case QualityPinned:
		return VerdictPinned
	default:
		return "unknown"
	}
}

// IsExact returns true for matches on a normalized name rather than a fuzzy score.
func (q Quality) IsExact() bool {
	return q >= QualityAlias
}
