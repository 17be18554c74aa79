package diagnostic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnostics_AddAndQuery(t *testing.T) {
	var d Diagnostics

	assert.True(t, d.IsValid())
	require.NoError(t, d.Error())

	d.AddInfo("mapped", "matched with score 1.00", "name", "Product Name")
	d.AddWarning("unmapped_field", "no column above threshold", "price", "")
	d.AddSuggestion("Cost", "Amount")

	assert.True(t, d.IsValid())
	assert.Equal(t, 2, d.Len())
	assert.True(t, d.HasCode("unmapped_field"))
	assert.False(t, d.HasCode("row_failed"))

	d.AddError("row_failed", "not a number", "count", "Quantity")

	assert.False(t, d.IsValid())
	assert.True(t, d.HasErrors())
	assert.EqualError(t, d.Error(), `count <- "Quantity": [row_failed] not a number`)

	assert.Equal(t,
		`price: [unmapped_field] no column above threshold (did you mean Cost, Amount?)`,
		d.Warnings[0].String())
}

func TestDiagnostics_Merge(t *testing.T) {
	var a, b Diagnostics

	a.AddWarning("w", "first", "", "")
	b.AddWarning("w", "second", "", "")
	b.AddError("e", "broken", "", "")

	a.Merge(b)

	assert.Len(t, a.Warnings, 2)
	assert.Len(t, a.Errors, 1)
	assert.Equal(t, "[e] broken", a.Errors[0].String())
}

func TestDiagnosticSeverity_String(t *testing.T) {
	assert.Equal(t, "info", DiagnosticInfo.String())
	assert.Equal(t, "warning", DiagnosticWarning.String())
	assert.Equal(t, "error", DiagnosticError.String())
	assert.Equal(t, "unknown", DiagnosticSeverity(42).String())
}
