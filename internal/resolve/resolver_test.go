package resolve

import (
	"errors"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"data-pipeline/internal/alias"
	"data-pipeline/internal/match"
	"data-pipeline/internal/schema"
)

func newTestResolver(t *testing.T, mutate func(*Config)) *Resolver {
	t.Helper()

	cfg := DefaultConfig()
	cfg.Catalog = nil

	if mutate != nil {
		mutate(&cfg)
	}

	r, err := NewResolver(cfg)
	require.NoError(t, err)

	return r
}

func productSchema(t *testing.T, opts ...schema.FieldOption) *schema.Schema {
	t.Helper()

	s, err := schema.NewBuilder("product").
		Field("name", schema.TypeString, opts...).
		Field("count", schema.TypeInt).
		Field("active", schema.TypeBool).
		Build()
	require.NoError(t, err)

	return s
}

func TestResolve_VerbatimCanonical(t *testing.T) {
	r := newTestResolver(t, nil)

	m, err := r.Resolve(productSchema(t), []string{"active", "Name", "count"})
	require.NoError(t, err)
	require.Empty(t, m.Unmapped, spew.Sdump(m))

	for _, e := range m.Entries {
		assert.Equal(t, 1.0, e.Score, e.Field)
		assert.Equal(t, match.QualityCanonical, e.Quality, e.Field)
	}

	assert.Equal(t, map[string]string{"name": "Name", "count": "count", "active": "active"}, m.AsMap())
}

func TestResolve_FieldAliases(t *testing.T) {
	s, err := schema.NewBuilder("product").
		Field("name", schema.TypeString, schema.WithAliases("Product Name")).
		Field("count", schema.TypeInt, schema.WithAliases("Quantity")).
		Field("active", schema.TypeBool, schema.WithAliases("Is Active")).
		Build()
	require.NoError(t, err)

	r := newTestResolver(t, nil)

	m, err := r.Resolve(s, []string{"Product Name", "Quantity", "Is Active"})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"name":   "Product Name",
		"count":  "Quantity",
		"active": "Is Active",
	}, m.AsMap())

	e, ok := m.Entry("count")
	require.True(t, ok)
	assert.Equal(t, match.QualityAlias, e.Quality)
	assert.Equal(t, "Quantity", e.MatchedName)
}

func TestResolve_CatalogAliases(t *testing.T) {
	s, err := schema.NewBuilder("quiz").
		Field("text", schema.TypeString).
		Field("answer", schema.TypeString).
		Build()
	require.NoError(t, err)

	r := newTestResolver(t, func(c *Config) { c.Catalog = alias.Default() })

	m, err := r.Resolve(s, []string{"Question", "Solution"})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"text": "Question", "answer": "Solution"}, m.AsMap())
}

func TestResolve_Displacement(t *testing.T) {
	// "customer" claims "customer_id" first with a fuzzy score of 0.8, then
	// loses it to the exact match and has nothing left above the threshold.
	s, err := schema.NewBuilder("order").
		Field("customer", schema.TypeString).
		Field("customer_id", schema.TypeString).
		Build()
	require.NoError(t, err)

	r := newTestResolver(t, nil)

	m, err := r.Resolve(s, []string{"customer_id", "client"})
	require.NoError(t, err)

	col, ok := m.Column("customer_id")
	require.True(t, ok)
	assert.Equal(t, "customer_id", col)

	require.Len(t, m.Unmapped, 1)
	assert.Equal(t, "customer", m.Unmapped[0].Field)
	assert.Contains(t, m.Unmapped[0].Reason, "taken by another field")
	assert.True(t, m.IsUnmapped("Customer"))
}

func TestResolve_DisplacedFieldFallsBack(t *testing.T) {
	s, err := schema.NewBuilder("order").
		Field("customer", schema.TypeString).
		Field("customer_id", schema.TypeString).
		Build()
	require.NoError(t, err)

	r := newTestResolver(t, nil)

	// "customer" scores 0.8 on "customer_id" and 0.75 on "custom"
	m, err := r.Resolve(s, []string{"customer_id", "custom"})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"customer":    "custom",
		"customer_id": "customer_id",
	}, m.AsMap(), spew.Sdump(m))
}

func TestResolve_OneToOne(t *testing.T) {
	s, err := schema.NewBuilder("contact").
		Field("name", schema.TypeString).
		Field("full_name", schema.TypeString).
		Field("email", schema.TypeString).
		Field("phone", schema.TypeString).
		Field("id", schema.TypeInt).
		Build()
	require.NoError(t, err)

	r := newTestResolver(t, func(c *Config) { c.Catalog = alias.Default() })

	columns := []string{"Full Name", "Name ", "E-Mail", "Mobile", "Telephone", "identifier", "ID"}

	m, err := r.Resolve(s, columns)
	require.NoError(t, err)

	seen := make(map[string]string)
	for _, e := range m.Entries {
		if other, dup := seen[e.Column]; dup {
			t.Fatalf("column %q mapped to both %s and %s", e.Column, other, e.Field)
		}

		seen[e.Column] = e.Field
	}

	assert.Equal(t, map[string]string{
		"name":      "Name ",
		"full_name": "Full Name",
		"email":     "E-Mail",
		"phone":     "Mobile",
		"id":        "ID",
	}, m.AsMap(), spew.Sdump(m))
}

func TestResolve_DeterministicUnderPermutation(t *testing.T) {
	s, err := schema.NewBuilder("product").
		Field("product_name", schema.TypeString).
		Field("quantity", schema.TypeInt).
		Field("price", schema.TypeFloat).
		Build()
	require.NoError(t, err)

	r := newTestResolver(t, func(c *Config) { c.Catalog = alias.Default() })

	permutations := [][]string{
		{"Product", "Qty", "Unit Price", "notes"},
		{"notes", "Unit Price", "Qty", "Product"},
		{"Qty", "notes", "Product", "Unit Price"},
	}

	var first map[string]string

	for _, columns := range permutations {
		m, err := r.Resolve(s, columns)
		require.NoError(t, err)

		if first == nil {
			first = m.AsMap()

			continue
		}

		assert.Equal(t, first, m.AsMap(), "columns %v", columns)
	}

	assert.Equal(t, "Product", first["product_name"])
	assert.Equal(t, "Qty", first["quantity"])
}

func TestResolve_Threshold(t *testing.T) {
	s, err := schema.NewBuilder("x").Field("name", schema.TypeString).Build()
	require.NoError(t, err)

	strict := newTestResolver(t, nil)

	m, err := strict.Resolve(s, []string{"zzz"})
	require.NoError(t, err)
	require.Len(t, m.Unmapped, 1)
	assert.Contains(t, m.Unmapped[0].Reason, "below threshold 0.60")
	require.Len(t, m.Unmapped[0].Candidates, 1)
	assert.Equal(t, "zzz", m.Unmapped[0].Candidates[0].Column)
	assert.True(t, m.Diagnostics.HasCode("unmapped_field"))

	loose := newTestResolver(t, func(c *Config) { c.ConfidenceThreshold = 0 })

	m, err = loose.Resolve(s, []string{"zzz"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"name": "zzz"}, m.AsMap())
	assert.Equal(t, match.QualityFuzzy, m.Entries[0].Quality)

	m, err = strict.Resolve(s, nil)
	require.NoError(t, err)
	assert.Equal(t, "no candidate columns", m.Unmapped[0].Reason)
}

func TestResolve_Pins(t *testing.T) {
	s, err := schema.NewBuilder("x").
		Field("name", schema.TypeString).
		Field("col_b", schema.TypeString).
		Build()
	require.NoError(t, err)

	r := newTestResolver(t, func(c *Config) {
		c.Pins = map[string]string{"Name": "col b", "ghost": "Col A"}
	})

	m, err := r.Resolve(s, []string{"Col A", "Col B"})
	require.NoError(t, err)

	e, ok := m.Entry("name")
	require.True(t, ok)
	assert.Equal(t, "Col B", e.Column)
	assert.Equal(t, match.QualityPinned, e.Quality)
	assert.Equal(t, 1.0, e.Score)

	// The pinned column is not offered to other fields
	col, ok := m.Column("col_b")
	require.True(t, ok)
	assert.Equal(t, "Col A", col)
	assert.True(t, m.Diagnostics.HasCode("unknown_pin_field"))
}

func TestResolve_PinMissingColumnFallsBack(t *testing.T) {
	s, err := schema.NewBuilder("x").Field("name", schema.TypeString).Build()
	require.NoError(t, err)

	r := newTestResolver(t, func(c *Config) {
		c.Pins = map[string]string{"name": "missing"}
	})

	m, err := r.Resolve(s, []string{"name"})
	require.NoError(t, err)

	e, ok := m.Entry("name")
	require.True(t, ok)
	assert.Equal(t, match.QualityCanonical, e.Quality)
	assert.True(t, m.Diagnostics.HasCode("pin_column_missing"))
}

func TestResolve_Ambiguity(t *testing.T) {
	s, err := schema.NewBuilder("x").
		Field("title", schema.TypeString, schema.WithAliases("heading")).
		Field("name", schema.TypeString, schema.WithAliases("heading")).
		Build()
	require.NoError(t, err)

	r := newTestResolver(t, nil)

	m, err := r.Resolve(s, []string{"Heading"})
	require.NoError(t, err)

	// The first field in schema order keeps the column
	assert.Equal(t, map[string]string{"title": "Heading"}, m.AsMap())
	require.Len(t, m.Ambiguities, 1)
	assert.Equal(t, Ambiguity{
		Column:  "Heading",
		Holder:  "title",
		Field:   "name",
		Score:   1.0,
		Quality: match.QualityAlias,
	}, m.Ambiguities[0])
	assert.True(t, m.Diagnostics.HasCode("ambiguous_match"))

	failing := newTestResolver(t, func(c *Config) { c.FailOnAmbiguity = true })

	m, err = failing.Resolve(s, []string{"Heading"})
	require.Error(t, err)
	assert.Nil(t, m)
	assert.True(t, errors.Is(err, ErrAmbiguousMapping))

	var ambErr *AmbiguousMappingError
	require.ErrorAs(t, err, &ambErr)
	assert.Len(t, ambErr.Ambiguities, 1)
	assert.Contains(t, err.Error(), `column "Heading": title and name tie at 1.00 (alias)`)
}

func TestNewResolver_InvalidConfig(t *testing.T) {
	for _, mutate := range []func(*Config){
		func(c *Config) { c.ConfidenceThreshold = 1.5 },
		func(c *Config) { c.ConfidenceThreshold = -0.1 },
		func(c *Config) { c.AmbiguityThreshold = -1 },
		func(c *Config) { c.MaxCandidates = -1 },
	} {
		cfg := DefaultConfig()
		mutate(&cfg)

		_, err := NewResolver(cfg)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	}
}

func TestResolve_NilSchema(t *testing.T) {
	r := newTestResolver(t, nil)

	_, err := r.Resolve(nil, []string{"a"})
	assert.Error(t, err)
}

func TestResolve_TokenOverlapStrategy(t *testing.T) {
	s, err := schema.NewBuilder("x").Field("product_name", schema.TypeString).Build()
	require.NoError(t, err)

	r := newTestResolver(t, func(c *Config) {
		c.Similarity = match.MaxOf(match.LevenshteinSimilarity, match.TokenOverlap)
	})

	m, err := r.Resolve(s, []string{"Name Product"})
	require.NoError(t, err)

	e, ok := m.Entry("product_name")
	require.True(t, ok, spew.Sdump(m))
	assert.Equal(t, 1.0, e.Score)
	assert.Equal(t, match.QualityFuzzy, e.Quality)
}
