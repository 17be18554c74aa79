package alias

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Lookup(t *testing.T) {
	c := Default()

	text := c.Lookup("text")
	for _, want := range []string{"question", "q", "prompt", "query", "problem"} {
		assert.Contains(t, text, want)
	}

	// Domain sets are merged in
	assert.Contains(t, c.Lookup("quantity"), "qty")
	assert.Contains(t, c.Lookup("question_text"), "prompt")

	assert.Nil(t, c.Lookup("no_such_field"))
}

func TestLookup_NormalizesFieldName(t *testing.T) {
	c := New(map[string][]string{
		"product_name": {"product", "item"},
	})

	for _, field := range []string{"product_name", "ProductName", "Product Name", " product-name "} {
		assert.Equal(t, []string{"product", "item"}, c.Lookup(field), field)
	}
}

func TestLookup_ReturnsCopy(t *testing.T) {
	c := New(map[string][]string{"name": {"title"}})

	got := c.Lookup("name")
	got[0] = "mutated"

	assert.Equal(t, []string{"title"}, c.Lookup("name"))
}

func TestNew_DropsDuplicatesAndEmpty(t *testing.T) {
	c := New(map[string][]string{
		"email": {"email", "E-Mail", "e_mail", "@", "mail", "Mail"},
	})

	assert.Equal(t, []string{"E-Mail", "mail"}, c.Lookup("email"))
}

func TestMerge(t *testing.T) {
	base := New(map[string][]string{
		"name": {"title"},
	})

	merged := base.Merge(
		map[string][]string{
			"name":   {"Product Name", "title"},
			"active": {"Is Active"},
		},
		map[string][]string{
			"count": {"Quantity"},
		},
	)

	assert.Equal(t, []string{"title", "Product Name"}, merged.Lookup("name"))
	assert.Equal(t, []string{"Is Active"}, merged.Lookup("active"))
	assert.Equal(t, []string{"Quantity"}, merged.Lookup("count"))
	assert.Equal(t, []string{"active", "count", "name"}, merged.Fields())

	// The base catalog is untouched
	assert.Equal(t, []string{"title"}, base.Lookup("name"))
	assert.Equal(t, 1, base.Len())
}

func TestNilCatalog(t *testing.T) {
	var c *Catalog

	assert.Nil(t, c.Lookup("name"))
	assert.Zero(t, c.Len())

	merged := c.Merge(map[string][]string{"name": {"title"}})
	require.NotNil(t, merged)
	assert.Equal(t, []string{"title"}, merged.Lookup("name"))
}
