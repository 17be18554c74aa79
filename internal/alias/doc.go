// Package alias provides the catalog of synonyms recognized for canonical
// field names.
//
// Lookups are keyed by the normalized field name, so "ProductName",
// "product_name" and "Product Name" share one entry. A Catalog is immutable:
// Merge returns a new catalog with the caller's sets appended.
package alias
