// Package schema describes conversion targets.
//
// A Schema is an ordered, immutable list of fields, each with a declared
// Type, a required flag, an optional default and extra aliases. Schemas are
// derived once from a Go struct via reflection (For, FromType) or built
// explicitly with a Builder.
//
// Key types:
//   - Kind / Type: closed tagged variant of scalar, optional and list types
//   - Field: name, declared type, required/default flags, struct index
//   - Schema: ordered fields plus the target Go type
//
// Struct tags use the "etl" key:
//
//	type Product struct {
//	    Name  string   `etl:"name,aliases=title|label"`
//	    Count int      `etl:"count,default=1"`
//	    Tags  []string `etl:"tags,optional"`
//	    Note  *string  // optional because it is a pointer
//	    Skip  string   `etl:"-"`
//	}
package schema
