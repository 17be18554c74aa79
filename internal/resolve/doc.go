// Package resolve infers which source column feeds each schema field.
//
// Resolution pipeline:
//  1. Apply pinned field→column pairs (quality "pinned", score 1.0)
//  2. Rank every remaining column for each field against the field name,
//     its own aliases and the catalog aliases
//  3. Drop candidates scoring below the confidence threshold
//  4. Assign columns one-to-one: a claimed column only moves to a field with
//     a strictly better (score, quality); the displaced field falls back to
//     its next candidate
//  5. Report unmapped fields with reasons and equal-strength contests as
//     ambiguities
//
// The result is deterministic for a given schema, column list, catalog,
// threshold and similarity strategy.
//
// Key functions:
//   - NewResolver: validate a Config and create a Resolver
//   - Resolver.Resolve: compute a Mapping for a column list
package resolve
