// Package convert turns batches of records into typed values.
//
// A Converter resolves the batch's columns against the target schema once,
// then coerces every record field by field. Unresolved required fields fail
// the whole batch; per-row failures either abort (strict) or are collected
// (lenient).
//
// Key functions:
//   - New: create a Converter for a struct type or record.Record
//   - Converter.Convert / ConvertTable: convert a batch
//   - Converter.SuggestFieldMapping: preview the column mapping
//   - Converter.Map: pipeline mapper stage
//
// A Converter caches the mapping of its last batch and is not safe for
// concurrent use.
package convert
