// Package infer derives a schema from sampled records when no target type is
// declared.
//
// Each column is classified over the first SampleSize rows. Blank values are
// counted apart; every other value votes for each type it coerces to:
//   - bool for the boolean words and native bools
//   - int for integral decimal strings and native integers
//   - float for decimal strings and native numbers, integers included
//   - []string for strings holding the list delimiter and native slices
//
// The first type in that order whose share of the non-blank values reaches
// the confidence threshold wins, otherwise the column stays a string. A
// non-string column with blanks becomes optional. Column names are cleaned
// into lowercase field names.
//
// Key functions:
//   - Records, Table: infer a Result from rows
//   - Result.Pins: the field→column pairs for the converter
//   - FieldName: the column name cleaning rule
package infer
