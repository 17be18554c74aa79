// Package coerce converts raw record values into declared schema types.
//
// Rules are tried in order and the first that applies wins:
//   - a value already of the declared scalar type is returned unchanged
//   - bool accepts true/yes/y/1 and false/no/n/0 (case-insensitive) or a number
//   - int and float parse trimmed decimal strings: optional sign, digits with
//     optional "," thousands groups, fraction and exponent; int rejects values
//     with a fractional part
//   - lists coerce each element of a slice, or split a string on the delimiter
//   - optional values map nil and blank strings to nil
//   - string stringifies any scalar
//
// Anything else fails with a *CoercionError.
//
// Key functions:
//   - New: create a Coercer with options
//   - Coercer.Coerce: convert one raw value
//   - Stringify: render a scalar the way Coerce parses it back
//   - IsBoolWord: report whether a string is one of the boolean words
package coerce
