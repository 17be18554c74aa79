// Package diagnostic provides structured warnings, errors, and
// "why this mapped" explanations for field resolution and conversion.
//
// Key capabilities:
//   - Unmapped field warnings
//   - Ambiguous match reports
//   - Row-level conversion failures
//   - Mapping file validation findings
package diagnostic
