// Package mapping provides YAML definitions, parsing and validation for
// explicit column mappings.
//
// YAML is a first-class feature that turns best-effort suggestions
// into deterministic conversions.
//
// # Key capabilities
//
//   - Pin columns to fields with the "121" shorthand
//   - Declare extra column aliases per field
//   - Declare global aliases shared by every target
//   - Override the confidence threshold per target
//   - Export a resolved mapping for review
//
// # Schema Overview
//
// The mapping file has the following structure:
//
//	version: "1"
//	aliases:
//	  text: [prompt, question]
//	  name: Title
//	mappings:
//	  - target: product
//	    threshold: 0.7
//	    # Pinned column -> field pairs (highest priority)
//	    121:
//	      Product Name: name
//	    # Extra aliases per field
//	    fields:
//	      - target: count
//	        source: [Quantity, Qty]
//	    # Auto-matched fields (written by export, informational)
//	    auto:
//	      - target: active
//	        source: Is Active
//
// # Priority Order
//
// When resolving field mappings:
//  1. "121" pins (highest)
//  2. "fields" and global aliases, merged into the alias catalog
//  3. best-effort matching (lowest)
package mapping
