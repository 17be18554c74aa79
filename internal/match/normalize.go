package match

import (
	"strings"
	"unicode"
)

// Delimiter joins name tokens in normalized form.
const Delimiter = "_"

// NormalizeName normalizes a field or column name for fuzzy matching.
// The normalization pipeline:
// 1. Strip surrounding whitespace.
// 2. Tokenize CamelCase and split on whitespace/punctuation runs.
// 3. Case-fold tokens to lower.
// 4. Join tokens with a single Delimiter.
//
// "Product Name", "product_name", "ProductName" and " product--name " all
// normalize to "product_name".
func NormalizeName(s string) string {
	return strings.Join(TokenizeName(s), Delimiter)
}

// CompactName normalizes a name and drops the delimiters entirely.
// Edit distance is computed on this form so that "is_active" and "isactive"
// compare as identical.
func CompactName(s string) string {
	return strings.Join(TokenizeName(s), "")
}

// TokenizeName splits a name into normalized lowercase tokens.
func TokenizeName(s string) []string {
	tokens := tokenizeCamelCase(strings.TrimSpace(s))
	for i, t := range tokens {
		tokens[i] = strings.ToLower(t)
	}

	return tokens
}

// tokenizeCamelCase splits a CamelCase or camelCase string into tokens.
// Examples:
//   - "OrderID" -> ["Order", "ID"]
//   - "customerName" -> ["customer", "Name"]
//   - "XMLParser" -> ["XML", "Parser"]
//   - "Is Active?" -> ["Is", "Active"]
func tokenizeCamelCase(s string) []string {
	if s == "" {
		return nil
	}

	var tokens []string

	var current strings.Builder

	runes := []rune(s)
	for i := range runes {
		r := runes[i]

		// Separators end the current token and are dropped
		if isSeparator(r) {
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}

			continue
		}

		if i == 0 {
			current.WriteRune(r)

			continue
		}

		if shouldStartNewToken(runes, i) {
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
		}

		current.WriteRune(r)
	}

	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}

// isSeparator reports whether r delimits tokens: anything that is not a
// letter or a digit.
func isSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// shouldStartNewToken determines if a new token should start at position i.
func shouldStartNewToken(runes []rune, i int) bool {
	r := runes[i]
	prevRune := runes[i-1]
	isUpper := unicode.IsUpper(r)
	isPrevUpper := unicode.IsUpper(prevRune)
	isPrevSep := isSeparator(prevRune)

	// Transition from lowercase to uppercase: start new token
	// e.g., "orderID" -> split before 'I'
	if isUpper && !isPrevUpper && !isPrevSep {
		return true
	}

	// End of acronym: check if next character is lowercase
	// e.g., "XMLParser" -> "XML" + "Parser", split before 'P'
	hasNextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
	if isUpper && isPrevUpper && hasNextLower {
		return true
	}

	return false
}
