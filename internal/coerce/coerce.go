package coerce

import (
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"data-pipeline/internal/schema"
)

// DefaultListDelimiter separates list items inside a single string value.
const DefaultListDelimiter = "|"

// decimalNumber accepts an optional sign, digits with optional thousands
// groups, an optional fraction and an optional exponent.
var decimalNumber = regexp.MustCompile(`^[+-]?(?:(?:\d{1,3}(?:,\d{3})+|\d+)(?:\.\d*)?|\.\d+)(?:[eE][+-]?\d+)?$`)

var (
	trueWords  = map[string]bool{"true": true, "yes": true, "y": true, "1": true}
	falseWords = map[string]bool{"false": true, "no": true, "n": true, "0": true}
)

// Option configures a Coercer.
type Option func(*Coercer)

// WithListDelimiter sets the delimiter used to split string values into lists.
// An empty delimiter keeps the default.
func WithListDelimiter(d string) Option {
	return func(c *Coercer) {
		if d != "" {
			c.delimiter = d
		}
	}
}

// Coercer converts raw values into declared types. It is stateless apart from
// its options and safe for concurrent use.
type Coercer struct {
	delimiter string
}

// New creates a Coercer.
func New(opts ...Option) *Coercer {
	c := &Coercer{delimiter: DefaultListDelimiter}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ListDelimiter returns the configured list delimiter.
func (c *Coercer) ListDelimiter() string {
	return c.delimiter
}

// Coerce converts raw to t. Scalars come back as string, int64, float64 or
// bool; optionals as nil or the scalar; lists as []string, []int64,
// []float64 or []bool.
func (c *Coercer) Coerce(raw any, t schema.Type) (any, error) {
	raw = indirect(raw)

	switch t.Kind {
	case schema.KindString:
		return toString(raw, t)
	case schema.KindInt:
		return toInt(raw, t)
	case schema.KindFloat:
		return toFloat(raw, t)
	case schema.KindBool:
		return toBool(raw, t)
	case schema.KindOptional:
		if isBlank(raw) {
			return nil, nil
		}

		return c.Coerce(raw, t.ElemType())
	case schema.KindList:
		return c.toList(raw, t)
	default:
		return nil, fail(raw, t, "unsupported target type")
	}
}

// IsBoolWord reports whether s, trimmed and case-folded, is one of the words
// bool coercion accepts.
func IsBoolWord(s string) bool {
	word := strings.ToLower(strings.TrimSpace(s))

	return trueWords[word] || falseWords[word]
}

// Stringify renders a scalar value in the form Coerce parses back.
func Stringify(v any) (string, bool) {
	s, err := toString(indirect(v), schema.TypeString)
	if err != nil {
		return "", false
	}

	return s.(string), true
}

func toString(raw any, t schema.Type) (any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, fail(raw, t, "missing value")
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	}

	rv := reflect.ValueOf(raw)

	switch {
	case rv.CanInt():
		return strconv.FormatInt(rv.Int(), 10), nil
	case rv.CanUint():
		return strconv.FormatUint(rv.Uint(), 10), nil
	default:
		return nil, fail(raw, t, "not a scalar")
	}
}

func toInt(raw any, t schema.Type) (any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, fail(raw, t, "missing value")
	case string:
		s, err := cleanNumber(raw, v, t)
		if err != nil {
			return nil, err
		}

		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, nil
		}

		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fail(raw, t, "not a number")
		}

		return floatToInt(raw, f, t)
	case bool:
		return nil, fail(raw, t, "bool is not an integer")
	case float32:
		return floatToInt(raw, float64(v), t)
	case float64:
		return floatToInt(raw, v, t)
	}

	rv := reflect.ValueOf(raw)

	switch {
	case rv.CanInt():
		return rv.Int(), nil
	case rv.CanUint():
		if rv.Uint() > math.MaxInt64 {
			return nil, fail(raw, t, "out of range")
		}

		return int64(rv.Uint()), nil
	default:
		return nil, fail(raw, t, "not a number")
	}
}

func floatToInt(raw any, f float64, t schema.Type) (any, error) {
	switch {
	case math.IsNaN(f) || math.IsInf(f, 0):
		return nil, fail(raw, t, "not a finite number")
	case f != math.Trunc(f):
		return nil, fail(raw, t, "has a fractional part")
	case f < math.MinInt64 || f >= math.MaxInt64:
		return nil, fail(raw, t, "out of range")
	}

	return int64(f), nil
}

func toFloat(raw any, t schema.Type) (any, error) {
	var f float64

	switch v := raw.(type) {
	case nil:
		return nil, fail(raw, t, "missing value")
	case string:
		s, err := cleanNumber(raw, v, t)
		if err != nil {
			return nil, err
		}

		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fail(raw, t, "not a number")
		}

		f = parsed
	case bool:
		return nil, fail(raw, t, "bool is not a number")
	case float32:
		f = float64(v)
	case float64:
		f = v
	default:
		rv := reflect.ValueOf(raw)

		switch {
		case rv.CanInt():
			f = float64(rv.Int())
		case rv.CanUint():
			f = float64(rv.Uint())
		default:
			return nil, fail(raw, t, "not a number")
		}
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fail(raw, t, "not a finite number")
	}

	return f, nil
}

func toBool(raw any, t schema.Type) (any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, fail(raw, t, "missing value")
	case bool:
		return v, nil
	case string:
		word := strings.ToLower(strings.TrimSpace(v))

		switch {
		case trueWords[word]:
			return true, nil
		case falseWords[word]:
			return false, nil
		default:
			return nil, fail(raw, t, "not a recognized boolean")
		}
	case float32:
		return floatToBool(raw, float64(v), t)
	case float64:
		return floatToBool(raw, v, t)
	}

	rv := reflect.ValueOf(raw)

	switch {
	case rv.CanInt():
		return rv.Int() != 0, nil
	case rv.CanUint():
		return rv.Uint() != 0, nil
	default:
		return nil, fail(raw, t, "not a boolean")
	}
}

func floatToBool(raw any, f float64, t schema.Type) (any, error) {
	if math.IsNaN(f) {
		return nil, fail(raw, t, "not a number")
	}

	return f != 0, nil
}

func (c *Coercer) toList(raw any, t schema.Type) (any, error) {
	if raw == nil {
		return nil, fail(raw, t, "missing value")
	}

	var items []any

	if s, ok := raw.(string); ok {
		for _, part := range strings.Split(s, c.delimiter) {
			if part = strings.TrimSpace(part); part != "" {
				items = append(items, part)
			}
		}
	} else {
		rv := reflect.ValueOf(raw)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return nil, fail(raw, t, "not a list")
		}

		items = make([]any, rv.Len())
		for i := range rv.Len() {
			items[i] = rv.Index(i).Interface()
		}
	}

	elem := t.ElemType()
	out := newList(elem, len(items))

	for i, item := range items {
		v, err := c.Coerce(item, elem)
		if err != nil {
			return nil, fail(raw, t, "element %d: %v", i, err)
		}

		out = reflect.Append(out, reflect.ValueOf(v))
	}

	return out.Interface(), nil
}

func newList(elem schema.Type, capacity int) reflect.Value {
	var sliceType reflect.Type

	switch elem.Kind {
	case schema.KindInt:
		sliceType = reflect.TypeFor[[]int64]()
	case schema.KindFloat:
		sliceType = reflect.TypeFor[[]float64]()
	case schema.KindBool:
		sliceType = reflect.TypeFor[[]bool]()
	default:
		sliceType = reflect.TypeFor[[]string]()
	}

	return reflect.MakeSlice(sliceType, 0, capacity)
}

// indirect dereferences pointers so *string and friends coerce like their
// targets. A nil pointer becomes nil.
func indirect(raw any) any {
	rv := reflect.ValueOf(raw)

	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}

		rv = rv.Elem()
	}

	if !rv.IsValid() {
		return nil
	}

	return rv.Interface()
}

func isBlank(raw any) bool {
	if raw == nil {
		return true
	}

	s, ok := raw.(string)

	return ok && strings.TrimSpace(s) == ""
}

// cleanNumber validates a decimal string and drops its thousands separators.
func cleanNumber(raw any, s string, t schema.Type) (string, error) {
	s = strings.TrimSpace(s)

	switch {
	case s == "":
		return "", fail(raw, t, "empty value")
	case !decimalNumber.MatchString(s):
		return "", fail(raw, t, "not a number")
	}

	return strings.ReplaceAll(s, ",", ""), nil
}
