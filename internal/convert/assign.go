package convert

import (
	"fmt"
	"reflect"

	"data-pipeline/internal/coerce"
	"data-pipeline/internal/schema"
)

// assign stores a coerced value into a struct field. Coerced values are
// string, int64, float64, bool or a typed slice of those; nil leaves the
// field at its zero value.
func assign(dst reflect.Value, v any, t schema.Type) error {
	if v == nil {
		return nil
	}

	switch dst.Kind() {
	case reflect.Pointer:
		elem := reflect.New(dst.Type().Elem())
		if err := assign(elem.Elem(), v, t.ElemType()); err != nil {
			return err
		}

		dst.Set(elem)

		return nil
	case reflect.Slice:
		src := reflect.ValueOf(v)
		if src.Kind() != reflect.Slice {
			return mismatch(v, t, dst.Type())
		}

		out := reflect.MakeSlice(dst.Type(), src.Len(), src.Len())
		for i := range src.Len() {
			if err := assign(out.Index(i), src.Index(i).Interface(), t.ElemType()); err != nil {
				return err
			}
		}

		dst.Set(out)

		return nil
	}

	return assignScalar(dst, v, t)
}

func assignScalar(dst reflect.Value, v any, t schema.Type) error {
	switch dst.Kind() {
	case reflect.String:
		s, ok := v.(string)
		if !ok {
			return mismatch(v, t, dst.Type())
		}

		dst.SetString(s)
	case reflect.Bool:
		b, ok := v.(bool)
		if !ok {
			return mismatch(v, t, dst.Type())
		}

		dst.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := v.(int64)
		if !ok {
			return mismatch(v, t, dst.Type())
		}

		if dst.OverflowInt(n) {
			return overflow(v, t, dst.Type())
		}

		dst.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, ok := v.(int64)
		if !ok {
			return mismatch(v, t, dst.Type())
		}

		if n < 0 || dst.OverflowUint(uint64(n)) {
			return overflow(v, t, dst.Type())
		}

		dst.SetUint(uint64(n))
	case reflect.Float32, reflect.Float64:
		f, ok := v.(float64)
		if !ok {
			return mismatch(v, t, dst.Type())
		}

		if dst.OverflowFloat(f) {
			return overflow(v, t, dst.Type())
		}

		dst.SetFloat(f)
	default:
		return mismatch(v, t, dst.Type())
	}

	return nil
}

func overflow(v any, t schema.Type, target reflect.Type) error {
	return &coerce.CoercionError{Raw: v, Type: t, Reason: fmt.Sprintf("overflows %s", target)}
}

func mismatch(v any, t schema.Type, target reflect.Type) error {
	return &coerce.CoercionError{Raw: v, Type: t, Reason: fmt.Sprintf("cannot store %T in %s", v, target)}
}

// cloneValue copies slices so record targets never share backing arrays.
func cloneValue(v any) any {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != reflect.Slice {
		return v
	}

	out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
	reflect.Copy(out, rv)

	return out.Interface()
}
