package analysis

import (
	"reflect"
)

// overlay writes into out the value of b, or of a wherever b is unset.
func overlay(t reflect.Type, a, b, out reflect.Value) {
	switch t.Kind() {
	case reflect.Struct:
		for _, f := range reflect.VisibleFields(t) {
			if !f.IsExported() || f.Anonymous {
				continue
			}
			overlay(f.Type, a.FieldByIndex(f.Index), b.FieldByIndex(f.Index), out.FieldByIndex(f.Index))
		}
	case reflect.Pointer:
		switch {
		case a.IsNil():
			out.Set(b)
		case b.IsNil():
			out.Set(a)
		default:
			out.Set(reflect.New(t.Elem()))
			overlay(t.Elem(), a.Elem(), b.Elem(), out.Elem())
		}
	case reflect.Slice, reflect.Map:
		// An empty list does not override; there is no way to ask for one.
		if b.Len() == 0 {
			out.Set(a)
		} else {
			out.Set(b)
		}
	default:
		if b.IsZero() {
			out.Set(a)
		} else {
			out.Set(b)
		}
	}
}

// Merge returns b with every unset field taken from a.
func Merge[T any](a T, b T) T {
	var out T
	overlay(reflect.TypeOf((*T)(nil)).Elem(), reflect.ValueOf(a), reflect.ValueOf(b), reflect.ValueOf(&out).Elem())
	return out
}
