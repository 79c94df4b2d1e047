package goscroll

import (
	"reflect"
)

// depsChanged reports whether two dependency lists differ.
//
// Comparable values are compared with ==. Slices, maps, funcs, channels and
// pointers are compared by identity, so rebuilding an equal slice counts as a
// change while passing the same one does not. A length change is a change.
func depsChanged(prev, next []any) bool {
	if len(prev) != len(next) {
		return true
	}

	for i := range prev {
		if !sameDep(prev[i], next[i]) {
			return true
		}
	}

	return false
}

func sameDep(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}

	// Value.Comparable also inspects dynamic values held in interface fields,
	// where a plain == would panic.
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Comparable() && vb.Comparable() {
		return va.Equal(vb)
	}

	switch va.Kind() {
	case reflect.Slice:
		return va.Len() == vb.Len() && va.Pointer() == vb.Pointer()
	case reflect.Map, reflect.Func, reflect.Chan, reflect.Pointer, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	default:
		// Structs or arrays holding non-comparable values.
		return reflect.DeepEqual(a, b)
	}
}
