package validator

import (
	"fmt"
	"reflect"
)

// Validate returns an error naming the component if any dependency is nil or the zero
// value of its type.
func Validate(name string, deps ...any) error {
	for i, dep := range deps {
		if IsNil(dep) || reflect.ValueOf(dep).IsZero() {
			return fmt.Errorf("missing required deps for component: %s (dependency %d)", name, i)
		}
	}

	return nil
}

// IsNil reports whether v is nil or holds a nil pointer, func, map, slice, channel or
// interface. Values of other kinds are never nil.
func IsNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return rv.IsNil()
	default:
		return false
	}
}
