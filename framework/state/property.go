package state

import "reflect"

// Key names a property and fixes its type. Declare one per property next to
// the container that owns it.
//
//	var themeKey = state.NewKey[string]("Theme")
type Key[T any] struct {
	name string
}

// NewKey returns the key for the property called name.
func NewKey[T any](name string) Key[T] {
	return Key[T]{name: name}
}

// Name returns the property name.
func (k Key[T]) Name() string { return k.name }

// Get reads the property identified by key.
func Get[T any](s StateContainer, key Key[T]) T {
	return GetProperty[T](s, key.name)
}

// Set writes the property identified by key.
func Set[T any](s StateContainer, key Key[T], value T, comparer ...Comparer[T]) {
	SetProperty(s, value, key.name, comparer...)
}

// GetProperty returns the value stored under name, or the zero value of T
// when the property is missing or holds a value of another type.
func GetProperty[T any](s StateContainer, name string) T {
	var zero T
	if s == nil || name == "" {
		return zero
	}

	v, ok := s.stateBase().load(name)
	if !ok {
		return zero
	}
	typed, ok := v.(T)
	if !ok {
		return zero
	}
	return typed
}

// SetProperty stores value under name and notifies subscribers, unless
// comparer (DefaultComparer when omitted) reports it equal to the current
// value. A nil value removes the property. An empty name is ignored.
// The comparer runs while the container is locked and must not access it.
func SetProperty[T any](s StateContainer, value T, name string, comparer ...Comparer[T]) {
	if s == nil || name == "" {
		return
	}

	var cmp Comparer[T] = DefaultComparer[T]()
	if len(comparer) > 0 && comparer[0] != nil {
		cmp = comparer[0]
	}

	changed := s.stateBase().swap(name, value, func(current any) bool {
		typed, _ := current.(T)
		return cmp.Equal(typed, value)
	})
	if changed {
		s.NotifyStateChanged()
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map,
		reflect.Pointer, reflect.Slice, reflect.UnsafePointer:
		return rv.IsNil()
	default:
		return false
	}
}
