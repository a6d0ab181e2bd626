package state

import (
	"math"
	"reflect"
)

// Comparer decides whether a new property value differs from the stored one.
type Comparer[T any] interface {
	Equal(a, b T) bool
}

// ComparerFunc adapts a function to Comparer.
//
//	caseInsensitive := state.ComparerFunc[string](strings.EqualFold)
type ComparerFunc[T any] func(a, b T) bool

func (f ComparerFunc[T]) Equal(a, b T) bool { return f(a, b) }

// DefaultComparer uses == when both values are comparable at run time and
// reflect.DeepEqual otherwise (slices, maps, structs holding them). Two NaN
// floats are equal, so storing NaN twice notifies once.
func DefaultComparer[T any]() Comparer[T] {
	return defaultComparer[T]{}
}

type defaultComparer[T any] struct{}

func (defaultComparer[T]) Equal(a, b T) bool {
	av, bv := any(a), any(b)
	if isNil(av) || isNil(bv) {
		return isNil(av) && isNil(bv)
	}
	if reflect.TypeOf(av) != reflect.TypeOf(bv) {
		return false
	}
	ra, rb := reflect.ValueOf(av), reflect.ValueOf(bv)
	if ra.CanFloat() && math.IsNaN(ra.Float()) && math.IsNaN(rb.Float()) {
		return true
	}
	if ra.Comparable() && rb.Comparable() {
		return av == bv
	}
	return reflect.DeepEqual(av, bv)
}
