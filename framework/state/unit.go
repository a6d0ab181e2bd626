package state

import "slices"

// Factory builds one state container.
type Factory func() StateContainer

// Constructor adapts a typed constructor such as NewCounter to a Factory.
// A nil fn yields a nil Factory, which Provide drops.
func Constructor[T StateContainer](fn func() T) Factory {
	if fn == nil {
		return nil
	}
	return func() StateContainer { return fn() }
}

// Unit is the set of state container constructors compiled into one module.
// Its name is the module's import path, which is the root of every package
// path in the module.
type Unit struct {
	name      string
	factories []Factory
}

// NewUnit creates an empty unit for the module with import path name.
func NewUnit(name string) *Unit {
	return &Unit{name: name}
}

// Name returns the module import path.
func (u *Unit) Name() string { return u.name }

// Provide appends constructors to the unit and returns it for chaining.
// Nil factories are ignored.
func (u *Unit) Provide(factories ...Factory) *Unit {
	for _, f := range factories {
		if f != nil {
			u.factories = append(u.factories, f)
		}
	}
	return u
}

// Factories returns a copy of the provided constructors.
func (u *Unit) Factories() []Factory {
	return slices.Clone(u.factories)
}
