// Package state provides observable state containers for UI components and
// the helper that registers them with the IoC container.
//
// # State containers
//
// A state container is a struct that embeds state.Base. Base stores named
// property values and broadcasts a change notification to every subscriber
// whenever a property actually changes.
//
//	type Counter struct {
//	    state.Base
//	}
//
//	var countKey = state.NewKey[int]("Count")
//
//	func (c *Counter) Count() int     { return state.Get(c, countKey) }
//	func (c *Counter) SetCount(n int) { state.Set(c, countKey, n) }
//
// Writing a value equal to the current one is a no-op and raises no
// notification. Writing nil removes the property; reading a missing property
// returns the zero value of its type.
//
// # Subscriptions
//
//	sub := counter.Subscribe(func() { rerender() })
//	defer sub.Dispose()
//
// Notifications are delivered synchronously, in subscription order, on the
// goroutine that changed the property. A panicking subscriber aborts delivery
// to the subscribers after it. Containers are not safe for concurrent
// mutation; one container belongs to one request scope (or one process when
// running in the browser).
//
// # Registration
//
// Go has no assembly scanning, so constructors are collected explicitly in a
// Unit and RegisterStateContainers binds those living in the unit's state
// package:
//
//	var Unit = state.NewUnit("example.com/shop").Provide(
//	    state.Constructor(statecontainers.NewCounter),
//	)
//
//	state.RegisterStateContainers(app.Container, Unit)
//
// Containers are bound as singletons when running as WebAssembly in a
// browser and as scoped (one per request) everywhere else.
package state
