package statecontainers

import "github.com/km-arc/go-state/framework/state"

// ModulePath is the import path of the module these containers belong to.
const ModulePath = "github.com/km-arc/go-state"

// Unit lists every state container of the application.
var Unit = state.NewUnit(ModulePath).Provide(
	state.Constructor(NewCounter),
	state.Constructor(NewProfile),
)

// Keys used to resolve the containers from the IoC container.
const (
	CounterKey = ModulePath + "/statecontainers.Counter"
	ProfileKey = ModulePath + "/statecontainers.Profile"
)
