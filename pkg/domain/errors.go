package domain

import "errors"

// ErrModuleNotFound is returned when a module identity is unknown to the registry.
var ErrModuleNotFound = errors.New("module not found")

// ErrUnknownState is returned when a transition names a state absent from the
// module definition. This is a content bug and is never swallowed.
var ErrUnknownState = errors.New("unknown state")

// ErrNoInitialState is returned when a module definition lacks the required
// "Initial" state.
var ErrNoInitialState = errors.New(`module has no "Initial" state`)
