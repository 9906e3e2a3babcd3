package engine

import "fmt"

// DuplicateHandlerError is returned by Registry.Register when an identifier
// is already bound. Registration happens once at startup, so this is a
// fail-fast condition rather than a silent override.
type DuplicateHandlerError struct {
	Identifier string
}

func (e DuplicateHandlerError) Error() string {
	return fmt.Sprintf("condition handler %q already registered", e.Identifier)
}

// UnknownConditionError is returned by Registry.Resolve for an unregistered
// identifier. The evaluator converts it into a non-match so one renamed or
// mistyped condition identifier cannot break unrelated rules.
type UnknownConditionError struct {
	Identifier string
}

func (e UnknownConditionError) Error() string {
	return fmt.Sprintf("no handler registered for condition %q", e.Identifier)
}

// DataResolutionError wraps a failed external lookup performed by a handler.
type DataResolutionError struct {
	Op  string
	Err error
}

func (e DataResolutionError) Error() string {
	return fmt.Sprintf("resolve %s: %v", e.Op, e.Err)
}

func (e DataResolutionError) Unwrap() error { return e.Err }
