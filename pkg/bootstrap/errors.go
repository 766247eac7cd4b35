package bootstrap

import "fmt"

// Error is returned by Run when the sequence stops in a failure state.
type Error struct {
	State State
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("bootstrap %s: %v", e.State, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
