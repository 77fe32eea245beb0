package rewriting

import "fmt"

// Error is returned when a rewrite cannot start at all
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("rewrite error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("rewrite error: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
