package parsing

import "fmt"

// ParseError describes why one recovery stage could not decode its input.
// It never escapes Parse; it is recorded as a Diagnostic.
type ParseError struct {
	Stage   string
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error (%s): %s: %v", e.Stage, e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error (%s): %s", e.Stage, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
