package llm

import "fmt"

// StatusError is a failed call to the text-generation service.
// Code is the HTTP status when the service reported one, 0 otherwise.
type StatusError struct {
	Code    int
	Message string
	Cause   error
}

func (e *StatusError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%d %s", e.Code, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *StatusError) Unwrap() error {
	return e.Cause
}
