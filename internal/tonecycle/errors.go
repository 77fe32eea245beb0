package tonecycle

import "fmt"

// StoreError represents a failure to load, save or delete persisted cycle state
type StoreError struct {
	Op        string
	SessionID string
	Message   string
	Cause     error
}

func (e *StoreError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("tone cycle store error (%s %s): %s: %v", e.Op, e.SessionID, e.Message, e.Cause)
	}
	return fmt.Sprintf("tone cycle store error (%s %s): %s", e.Op, e.SessionID, e.Message)
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}
