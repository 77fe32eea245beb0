package db

import "fmt"

// CredentialError is returned when the credential cannot be read, written or unsealed
type CredentialError struct {
	Op      string
	Message string
	Cause   error
}

func (e *CredentialError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("credential %s: %s: %v", e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("credential %s: %s", e.Op, e.Message)
}

func (e *CredentialError) Unwrap() error {
	return e.Cause
}
