package service

import "errors"

var (
	// ErrNotFound: no matching record, or its trashed state does not fit the operation.
	ErrNotFound = errors.New("not found")
	// ErrForbidden: the policy denied the action. Deliberately carries no detail.
	ErrForbidden = errors.New("forbidden")
)

// ValidationError is a field-level input failure, surfaced inline next
// to the offending form field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
