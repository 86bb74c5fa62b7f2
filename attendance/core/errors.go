package core

import "fmt"

// ValidationError rejects a submission before anything is written.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// NotFoundError is returned when the referenced employee or ambulance
// does not exist or has been soft-deleted.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// ConflictError rejects a submission that violates the active punch
// policy, e.g. marking attendance on two ambulances on the same day
// when cross-ambulance auto-close is disabled.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return e.Reason
}

// PersistenceError wraps a storage failure. The whole submission is
// rolled back; no partial state survives.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist attendance: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
