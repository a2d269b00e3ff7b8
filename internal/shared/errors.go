package shared

import "errors"

var (
	// ErrNotFound indicates a referenced order, material, supplier or user is absent.
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates malformed or inconsistent input.
	ErrValidation = errors.New("validation failed")
	// ErrPermissionDenied indicates the actor role lacks authority for the action.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrInvalidTransition indicates a status change not present in the transition table.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrConflict indicates a compare-and-swap precondition failed.
	ErrConflict = errors.New("conflicting concurrent update")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
