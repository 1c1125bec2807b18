// Package catalog holds the error taxonomy shared by the repositories,
// services and HTTP controllers.
package catalog

import "errors"

var (
	// ErrNotFound means the entity referenced by id does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden means the principal is anonymous or lacks the required
	// permission. It carries no hint of whether the resource exists.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict means a delete was refused because other records still
	// reference the target (e.g. a language still used by book copies).
	ErrConflict = errors.New("conflict")
)

// ValidationError reports malformed or out-of-range input on a named field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Validation builds a field-level validation error.
func Validation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
