package domain

import "errors"

// Domain errors for editing sessions
var (
	// ErrSessionNotFound indicates that no editing session exists for the given ID.
	ErrSessionNotFound = errors.New("editing session not found")

	// ErrSessionConflict indicates that the session was modified concurrently.
	ErrSessionConflict = errors.New("editing session was modified concurrently")

	// ErrUnknownKind indicates a question kind other than multiple_choice or short_answer.
	ErrUnknownKind = errors.New("unknown question kind")

	// ErrUnknownOperation indicates an edit operation the editor does not support.
	ErrUnknownOperation = errors.New("unknown edit operation")
)

// Domain errors for saving
var (
	// ErrValidationFailed indicates that the editor's questions did not pass validation.
	ErrValidationFailed = errors.New("questions failed validation")

	// ErrQuizIDRequired indicates a missing quiz identifier.
	ErrQuizIDRequired = errors.New("quiz id is required")
)

// FieldError is used to indicate an error with a specific question field.
type FieldError struct {
	Key     string
	Message string
}

// ValidationError carries the per-field results of a failed validation.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

// NewValidationError builds a ValidationError from an editor error map.
func NewValidationError(errs ValidationErrors) *ValidationError {
	fields := make([]FieldError, 0, len(errs))
	for _, k := range errs.Keys() {
		fields = append(fields, FieldError{Key: k, Message: errs[k]})
	}
	return &ValidationError{Err: ErrValidationFailed, Fields: fields}
}

func (err *ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

func (err *ValidationError) Unwrap() error {
	return err.Err
}
