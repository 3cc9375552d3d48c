package planfile

import "errors"

// Sentinel errors for file loading and validation.
var (
	// ErrNoFile indicates the named file does not exist.
	ErrNoFile = errors.New("planfile: file not found")
	// ErrMissingField indicates a required field is empty.
	ErrMissingField = errors.New("required field missing")
	// ErrInvalidField indicates a field value fails its constraint.
	ErrInvalidField = errors.New("invalid field value")
	// ErrUnknownKind indicates a file matches none of the known layouts.
	ErrUnknownKind = errors.New("planfile: unrecognized file layout")
)

// ValidationCategory classifies a validation error for programmatic handling.
type ValidationCategory string

const (
	// CatMissingField indicates a required field is empty.
	CatMissingField ValidationCategory = "missing_field"
	// CatInvalidField indicates a field value fails a struct-tag constraint.
	CatInvalidField ValidationCategory = "invalid_field"
	// CatStructure indicates a requirement tree is malformed.
	CatStructure ValidationCategory = "structure"
)

// ValidationError is one problem found in a file.
type ValidationError struct {
	Category ValidationCategory
	Source   string
	Field    string
	Err      error
}

// Error returns a human-readable string including source file and field.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return e.Source + ": " + e.Field + ": " + e.Err.Error()
	}
	return e.Source + ": " + e.Err.Error()
}

// Unwrap returns the underlying error for use with errors.Is/As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Join combines validation errors into a single error, or nil when errs is
// empty. errors.As finds each *ValidationError in the result.
func Join(errs []ValidationError) error {
	if len(errs) == 0 {
		return nil
	}
	wrapped := make([]error, len(errs))
	for i := range errs {
		wrapped[i] = &errs[i]
	}
	return errors.Join(wrapped...)
}
