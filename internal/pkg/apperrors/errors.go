package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// Store errors
	ErrStore        = errors.New("store error")
	ErrStoreCorrupt = errors.New("corrupt data")
	ErrStoreWrite   = errors.New("store write failed")
)

// Course errors
var (
	ErrCourseNotFound = NewCustomError(ErrResourceNotFound, "not found")
)

// Validation messages surfaced to callers as-is.
const (
	MsgEmptyTitle  = "empty title"
	MsgNotANumber  = "not a number"
	MsgOutOfRange  = "out of range"
	MsgCorruptData = "corrupt data"
)

// NewValidationError creates a validation error carrying a human-readable message
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// NewStoreError creates a store error of the given kind (ErrStoreCorrupt or ErrStoreWrite).
// cause is kept in Details so that errors.Is still resolves to kind and ErrStore.
func NewStoreError(kind error, message string, cause error) error {
	e := &CustomError{
		Err:     &storeKind{kind: kind},
		Message: message,
	}
	if cause != nil {
		e.Details = map[string]interface{}{"cause": cause.Error()}
		e.cause = cause
	}
	return e
}

// storeKind makes every store error match both its specific kind and ErrStore.
type storeKind struct {
	kind error
}

func (s *storeKind) Error() string { return s.kind.Error() }

func (s *storeKind) Is(target error) bool {
	return target == ErrStore || target == s.kind
}

func (s *storeKind) Unwrap() error { return s.kind }

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// Message extracts the caller-facing message of err.
func Message(err error) string {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Error()
	}
	return err.Error()
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}

	cause error
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() []error {
	if e.cause != nil {
		return []error{e.Err, e.cause}
	}
	return []error{e.Err}
}

// Cause returns the underlying failure, if any.
func (e *CustomError) Cause() error {
	return e.cause
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}
