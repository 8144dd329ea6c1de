package apperrors

import "errors"

// Error kinds. Every error returned by the lifecycle services wraps exactly one
// of these, so callers can branch with errors.Is.
var (
	// ErrValidationFailed: malformed or out-of-range input. Not retriable without changing the input.
	ErrValidationFailed = errors.New("validation failed")
	// ErrStateConflict: the operation is illegal for the session's current status.
	ErrStateConflict = errors.New("state conflict")
	// ErrCapacityExceeded: the enrollment change would exceed the intake capacity.
	ErrCapacityExceeded = errors.New("capacity exceeded")
	// ErrResourceNotFound: unknown department or session.
	ErrResourceNotFound = errors.New("resource not found")
	// ErrConcurrencyConflict: the record changed since it was read. Re-read and decide.
	ErrConcurrencyConflict = errors.New("concurrency conflict")
)

// Directory and session lookups. They unwrap to ErrResourceNotFound so the
// HTTP layer only needs to know the kind.
var (
	ErrDepartmentNotFound error = &CustomError{Err: ErrResourceNotFound, Message: "department not found", Code: "RES_001"}
	ErrInstituteNotFound  error = &CustomError{Err: ErrResourceNotFound, Message: "institute not found", Code: "RES_001"}
	ErrSessionNotFound    error = &CustomError{Err: ErrResourceNotFound, Message: "academic session not found", Code: "RES_001"}

	ErrDepartmentAlreadyExists = errors.New("department with this name or code already exists")
	ErrInstituteAlreadyExists  = errors.New("institute with this name or code already exists")
	ErrSessionAlreadyExists    = errors.New("academic session already exists")
)

// NewValidationError creates a validation error with a message
func NewValidationError(message string) *CustomError {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
		Code:    "VAL_001",
	}
}

// NewFieldValidationError creates a validation error bound to a request field
func NewFieldValidationError(field, message string) *CustomError {
	return NewValidationError(message).WithDetails(map[string]interface{}{"field": field})
}

// NewStateConflictError creates a state conflict error with a message
func NewStateConflictError(message string) *CustomError {
	return &CustomError{
		Err:     ErrStateConflict,
		Message: message,
		Code:    "STATE_001",
	}
}

// NewCapacityExceededError creates a capacity error with a message
func NewCapacityExceededError(message string) *CustomError {
	return &CustomError{
		Err:     ErrCapacityExceeded,
		Message: message,
		Code:    "CAP_001",
	}
}

// NewConcurrencyConflictError creates a stale-version error with a message
func NewConcurrencyConflictError(message string) *CustomError {
	return &CustomError{
		Err:     ErrConcurrencyConflict,
		Message: message,
		Code:    "CONC_001",
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) *CustomError {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
		Code:    "FORBIDDEN",
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
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
func (e *CustomError) Unwrap() error {
	return e.Err
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	if e.Details == nil {
		e.Details = make(map[string]interface{}, len(details))
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// Kind returns the sentinel kind the error wraps, or nil when err carries none.
func Kind(err error) error {
	for _, k := range []error{
		ErrValidationFailed,
		ErrStateConflict,
		ErrCapacityExceeded,
		ErrResourceNotFound,
		ErrConcurrencyConflict,
		ErrPermissionDenied,
	} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
