package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Authentication errors
	ErrEmailNotFound      = errors.New("email not found")
	ErrRoleMismatch       = errors.New("invalid role for this account")
	ErrAccountDeactivated = errors.New("account is deactivated")
	ErrInvalidCredentials = errors.New("incorrect password")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotFound      = errors.New("authentication required")
	ErrTokenRevoked       = errors.New("token revoked")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// User errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrRoleIDTaken        = errors.New("role id already taken")
	ErrRoleIDExhausted    = errors.New("could not allocate a unique role id")
	ErrUserTeachesCourses = errors.New("user is still the instructor of one or more courses")
)

// Course errors
var (
	ErrCourseNotFound       = errors.New("course not found")
	ErrCourseCodeExists     = errors.New("course code already exists")
	ErrInstructorNotFaculty = errors.New("instructor must be a faculty member")
	ErrAlreadyEnrolled      = errors.New("student is already enrolled in this course")
	ErrNotEnrolled          = errors.New("student is not enrolled in this course")
)

// Coursework errors
var (
	ErrAssignmentNotFound   = errors.New("assignment not found")
	ErrAnnouncementNotFound = errors.New("announcement not found")
	ErrAlreadySubmitted     = errors.New("assignment already submitted")
)

// Report errors
var (
	ErrReportNotFound = errors.New("report not found")
)

// Application errors
var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrInvalidTransition   = errors.New("invalid application status transition")
)

// NotFoundErrors lists every sentinel that maps to a missing entity.
var NotFoundErrors = []error{
	ErrUserNotFound,
	ErrCourseNotFound,
	ErrAssignmentNotFound,
	ErrAnnouncementNotFound,
	ErrReportNotFound,
	ErrApplicationNotFound,
}

// ConflictErrors lists every sentinel produced by a unique constraint.
var ConflictErrors = []error{
	ErrEmailAlreadyExists,
	ErrCourseCodeExists,
	ErrAlreadyEnrolled,
	ErrAlreadySubmitted,
	ErrUserTeachesCourses,
}

// BadRequestErrors lists sentinels for requests that are well-formed but not allowed.
var BadRequestErrors = []error{
	ErrInstructorNotFaculty,
	ErrInvalidTransition,
}

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
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

// NewValidationError creates a validation failure carrying per-field messages.
func NewValidationError(message string, fields map[string]interface{}) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
		Details: fields,
	}
}

// Is returns whether err matches target or any of the errors in errList
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

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}
