package domain

import "errors"

// Common domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrValidation         = errors.New("invalid input")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
	ErrInternal           = errors.New("internal server error")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// User errors
var (
	ErrUserNotFound        = kindOf(ErrNotFound, "user not found")
	ErrUserAlreadyExists   = kindOf(ErrConflict, "Username already exists.")
	ErrAdminSignupDisabled = kindOf(ErrForbidden, "Registration as ADMIN is disabled")
	ErrRoleChangeForbidden = kindOf(ErrForbidden, "Only an ADMIN may change roles")
)

// Course errors
var (
	ErrCourseNotFound      = kindOf(ErrNotFound, "Course not found")
	ErrInstructorNotFound  = kindOf(ErrValidation, "Instructor not found")
	ErrInstructorRole      = kindOf(ErrValidation, "Instructor must have the INSTRUCTOR role")
	ErrNotCourseInstructor = kindOf(ErrForbidden, "You can only manage courses you teach")
	ErrNoCoursesInCategory = kindOf(ErrNotFound, "No courses found in that category")
	ErrPhotoNotFound       = kindOf(ErrNotFound, "Profile photo not found")
)

// kindError is a specific error that also matches its broad kind with errors.Is
type kindError struct {
	kind error
	msg  string
}

func kindOf(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

func (e *kindError) Error() string {
	return e.msg
}

func (e *kindError) Unwrap() error {
	return e.kind
}

// ValidationError carries a caller-facing message for user-correctable input problems.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is lets errors.Is(err, ErrValidation) match any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError creates a validation error with the given message
func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}

// PublicMessage returns the caller-facing message carried by err, or fallback
// when err carries none.
func PublicMessage(err error, fallback string) string {
	var ve *ValidationError
	if errors.As(err, &ve) && ve.Message != "" {
		return ve.Message
	}
	var ke *kindError
	if errors.As(err, &ke) {
		return ke.msg
	}
	return fallback
}
