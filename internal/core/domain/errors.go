package domain

import "errors"

// Error kinds. Every error the core returns either is one of these or
// unwraps to one; anything else is treated as an internal failure.
var (
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrForbidden          = errors.New("Forbidden: insufficient permissions")
	ErrUnauthenticated    = errors.New("Unauthorized")
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
	ErrTooManyAttempts    = errors.New("Too many failed login attempts, try again later")
)

var (
	ErrUserExists      = kindError(ErrConflict, "User already exists")
	ErrAlreadyEnrolled = kindError(ErrConflict, "Already enrolled in this course")

	ErrInvalidInstructorKey = kindError(ErrForbidden, "Invalid instructor secret key")
	ErrInvalidAdminKey      = kindError(ErrForbidden, "Invalid admin secret key")
	ErrStudentsOnly         = kindError(ErrForbidden, "Only students can enroll in courses")
	ErrNotEnrolled          = kindError(ErrForbidden, "You are not enrolled in this course")

	ErrMissingToken = kindError(ErrUnauthenticated, "No token, access denied")
	ErrInvalidToken = kindError(ErrUnauthenticated, "Invalid token")

	ErrUserNotFound   = kindError(ErrNotFound, "User not found")
	ErrCourseNotFound = kindError(ErrNotFound, "Course not found")
)

type kindErr struct {
	kind error
	msg  string
}

func kindError(kind error, msg string) error {
	return &kindErr{kind: kind, msg: msg}
}

func (e *kindErr) Error() string { return e.msg }
func (e *kindErr) Unwrap() error { return e.kind }

// NewValidationError returns an error of kind ErrValidation carrying msg.
func NewValidationError(msg string) error {
	return kindError(ErrValidation, msg)
}

// Message returns the client-facing message of a classified error, looking
// through any wrapping. ok is false when err carries no specific message.
func Message(err error) (msg string, ok bool) {
	var ke *kindErr
	if errors.As(err, &ke) {
		return ke.msg, true
	}
	return "", false
}
