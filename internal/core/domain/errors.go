package domain

import "errors"

// Validation and conflict errors (400).
var (
	ErrValidation        = errors.New("validation failed")
	ErrDuplicateAccount  = errors.New("user already exists")
	ErrInvalidResetToken = errors.New("invalid or expired reset token")
)

// Authentication errors (401).
var (
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrInvalidToken           = errors.New("invalid token")
	ErrTokenMalformed         = errors.New("malformed token")
	ErrTokenExpired           = errors.New("token expired")
	ErrAccountNotFound        = errors.New("account not found")
)

var (
	ErrForbidden        = errors.New("access forbidden")
	ErrNotFound         = errors.New("resource not found")
	ErrFileTooLarge     = errors.New("file too large")
	ErrUnsupportedMedia = errors.New("unsupported media type")
)

// ValidationError wraps ErrValidation with a client-facing message.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError returns an error matching ErrValidation whose message
// is safe to show to the client.
func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}

// IsTokenError reports whether err is one of the token verification failures.
func IsTokenError(err error) bool {
	return errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrTokenMalformed) ||
		errors.Is(err, ErrTokenExpired)
}
