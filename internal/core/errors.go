package core

import "errors"

// Validation errors map to HTTP 400 responses; the rest carry their own
// status in the HTTP layer.
var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrDescriptionTooLong = errors.New("description too long (max 200 characters)")
	ErrEmptyUsername      = errors.New("empty username")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")

	ErrNotFound           = errors.New("not found")
	ErrUserExists         = errors.New("username or email already registered")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnauthorized       = errors.New("unauthorized")

	// ErrAdviceNotConfigured is reported before any network call when the
	// generative service credential is missing.
	ErrAdviceNotConfigured = errors.New("advice service is not configured")
	// ErrAdviceUpstream wraps failures and timeouts of the generative service.
	ErrAdviceUpstream = errors.New("advice service unavailable")
)

// IsValidation reports whether err belongs to the user-correctable family.
func IsValidation(err error) bool {
	for _, v := range []error{
		ErrInvalidAmount, ErrInvalidDate, ErrInvalidCategory,
		ErrDescriptionTooLong, ErrEmptyUsername, ErrInvalidEmail,
		ErrWeakPassword,
	} {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}
