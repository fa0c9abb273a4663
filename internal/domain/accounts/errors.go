package accounts

import "errors"

var (
	ErrNotFound           = errors.New("account not found")
	ErrConflict           = errors.New("account or email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnverified         = errors.New("account not verified")
	ErrInvalidCode        = errors.New("invalid verification code")
	ErrCodeExpired        = errors.New("verification code expired")
	ErrAccountHasEvents   = errors.New("account still owns events")
)

// ValidationError reports a rejected registration field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return "invalid " + e.Field + ": " + e.Message
}
