package auth

import "errors"

var (
	// ErrInvalidCredentials covers both unknown email and wrong password:
	// callers must not be able to tell the two apart.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrEmailAlreadyExists  = errors.New("email already exists")
	ErrPasswordMismatch    = errors.New("passwords do not match")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	ErrRateLimitExceeded             = errors.New("rate limit exceeded")
	ErrInvalidConfirmationCode       = errors.New("invalid confirmation code")
	ErrInvalidConfirmationCodeFormat = errors.New("invalid confirmation code format")
	ErrTooManyAttempts               = errors.New("too many confirmation attempts")
)
