package auth

import "errors"

// Errors produced deliberately by the auth flows. Handlers match these with
// errors.Is and map them to HTTP statuses; anything else is treated as a
// dependency failure and surfaced as a generic server error.
var (
	// ErrInvalidCredentials covers both an unknown account and a wrong
	// password so that responses do not reveal which accounts exist.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotVerified is returned when a client with a pending OTP attempts
	// to log in before completing email verification.
	ErrNotVerified = errors.New("account not verified")

	// ErrBlocked is returned for accounts with the blocked flag set.
	ErrBlocked = errors.New("account blocked")

	// ErrAlreadyExists is returned when registering an email that already
	// belongs to a verified account.
	ErrAlreadyExists = errors.New("account already exists")

	// ErrOTPNotFound means no live code exists for the email.
	ErrOTPNotFound = errors.New("otp not found")

	// ErrOTPMismatch means a live code exists but does not match.
	ErrOTPMismatch = errors.New("otp mismatch")

	// ErrOTPExpired means the pending code's expiry timestamp has passed.
	ErrOTPExpired = errors.New("otp expired")

	// ErrInvalidToken means the token signature or payload is bad.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired means the token was well-formed but past its expiry.
	// Externally indistinguishable from ErrInvalidToken (both 401); kept
	// separate for logging.
	ErrTokenExpired = errors.New("token expired")

	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("not found")
)
