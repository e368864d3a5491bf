package auth

import "errors"

// Authentication error kinds.
// The HTTP boundary collapses all token errors into a single opaque
// unauthorized response; the distinction exists for logging and tests only.
var (
	// ErrInvalidCredentials indicates a failed login attempt.
	// Unknown email and wrong password are deliberately merged into one error
	// so account existence cannot be probed through the login endpoint.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrMalformedToken indicates that the token structure could not be parsed
	ErrMalformedToken = errors.New("malformed token")

	// ErrBadSignature indicates that the token signature does not verify
	// against the server secret
	ErrBadSignature = errors.New("bad token signature")

	// ErrTokenExpired indicates that the token expiry time has elapsed
	ErrTokenExpired = errors.New("token expired")

	// ErrUnknownSubject indicates that the token subject does not resolve
	// to an existing user
	ErrUnknownSubject = errors.New("unknown token subject")
)
