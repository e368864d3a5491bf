package storage

import "errors"

// Common storage errors
var (
	// ErrUserNotFound indicates that user was not found in storage
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken indicates that a user with this email already exists
	ErrEmailTaken = errors.New("email already registered")

	// ErrUsernameTaken indicates that a user with this username already exists
	ErrUsernameTaken = errors.New("username already taken")

	// ErrDocumentNotFound indicates that document was not found in storage
	ErrDocumentNotFound = errors.New("document not found")

	// ErrDocumentKeyTaken indicates that a document with this key already exists
	ErrDocumentKeyTaken = errors.New("document key already exists")
)
