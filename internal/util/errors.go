package util

import "errors"

var (
	ErrEmailRegistered    = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrAttractionNotFound = errors.New("attraction not found")
	ErrQuizNotFound       = errors.New("quiz not found")
	// Returned instead of a not-found error so clients can render
	// "forbidden" and "missing" differently.
	ErrPermissionDenied = errors.New("permission denied")
)
