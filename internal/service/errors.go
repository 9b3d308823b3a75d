package service

import "errors"

// Sentinel errors mapped to HTTP statuses by the server error middleware.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrChatNotFound       = errors.New("chat not found")
	ErrDocumentNotFound   = errors.New("document not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrForbidden          = errors.New("access denied")
)
