package users

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrQueryTooShort      = errors.New("search query must be at least 3 characters")
	ErrInvalidInput       = errors.New("invalid input")
)
