package model

import "errors"

var (
	// Credential/token related errors
	ErrInvalidCredentials = errors.New("authentication failed")
	ErrTokenExpired       = errors.New("token has expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenUnverifiable  = errors.New("could not validate credentials")

	// Authorization related errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("not authorized")
	ErrUnknownRole  = errors.New("unknown role")

	// Todo related errors
	ErrTodoNotFound = errors.New("todo not found")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
