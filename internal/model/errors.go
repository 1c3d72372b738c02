package model

import "errors"

var (
	// User related errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Access token errors
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenExpired   = errors.New("token expired")

	// Refresh secret errors. Not-found and expired are deliberately the
	// same error: the store cannot tell them apart and neither may the client.
	ErrRefreshMissing  = errors.New("refresh token missing")
	ErrRefreshNotFound = errors.New("refresh token not found")
	ErrRefreshInvalid  = errors.New("refresh token invalid or expired")

	// Permission/Access related errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Transaction/Category related errors
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrCategoryNotFound    = errors.New("category not found")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
