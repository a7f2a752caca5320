package service

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("already exists")
	// ErrInvalidCredentials deliberately carries one message for both
	// unknown emails and wrong passwords.
	ErrInvalidCredentials = errors.New("invalid email or password")
)
