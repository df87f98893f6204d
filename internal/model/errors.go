package model

import "errors"

// Store-level errors. Services translate them into the account errors below.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("unique constraint violation")
)

// Account lifecycle errors returned to callers.
var (
	ErrAccountNotFound         = errors.New("the account doesn't exist")
	ErrDuplicateAccount        = errors.New("email or username already exists")
	ErrRoleNotFound            = errors.New("role not found")
	ErrNotificationFailed      = errors.New("failed to send notification")
	ErrInvalidVerificationCode = errors.New("incorrect verification code")
	ErrInvalidCredentials      = errors.New("invalid username or password")
	ErrPasswordTooLong         = errors.New("password exceeds 72 bytes")
)
