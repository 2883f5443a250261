package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrNoStore      = errors.New("no store configured")
)
