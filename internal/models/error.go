package models

import "errors"

// Sentinel errors for common failure conditions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInternalServer = errors.New("internal server error")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrLockedOut          = errors.New("too many failed login attempts")
	ErrInvalidToken       = errors.New("invalid or expired token")

	// Security gate errors
	ErrThreatDetected = errors.New("malicious request pattern detected")
	ErrBlacklisted    = errors.New("ip address is blacklisted")
)
