// Package auth provides password hashing and comparison primitives.
package auth

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost follows the OWASP work-factor recommendation.
const BcryptCost = 12

// HashPassword returns a bcrypt hash of the given password. Used by the
// hash-admin-password helper tool and by tests.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyHash reports whether password matches the bcrypt hash.
func VerifyHash(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// VerifyPlain compares password against a plain-text expected value in
// constant time. Only used when the operator configures ADMIN_PASSWORD
// instead of ADMIN_PASSWORD_HASH.
func VerifyPlain(expected, password string) bool {
	if expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(password)) == 1
}
