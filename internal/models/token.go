package models

import "github.com/golang-jwt/jwt/v5"

// SessionClaims are the claims embedded in an admin session token.
// Validity is determined entirely by the signature and the embedded
// expiry; nothing is persisted server-side.
type SessionClaims struct {
	Admin bool `json:"admin"`
	jwt.RegisteredClaims
}
