package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pdia/sitegate/internal/models"
)

// TokenManager issues and verifies admin session tokens. Tokens are
// signed HS256 JWTs; nothing is persisted server-side, so verification
// is a pure function of the secret and the embedded expiry.
type TokenManager struct {
	secret         string
	sessionTimeout time.Duration
	now            func() time.Time
}

// NewTokenManager creates a TokenManager with the given signing secret
// and session time-to-live.
func NewTokenManager(secret string, sessionTimeout time.Duration) *TokenManager {
	return &TokenManager{
		secret:         secret,
		sessionTimeout: sessionTimeout,
		now:            time.Now,
	}
}

// SetClock overrides the wall clock. Tests only.
func (tm *TokenManager) SetClock(now func() time.Time) {
	tm.now = now
}

// Issue creates a signed session token with a fresh jti, valid for the
// configured session timeout.
func (tm *TokenManager) Issue() (string, error) {
	now := tm.now()
	claims := &models.SessionClaims{
		Admin: true,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.sessionTimeout)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(tm.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return tokenString, nil
}

// Verify parses and validates a session token. Any failure (malformed
// token, signature mismatch, elapsed expiry, missing admin claim) comes
// back as models.ErrInvalidToken; callers never see parser internals.
func (tm *TokenManager) Verify(tokenString string) (*models.SessionClaims, error) {
	claims := &models.SessionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(tm.secret), nil
	}, jwt.WithTimeFunc(tm.now))

	if err != nil || !token.Valid {
		return nil, models.ErrInvalidToken
	}
	if !claims.Admin {
		return nil, models.ErrInvalidToken
	}
	return claims, nil
}

// SessionTimeout returns the configured token time-to-live.
func (tm *TokenManager) SessionTimeout() time.Duration {
	return tm.sessionTimeout
}
