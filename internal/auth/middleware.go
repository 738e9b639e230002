package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/pdia/sitegate/internal/models"
	pkghttp "github.com/pdia/sitegate/pkg/http"
)

// contextKey is a custom type for context keys
type contextKey string

// ClaimsContextKey is the key under which session claims are stored in
// the request context.
const ClaimsContextKey contextKey = "session_claims"

// RequireAdmin protects admin-only routes. The session token is taken
// from the session cookie or an Authorization bearer header; an absent
// or invalid token yields 401 with no further detail.
func RequireAdmin(tm *TokenManager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r)
			if token == "" {
				pkghttp.WriteUnauthorized(w, models.ErrUnauthorized.Error())
				return
			}

			claims, err := tm.Verify(token)
			if err != nil {
				pkghttp.WriteUnauthorized(w, models.ErrInvalidToken.Error())
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TokenFromRequest extracts the session token from the request: the
// session cookie first, then an Authorization bearer header.
func TokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// ClaimsFromContext extracts session claims placed by RequireAdmin.
func ClaimsFromContext(ctx context.Context) *models.SessionClaims {
	claims, ok := ctx.Value(ClaimsContextKey).(*models.SessionClaims)
	if !ok {
		return nil
	}
	return claims
}
