package handlers_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdia/sitegate/internal/auth"
	"github.com/pdia/sitegate/internal/config"
	"github.com/pdia/sitegate/internal/handlers"
	"github.com/pdia/sitegate/internal/services"
	"github.com/pdia/sitegate/internal/store"
	pkghttp "github.com/pdia/sitegate/pkg/http"
	"github.com/pdia/sitegate/pkg/logger"
)

const (
	testPassword = "correct-horse"
	testSecret   = "handler-test-signing-secret-32ch!"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newAuthHandler(t *testing.T) (*handlers.AuthHandler, *auth.TokenManager) {
	t.Helper()

	attempts, err := store.NewAttemptStore(filepath.Join(t.TempDir(), "login-attempts.json"))
	require.NoError(t, err)

	log := testLogger()
	audit := logger.NewAuditLogger(log)
	lockout := services.NewLockoutService(attempts, 5, 15*time.Minute, log)
	tokens := auth.NewTokenManager(testSecret, 30*time.Minute)
	timing := auth.NewTimingDelay(auth.TimingConfig{})

	svc := services.NewAuthService(lockout, tokens, timing, config.AuthConfig{
		AdminPassword:  testPassword,
		JWTSecret:      testSecret,
		SessionTimeout: 30 * time.Minute,
	}, log, audit)

	h := handlers.NewAuthHandler(svc, tokens, auth.CookieConfig{}, &pkghttp.IPConfig{})
	return h, tokens
}

func postLogin(h *handlers.AuthHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(body))
	req.RemoteAddr = "10.0.0.1:40000"
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Login(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.SessionCookieName {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestAuthHandler_LoginSuccess(t *testing.T) {
	h, tokens := newAuthHandler(t)

	rec := postLogin(h, `{"password":"correct-horse"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	cookie := sessionCookie(t, rec)
	assert.True(t, cookie.HttpOnly)
	_, err := tokens.Verify(cookie.Value)
	assert.NoError(t, err)
}

func TestAuthHandler_LoginWrongPassword(t *testing.T) {
	h, _ := newAuthHandler(t)

	rec := postLogin(h, `{"password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid password")
}

func TestAuthHandler_LoginMissingPassword(t *testing.T) {
	h, _ := newAuthHandler(t)

	rec := postLogin(h, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandler_LoginMalformedBody(t *testing.T) {
	h, _ := newAuthHandler(t)

	rec := postLogin(h, `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandler_LoginLockedOut(t *testing.T) {
	h, _ := newAuthHandler(t)

	for i := 0; i < 5; i++ {
		postLogin(h, `{"password":"nope"}`)
	}

	// Correct password no longer helps during the lockout window.
	rec := postLogin(h, `{"password":"correct-horse"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "locked out")
}

func TestAuthHandler_Logout(t *testing.T) {
	h, _ := newAuthHandler(t)

	req := httptest.NewRequest("POST", "/api/auth/logout", nil)
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	cookie := sessionCookie(t, rec)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestAuthHandler_Verify(t *testing.T) {
	h, tokens := newAuthHandler(t)

	token, err := tokens.Issue()
	require.NoError(t, err)

	tests := []struct {
		name   string
		cookie string
		want   int
	}{
		{"valid token", token, http.StatusOK},
		{"no token", "", http.StatusUnauthorized},
		{"garbage token", "not-a-jwt", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/auth/verify", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			h.Verify(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
