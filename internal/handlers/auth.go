package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pdia/sitegate/internal/auth"
	"github.com/pdia/sitegate/internal/models"
	"github.com/pdia/sitegate/internal/services"
	pkghttp "github.com/pdia/sitegate/pkg/http"
)

// AuthHandler handles the login, logout, and session-verify endpoints.
type AuthHandler struct {
	service  *services.AuthService
	tokens   *auth.TokenManager
	cookies  auth.CookieConfig
	ipConfig *pkghttp.IPConfig
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(
	service *services.AuthService,
	tokens *auth.TokenManager,
	cookies auth.CookieConfig,
	ipConfig *pkghttp.IPConfig,
) *AuthHandler {
	return &AuthHandler{
		service:  service,
		tokens:   tokens,
		cookies:  cookies,
		ipConfig: ipConfig,
	}
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Password string `json:"password" validate:"required"`
}

// Login verifies the admin password and sets the session cookie. The
// response bodies stay deliberately terse: a locked-out caller learns
// nothing beyond "locked out", a wrong password nothing beyond that.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	ip := pkghttp.ExtractClientIP(r, h.ipConfig)
	userAgent := r.Header.Get("User-Agent")

	token, err := h.service.Login(ip, userAgent, req.Password)
	switch {
	case errors.Is(err, models.ErrLockedOut):
		pkghttp.WriteForbidden(w, "locked out")
		return
	case errors.Is(err, models.ErrInvalidCredentials):
		pkghttp.WriteUnauthorized(w, "Invalid password")
		return
	case err != nil:
		pkghttp.WriteInternalError(w, "Login failed")
		return
	}

	auth.SetSessionCookie(w, token, h.tokens.SessionTimeout(), h.cookies)
	pkghttp.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w, h.cookies)
	pkghttp.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Verify reports whether the request carries a valid session token.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	token := auth.TokenFromRequest(r)
	if token == "" {
		pkghttp.WriteUnauthorized(w, models.ErrUnauthorized.Error())
		return
	}
	if _, err := h.tokens.Verify(token); err != nil {
		pkghttp.WriteUnauthorized(w, models.ErrInvalidToken.Error())
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, map[string]bool{"valid": true})
}
