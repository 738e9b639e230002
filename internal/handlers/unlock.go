package handlers

import (
	"crypto/subtle"
	"net/http"

	"github.com/pdia/sitegate/internal/services"
	pkghttp "github.com/pdia/sitegate/pkg/http"
)

// UnlockSecretHeader carries the out-of-band unlock secret.
const UnlockSecretHeader = "X-Unlock-Secret"

// UnlockHandler serves the emergency-unlock endpoint. The route
// bypasses the security gate so it stays reachable from a blacklisted
// address, which makes the separate shared secret mandatory: without it
// the endpoint would let any scanner reset its own blacklisting.
type UnlockHandler struct {
	service      *services.UnlockService
	unlockSecret string
	ipConfig     *pkghttp.IPConfig
}

// NewUnlockHandler creates an UnlockHandler.
func NewUnlockHandler(service *services.UnlockService, unlockSecret string, ipConfig *pkghttp.IPConfig) *UnlockHandler {
	return &UnlockHandler{
		service:      service,
		unlockSecret: unlockSecret,
		ipConfig:     ipConfig,
	}
}

// EmergencyUnlock clears the attempt, blacklist, and suspicious stores.
func (h *UnlockHandler) EmergencyUnlock(w http.ResponseWriter, r *http.Request) {
	secret := r.Header.Get(UnlockSecretHeader)
	if h.unlockSecret == "" ||
		subtle.ConstantTimeCompare([]byte(secret), []byte(h.unlockSecret)) != 1 {
		pkghttp.WriteUnauthorized(w, "unauthorized")
		return
	}

	ip := pkghttp.ExtractClientIP(r, h.ipConfig)
	result, err := h.service.Unlock(ip)
	if err != nil {
		pkghttp.WriteInternalError(w, "unlock incomplete")
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, result)
}
