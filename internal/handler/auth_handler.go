package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"okane/internal/middleware"
	"okane/internal/model"
	"okane/internal/service"
	"okane/pkg/apierror"
)

const (
	refreshCookieName = "user_refresh_token"
	clientTypeHeader  = "X-Client-Type"
)

type AuthHandler struct {
	service    *service.AuthService
	refreshTTL time.Duration
}

func NewAuthHandler(service *service.AuthService, refreshTTL time.Duration) *AuthHandler {
	return &AuthHandler{service: service, refreshTTL: refreshTTL}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	session, err := h.service.Register(r.Context(), payload.Email, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	h.deliverSession(w, r, http.StatusCreated, session)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	session, err := h.service.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	h.deliverSession(w, r, http.StatusOK, session)
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	session, err := h.service.Refresh(r.Context(), h.presentedSecret(r))
	if err != nil {
		writeError(w, err)
		return
	}

	h.deliverSession(w, r, http.StatusOK, session)
}

// Logout is best-effort: the record behind the presented secret is deleted
// if one exists, the cookie is cleared regardless, and the response is
// always 204. A failed revocation is logged, never surfaced; the record
// still evicts on its TTL.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	if err := h.service.Logout(r.Context(), h.presentedSecret(r)); err != nil {
		slog.Error("refresh token revocation failed", "error", err)
	}

	h.clearRefreshCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	writeSuccess(w, http.StatusOK, user)
}

// deliverSession writes the token payload, placing the refresh secret on
// exactly one channel: the response body for declared mobile clients, an
// HTTP-only cookie for everyone else.
func (h *AuthHandler) deliverSession(w http.ResponseWriter, r *http.Request, status int, session model.Session) {
	response := model.TokenResponse{
		AccessToken: session.AccessToken,
		TokenType:   "bearer",
		ExpiresIn:   session.ExpiresIn,
		User:        session.User,
	}

	if clientType(r) == model.ClientMobile {
		response.RefreshToken = session.RefreshSecret
	} else {
		http.SetCookie(w, &http.Cookie{
			Name:     refreshCookieName,
			Value:    session.RefreshSecret,
			Path:     "/api/v1/auth",
			MaxAge:   int(h.refreshTTL.Seconds()),
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteStrictMode,
		})
	}

	writeSuccess(w, status, response)
}

// presentedSecret reads the refresh secret from the cookie channel first,
// falling back to the body field used by mobile clients.
func (h *AuthHandler) presentedSecret(r *http.Request) string {
	if cookie, err := r.Cookie(refreshCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	var payload model.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err == nil {
		return strings.TrimSpace(payload.RefreshToken)
	}

	return ""
}

func (h *AuthHandler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/api/v1/auth",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}

func clientType(r *http.Request) model.ClientType {
	if strings.EqualFold(strings.TrimSpace(r.Header.Get(clientTypeHeader)), "mobile") {
		return model.ClientMobile
	}
	return model.ClientWeb
}
