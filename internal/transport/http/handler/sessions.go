package handler

import (
	"encoding/json"
	"net/http"

	"github.com/pugly/api/internal/application/session"
	"github.com/pugly/api/internal/pkg/validate"
	"github.com/pugly/api/internal/transport/http/middleware"
)

// SessionHandler handles login/logout/refresh endpoints.
type SessionHandler struct {
	svc session.Service
}

func NewSessionHandler(svc session.Service) *SessionHandler {
	return &SessionHandler{svc: svc}
}

func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req session.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := h.svc.Login(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	setTokenCookies(w, result.Tokens)
	writeJSON(w, http.StatusOK, AuthEnvelope{
		AccessToken:  result.Tokens.AccessToken,
		RefreshToken: result.Tokens.RefreshToken,
		User:         result.User,
		Message:      "user logged in successfully",
	})
}

func (h *SessionHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	token := refreshTokenFrom(r)
	if token == "" {
		writeError(w, http.StatusBadRequest, "refresh_token required")
		return
	}
	pair, err := h.svc.Refresh(r.Context(), token)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	setTokenCookies(w, pair)
	writeJSON(w, http.StatusOK, AuthEnvelope{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		Message:      "access token refreshed",
	})
}

func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.svc.Logout(r.Context(), claims.UserID); err != nil {
		writeDomainError(w, err)
		return
	}
	clearTokenCookies(w)
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "user logged out"})
}

// refreshTokenFrom reads the refresh token from the cookie or, failing that,
// the request body.
func refreshTokenFrom(r *http.Request) string {
	if c, err := r.Cookie("refreshToken"); err == nil && c.Value != "" {
		return c.Value
	}
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
		return body.RefreshToken
	}
	return ""
}
