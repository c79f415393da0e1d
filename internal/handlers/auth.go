package handlers

import (
	"errors"
	"net/http"
	"strings"

	"sautipay/internal/auth"
	"sautipay/internal/middleware"
	"sautipay/internal/store"
	"sautipay/internal/validator"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := validator.ValidateEmail(req.Email); err != nil {
		respondValidation(w, invalid("email", "must be a valid email address"))
		return
	}
	if req.Password == "" {
		respondValidation(w, invalid("password", "is required"))
		return
	}
	if err := validator.ValidatePassword(req.Password); err != nil {
		h.logger.Warn().Str("email", req.Email).Msg("login rejected: password below policy")
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	user, err := h.users.UserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.logError(err, "login")
		respondError(w, http.StatusInternalServerError, "login failed")
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		h.logger.Warn().Str("email", req.Email).Msg("login rejected")
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	token, err := auth.GenerateToken(h.cfg.JWTSecret, user.Principal(), h.cfg.TokenTTL)
	if err != nil {
		h.logError(err, "login")
		respondError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cfg.TokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   !h.cfg.IsDevelopment(),
		SameSite: http.SameSiteLaxMode,
	})
	h.logger.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("login")
	respondData(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  user,
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   !h.cfg.IsDevelopment(),
		SameSite: http.SameSiteLaxMode,
	})
	respondMessage(w, http.StatusOK, "logged out")
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}
	user, err := h.users.UserByID(r.Context(), principal.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusUnauthorized, "invalid session")
			return
		}
		h.logError(err, "me")
		respondError(w, http.StatusInternalServerError, "unable to load user")
		return
	}
	respondData(w, http.StatusOK, user)
}

func principalFrom(w http.ResponseWriter, r *http.Request) (auth.Principal, bool) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
	}
	return principal, ok
}

// scopeFrom confines the request to the principal's company. Owners may
// narrow with ?companyId=.
func scopeFrom(r *http.Request, principal auth.Principal) store.Scope {
	return store.ScopeFor(principal, r.URL.Query().Get("companyId"))
}
