package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/witcharon/salesconnfig/internal/pkg/httperr"
	"github.com/witcharon/salesconnfig/internal/platform/auth"
	"github.com/witcharon/salesconnfig/internal/platform/identity"
	"github.com/witcharon/salesconnfig/internal/platform/repositories"
)

type AuthHandler struct {
	idClient *identity.Client
	tokens   *auth.TokenService
	cookies  *auth.SessionCodec
	userRepo *repositories.UserRepository
}

func NewAuthHandler(idClient *identity.Client, tokens *auth.TokenService, cookies *auth.SessionCodec, userRepo *repositories.UserRepository) *AuthHandler {
	return &AuthHandler{
		idClient: idClient,
		tokens:   tokens,
		cookies:  cookies,
		userRepo: userRepo,
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Success bool                `json:"success"`
	User    *identity.Principal `json:"user"`
}

// Login proxies the password grant to the identity provider and moves
// the issued token pair into the session cookies.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.Write(w, http.StatusBadRequest, "Geçersiz istek gövdesi")
		return
	}

	if req.Email == "" || req.Password == "" {
		httperr.Write(w, http.StatusBadRequest, "E-posta ve şifre gereklidir")
		return
	}

	session, err := h.idClient.SignInWithPassword(r.Context(), req.Email, req.Password)
	if err != nil {
		var provErr *identity.Error
		if errors.As(err, &provErr) {
			httperr.Write(w, http.StatusUnauthorized, provErr.Message)
			return
		}
		log.Error().Err(err).Msg("sign-in request failed")
		httperr.Write(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.cookies.WriteSession(w, session.AccessToken, session.RefreshToken, session.ExpiresIn)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(LoginResponse{Success: true, User: session.User})
}

// Logout revokes the upstream session and clears the cookie pair. The
// cookies are cleared even when revocation fails upstream.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := h.cookies.AccessToken(r); token != "" {
		if err := h.idClient.SignOut(r.Context(), token); err != nil {
			log.Warn().Err(err).Msg("upstream sign-out failed")
		}
	}

	h.cookies.ClearSession(w)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

// CheckAdmin reports the caller's privilege flag. It resolves the
// session itself rather than sitting behind the gate, because the login
// page polls it before the caller is admitted anywhere.
func (h *AuthHandler) CheckAdmin(w http.ResponseWriter, r *http.Request) {
	token := h.cookies.AccessToken(r)
	if token == "" {
		httperr.WriteFields(w, http.StatusUnauthorized, "Unauthorized", map[string]interface{}{"is_super_admin": false})
		return
	}

	claims, err := h.tokens.ParseAccessToken(token)
	if err != nil {
		httperr.WriteFields(w, http.StatusUnauthorized, "Unauthorized", map[string]interface{}{"is_super_admin": false})
		return
	}

	isAdmin, err := h.userRepo.IsSuperAdmin(claims.Subject)
	if err != nil {
		log.Error().Err(err).Str("user_id", claims.Subject).Msg("privilege check failed")
		httperr.WriteFields(w, http.StatusInternalServerError, "User check failed", map[string]interface{}{"is_super_admin": false})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"is_super_admin": isAdmin})
}
