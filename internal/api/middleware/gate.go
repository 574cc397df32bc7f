package middleware

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	apiContext "github.com/witcharon/salesconnfig/internal/api/context"
	"github.com/witcharon/salesconnfig/internal/platform/auth"
	"github.com/witcharon/salesconnfig/internal/platform/config"
	"github.com/witcharon/salesconnfig/internal/platform/identity"
	"github.com/witcharon/salesconnfig/internal/platform/repositories"
)

// Gate admits or rejects every request to a protected route before the
// handler runs: resolve the principal from the session cookies, then
// check the is_super_admin flag through the elevated connection.
//
// Cookie refresh relayed from the identity provider is written to the
// response before any verdict, so the client keeps its session even
// when the answer is a redirect.
type Gate struct {
	tokens    *auth.TokenService
	cookies   *auth.SessionCodec
	userRepo  *repositories.UserRepository
	idClient  *identity.Client
	loginPath string
	homePath  string
}

func NewGate(tokens *auth.TokenService, cookies *auth.SessionCodec, userRepo *repositories.UserRepository, idClient *identity.Client, cfg config.GateConfig) *Gate {
	return &Gate{
		tokens:    tokens,
		cookies:   cookies,
		userRepo:  userRepo,
		idClient:  idClient,
		loginPath: cfg.LoginPath,
		homePath:  cfg.HomePath,
	}
}

func (g *Gate) Handle(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := g.resolvePrincipal(w, r)
		onLogin := r.URL.Path == g.loginPath

		if claims == nil {
			if onLogin {
				next(w, r)
				return
			}
			g.redirect(w, r, g.loginPath)
			return
		}

		if !g.isSuperAdmin(claims.Subject) {
			if onLogin {
				// Redirecting login to itself would loop; let the login
				// page render so the operator can switch accounts.
				next(w, r)
				return
			}
			g.redirect(w, r, g.loginPath)
			return
		}

		if onLogin {
			g.redirect(w, r, g.homePath)
			return
		}

		ctx := context.WithValue(r.Context(), apiContext.Principal, claims)
		next(w, r.WithContext(ctx))
	}
}

// resolvePrincipal verifies the access token cookie, refreshing the
// session through the identity provider when the token is expired. A
// refreshed cookie pair is written immediately, regardless of what the
// gate decides afterwards.
func (g *Gate) resolvePrincipal(w http.ResponseWriter, r *http.Request) *auth.Claims {
	if token := g.cookies.AccessToken(r); token != "" {
		claims, err := g.tokens.ParseAccessToken(token)
		if err == nil {
			return claims
		}
		if !auth.IsExpired(err) {
			return nil
		}
	}

	refreshToken := g.cookies.RefreshToken(r)
	if refreshToken == "" {
		return nil
	}

	session, err := g.idClient.RefreshSession(r.Context(), refreshToken)
	if err != nil {
		log.Debug().Err(err).Msg("session refresh failed")
		return nil
	}

	g.cookies.WriteSession(w, session.AccessToken, session.RefreshToken, session.ExpiresIn)

	claims, err := g.tokens.ParseAccessToken(session.AccessToken)
	if err != nil {
		return nil
	}
	return claims
}

// isSuperAdmin fails closed: a lookup error, a missing row, or a panic
// in the lookup all count as "not admin".
func (g *Gate) isSuperAdmin(userID string) (isAdmin bool) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Interface("panic", rec).Msg("privilege lookup panicked")
			isAdmin = false
		}
	}()

	isAdmin, err := g.userRepo.IsSuperAdmin(userID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("privilege lookup failed")
		return false
	}
	return isAdmin
}

func (g *Gate) redirect(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusTemporaryRedirect)
}
