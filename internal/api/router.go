package api

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/log"

	"github.com/witcharon/salesconnfig/internal/api/handlers"
	"github.com/witcharon/salesconnfig/internal/api/middleware"
	"github.com/witcharon/salesconnfig/internal/pkg/httperr"
)

type Dependencies struct {
	AuthHandler         *handlers.AuthHandler
	UserHandler         *handlers.UserHandler
	SubscriptionHandler *handlers.SubscriptionHandler
	MigrateHandler      *handlers.MigrateHandler
	HealthHandler       *handlers.HealthHandler
	Gate                *middleware.Gate
}

func NewRouter(deps *Dependencies) *httprouter.Router {
	router := httprouter.New()

	gate := deps.Gate

	// Pages. The UI itself is an external client; "/" answers with the
	// composite directory an admitted operator would render, "/login"
	// is the redirect target for everyone else.
	router.GET("/", chain(deps.UserHandler.List, gate.Handle))
	router.GET("/login", chain(loginPage, gate.Handle))

	// Session endpoints
	router.POST("/api/v1/auth/login", wrap(deps.AuthHandler.Login))
	router.POST("/api/v1/auth/logout", wrap(deps.AuthHandler.Logout))
	router.GET("/api/v1/auth/check-admin", wrap(deps.AuthHandler.CheckAdmin))

	// Admin-gated user management
	router.GET("/api/v1/users", chain(deps.UserHandler.List, gate.Handle))
	router.POST("/api/v1/users/create", chain(deps.UserHandler.Create, gate.Handle))
	router.PUT("/api/v1/users/subscription", chain(deps.SubscriptionHandler.Update, gate.Handle))
	router.PUT("/api/v1/users/company-name", chain(deps.UserHandler.UpdateCompanyName, gate.Handle))
	router.PUT("/api/v1/users/note", chain(deps.UserHandler.UpdateNote, gate.Handle))

	// Operational
	router.POST("/api/v1/migrate", wrap(deps.MigrateHandler.Run))
	router.GET("/healthz", wrap(deps.HealthHandler.Check))

	return router
}

func loginPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"message": "Giriş yapın"}`))
}

// Helper function to chain middlewares
func chain(handler http.HandlerFunc, middlewares ...func(http.HandlerFunc) http.HandlerFunc) httprouter.Handle {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return wrap(handler)
}

// wrap converts an http.HandlerFunc into an httprouter.Handle, adding
// the access log and a catch-all recover so an unexpected fault never
// breaks the endpoint contract's shape.
func wrap(handler http.HandlerFunc) httprouter.Handle {
	logged := middleware.RequestLog(handler)
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().Interface("panic", rec).Str("path", r.URL.Path).Msg("handler panicked")
				httperr.Write(w, http.StatusInternalServerError, "Internal server error")
			}
		}()
		logged(w, r)
	}
}
