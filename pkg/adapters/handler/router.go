package handler

import (
	"log/slog"
	"net/http"

	"github.com/KI0T0/teste-back-end-teddy/pkg/config"
	"github.com/KI0T0/teste-back-end-teddy/pkg/ports"
)

// Services bundles what the router dispatches to.
type Services struct {
	Links    ports.LinkService
	Redirect ports.RedirectService
	Auth     ports.AuthService
}

// NewRouter creates and configures the main application router
func NewRouter(cfg *config.Config, svc Services, logger *slog.Logger) http.Handler {
	h := NewHTTPHandler(svc.Links, svc.Redirect, logger)
	authHandler := NewAuthHandler(cfg, svc.Auth, logger)
	mw := NewMiddleware(svc.Auth, logger)

	mux := http.NewServeMux()

	// Public Routes
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
	})
	mux.HandleFunc("GET /{short_code}", h.Redirect)
	mux.HandleFunc("GET /redirect/{short_code}", h.Redirect)
	mux.HandleFunc("POST /api/v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)
	mux.HandleFunc("GET /auth/google/login", authHandler.GoogleLogin)
	mux.HandleFunc("GET /auth/google/callback", authHandler.GoogleCallback)
	mux.HandleFunc("GET /auth/logout", authHandler.Logout)

	// Anonymous or authenticated
	mux.Handle("POST /api/v1/links", mw.OptionalAuth(http.HandlerFunc(h.Create)))

	// Protected Routes
	mux.Handle("GET /api/v1/auth/me", mw.RequireAuth(http.HandlerFunc(authHandler.Me)))
	mux.Handle("GET /api/v1/links", mw.RequireAuth(http.HandlerFunc(h.List)))
	mux.Handle("PATCH /api/v1/links/{id}", mw.RequireAuth(http.HandlerFunc(h.Update)))
	mux.Handle("PUT /api/v1/links/{id}", mw.RequireAuth(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /api/v1/links/{id}", mw.RequireAuth(http.HandlerFunc(h.Delete)))

	return mw.RequestLogger(mux)
}
