// Package http wires the handlers into the chi route tree.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/voyage/server/internal/auth"
	"github.com/voyage/server/internal/http/handlers"
	"github.com/voyage/server/internal/middleware"
	"github.com/voyage/server/internal/repo"
)

// Handlers bundles every handler the router mounts.
type Handlers struct {
	Health       *handlers.HealthHandler
	Auth         *handlers.AuthHandler
	Users        *handlers.UserHandler
	Profile      *handlers.ProfileHandler
	Packages     *handlers.PackageHandler
	Requests     *handlers.RequestHandler
	Contact      *handlers.ContactHandler
	Teams        *handlers.TeamHandler
	Testimonials *handlers.TestimonialHandler
}

// NewRouter builds the full route tree. Public routes need no token,
// protected routes require a valid session token, and admin routes
// additionally require the admin role.
func NewRouter(h Handlers, jwtService *auth.JWTService, clients repo.ClientRepo) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	// Public.
	r.Get("/", h.Health.HandleRoot)
	r.Get("/health", h.Health.HandleHealth)

	r.Post("/api/auth/login", h.Auth.HandleAdminLogin)
	r.Post("/api/auth/forgot-password", h.Auth.HandleForgotPassword)
	r.Post("/api/auth/reset-password", h.Auth.HandleResetPassword)

	r.Post("/api/users/register", h.Users.HandleRegister)
	r.Post("/api/users/verify-otp", h.Users.HandleVerifyOTP)
	r.Post("/api/users/login", h.Users.HandleLogin)

	r.Get("/api/packages", h.Packages.HandleList)
	r.Get("/api/teams", h.Teams.HandleList)
	r.Get("/api/testimonials", h.Testimonials.HandleList)
	r.Post("/api/testimonials/add", h.Testimonials.HandleAdd)
	r.Post("/api/contact/add", h.Contact.HandleAdd)

	// Protected.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(jwtService, clients))

		r.Get("/api/profile", h.Profile.HandleGet)
		r.Post("/api/profile/update", h.Profile.HandleUpdate)
		r.Post("/api/profile/change-password", h.Profile.HandleChangePassword)
		r.Post("/api/requests/add", h.Requests.HandleAdd)

		// Admin.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)

			r.Get("/api/users/all", h.Users.HandleListAll)
			r.Post("/api/users/toggle-block/{id}", h.Users.HandleToggleBlock)

			r.Post("/api/packages/add", h.Packages.HandleAdd)
			r.Post("/api/packages/update/{id}", h.Packages.HandleUpdate)
			r.Delete("/api/packages/{id}", h.Packages.HandleDelete)

			r.Get("/api/requests", h.Requests.HandleList)
			r.Delete("/api/requests/{id}", h.Requests.HandleDelete)

			r.Get("/api/contact", h.Contact.HandleList)
			r.Post("/api/contact/respond/{id}", h.Contact.HandleRespond)

			r.Post("/api/teams/add", h.Teams.HandleAdd)
			r.Post("/api/teams/update/{id}", h.Teams.HandleUpdate)
			r.Delete("/api/teams/{id}", h.Teams.HandleDelete)
		})
	})

	return r
}
