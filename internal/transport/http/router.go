package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/pugly/api/internal/application/otp"
	"github.com/pugly/api/internal/application/session"
	"github.com/pugly/api/internal/application/store"
	"github.com/pugly/api/internal/application/user"
	"github.com/pugly/api/internal/config"
	"github.com/pugly/api/internal/transport/http/handler"
	appmiddleware "github.com/pugly/api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authMw := appmiddleware.Auth(deps.JWTProvider)

	// 5 requests/second with a burst of 10 on sensitive public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	otpSvc := otp.NewService(deps.UserRepo, deps.Cache, deps.Deliverer, cfg.OTPLength, cfg.OTPTTL)
	userSvc := user.NewService(deps.UserRepo, otpSvc)
	sessionSvc := session.NewService(deps.UserRepo, deps.JWTProvider)
	storeSvc := store.NewService(deps.StoreRepo)

	healthH := handler.NewHealthHandler()
	userH := handler.NewUserHandler(userSvc)
	sessionH := handler.NewSessionHandler(sessionSvc)
	otpH := handler.NewOTPHandler(otpSvc)
	storeH := handler.NewStoreHandler(storeSvc)

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes.
		r.Get("/health-check", healthH.Ping)
		r.With(sensitiveRL.Limit).Post("/users/register", userH.Register)
		r.With(sensitiveRL.Limit).Post("/users/login", sessionH.Login)
		r.Post("/users/refresh-token", sessionH.Refresh)
		r.With(sensitiveRL.Limit).Post("/users/otprequest", otpH.Request)
		r.With(sensitiveRL.Limit).Post("/users/otpverification", otpH.Verify)

		// Authenticated routes.
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Post("/users/logout", sessionH.Logout)
			r.Get("/users/profile", userH.Profile)

			r.Post("/stores/create", storeH.Create)
			r.Get("/stores/{storeId}", storeH.Get)
			r.Delete("/stores/delete/{storeId}", storeH.Delete)
		})
	})

	return r
}
