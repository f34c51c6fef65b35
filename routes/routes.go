package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pabobernando/confused-be/handlers"
	"github.com/pabobernando/confused-be/middleware"
)

type Handlers struct {
	Auth         *handlers.AuthHandler
	Registration *handlers.RegistrationHandler
	Tournament   *handlers.TournamentHandler
	Team         *handlers.TeamHandler
	WebSocket    *handlers.WebSocketHandler
}

func InitRoutes(h Handlers, auth *middleware.Authenticator) *chi.Mux {
	router := chi.NewRouter()

	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.Use(middleware.Metrics)

	router.Get("/", handlers.HomeHandler)
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/ws/events", h.WebSocket.ServeEvents)

	router.Post("/auth/admin/login", h.Auth.Login)

	router.Route("/tournament", func(r chi.Router) {
		// Публичные маршруты: регистрация команд и просмотр турнира
		r.Post("/register", h.Registration.Register)
		r.Get("/{id}", h.Tournament.GetByIDHandler)

		// Защищенные маршруты только для администратора
		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)

			r.Post("/", h.Tournament.CreateHandler)
			r.Put("/{id}", h.Tournament.UpdateHandler)
			r.Delete("/{id}", h.Tournament.DeleteHandler)
		})
	})
	router.Get("/tournaments", h.Tournament.ListHandler)

	router.Route("/team", func(r chi.Router) {
		r.Get("/{id}", h.Team.GetByIDHandler)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)

			r.Put("/{id}", h.Team.UpdateHandler)
			r.Put("/{id}/payment", h.Team.UpdatePaymentHandler)
		})
	})
	router.Get("/teams", h.Team.ListHandler)

	router.NotFound(handlers.NotFoundHandler)

	return router
}
