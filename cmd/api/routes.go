package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (app *Application) routes() http.Handler {
	router := chi.NewRouter()
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		app.Http.NotFound(w, r, "Page not found")
	})
	router.MethodNotAllowed(app.Http.MethodNotAllowed)
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(app.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   app.cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           app.cfg.CORS.MaxAge,
	}))
	router.Use(app.RateLimiter)
	router.Handle("/metrics", promhttp.Handler())
	router.Route("/api/v1", func(r chi.Router) {
		r.Use(app.Authenticate)
		r.Get("/healthcheck", app.healthcheck)
		r.Route("/accounts", func(r chi.Router) {
			r.Post("/register", app.register)
			r.Post("/login", app.login)
		})
		r.Group(func(r chi.Router) {
			r.Use(app.requireAuthenticatedUser)
			r.Route("/movies", func(r chi.Router) {
				r.Get("/", app.listMovies)
				r.Get("/{external_id}", app.getMovie)
			})
			r.Route("/ratings", func(r chi.Router) {
				r.Get("/", app.listRatings)
				r.Post("/", app.createRating)
				r.Patch("/", app.updateRating)
			})
			r.Route("/watch-list", func(r chi.Router) {
				r.Get("/", app.listWatchList)
				r.Post("/", app.addToWatchList)
			})
			r.Route("/watched-movies", func(r chi.Router) {
				r.Get("/", app.listWatched)
				r.Post("/", app.addToWatched)
			})
			r.Route("/recommended-movies", func(r chi.Router) {
				r.Get("/", app.listRecommended)
				r.Put("/", app.recomputeRecommended)
			})
			r.Get("/profile", app.getProfile)
		})
	})
	return router
}
