package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func NewRouter(api *API, allowedOrigins []string) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(requestLogger(api.log, defaultMaxLogBytes))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", api.HandleState)
		r.Get("/categories", api.HandleCategories)
		r.Route("/session", func(r chi.Router) {
			r.Post("/", api.HandleStart)
			r.Post("/retry", api.HandleRetry)
			r.Post("/options/{index}", api.HandleSelect)
			r.Post("/next", api.HandleNext)
			r.Post("/prev", api.HandlePrev)
			r.Post("/submit", api.HandleSubmit)
			r.Post("/restart", api.HandleRestart)
		})
	})

	return r
}
