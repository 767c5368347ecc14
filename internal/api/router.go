package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/dailyfolder/internal/dailyservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *dailyservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Daily folders.
	r.Route("/daily", func(r chi.Router) {
		r.Get("/today", h.GetToday)
		r.Post("/today", h.OpenToday)
		r.Get("/next", h.Next)
		r.Get("/previous", h.Previous)
		r.Post("/rename", h.Rename)
		r.Get("/description", h.Description)
		r.Get("/preview", h.Preview)
	})

	// Settings.
	r.Get("/settings", h.GetSettings)
	r.Put("/settings", h.UpdateSettings)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
