package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/halvard/wayfare/internal/tripservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *tripservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Get("/trips", h.ListTrips)
	r.Post("/trips", h.CreateTrip)
	r.Get("/trips/{tripID}", h.GetTrip)
	r.Delete("/trips/{tripID}", h.DeleteTrip)

	// Change-set application.
	r.Post("/trips/{tripID}/changes", h.ApplyChanges)

	// Bag removal cascades bagId clearing across packing items.
	r.Delete("/trips/{tripID}/bags/{bagID}", h.DeleteBag)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
