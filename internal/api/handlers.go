package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/halvard/wayfare/internal/apperr"
	"github.com/halvard/wayfare/internal/tripservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *tripservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *tripservice.Service) *Handler {
	return &Handler{svc: svc}
}

// ListTrips handles GET /trips.
func (h *Handler) ListTrips(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListTrips(r.Context())
	if err != nil {
		slog.Error("list trips failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"trips": items})
}

// CreateTrip handles POST /trips.
func (h *Handler) CreateTrip(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req CreateTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("name is required"))
		return
	}
	trip, err := h.svc.CreateTrip(r.Context(), req.Name, req.Destination)
	if err != nil {
		slog.Error("create trip failed", slog.String("name", req.Name), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusCreated, trip)
}

// GetTrip handles GET /trips/{tripID}.
func (h *Handler) GetTrip(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "tripID")
	trip, err := h.svc.GetTrip(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get trip failed", slog.String("trip", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// DeleteTrip handles DELETE /trips/{tripID}.
func (h *Handler) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "tripID")
	if err := h.svc.DeleteTrip(r.Context(), id); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("delete trip failed", slog.String("trip", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteBag handles DELETE /trips/{tripID}/bags/{bagID}. Removing a bag
// also clears the assignment on every packing item that referenced it.
func (h *Handler) DeleteBag(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripID")
	bagID := chi.URLParam(r, "bagID")
	trip, err := h.svc.DeleteBag(r.Context(), tripID, bagID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("delete bag failed", slog.String("trip", tripID), slog.String("bag", bagID), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// ApplyChanges handles POST /trips/{tripID}/changes. The body carries the
// raw assistant change-set; a parse failure is 400, a contract violation
// is 422 with per-path details, and in both cases no state changes.
func (h *Handler) ApplyChanges(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	id := chi.URLParam(r, "tripID")

	var req ApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if len(req.Changes) == 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("changes is required"))
		return
	}

	targets := tripservice.ParseTargets(req.Targets)

	var res *tripservice.Result
	var err error
	if req.Preview {
		res, err = h.svc.Preview(r.Context(), id, req.Changes, targets)
	} else {
		res, err = h.svc.Apply(r.Context(), id, req.Changes, targets, req.Enrich)
	}
	if err != nil {
		var ve apperr.ValidationErrors
		switch {
		case errors.As(err, &ve):
			writeJSON(w, http.StatusUnprocessableEntity, errResponse{
				Error:   "could not apply AI changes",
				Details: ve,
			})
		case apperr.IsParse(err):
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		case errors.Is(err, apperr.ErrNotFound):
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		default:
			slog.Error("apply changes failed", slog.String("trip", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, res)
}
