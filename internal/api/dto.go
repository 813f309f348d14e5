package api

import (
	"encoding/json"

	"github.com/halvard/wayfare/internal/tripservice"
)

// CreateTripRequest is the request body for creating a trip.
type CreateTripRequest struct {
	Name        string `json:"name"`
	Destination string `json:"destination,omitempty"`
}

// ApplyRequest carries a raw assistant change-set for one trip. Changes
// stays raw JSON: the change-set package owns parsing and validation.
type ApplyRequest struct {
	Changes json.RawMessage `json:"changes"`
	Targets []string        `json:"targets,omitempty"`
	Enrich  bool            `json:"enrich,omitempty"`
	Preview bool            `json:"preview,omitempty"`
}

// ApplyResponse reports the apply outcome (aliased from the service layer).
type ApplyResponse = tripservice.Result
