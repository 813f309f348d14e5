package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/halvard/wayfare/internal/api"
	"github.com/halvard/wayfare/internal/models"
	"github.com/halvard/wayfare/internal/testutil"
	"github.com/halvard/wayfare/internal/tripservice"
)

func newAPI(t *testing.T) (http.Handler, *models.Trip) {
	t.Helper()
	db := testutil.TestStore(t)
	trip := testutil.SeedTrip(t, db, "New Zealand")
	svc := tripservice.NewService(db, nil, nil, nil)
	return api.NewRouter(svc, false, "", nil), trip
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCreateAndGetTripEndpoints(t *testing.T) {
	h, _ := newAPI(t)

	rec := doJSON(t, h, http.MethodPost, "/trips", `{"name": "North Island", "destination": "New Zealand"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var created models.Trip
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.ID == "" {
		t.Fatal("created trip has no id")
	}

	rec = doJSON(t, h, http.MethodGet, "/trips/"+created.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
}

func TestCreateTripRequiresName(t *testing.T) {
	h, _ := newAPI(t)

	rec := doJSON(t, h, http.MethodPost, "/trips", `{"destination": "New Zealand"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestListTripsEndpoint(t *testing.T) {
	h, trip := newAPI(t)

	rec := doJSON(t, h, http.MethodGet, "/trips", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Trips []models.TripListItem `json:"trips"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Trips) != 1 || body.Trips[0].ID != trip.ID {
		t.Errorf("trips = %+v", body.Trips)
	}
}

func TestApplyChangesEndpoint(t *testing.T) {
	h, trip := newAPI(t)

	rec := doJSON(t, h, http.MethodPost, "/trips/"+trip.ID+"/changes", `{
		"changes": {
			"adds": [{"title": "Glacier walk", "startDate": "2026-03-17"}],
			"changeSummary": "glacier day"
		},
		"targets": ["itinerary"]
	}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var res struct {
		Trip    models.Trip                         `json:"trip"`
		Summary string                              `json:"summary"`
		Counts  map[string]tripservice.DomainCounts `json:"counts"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.Summary != "glacier day" {
		t.Errorf("summary = %q", res.Summary)
	}
	if res.Counts["itinerary"].Added != 1 {
		t.Errorf("counts = %+v", res.Counts)
	}
	if len(res.Trip.Itinerary) != 1 {
		t.Errorf("itinerary = %+v", res.Trip.Itinerary)
	}
}

func TestApplyChangesContractViolation(t *testing.T) {
	h, trip := newAPI(t)

	rec := doJSON(t, h, http.MethodPost, "/trips/"+trip.ID+"/changes", `{
		"changes": {"adds": "not an array"}
	}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422, body %s", rec.Code, rec.Body)
	}
	var body struct {
		Error   string `json:"error"`
		Details []struct {
			Path   string `json:"path"`
			Reason string `json:"reason"`
		} `json:"details"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Details) == 0 || body.Details[0].Path != "adds" {
		t.Errorf("details = %+v", body.Details)
	}
}

func TestApplyChangesParseError(t *testing.T) {
	h, trip := newAPI(t)

	rec := doJSON(t, h, http.MethodPost, "/trips/"+trip.ID+"/changes", `{"changes": "{oops"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestApplyChangesUnknownTrip(t *testing.T) {
	h, _ := newAPI(t)

	rec := doJSON(t, h, http.MethodPost, "/trips/ghost/changes", `{"changes": {}}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestApplyChangesPreviewFlag(t *testing.T) {
	h, trip := newAPI(t)

	rec := doJSON(t, h, http.MethodPost, "/trips/"+trip.ID+"/changes", `{
		"changes": {"adds": [{"title": "Dry run"}]},
		"preview": true
	}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, h, http.MethodGet, "/trips/"+trip.ID, "")
	var got models.Trip
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Itinerary) != 0 {
		t.Error("preview must not persist")
	}
}

func TestDeleteBagEndpoint(t *testing.T) {
	h, trip := newAPI(t)

	rec := doJSON(t, h, http.MethodDelete, "/trips/"+trip.ID+"/bags/bag1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var got models.Trip
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Bags) != 1 || got.Bags[0].ID != "bag2" {
		t.Errorf("bags = %+v", got.Bags)
	}

	rec = doJSON(t, h, http.MethodDelete, "/trips/"+trip.ID+"/bags/ghost", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing bag status = %d, want 404", rec.Code)
	}
}

func TestDeleteTripEndpoint(t *testing.T) {
	h, trip := newAPI(t)

	rec := doJSON(t, h, http.MethodDelete, "/trips/"+trip.ID, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
	rec = doJSON(t, h, http.MethodGet, "/trips/"+trip.ID, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", rec.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	db := testutil.TestStore(t)
	svc := tripservice.NewService(db, nil, nil, nil)
	h := api.NewRouter(svc, true, "secret", nil)

	rec := doJSON(t, h, http.MethodGet, "/trips", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no token status = %d, want 401", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/trips", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad token status = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/trips", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("valid token status = %d, want 200", rec.Code)
	}
}
