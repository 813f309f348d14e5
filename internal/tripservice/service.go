// Package tripservice orchestrates change-set application: validate,
// fan out to the domain reconcilers, persist, notify, and enrich.
package tripservice

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/halvard/wayfare/internal/apperr"
	"github.com/halvard/wayfare/internal/changeset"
	"github.com/halvard/wayfare/internal/geocode"
	"github.com/halvard/wayfare/internal/identity"
	"github.com/halvard/wayfare/internal/models"
	"github.com/halvard/wayfare/internal/reconcile"
	"github.com/halvard/wayfare/internal/sse"
	"github.com/halvard/wayfare/internal/store"
)

// Targets selects which domain collections an apply touches. The zero
// value selects none; use AllTargets or ParseTargets for the common cases.
type Targets struct {
	Itinerary bool
	Tasks     bool
	Packing   bool
}

// AllTargets selects every domain.
func AllTargets() Targets {
	return Targets{Itinerary: true, Tasks: true, Packing: true}
}

// ParseTargets maps wire-format target names onto a Targets value. An
// empty list means all domains.
func ParseTargets(names []string) Targets {
	if len(names) == 0 {
		return AllTargets()
	}
	var t Targets
	for _, n := range names {
		switch n {
		case "itinerary":
			t.Itinerary = true
		case "tasks":
			t.Tasks = true
		case "packing":
			t.Packing = true
		}
	}
	return t
}

// DomainCounts summarizes one collection's change during an apply.
type DomainCounts struct {
	Added   int `json:"added"`
	Updated int `json:"updated"`
	Removed int `json:"removed"`
}

// Result reports what an apply (or preview) did.
type Result struct {
	Trip    *models.Trip            `json:"trip"`
	Summary string                  `json:"summary,omitempty"`
	Counts  map[string]DomainCounts `json:"counts"`

	// ids of itinerary items the merge introduced, for enrichment
	addedItinerary map[string]struct{}
}

// Service coordinates the store, the reconcilers, the SSE broker, and the
// geocoding resolver.
type Service struct {
	store    store.Provider
	resolver *geocode.Resolver
	broker   *sse.Broker
	logger   *slog.Logger
}

// NewService creates a Service. resolver and broker may be nil to disable
// enrichment and event broadcasting respectively.
func NewService(st store.Provider, resolver *geocode.Resolver, broker *sse.Broker, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: st, resolver: resolver, broker: broker, logger: logger}
}

// CreateTrip creates an empty trip.
func (s *Service) CreateTrip(_ context.Context, name, destination string) (*models.Trip, error) {
	t := &models.Trip{
		ID:          uuid.NewString(),
		Name:        name,
		Destination: destination,
		Itinerary:   []models.ItineraryItem{},
		Tasks:       []models.Task{},
		Packing:     []models.PackingCategory{},
		Bags:        []models.Bag{},
	}
	if err := s.store.Create(t); err != nil {
		return nil, err
	}
	return t, nil
}

// GetTrip loads one trip.
func (s *Service) GetTrip(_ context.Context, id string) (*models.Trip, error) {
	return s.store.Get(id)
}

// ListTrips returns trip metadata.
func (s *Service) ListTrips(_ context.Context) ([]models.TripListItem, error) {
	return s.store.List()
}

// DeleteTrip removes a trip.
func (s *Service) DeleteTrip(_ context.Context, id string) error {
	return s.store.Delete(id)
}

// DeleteBag removes a bag from a trip and nulls out bagId on every packing
// item that referenced it.
func (s *Service) DeleteBag(_ context.Context, tripID, bagID string) (*models.Trip, error) {
	trip, err := s.store.Get(tripID)
	if err != nil {
		return nil, err
	}
	bags := make([]models.Bag, 0, len(trip.Bags))
	found := false
	for _, b := range trip.Bags {
		if b.ID == bagID {
			found = true
			continue
		}
		bags = append(bags, b)
	}
	if !found {
		return nil, fmt.Errorf("bag %s: %w", bagID, apperr.ErrNotFound)
	}
	trip.Bags = bags
	trip.Packing = reconcile.ClearBag(trip.Packing, bagID)
	if err := s.store.Put(trip); err != nil {
		return nil, err
	}
	return trip, nil
}

// Apply merges a raw assistant change-set into the trip's targeted
// collections, persists the result, and optionally enriches new locations.
// Parse and validation failures propagate before anything is written, so
// the apply is all-or-nothing per collection and per trip.
func (s *Service) Apply(ctx context.Context, tripID string, raw []byte, targets Targets, enrich bool) (*Result, error) {
	trip, cs, res, err := s.merge(tripID, raw, targets)
	if err != nil {
		return nil, err
	}

	if err := s.store.Put(trip); err != nil {
		return nil, err
	}
	s.logger.Info("change-set applied",
		slog.String("trip", tripID),
		slog.String("summary", cs.ChangeSummary))
	if s.broker != nil {
		s.broker.PublishApplied(tripID, cs.ChangeSummary, res.Counts)
	}

	if enrich && targets.Itinerary && s.resolver != nil {
		s.enrich(ctx, trip, cs, res.addedItinerary)
	}

	res.Trip = trip
	return res, nil
}

// Preview runs the same pipeline as Apply without persisting, publishing,
// or enriching. The reconcilers are pure, so this is side-effect free.
func (s *Service) Preview(_ context.Context, tripID string, raw []byte, targets Targets) (*Result, error) {
	trip, _, res, err := s.merge(tripID, raw, targets)
	if err != nil {
		return nil, err
	}
	res.Trip = trip
	return res, nil
}

// merge loads the trip and computes its post-apply state in memory.
func (s *Service) merge(tripID string, raw []byte, targets Targets) (*models.Trip, *models.ChangeSet, *Result, error) {
	trip, err := s.store.Get(tripID)
	if err != nil {
		return nil, nil, nil, err
	}

	cs, err := changeset.Parse(raw)
	if err != nil {
		return nil, nil, nil, err
	}

	counts := make(map[string]DomainCounts)
	added := make(map[string]struct{})

	if targets.Itinerary {
		next := reconcile.Itinerary(trip.Itinerary, cs)
		counts["itinerary"] = itineraryCounts(trip.Itinerary, next, cs)
		oldIDs := make(map[string]struct{}, len(trip.Itinerary))
		for _, it := range trip.Itinerary {
			oldIDs[it.ID] = struct{}{}
		}
		for _, it := range next {
			if _, ok := oldIDs[it.ID]; !ok {
				added[it.ID] = struct{}{}
			}
		}
		trip.Itinerary = next
	}
	if targets.Tasks {
		next := reconcile.Tasks(trip.Tasks, cs)
		counts["tasks"] = taskCounts(trip.Tasks, next, cs)
		trip.Tasks = next
	}
	if targets.Packing {
		next := reconcile.Packing(trip.Packing, trip.Bags, cs)
		counts["packing"] = packingCounts(trip.Packing, next, cs)
		trip.Packing = next
	}

	if cs.NewDistilledData != nil {
		if distilled := changeset.Distill(cs.NewDistilledData); len(distilled) > 0 {
			if trip.Summaries == nil {
				trip.Summaries = make(map[string]models.AttachmentSummary, len(distilled))
			}
			for id, sum := range distilled {
				trip.Summaries[id] = sum
			}
		}
	}

	return trip, cs, &Result{Summary: cs.ChangeSummary, Counts: counts, addedItinerary: added}, nil
}

// enrich resolves locations for newly introduced itinerary items and
// persists the result. Failures degrade: the merged state already stands.
func (s *Service) enrich(ctx context.Context, trip *models.Trip, cs *models.ChangeSet, added map[string]struct{}) {
	candidates := enrichCandidates(cs, added)
	if len(candidates) == 0 {
		return
	}

	before := make(map[string]string, len(trip.Itinerary))
	for _, item := range trip.Itinerary {
		before[item.ID] = item.Location
	}

	trip.Itinerary = s.resolver.Enrich(ctx, trip.Itinerary, candidates, trip.Destination)

	changed := false
	for _, item := range trip.Itinerary {
		if before[item.ID] != item.Location {
			changed = true
			if s.broker != nil {
				s.broker.PublishEnriched(trip.ID, item.ID, item.Location)
			}
		}
	}
	if !changed {
		return
	}
	if err := s.store.Put(trip); err != nil {
		s.logger.Warn("persist enriched locations failed",
			slog.String("trip", trip.ID),
			slog.String("error", err.Error()))
	}
}

// enrichCandidates selects the ids eligible for geocoding: items the
// change-set added, plus items whose update touched fields.location.
func enrichCandidates(cs *models.ChangeSet, added map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(added))
	for id := range added {
		out[id] = struct{}{}
	}

	for _, u := range cs.Updates {
		if _, ok := u.Fields["location"]; !ok {
			continue
		}
		if id := identity.Normalize(u.ID); id != "" {
			out[id] = struct{}{}
		}
	}
	return out
}

func itineraryCounts(old, next []models.ItineraryItem, cs *models.ChangeSet) DomainCounts {
	oldIDs := make(map[string]struct{}, len(old))
	for _, it := range old {
		oldIDs[it.ID] = struct{}{}
	}
	var c DomainCounts
	for _, it := range next {
		if _, ok := oldIDs[it.ID]; !ok {
			c.Added++
		}
	}
	c.Removed = len(old) + c.Added - len(next)
	for _, u := range cs.Updates {
		if _, ok := oldIDs[identity.Normalize(u.ID)]; ok && len(u.Fields) > 0 {
			c.Updated++
		}
	}
	return c
}

func taskCounts(old, next []models.Task, cs *models.ChangeSet) DomainCounts {
	oldIDs := make(map[string]struct{}, len(old))
	for _, t := range old {
		oldIDs[t.ID] = struct{}{}
	}
	var c DomainCounts
	for _, t := range next {
		if _, ok := oldIDs[t.ID]; !ok {
			c.Added++
		}
	}
	c.Removed = len(old) + c.Added - len(next)
	for _, u := range cs.Updates {
		if _, ok := oldIDs[identity.Normalize(u.ID)]; ok && len(u.Fields) > 0 {
			c.Updated++
		}
	}
	return c
}

func packingCounts(old, next []models.PackingCategory, cs *models.ChangeSet) DomainCounts {
	oldItems := make(map[string]struct{})
	for _, cat := range old {
		for _, it := range cat.Items {
			oldItems[it.ID] = struct{}{}
		}
	}
	var c DomainCounts
	total := 0
	for _, cat := range next {
		for _, it := range cat.Items {
			total++
			if _, ok := oldItems[it.ID]; !ok {
				c.Added++
			}
		}
	}
	c.Removed = len(oldItems) + c.Added - total
	for _, iu := range cs.ItemUpdates {
		if _, ok := oldItems[identity.Normalize(iu.ItemID)]; ok && len(iu.Updates) > 0 {
			c.Updated++
		}
	}
	// Legacy mixed updates only run when the modern forms are absent;
	// mirror that gate so a skipped phase is not counted.
	if len(cs.CategoryUpdates) == 0 && len(cs.ItemUpdates) == 0 {
		for _, u := range cs.Updates {
			if _, ok := oldItems[identity.Normalize(u.ID)]; ok && len(u.Fields) > 0 {
				c.Updated++
			}
		}
	}
	return c
}
