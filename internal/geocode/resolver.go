package geocode

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/halvard/wayfare/internal/models"
)

// maxCandidates bounds external call volume per enrichment pass.
const maxCandidates = 5

// DefaultDelay is the pacing applied before every remote call, per the
// geocoding service's usage policy.
const DefaultDelay = 250 * time.Millisecond

// Resolver enriches newly merged itinerary items whose location text is
// still ambiguous. Candidates resolve concurrently; within one candidate
// the strategies run strictly in order and stop at the first hit.
type Resolver struct {
	client *Client
	delay  time.Duration
	logger *slog.Logger
}

// NewResolver creates a Resolver. delay <= 0 falls back to DefaultDelay.
func NewResolver(client *Client, delay time.Duration, logger *slog.Logger) *Resolver {
	if delay <= 0 {
		delay = DefaultDelay
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{client: client, delay: delay, logger: logger}
}

// Enrich resolves locations for the items whose ids are in candidateIDs,
// returning a new slice. Only items with a non-empty location and no
// coordinates qualify, capped at maxCandidates. Resolution failure leaves
// an item unmodified and is logged, never raised.
func (r *Resolver) Enrich(ctx context.Context, items []models.ItineraryItem, candidateIDs map[string]struct{}, destination string) []models.ItineraryItem {
	out := make([]models.ItineraryItem, len(items))
	copy(out, items)

	var picked []int
	for i, item := range out {
		if _, ok := candidateIDs[item.ID]; !ok {
			continue
		}
		if item.Location == "" || item.Coordinates != nil {
			continue
		}
		picked = append(picked, i)
		if len(picked) == maxCandidates {
			break
		}
	}
	if len(picked) == 0 {
		return out
	}

	g, gCtx := errgroup.WithContext(ctx)
	for _, idx := range picked {
		g.Go(func() error {
			if name, ok := r.resolve(gCtx, out[idx], items, destination); ok {
				out[idx].Location = name
			}
			return nil
		})
	}
	// Workers only write their own slot and never return an error.
	_ = g.Wait()
	return out
}

// resolve walks the strategy chain for one item.
func (r *Resolver) resolve(ctx context.Context, item models.ItineraryItem, all []models.ItineraryItem, destination string) (string, bool) {
	for _, q := range r.queries(item, all, destination) {
		select {
		case <-time.After(r.delay):
		case <-ctx.Done():
			return "", false
		}
		place, err := r.client.Search(ctx, q.query)
		if err != nil {
			r.logger.Warn("geocode: lookup failed",
				slog.String("strategy", q.name),
				slog.String("query", q.query),
				slog.String("error", err.Error()))
			continue
		}
		if place == nil {
			continue
		}
		r.logger.Debug("geocode: resolved",
			slog.String("strategy", q.name),
			slog.String("location", item.Location),
			slog.String("display_name", place.DisplayName))
		return place.DisplayName, true
	}
	r.logger.Info("geocode: all strategies exhausted",
		slog.String("item", item.ID),
		slog.String("location", item.Location))
	return "", false
}

type query struct {
	name  string
	query string
}

// queries builds the ordered strategy chain for one candidate:
//
//  1. destination-qualified, unless the location already names the
//     destination
//  2. qualified by the short context of the date-closest located item
//  3. the exact location text
//  4. text before the first comma plus the destination
func (r *Resolver) queries(item models.ItineraryItem, all []models.ItineraryItem, destination string) []query {
	var out []query

	if destination != "" && !containsFold(item.Location, destination) {
		out = append(out, query{"destination", item.Location + ", " + destination})
	}

	if ctx := nearbyContext(item, all, destination); ctx != "" {
		out = append(out, query{"local-context", item.Location + ", " + ctx})
	}

	out = append(out, query{"exact", item.Location})

	if i := strings.Index(item.Location, ","); i > 0 && destination != "" {
		first := strings.TrimSpace(item.Location[:i])
		out = append(out, query{"simplified", first + ", " + destination})
	}

	return out
}

// nearbyContext finds, among the located itinerary items, the one whose
// date is closest to the candidate's, and returns the last two
// comma-separated tokens of its location. Empty when no such item exists
// or when the context would just repeat the destination.
func nearbyContext(item models.ItineraryItem, all []models.ItineraryItem, destination string) string {
	when, err := time.Parse("2006-01-02", item.StartDate)
	if err != nil {
		return ""
	}

	best := ""
	bestDiff := math.MaxFloat64
	for _, other := range all {
		if other.ID == item.ID || other.Location == "" {
			continue
		}
		otherWhen, err := time.Parse("2006-01-02", other.StartDate)
		if err != nil {
			continue
		}
		diff := math.Abs(when.Sub(otherWhen).Hours())
		if diff < bestDiff {
			bestDiff = diff
			best = other.Location
		}
	}
	if best == "" {
		return ""
	}

	parts := strings.Split(best, ",")
	if len(parts) > 2 {
		parts = parts[len(parts)-2:]
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	ctx := strings.Join(parts, ", ")
	if strings.EqualFold(ctx, destination) {
		return ""
	}
	return ctx
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
