// Package models defines the domain types for Wayfare.
package models

import "time"

// Trip is the root aggregate: three independent collections plus the bags
// and attachment summaries they reference.
type Trip struct {
	ID          string                       `json:"id"`
	Name        string                       `json:"name"`
	Destination string                       `json:"destination,omitempty"`
	Itinerary   []ItineraryItem              `json:"itinerary"`
	Tasks       []Task                       `json:"tasks"`
	Packing     []PackingCategory            `json:"packing"`
	Bags        []Bag                        `json:"bags"`
	Summaries   map[string]AttachmentSummary `json:"summaries,omitempty"`
	CreatedAt   time.Time                    `json:"created_at"`
	UpdatedAt   time.Time                    `json:"updated_at"`
}

// TripListItem is a lightweight representation returned by list operations.
type TripListItem struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Destination string    `json:"destination,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Coordinates is a resolved lat/lon pair. The engine never writes this
// field; its presence excludes an item from geocoding enrichment.
type Coordinates struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// ItineraryItem is a scheduled event. The itinerary collection is kept
// sorted ascending by (StartDate, StartTime) after every mutation.
type ItineraryItem struct {
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	StartDate     string       `json:"startDate,omitempty"`
	StartTime     string       `json:"startTime,omitempty"`
	Duration      float64      `json:"duration,omitempty"`
	Type          string       `json:"type,omitempty"`
	Cost          float64      `json:"cost"`
	Currency      string       `json:"currency,omitempty"`
	Location      string       `json:"location,omitempty"`
	EndLocation   string       `json:"endLocation,omitempty"`
	Notes         string       `json:"notes,omitempty"`
	Category      string       `json:"category,omitempty"`
	AttachmentIDs []string     `json:"attachmentIds"`
	IsPaid        bool         `json:"isPaid"`
	IsEditing     bool         `json:"isEditing"`
	Coordinates   *Coordinates `json:"coordinates,omitempty"`
}

// Task is a preparatory to-do.
type Task struct {
	ID             string   `json:"id"`
	Text           string   `json:"text"`
	Cost           float64  `json:"cost"`
	Currency       string   `json:"currency,omitempty"`
	Category       string   `json:"category,omitempty"`
	DueDate        string   `json:"dueDate,omitempty"`
	Done           bool     `json:"done"`
	Notes          string   `json:"notes,omitempty"`
	TimeToComplete string   `json:"timeToComplete,omitempty"`
	AttachmentIDs  []string `json:"attachmentIds"`
}

// PackingCategory groups packing items. The category name acts as a
// secondary identity key when an add carries no explicit id.
type PackingCategory struct {
	ID       string        `json:"id"`
	Category string        `json:"category"`
	Items    []PackingItem `json:"items"`
}

// PackingItem is a single thing to pack. BagID is a non-owning reference
// to a Bag; RecommendedBagType survives only when no bag could be resolved.
type PackingItem struct {
	ID                 string      `json:"id"`
	Text               PackingText `json:"text"`
	Quantity           int         `json:"quantity"`
	BagID              *string     `json:"bagId"`
	RecommendedBagType string      `json:"recommendedBagType,omitempty"`
	Done               bool        `json:"done"`
}

// Bag is a piece of luggage items can be assigned to.
type Bag struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Type       string  `json:"type,omitempty"`
	TravelerID *string `json:"travelerId,omitempty"`
}

// AttachmentSummary is the distilled text extracted from an attachment.
type AttachmentSummary struct {
	ExtractedInfo string `json:"extractedInfo"`
}
