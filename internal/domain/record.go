// Package domain contains the core data types for the Travel Log application.
// It is imported by every other internal package (query, aggregate, repo,
// service, handler) and depends on nothing inside the module.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// DestinationType categorises a visited place.
type DestinationType string

const (
	DestinationCity       DestinationType = "city"
	DestinationNature     DestinationType = "nature"
	DestinationBeach      DestinationType = "beach"
	DestinationMuseum     DestinationType = "museum"
	DestinationPark       DestinationType = "park"
	DestinationMountain   DestinationType = "mountain"
	DestinationDesert     DestinationType = "desert"
	DestinationHistorical DestinationType = "historical"
	DestinationFood       DestinationType = "food"
	DestinationOther      DestinationType = "other"
)

// DestinationTypes lists every accepted DestinationType in declaration order.
var DestinationTypes = []DestinationType{
	DestinationCity, DestinationNature, DestinationBeach, DestinationMuseum, DestinationPark,
	DestinationMountain, DestinationDesert, DestinationHistorical, DestinationFood, DestinationOther,
}

// Valid reports whether d is one of DestinationTypes.
func (d DestinationType) Valid() bool {
	for _, t := range DestinationTypes {
		if d == t {
			return true
		}
	}
	return false
}

// Photo describes the single image attached to a record.
// The bytes live on disk under the media root; only the descriptor is stored.
type Photo struct {
	Path        string `json:"file_path"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
}

// TravelRecord is one visited destination owned by exactly one user.
// Optional text fields use the empty string for "not set"; the repo maps
// them to SQL NULL. UpdatedAt is nil until the first mutation.
type TravelRecord struct {
	ID              uuid.UUID       `json:"id"`
	UserID          uuid.UUID       `json:"user_id"`
	Title           string          `json:"title" validate:"required,max=140"`
	Notes           string          `json:"notes,omitempty"`
	CountryCode     string          `json:"country_code" validate:"required,iso2"`
	City            string          `json:"city,omitempty" validate:"max=100"`
	Latitude        float64         `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude       float64         `json:"longitude" validate:"gte=-180,lte=180"`
	DestinationType DestinationType `json:"destination_type" validate:"required,desttype"`
	Rating          int             `json:"rating" validate:"gte=1,lte=5"`
	VisitedAt       time.Time       `json:"visited_at" validate:"required"`
	PlaceExternalID string          `json:"place_external_id,omitempty" validate:"max=128"`
	Photo           *Photo          `json:"photo,omitempty" validate:"-"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       *time.Time      `json:"updated_at"`
}

// RecordPatch carries a partial update. A nil field is "unset" and leaves the
// stored value untouched. For Notes, City and PlaceExternalID a pointer to the
// empty string clears the stored value.
type RecordPatch struct {
	Title           *string          `json:"title" validate:"omitnil,max=140"`
	Notes           *string          `json:"notes"`
	CountryCode     *string          `json:"country_code" validate:"omitnil,iso2"`
	City            *string          `json:"city" validate:"omitnil,max=100"`
	Latitude        *float64         `json:"latitude" validate:"omitnil,gte=-90,lte=90"`
	Longitude       *float64         `json:"longitude" validate:"omitnil,gte=-180,lte=180"`
	DestinationType *DestinationType `json:"destination_type" validate:"omitnil,desttype"`
	Rating          *int             `json:"rating" validate:"omitnil,gte=1,lte=5"`
	VisitedAt       *time.Time       `json:"visited_at"`
	PlaceExternalID *string          `json:"place_external_id" validate:"omitnil,max=128"`
}

// IsEmpty reports whether the patch sets no field at all.
func (p RecordPatch) IsEmpty() bool {
	return p.Title == nil && p.Notes == nil && p.CountryCode == nil && p.City == nil &&
		p.Latitude == nil && p.Longitude == nil && p.DestinationType == nil &&
		p.Rating == nil && p.VisitedAt == nil && p.PlaceExternalID == nil
}

// Apply returns a copy of r with every set field of p written over it.
func (p RecordPatch) Apply(r TravelRecord) TravelRecord {
	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.Notes != nil {
		r.Notes = *p.Notes
	}
	if p.CountryCode != nil {
		r.CountryCode = *p.CountryCode
	}
	if p.City != nil {
		r.City = *p.City
	}
	if p.Latitude != nil {
		r.Latitude = *p.Latitude
	}
	if p.Longitude != nil {
		r.Longitude = *p.Longitude
	}
	if p.DestinationType != nil {
		r.DestinationType = *p.DestinationType
	}
	if p.Rating != nil {
		r.Rating = *p.Rating
	}
	if p.VisitedAt != nil {
		r.VisitedAt = *p.VisitedAt
	}
	if p.PlaceExternalID != nil {
		r.PlaceExternalID = *p.PlaceExternalID
	}
	return r
}
