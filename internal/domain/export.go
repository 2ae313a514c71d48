package domain

import (
	"time"

	"github.com/google/uuid"
)

// ExportRow is a single row in the full-data export of a user's records.
// It is a flat, denormalized view: one row per record, photo fields empty when
// no photo is attached.
type ExportRow struct {
	RecordID        uuid.UUID
	Title           string
	CountryCode     string
	City            string
	DestinationType string
	Rating          int
	VisitedAt       time.Time
	Latitude        float64
	Longitude       float64
	Notes           string
	PlaceExternalID string

	// Photo fields, empty when the record has no photo.
	PhotoPath        string
	PhotoContentType string
}
