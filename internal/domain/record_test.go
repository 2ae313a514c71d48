package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pkordes/travel-log/internal/domain"
)

func strPtr(s string) *string { return &s }

func baseRecord() domain.TravelRecord {
	return domain.TravelRecord{
		Title:           "Louvre",
		Notes:           "rainy",
		CountryCode:     "FR",
		City:            "Paris",
		Latitude:        48.86,
		Longitude:       2.33,
		DestinationType: domain.DestinationMuseum,
		Rating:          4,
		VisitedAt:       time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC),
		PlaceExternalID: "abc",
	}
}

// ---- DestinationType -------------------------------------------------------

func TestDestinationType_Valid(t *testing.T) {
	for _, d := range domain.DestinationTypes {
		assert.True(t, d.Valid(), d)
	}
	assert.False(t, domain.DestinationType("spaceport").Valid())
	assert.False(t, domain.DestinationType("").Valid())
	assert.False(t, domain.DestinationType("City").Valid(), "values are case-sensitive")
}

// ---- RecordPatch -----------------------------------------------------------

func TestRecordPatch_IsEmpty(t *testing.T) {
	assert.True(t, domain.RecordPatch{}.IsEmpty())
	assert.False(t, domain.RecordPatch{Notes: strPtr("")}.IsEmpty(), "clearing a field is a change")
	assert.False(t, domain.RecordPatch{Rating: intPtr(3)}.IsEmpty())
}

func TestRecordPatch_Apply(t *testing.T) {
	rec := baseRecord()
	lat := 43.7
	visited := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	got := domain.RecordPatch{
		Title:     strPtr("Uffizi"),
		Notes:     strPtr(""),
		Latitude:  &lat,
		Rating:    intPtr(5),
		VisitedAt: &visited,
	}.Apply(rec)

	assert.Equal(t, "Uffizi", got.Title)
	assert.Empty(t, got.Notes, "pointer to empty string clears")
	assert.Equal(t, 43.7, got.Latitude)
	assert.Equal(t, 5, got.Rating)
	assert.Equal(t, visited, got.VisitedAt)

	// unset fields are untouched
	assert.Equal(t, "FR", got.CountryCode)
	assert.Equal(t, "Paris", got.City)
	assert.Equal(t, 2.33, got.Longitude)
	assert.Equal(t, domain.DestinationMuseum, got.DestinationType)
	assert.Equal(t, "abc", got.PlaceExternalID)

	assert.Equal(t, "Louvre", rec.Title, "Apply works on a copy")
}

func TestRecordPatch_Apply_Empty(t *testing.T) {
	rec := baseRecord()
	assert.Equal(t, rec, domain.RecordPatch{}.Apply(rec))
}
