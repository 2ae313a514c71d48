package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/travel-log/internal/domain"
)

// RecordRequest is the body of POST /api/records.
type RecordRequest struct {
	Title           string    `json:"title"`
	Notes           *string   `json:"notes"`
	CountryCode     string    `json:"country_code"`
	City            *string   `json:"city"`
	Latitude        *float64  `json:"latitude"`
	Longitude       *float64  `json:"longitude"`
	DestinationType string    `json:"destination_type"`
	Rating          int       `json:"rating"`
	VisitedAt       time.Time `json:"visited_at"`
	PlaceExternalID *string   `json:"place_external_id"`
}

// PhotoResponse describes the photo attached to a record.
type PhotoResponse struct {
	ID          uuid.UUID `json:"id"`
	FilePath    string    `json:"file_path"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
}

// RecordResponse is the wire form of a TravelRecord.
type RecordResponse struct {
	ID              uuid.UUID      `json:"id"`
	UserID          uuid.UUID      `json:"user_id"`
	Title           string         `json:"title"`
	Notes           *string        `json:"notes"`
	CountryCode     string         `json:"country_code"`
	City            *string        `json:"city"`
	Latitude        float64        `json:"latitude"`
	Longitude       float64        `json:"longitude"`
	DestinationType string         `json:"destination_type"`
	Rating          int            `json:"rating"`
	VisitedAt       time.Time      `json:"visited_at"`
	PlaceExternalID *string        `json:"place_external_id"`
	Photo           *PhotoResponse `json:"photo"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       *time.Time     `json:"updated_at"`
}

// RecordsPage is the body of GET /api/records.
type RecordsPage struct {
	Items  []RecordResponse `json:"items"`
	Total  int64            `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

const recordNotFound = "record not found"

// CreateRecord handles POST /api/records.
func (s *Server) CreateRecord(w http.ResponseWriter, r *http.Request) {
	var body RecordRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	rec, err := requestToRecord(body)
	if err != nil {
		invalid(w, err.Error())
		return
	}

	created, err := s.records.Create(r.Context(), owner(r), rec)
	if err != nil {
		serviceError(w, r, err, recordNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, recordToResponse(created))
}

// ListRecords handles GET /api/records. See filterFromQuery for the
// accepted query parameters.
func (s *Server) ListRecords(w http.ResponseWriter, r *http.Request) {
	spec, err := filterFromQuery(r.URL.Query())
	var bad badParam
	if errors.As(err, &bad) {
		badRequest(w, bad.Error())
		return
	}
	if err != nil {
		serviceError(w, r, err, recordNotFound)
		return
	}

	page, err := s.records.Search(r.Context(), owner(r), spec)
	if err != nil {
		serviceError(w, r, err, recordNotFound)
		return
	}

	items := make([]RecordResponse, len(page.Items))
	for i, rec := range page.Items {
		items[i] = recordToResponse(rec)
	}
	writeJSON(w, http.StatusOK, RecordsPage{
		Items:  items,
		Total:  page.Total,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
}

// GetRecord handles GET /api/records/{id}.
func (s *Server) GetRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	rec, err := s.records.Get(r.Context(), owner(r), id)
	if err != nil {
		serviceError(w, r, err, recordNotFound)
		return
	}
	writeJSON(w, http.StatusOK, recordToResponse(rec))
}

// UpdateRecord handles PATCH /api/records/{id}. Absent and null fields are
// left untouched; "" clears notes, city and place_external_id.
func (s *Server) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var patch domain.RecordPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	updated, err := s.records.Update(r.Context(), owner(r), id, patch)
	if err != nil {
		serviceError(w, r, err, recordNotFound)
		return
	}
	writeJSON(w, http.StatusOK, recordToResponse(updated))
}

// DeleteRecord handles DELETE /api/records/{id}.
func (s *Server) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.records.Delete(r.Context(), owner(r), id); err != nil {
		serviceError(w, r, err, recordNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- mapping helpers --------------------------------------------------------

// requestToRecord converts a RecordRequest into a domain.TravelRecord.
// Coordinates have no natural zero, so they must be present.
func requestToRecord(body RecordRequest) (domain.TravelRecord, error) {
	if body.Latitude == nil || body.Longitude == nil {
		return domain.TravelRecord{}, errors.New("latitude and longitude are required")
	}
	return domain.TravelRecord{
		Title:           body.Title,
		Notes:           deref(body.Notes),
		CountryCode:     body.CountryCode,
		City:            deref(body.City),
		Latitude:        *body.Latitude,
		Longitude:       *body.Longitude,
		DestinationType: domain.DestinationType(body.DestinationType),
		Rating:          body.Rating,
		VisitedAt:       body.VisitedAt,
		PlaceExternalID: deref(body.PlaceExternalID),
	}, nil
}

// recordToResponse converts a domain.TravelRecord into its wire form.
// Empty optional strings become JSON null.
func recordToResponse(rec domain.TravelRecord) RecordResponse {
	resp := RecordResponse{
		ID:              rec.ID,
		UserID:          rec.UserID,
		Title:           rec.Title,
		Notes:           nullable(rec.Notes),
		CountryCode:     rec.CountryCode,
		City:            nullable(rec.City),
		Latitude:        rec.Latitude,
		Longitude:       rec.Longitude,
		DestinationType: string(rec.DestinationType),
		Rating:          rec.Rating,
		VisitedAt:       rec.VisitedAt,
		PlaceExternalID: nullable(rec.PlaceExternalID),
		CreatedAt:       rec.CreatedAt,
		UpdatedAt:       rec.UpdatedAt,
	}
	if rec.Photo != nil {
		p := photoToResponse(rec.ID, *rec.Photo)
		resp.Photo = &p
	}
	return resp
}

func photoToResponse(recordID uuid.UUID, p domain.Photo) PhotoResponse {
	return PhotoResponse{ID: recordID, FilePath: p.Path, ContentType: p.ContentType, SizeBytes: p.SizeBytes}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
