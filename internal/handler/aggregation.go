package handler

import (
	"net/http"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// CountryRatingResponse is one row of GET /api/aggregations/avg-rating-by-country.
type CountryRatingResponse struct {
	Key       string  `json:"key"`
	AvgRating float64 `json:"avg_rating"`
	Count     int     `json:"count"`
}

// MonthTopResponse is one row of GET /api/aggregations/top-destination-per-month.
type MonthTopResponse struct {
	Month       openapi_types.Date `json:"month"`
	RecordID    uuid.UUID          `json:"record_id"`
	Title       string             `json:"title"`
	Rating      int                `json:"rating"`
	City        *string            `json:"city"`
	CountryCode string             `json:"country_code"`
}

// AvgRatingByCountry handles GET /api/aggregations/avg-rating-by-country.
func (s *Server) AvgRatingByCountry(w http.ResponseWriter, r *http.Request) {
	rows, err := s.aggregations.AvgRatingByCountry(r.Context(), owner(r))
	if err != nil {
		serviceError(w, r, err, recordNotFound)
		return
	}
	out := make([]CountryRatingResponse, len(rows))
	for i, row := range rows {
		out[i] = CountryRatingResponse{Key: row.CountryCode, AvgRating: row.AvgRating, Count: row.Count}
	}
	writeJSON(w, http.StatusOK, out)
}

// TopDestinationPerMonth handles GET /api/aggregations/top-destination-per-month.
func (s *Server) TopDestinationPerMonth(w http.ResponseWriter, r *http.Request) {
	rows, err := s.aggregations.TopDestinationPerMonth(r.Context(), owner(r))
	if err != nil {
		serviceError(w, r, err, recordNotFound)
		return
	}
	out := make([]MonthTopResponse, len(rows))
	for i, row := range rows {
		out[i] = MonthTopResponse{
			Month:       openapi_types.Date{Time: row.Month},
			RecordID:    row.RecordID,
			Title:       row.Title,
			Rating:      row.Rating,
			City:        nullable(row.City),
			CountryCode: row.CountryCode,
		}
	}
	writeJSON(w, http.StatusOK, out)
}
