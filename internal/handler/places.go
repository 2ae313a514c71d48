package handler

import (
	"net/http"
	"strings"
)

// PredictionResponse is one autocomplete suggestion.
type PredictionResponse struct {
	PlaceID     string `json:"place_id"`
	Description string `json:"description"`
}

// PlaceDetailsResponse pre-fills a new record from a place.
type PlaceDetailsResponse struct {
	PlaceExternalID string   `json:"place_external_id"`
	Title           string   `json:"title"`
	CountryCode     string   `json:"country_code"`
	City            string   `json:"city"`
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`
}

// PlacesAutocomplete handles GET /api/places/autocomplete?q=&session_token=.
func (s *Server) PlacesAutocomplete(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		invalid(w, "q is required")
		return
	}
	preds, err := s.places.Autocomplete(r.Context(), q, r.URL.Query().Get("session_token"))
	if err != nil {
		serviceError(w, r, err, "place not found")
		return
	}
	out := make([]PredictionResponse, len(preds))
	for i, p := range preds {
		out[i] = PredictionResponse{PlaceID: p.PlaceID, Description: p.Description}
	}
	writeJSON(w, http.StatusOK, out)
}

// PlaceDetails handles GET /api/places/details?place_id=.
func (s *Server) PlaceDetails(w http.ResponseWriter, r *http.Request) {
	placeID := strings.TrimSpace(r.URL.Query().Get("place_id"))
	if placeID == "" {
		invalid(w, "place_id is required")
		return
	}
	d, err := s.places.Details(r.Context(), placeID)
	if err != nil {
		serviceError(w, r, err, "place not found")
		return
	}
	writeJSON(w, http.StatusOK, PlaceDetailsResponse{
		PlaceExternalID: d.PlaceExternalID,
		Title:           d.Title,
		CountryCode:     d.CountryCode,
		City:            d.City,
		Latitude:        d.Latitude,
		Longitude:       d.Longitude,
	})
}
