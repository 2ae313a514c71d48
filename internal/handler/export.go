package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/travel-log/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"record_id", "title", "country_code", "city", "destination_type", "rating",
	"visited_at", "latitude", "longitude", "notes", "place_external_id",
	"photo_path", "photo_content_type",
}

// ExportRow is one record in the JSON export.
type ExportRow struct {
	RecordID         uuid.UUID `json:"record_id"`
	Title            string    `json:"title"`
	CountryCode      string    `json:"country_code"`
	City             *string   `json:"city,omitempty"`
	DestinationType  string    `json:"destination_type"`
	Rating           int       `json:"rating"`
	VisitedAt        time.Time `json:"visited_at"`
	Latitude         float64   `json:"latitude"`
	Longitude        float64   `json:"longitude"`
	Notes            *string   `json:"notes,omitempty"`
	PlaceExternalID  *string   `json:"place_external_id,omitempty"`
	PhotoPath        *string   `json:"photo_path,omitempty"`
	PhotoContentType *string   `json:"photo_content_type,omitempty"`
}

// GetExport handles GET /api/records/export.
// It returns one flat row per record of the caller. Use ?format=csv to
// receive CSV; the default is JSON.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format != "" && format != "json" && format != "csv" {
		invalid(w, "format must be one of: csv json")
		return
	}

	rows, err := s.export.Export(r.Context(), owner(r))
	if err != nil {
		serviceError(w, r, err, recordNotFound)
		return
	}

	if format == "csv" {
		writeCSV(w, r, rows)
		return
	}
	out := make([]ExportRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, ExportRow{
			RecordID:         row.RecordID,
			Title:            row.Title,
			CountryCode:      row.CountryCode,
			City:             nullable(row.City),
			DestinationType:  row.DestinationType,
			Rating:           row.Rating,
			VisitedAt:        row.VisitedAt,
			Latitude:         row.Latitude,
			Longitude:        row.Longitude,
			Notes:            nullable(row.Notes),
			PlaceExternalID:  nullable(row.PlaceExternalID),
			PhotoPath:        nullable(row.PhotoPath),
			PhotoContentType: nullable(row.PhotoContentType),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// writeCSV encodes rows as CSV with a header line and sends it as a download.
func writeCSV(w http.ResponseWriter, r *http.Request, rows []domain.ExportRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	_ = cw.Write(csvHeaders)
	for _, row := range rows {
		_ = cw.Write(rowToCSVRecord(row))
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		serviceError(w, r, err, recordNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="travel-records.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// rowToCSVRecord encodes a domain.ExportRow as a flat string slice.
// Times are RFC 3339 in UTC; coordinates keep full precision.
func rowToCSVRecord(r domain.ExportRow) []string {
	return []string{
		r.RecordID.String(),
		r.Title,
		r.CountryCode,
		r.City,
		r.DestinationType,
		strconv.Itoa(r.Rating),
		r.VisitedAt.UTC().Format(time.RFC3339),
		strconv.FormatFloat(r.Latitude, 'f', -1, 64),
		strconv.FormatFloat(r.Longitude, 'f', -1, 64),
		r.Notes,
		r.PlaceExternalID,
		r.PhotoPath,
		r.PhotoContentType,
	}
}
