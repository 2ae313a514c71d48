package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/travel-log/internal/domain"
	"github.com/pkordes/travel-log/internal/repo"
)

// ExportService assembles a flat export of every record an owner has.
type ExportService struct {
	store repo.Store
}

// NewExportService constructs an ExportService backed by the provided Store.
func NewExportService(s repo.Store) *ExportService {
	return &ExportService{store: s}
}

// Export returns one ExportRow per record of owner, ordered by visited_at.
// An owner with no records gets an empty, non-nil slice.
func (s *ExportService) Export(ctx context.Context, owner uuid.UUID) ([]domain.ExportRow, error) {
	var records []domain.TravelRecord
	err := s.store.WithTx(ctx, repo.ReadOnly, func(tx repo.Store) error {
		var err error
		records, err = tx.Records().ListByOwner(ctx, owner)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	rows := make([]domain.ExportRow, 0, len(records))
	for _, r := range records {
		row := domain.ExportRow{
			RecordID:        r.ID,
			Title:           r.Title,
			CountryCode:     r.CountryCode,
			City:            r.City,
			DestinationType: string(r.DestinationType),
			Rating:          r.Rating,
			VisitedAt:       r.VisitedAt,
			Latitude:        r.Latitude,
			Longitude:       r.Longitude,
			Notes:           r.Notes,
			PlaceExternalID: r.PlaceExternalID,
		}
		if r.Photo != nil {
			row.PhotoPath = r.Photo.Path
			row.PhotoContentType = r.Photo.ContentType
		}
		rows = append(rows, row)
	}
	return rows, nil
}
