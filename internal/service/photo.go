package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/pkordes/travel-log/internal/domain"
	"github.com/pkordes/travel-log/internal/metrics"
	"github.com/pkordes/travel-log/internal/repo"
)

// photoSaver is the subset of *photo.Storage used here.
type photoSaver interface {
	Save(ctx context.Context, r io.Reader) (domain.Photo, error)
}

// PhotoService attaches and detaches the single photo of a record.
type PhotoService struct {
	store repo.Store
	files photoSaver
}

// NewPhotoService constructs a PhotoService writing files through files.
func NewPhotoService(s repo.Store, files photoSaver) *PhotoService {
	return &PhotoService{store: s, files: files}
}

// Attach stores the upload read from r and makes it the photo of one of
// owner's records, replacing any previous photo. The record is checked
// before the file is written, so a foreign id never leaves a file behind.
func (s *PhotoService) Attach(ctx context.Context, owner, id uuid.UUID, r io.Reader) (domain.TravelRecord, error) {
	var rec domain.TravelRecord
	err := s.store.WithTx(ctx, repo.ReadWrite, func(tx repo.Store) error {
		if _, err := tx.Records().GetByID(ctx, owner, id); err != nil {
			return err
		}
		photo, err := s.files.Save(ctx, r)
		if err != nil {
			return err
		}
		rec, err = tx.Records().SetPhoto(ctx, owner, id, &photo)
		return err
	})
	if err != nil {
		metrics.PhotoUploads.WithLabelValues(uploadOutcome(err)).Inc()
		return domain.TravelRecord{}, fmt.Errorf("service.PhotoService.Attach: %w", err)
	}
	metrics.PhotoUploads.WithLabelValues("stored").Inc()
	return rec, nil
}

// Detach clears the photo of one of owner's records. The file stays on disk.
// Detaching from a record without a photo succeeds.
func (s *PhotoService) Detach(ctx context.Context, owner, id uuid.UUID) error {
	err := s.store.WithTx(ctx, repo.ReadWrite, func(tx repo.Store) error {
		_, err := tx.Records().SetPhoto(ctx, owner, id, nil)
		return err
	})
	if err != nil {
		return fmt.Errorf("service.PhotoService.Detach: %w", err)
	}
	return nil
}

func uploadOutcome(err error) string {
	if errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrNotFound) {
		return "rejected"
	}
	return "error"
}
