// Package service contains the business logic for the Travel Log API.
// Services validate inputs, enforce ownership and orchestrate repo calls,
// each inside exactly one store transaction. No SQL lives here.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/travel-log/internal/domain"
	"github.com/pkordes/travel-log/internal/metrics"
	"github.com/pkordes/travel-log/internal/repo"
)

// RecordService implements create, read, search, update and delete for
// travel records. Every method takes the authenticated owner's id.
type RecordService struct {
	store repo.Store
}

// NewRecordService constructs a RecordService backed by the provided Store.
func NewRecordService(s repo.Store) *RecordService {
	return &RecordService{store: s}
}

// Create validates rec and persists it for owner. Server-managed fields on
// rec (id, owner, photo, timestamps) are ignored.
func (s *RecordService) Create(ctx context.Context, owner uuid.UUID, rec domain.TravelRecord) (domain.TravelRecord, error) {
	rec = normalizeRecord(rec)
	rec.ID = uuid.Nil
	rec.UserID = owner
	rec.Photo = nil

	if err := validateStruct(rec); err != nil {
		return domain.TravelRecord{}, err
	}

	var created domain.TravelRecord
	err := s.store.WithTx(ctx, repo.ReadWrite, func(tx repo.Store) error {
		var err error
		created, err = tx.Records().Create(ctx, rec)
		return err
	})
	if err != nil {
		return domain.TravelRecord{}, fmt.Errorf("service.RecordService.Create: %w", err)
	}
	metrics.RecordsCreated.Inc()
	return created, nil
}

// Get returns one of owner's records.
func (s *RecordService) Get(ctx context.Context, owner, id uuid.UUID) (domain.TravelRecord, error) {
	var rec domain.TravelRecord
	err := s.store.WithTx(ctx, repo.ReadOnly, func(tx repo.Store) error {
		var err error
		rec, err = tx.Records().GetByID(ctx, owner, id)
		return err
	})
	if err != nil {
		return domain.TravelRecord{}, fmt.Errorf("service.RecordService.Get: %w", err)
	}
	return rec, nil
}

// Search returns one page of owner's records matching spec. The count and
// the page are read from the same snapshot.
func (s *RecordService) Search(ctx context.Context, owner uuid.UUID, spec domain.FilterSpec) (domain.Page[domain.TravelRecord], error) {
	spec.CountryCode = strings.ToUpper(strings.TrimSpace(spec.CountryCode))
	spec.Page = domain.NewPageParams(&spec.Page.Limit, &spec.Page.Offset)

	if err := validateStruct(spec); err != nil {
		return domain.Page[domain.TravelRecord]{}, err
	}

	page := domain.Page[domain.TravelRecord]{Limit: spec.Page.Limit, Offset: spec.Page.Offset}
	err := s.store.WithTx(ctx, repo.ReadOnly, func(tx repo.Store) error {
		var err error
		page.Items, page.Total, err = tx.Records().Search(ctx, owner, spec)
		return err
	})
	if err != nil {
		return domain.Page[domain.TravelRecord]{}, fmt.Errorf("service.RecordService.Search: %w", err)
	}
	if page.Items == nil {
		page.Items = []domain.TravelRecord{}
	}
	return page, nil
}

// Update applies patch to one of owner's records. Fields absent from the
// patch keep their stored values; an empty patch returns the record as is.
func (s *RecordService) Update(ctx context.Context, owner, id uuid.UUID, patch domain.RecordPatch) (domain.TravelRecord, error) {
	patch = normalizePatch(patch)
	if err := validateStruct(patch); err != nil {
		return domain.TravelRecord{}, err
	}

	var updated domain.TravelRecord
	err := s.store.WithTx(ctx, repo.ReadWrite, func(tx repo.Store) error {
		current, err := tx.Records().GetByID(ctx, owner, id)
		if err != nil {
			return err
		}
		if patch.IsEmpty() {
			updated = current
			return nil
		}
		// Patch tags only check the fields that are present; the merged
		// record must still satisfy every required field.
		next := patch.Apply(current)
		if err := validateStruct(next); err != nil {
			return err
		}
		updated, err = tx.Records().Update(ctx, next)
		return err
	})
	if err != nil {
		return domain.TravelRecord{}, fmt.Errorf("service.RecordService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes one of owner's records.
func (s *RecordService) Delete(ctx context.Context, owner, id uuid.UUID) error {
	err := s.store.WithTx(ctx, repo.ReadWrite, func(tx repo.Store) error {
		return tx.Records().Delete(ctx, owner, id)
	})
	if err != nil {
		return fmt.Errorf("service.RecordService.Delete: %w", err)
	}
	return nil
}

// normalizeRecord trims text fields and upper-cases the country code.
func normalizeRecord(r domain.TravelRecord) domain.TravelRecord {
	r.Title = strings.TrimSpace(r.Title)
	r.Notes = strings.TrimSpace(r.Notes)
	r.CountryCode = strings.ToUpper(strings.TrimSpace(r.CountryCode))
	r.City = strings.TrimSpace(r.City)
	r.PlaceExternalID = strings.TrimSpace(r.PlaceExternalID)
	r.VisitedAt = r.VisitedAt.UTC()
	return r
}

func normalizePatch(p domain.RecordPatch) domain.RecordPatch {
	trim := func(s *string, f func(string) string) *string {
		if s == nil {
			return nil
		}
		v := f(strings.TrimSpace(*s))
		return &v
	}
	same := func(s string) string { return s }

	p.Title = trim(p.Title, same)
	p.Notes = trim(p.Notes, same)
	p.CountryCode = trim(p.CountryCode, strings.ToUpper)
	p.City = trim(p.City, same)
	p.PlaceExternalID = trim(p.PlaceExternalID, same)
	if p.VisitedAt != nil {
		v := p.VisitedAt.UTC()
		p.VisitedAt = &v
	}
	return p
}
