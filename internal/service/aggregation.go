package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/travel-log/internal/aggregate"
	"github.com/pkordes/travel-log/internal/domain"
	"github.com/pkordes/travel-log/internal/repo"
)

// AggregationService computes per-owner statistics. Each report reads the
// owner's records once, inside a read-only snapshot, and folds them.
type AggregationService struct {
	store repo.Store
}

// NewAggregationService constructs an AggregationService backed by the provided Store.
func NewAggregationService(s repo.Store) *AggregationService {
	return &AggregationService{store: s}
}

// AvgRatingByCountry returns the mean rating and record count per country.
func (s *AggregationService) AvgRatingByCountry(ctx context.Context, owner uuid.UUID) ([]domain.CountryRating, error) {
	records, err := s.snapshot(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("service.AggregationService.AvgRatingByCountry: %w", err)
	}
	return aggregate.AvgRatingByCountry(records), nil
}

// TopDestinationPerMonth returns the best-rated record of every month that
// has at least one record.
func (s *AggregationService) TopDestinationPerMonth(ctx context.Context, owner uuid.UUID) ([]domain.MonthTop, error) {
	records, err := s.snapshot(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("service.AggregationService.TopDestinationPerMonth: %w", err)
	}
	return aggregate.TopDestinationPerMonth(records), nil
}

func (s *AggregationService) snapshot(ctx context.Context, owner uuid.UUID) ([]domain.TravelRecord, error) {
	var records []domain.TravelRecord
	err := s.store.WithTx(ctx, repo.ReadOnly, func(tx repo.Store) error {
		var err error
		records, err = tx.Records().ListByOwner(ctx, owner)
		return err
	})
	return records, err
}
