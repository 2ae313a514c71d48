package handler_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/travel-log/internal/domain"
	"github.com/pkordes/travel-log/internal/handler"
)

func TestAvgRatingByCountry_200(t *testing.T) {
	h := newHTTPHandler(handler.Services{Aggregations: &mockAggregationServicer{
		avg: func(_ context.Context, owner uuid.UUID) ([]domain.CountryRating, error) {
			assert.Equal(t, testUser, owner)
			return []domain.CountryRating{
				{CountryCode: "FR", AvgRating: 4, Count: 1},
				{CountryCode: "US", AvgRating: 3.5, Count: 2},
			}, nil
		},
	}})

	rec := do(h, http.MethodGet, "/api/aggregations/avg-rating-by-country", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[
		{"key": "FR", "avg_rating": 4, "count": 1},
		{"key": "US", "avg_rating": 3.5, "count": 2}
	]`, rec.Body.String())
}

func TestAvgRatingByCountry_EmptyIsArray(t *testing.T) {
	h := newHTTPHandler(handler.Services{Aggregations: &mockAggregationServicer{
		avg: func(context.Context, uuid.UUID) ([]domain.CountryRating, error) {
			return []domain.CountryRating{}, nil
		},
	}})

	rec := do(h, http.MethodGet, "/api/aggregations/avg-rating-by-country", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestTopDestinationPerMonth_200(t *testing.T) {
	id := uuid.New()
	h := newHTTPHandler(handler.Services{Aggregations: &mockAggregationServicer{
		top: func(context.Context, uuid.UUID) ([]domain.MonthTop, error) {
			return []domain.MonthTop{{
				Month:       time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
				RecordID:    id,
				Title:       "Louvre",
				Rating:      5,
				CountryCode: "FR",
			}}, nil
		},
	}})

	rec := do(h, http.MethodGet, "/api/aggregations/top-destination-per-month", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{
		"month": "2025-06-01",
		"record_id": "`+id.String()+`",
		"title": "Louvre",
		"rating": 5,
		"city": null,
		"country_code": "FR"
	}]`, rec.Body.String())
}

func TestTopDestinationPerMonth_500(t *testing.T) {
	h := newHTTPHandler(handler.Services{Aggregations: &mockAggregationServicer{
		top: func(context.Context, uuid.UUID) ([]domain.MonthTop, error) {
			return nil, errors.New("db down")
		},
	}})

	rec := do(h, http.MethodGet, "/api/aggregations/top-destination-per-month", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
