package aggregate_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/travel-log/internal/aggregate"
	"github.com/pkordes/travel-log/internal/domain"
)

func record(country string, rating int, visited time.Time) domain.TravelRecord {
	return domain.TravelRecord{
		ID:          uuid.Must(uuid.NewV7()),
		Title:       country + " trip",
		CountryCode: country,
		Rating:      rating,
		VisitedAt:   visited,
	}
}

var june = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

// ---- AvgRatingByCountry ----------------------------------------------------

func TestAvgRatingByCountry(t *testing.T) {
	records := []domain.TravelRecord{
		record("US", 5, june),
		record("US", 3, june),
		record("FR", 4, june),
	}

	got := aggregate.AvgRatingByCountry(records)

	require.Len(t, got, 2)
	assert.Equal(t, domain.CountryRating{CountryCode: "FR", AvgRating: 4.0, Count: 1}, got[0])
	assert.Equal(t, domain.CountryRating{CountryCode: "US", AvgRating: 4.0, Count: 2}, got[1])
}

func TestAvgRatingByCountry_NonIntegerMean(t *testing.T) {
	records := []domain.TravelRecord{
		record("JP", 5, june),
		record("JP", 4, june),
		record("JP", 4, june),
	}

	got := aggregate.AvgRatingByCountry(records)

	require.Len(t, got, 1)
	assert.InDelta(t, 13.0/3.0, got[0].AvgRating, 1e-9)
	assert.Equal(t, 3, got[0].Count)
}

func TestAvgRatingByCountry_Empty(t *testing.T) {
	got := aggregate.AvgRatingByCountry(nil)

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

// ---- TopDestinationPerMonth ------------------------------------------------

func TestTopDestinationPerMonth_HighestRatingWins(t *testing.T) {
	low := record("FR", 3, june)
	high := record("IT", 5, june.Add(-24*time.Hour))

	got := aggregate.TopDestinationPerMonth([]domain.TravelRecord{low, high})

	require.Len(t, got, 1)
	assert.Equal(t, high.ID, got[0].RecordID)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), got[0].Month)
}

func TestTopDestinationPerMonth_TieOnRating_LaterVisitWins(t *testing.T) {
	earlier := record("FR", 5, june)
	later := record("FR", 5, june.Add(48*time.Hour))

	got := aggregate.TopDestinationPerMonth([]domain.TravelRecord{later, earlier})

	require.Len(t, got, 1)
	assert.Equal(t, later.ID, got[0].RecordID)
}

func TestTopDestinationPerMonth_TieOnRatingAndVisit_HigherIDWins(t *testing.T) {
	a := record("FR", 5, june)
	b := record("FR", 5, june)
	a.ID = uuid.MustParse("00000000-0000-7000-8000-000000000001")
	b.ID = uuid.MustParse("00000000-0000-7000-8000-000000000002")

	// Input order must not matter.
	got1 := aggregate.TopDestinationPerMonth([]domain.TravelRecord{a, b})
	got2 := aggregate.TopDestinationPerMonth([]domain.TravelRecord{b, a})

	require.Len(t, got1, 1)
	require.Len(t, got2, 1)
	assert.Equal(t, b.ID, got1[0].RecordID)
	assert.Equal(t, b.ID, got2[0].RecordID)
}

func TestTopDestinationPerMonth_OrderedByMonth(t *testing.T) {
	records := []domain.TravelRecord{
		record("FR", 4, time.Date(2025, 8, 3, 0, 0, 0, 0, time.UTC)),
		record("US", 2, time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC)),
		record("IT", 5, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)),
	}

	got := aggregate.TopDestinationPerMonth(records)

	require.Len(t, got, 3)
	assert.Equal(t, "US", got[0].CountryCode)
	assert.Equal(t, "IT", got[1].CountryCode)
	assert.Equal(t, "FR", got[2].CountryCode)
	for i := 1; i < len(got); i++ {
		assert.True(t, got[i-1].Month.Before(got[i].Month))
	}
}

func TestTopDestinationPerMonth_CopiesWinnerFields(t *testing.T) {
	r := record("PT", 4, june)
	r.Title = "Lisbon"
	r.City = "Lisbon"

	got := aggregate.TopDestinationPerMonth([]domain.TravelRecord{r})

	require.Len(t, got, 1)
	assert.Equal(t, domain.MonthTop{
		Month:       time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		RecordID:    r.ID,
		Title:       "Lisbon",
		Rating:      4,
		City:        "Lisbon",
		CountryCode: "PT",
	}, got[0])
}

func TestTopDestinationPerMonth_Empty(t *testing.T) {
	got := aggregate.TopDestinationPerMonth([]domain.TravelRecord{})

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

// ---- MonthOf ---------------------------------------------------------------

func TestMonthOf_UsesUTC(t *testing.T) {
	// 00:30 on July 1st at UTC+2 is still June 30th in UTC.
	loc := time.FixedZone("UTC+2", 2*60*60)
	visited := time.Date(2025, 7, 1, 0, 30, 0, 0, loc)

	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), aggregate.MonthOf(visited))
}

func TestOutranks_IsStrict(t *testing.T) {
	r := record("FR", 4, june)

	assert.False(t, aggregate.Outranks(r, r), "a record never outranks itself")
}
