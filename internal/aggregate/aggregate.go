// Package aggregate computes grouped statistics over one user's travel
// records. Every function is a pure fold over an in-memory slice: callers load
// the records from a single consistent snapshot and pass them in.
package aggregate

import (
	"bytes"
	"slices"
	"strings"
	"time"

	"github.com/pkordes/travel-log/internal/domain"
)

// AvgRatingByCountry groups records by country code and returns one row per
// country present with the arithmetic mean rating and the record count.
// Rows are ordered by country code. Empty input yields an empty slice.
func AvgRatingByCountry(records []domain.TravelRecord) []domain.CountryRating {
	type acc struct {
		sum   int
		count int
	}
	groups := make(map[string]*acc)
	for _, r := range records {
		g, ok := groups[r.CountryCode]
		if !ok {
			g = &acc{}
			groups[r.CountryCode] = g
		}
		g.sum += r.Rating
		g.count++
	}

	out := make([]domain.CountryRating, 0, len(groups))
	for code, g := range groups {
		out = append(out, domain.CountryRating{
			CountryCode: code,
			AvgRating:   float64(g.sum) / float64(g.count),
			Count:       g.count,
		})
	}
	slices.SortFunc(out, func(a, b domain.CountryRating) int {
		return strings.Compare(a.CountryCode, b.CountryCode)
	})
	return out
}

// TopDestinationPerMonth returns the best record of every calendar month
// (UTC) that has at least one record, ordered by month ascending.
// Within a month the winner is chosen by Outranks.
func TopDestinationPerMonth(records []domain.TravelRecord) []domain.MonthTop {
	best := make(map[time.Time]domain.TravelRecord)
	for _, r := range records {
		m := MonthOf(r.VisitedAt)
		if cur, ok := best[m]; !ok || Outranks(r, cur) {
			best[m] = r
		}
	}

	out := make([]domain.MonthTop, 0, len(best))
	for m, r := range best {
		out = append(out, domain.MonthTop{
			Month:       m,
			RecordID:    r.ID,
			Title:       r.Title,
			Rating:      r.Rating,
			City:        r.City,
			CountryCode: r.CountryCode,
		})
	}
	slices.SortFunc(out, func(a, b domain.MonthTop) int {
		return a.Month.Compare(b.Month)
	})
	return out
}

// MonthOf truncates t to the first instant of its calendar month in UTC.
func MonthOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Outranks reports whether a beats b under the tie-break chain
// rating desc, visited_at desc, id desc. It is a strict total order over
// records with distinct ids, so exactly one winner exists per month.
func Outranks(a, b domain.TravelRecord) bool {
	if a.Rating != b.Rating {
		return a.Rating > b.Rating
	}
	if !a.VisitedAt.Equal(b.VisitedAt) {
		return a.VisitedAt.After(b.VisitedAt)
	}
	return bytes.Compare(a.ID[:], b.ID[:]) > 0
}
