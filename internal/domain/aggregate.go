package domain

import (
	"time"

	"github.com/google/uuid"
)

// CountryRating is one row of the average-rating-by-country report.
type CountryRating struct {
	CountryCode string
	AvgRating   float64
	Count       int
}

// MonthTop is one row of the top-destination-per-month report: the winning
// record of a calendar month (UTC), first day of the month at midnight.
type MonthTop struct {
	Month       time.Time
	RecordID    uuid.UUID
	Title       string
	Rating      int
	City        string
	CountryCode string
}
