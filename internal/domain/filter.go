package domain

import "time"

// DefaultOrderBy is the ordering applied when FilterSpec.OrderBy is empty.
const DefaultOrderBy = "visited_at:desc"

// FilterSpec is the enumerated set of optional search, filter, sort and page
// parameters accepted by record listing. The owner is never part of a FilterSpec;
// it is always passed separately so it cannot be omitted.
//
// Zero values mean "no filter": empty strings and nil pointers are ignored.
// All timestamps are compared in UTC.
type FilterSpec struct {
	// Q is a case-insensitive substring matched against title, notes or city.
	Q string `query:"q"`

	CountryCode string          `query:"country_code" validate:"omitempty,iso2"`
	City        string          `query:"city" validate:"omitempty,max=100"`
	DestType    DestinationType `query:"dest_type" validate:"omitempty,desttype"`

	RatingMin *int `query:"rating_min" validate:"omitnil,gte=1,lte=5"`
	RatingMax *int `query:"rating_max" validate:"omitnil,gte=1,lte=5"`

	DateFrom *time.Time `query:"date_from"`
	DateTo   *time.Time `query:"date_to"`

	// Near restricts results to a great-circle radius around a point.
	Near *Near `query:"near"`

	// OrderBy has the form "<field>:<direction>". Unknown fields fall back to
	// visited_at; any direction other than "asc" sorts descending.
	OrderBy string `query:"order_by"`

	Page PageParams `validate:"-"`
}

// Near is a radius search around a coordinate, in kilometres.
type Near struct {
	Lat float64 `query:"near_lat" validate:"gte=-90,lte=90"`
	Lon float64 `query:"near_lon" validate:"gte=-180,lte=180"`
	Km  float64 `query:"near_km" validate:"gt=0"`
}
