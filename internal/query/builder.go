// Package query translates a domain.FilterSpec into an SQL plan for the
// travel_records table: a conjunctive WHERE clause with named arguments, a
// single-column ordering with a fixed id tiebreak, and limit/offset.
//
// The plan always starts with the owner predicate, so a caller cannot build a
// query that reads another user's records.
package query

import (
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pkordes/travel-log/internal/domain"
)

// DefaultOrderField is the sort field used when order_by is empty or names an
// unknown field.
const DefaultOrderField = "visited_at"

// orderColumns maps the field names accepted in order_by to SQL columns.
// Only names listed here can ever reach the ORDER BY clause.
var orderColumns = map[string]string{
	"visited_at":       "visited_at",
	"created_at":       "created_at",
	"updated_at":       "updated_at",
	"rating":           "rating",
	"title":            "title",
	"country_code":     "country_code",
	"city":             "city",
	"destination_type": "destination_type",
}

// Plan is the executable form of a FilterSpec.
type Plan struct {
	// Where is the boolean condition, without the WHERE keyword.
	Where string
	// OrderBy is the ORDER BY list, without the keyword.
	OrderBy string
	// Args holds every named argument referenced by Where plus "limit" and "offset".
	Args   pgx.NamedArgs
	Limit  int
	Offset int
}

// Order is a parsed order_by value.
type Order struct {
	Field string
	Desc  bool
}

// ParseOrder splits an order_by string of the form "<field>:<direction>".
// An unknown or empty field silently falls back to visited_at; any direction
// other than "asc" (case-insensitive) is descending.
func ParseOrder(s string) Order {
	if s == "" {
		s = domain.DefaultOrderBy
	}
	field, direction, _ := strings.Cut(s, ":")
	if _, ok := orderColumns[field]; !ok {
		field = DefaultOrderField
	}
	return Order{Field: field, Desc: !strings.EqualFold(direction, "asc")}
}

// Build produces the plan for listing owner's records that match spec.
// spec is expected to have passed validation; Build never fails.
func Build(owner uuid.UUID, spec domain.FilterSpec) Plan {
	conds := []string{"user_id = @owner"}
	args := pgx.NamedArgs{"owner": owner}

	if strings.TrimSpace(spec.Q) != "" {
		conds = append(conds, "(title ILIKE @q OR notes ILIKE @q OR city ILIKE @q)")
		args["q"] = "%" + escapeLike(spec.Q) + "%"
	}
	if spec.CountryCode != "" {
		conds = append(conds, "country_code = @country_code")
		args["country_code"] = strings.ToUpper(spec.CountryCode)
	}
	if spec.City != "" {
		conds = append(conds, "city = @city")
		args["city"] = spec.City
	}
	if spec.DestType != "" {
		conds = append(conds, "destination_type::text = @dest_type")
		args["dest_type"] = string(spec.DestType)
	}
	if spec.RatingMin != nil {
		conds = append(conds, "rating >= @rating_min")
		args["rating_min"] = *spec.RatingMin
	}
	if spec.RatingMax != nil {
		conds = append(conds, "rating <= @rating_max")
		args["rating_max"] = *spec.RatingMax
	}
	if spec.DateFrom != nil {
		conds = append(conds, "visited_at >= @date_from")
		args["date_from"] = spec.DateFrom.UTC()
	}
	if spec.DateTo != nil {
		conds = append(conds, "visited_at <= @date_to")
		args["date_to"] = spec.DateTo.UTC()
	}
	if spec.Near != nil {
		conds = append(conds, haversineKm+" <= @near_km::float8")
		args["near_lat"] = spec.Near.Lat
		args["near_lon"] = spec.Near.Lon
		args["near_km"] = spec.Near.Km
	}

	page := spec.Page
	if page.Limit == 0 {
		page = domain.NewPageParams(nil, nil)
	}
	args["limit"] = page.Limit
	args["offset"] = page.Offset

	return Plan{
		Where:   strings.Join(conds, " AND "),
		OrderBy: orderClause(ParseOrder(spec.OrderBy)),
		Args:    args,
		Limit:   page.Limit,
		Offset:  page.Offset,
	}
}

// orderClause renders the sort column followed by the id tiebreak. id ASC is
// fixed regardless of direction so pages never overlap or skip rows.
func orderClause(o Order) string {
	dir := "ASC"
	if o.Desc {
		dir = "DESC"
	}
	return orderColumns[o.Field] + " " + dir + ", id ASC"
}

// haversineKm is the great-circle distance in km between the record and
// (@near_lat, @near_lon), using a mean earth radius of 6371 km. The asin
// argument is capped at 1: rounding pushes it just above 1 for antipodal
// points, which asin rejects.
const haversineKm = `(6371 * 2 * asin(least(1.0::float8, sqrt(
	power(sin(radians(latitude - @near_lat::float8) / 2), 2) +
	cos(radians(@near_lat::float8)) * cos(radians(latitude)) *
	power(sin(radians(longitude - @near_lon::float8) / 2), 2)))))`

// likeEscaper escapes the ILIKE wildcards so user input matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
