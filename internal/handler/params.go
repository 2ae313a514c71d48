package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/travel-log/internal/domain"
)

// pathID binds the {id} path parameter. A value that is not a UUID cannot
// name a record, so it is reported as 404 like any other unknown id.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	var id uuid.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "record not found")
		return uuid.Nil, false
	}
	return id, true
}

// bindQuery binds one optional form-style query parameter into dest.
func bindQuery(q url.Values, name string, dest any) error {
	if err := runtime.BindQueryParameter("form", true, false, name, q, dest); err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	return nil
}

// timeLayouts are tried in order for date_from and date_to.
var timeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", time.DateOnly}

// parseTime accepts an RFC 3339 timestamp, a timestamp without zone (read as
// UTC) or a bare date (midnight UTC).
func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as a date or timestamp", s)
}

func bindTime(q url.Values, name string) (*time.Time, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return nil, nil
	}
	t, err := parseTime(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", name, err)
	}
	return &t, nil
}

// filterFromQuery builds a FilterSpec from the listing query string.
// Type errors are returned as badParam; the near triple must be supplied
// whole, which is a validation error.
func filterFromQuery(q url.Values) (domain.FilterSpec, error) {
	var spec domain.FilterSpec
	var text, country, city, orderBy *string
	var destType *domain.DestinationType
	var limit, offset *int
	var nearLat, nearLon, nearKm *float64

	// Optional parameters bind through a second pointer; nil means absent.
	binds := []struct {
		name string
		dest any
	}{
		{"q", &text},
		{"country_code", &country},
		{"city", &city},
		{"dest_type", &destType},
		{"rating_min", &spec.RatingMin},
		{"rating_max", &spec.RatingMax},
		{"near_lat", &nearLat},
		{"near_lon", &nearLon},
		{"near_km", &nearKm},
		{"order_by", &orderBy},
		{"limit", &limit},
		{"offset", &offset},
	}
	for _, b := range binds {
		if err := bindQuery(q, b.name, b.dest); err != nil {
			return domain.FilterSpec{}, badParam{err}
		}
	}
	spec.Q = deref(text)
	spec.CountryCode = deref(country)
	spec.City = deref(city)
	spec.OrderBy = deref(orderBy)
	if destType != nil {
		spec.DestType = *destType
	}

	var err error
	if spec.DateFrom, err = bindTime(q, "date_from"); err != nil {
		return domain.FilterSpec{}, badParam{err}
	}
	if spec.DateTo, err = bindTime(q, "date_to"); err != nil {
		return domain.FilterSpec{}, badParam{err}
	}

	switch {
	case nearLat != nil && nearLon != nil && nearKm != nil:
		spec.Near = &domain.Near{Lat: *nearLat, Lon: *nearLon, Km: *nearKm}
	case nearLat != nil || nearLon != nil || nearKm != nil:
		return domain.FilterSpec{}, fmt.Errorf("%w: near_lat, near_lon and near_km must be supplied together", domain.ErrValidation)
	}

	spec.Page = domain.NewPageParams(limit, offset)
	return spec, nil
}

// badParam marks a query parameter that could not be parsed into its type.
type badParam struct{ error }

func (e badParam) Unwrap() error { return e.error }

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
