// Package places is a thin client for the Google Places web service. It
// turns free text into place predictions and a place id into the fields of a
// travel record. Calls go through a circuit breaker so a failing provider is
// not hammered.
package places

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/pkordes/travel-log/internal/domain"
	"github.com/pkordes/travel-log/internal/metrics"
)

// DefaultBaseURL is the Places web service root.
const DefaultBaseURL = "https://maps.googleapis.com/maps/api/place"

const breakerName = "google-places"

// maxResponseBytes caps how much of a provider response is read.
const maxResponseBytes = 1 << 20

// Client calls the Places autocomplete and details endpoints.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	cb      *gobreaker.CircuitBreaker[[]byte]
}

// Option customises a Client.
type Option func(*Client)

// WithBaseURL points the client at another host, such as an httptest server.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// NewClient returns a Client using apiKey. Each request is bounded by timeout.
// An empty apiKey is allowed; every call then fails with domain.ErrUpstream.
//
// The breaker opens after 5 consecutive transport or 5xx failures and
// probes again after 30 seconds.
func NewClient(apiKey string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)
	c.cb = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			var ce clientError
			return err == nil || errors.As(err, &ce)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			level := slog.LevelInfo
			if to == gobreaker.StateOpen {
				level = slog.LevelWarn
			}
			slog.Log(context.Background(), level, "circuit breaker state change",
				"breaker", name, "from", from.String(), "to", to.String())
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})
	return c
}

// Autocomplete returns predictions for free text q. sessionToken groups
// the lookups of one user session for billing and may be empty.
func (c *Client) Autocomplete(ctx context.Context, q, sessionToken string) ([]domain.PlacePrediction, error) {
	params := url.Values{"input": {q}, "types": {"geocode"}}
	if sessionToken != "" {
		params.Set("sessiontoken", sessionToken)
	}

	var resp autocompleteResponse
	if err := c.call(ctx, "autocomplete", params, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "OK" && resp.Status != "ZERO_RESULTS" {
		return nil, c.statusError("autocomplete", "Autocomplete", resp.Status, resp.ErrorMessage)
	}

	out := make([]domain.PlacePrediction, 0, len(resp.Predictions))
	for _, p := range resp.Predictions {
		out = append(out, domain.PlacePrediction{PlaceID: p.PlaceID, Description: p.Description})
	}
	metrics.PlacesRequests.WithLabelValues("autocomplete", "success").Inc()
	return out, nil
}

// Details resolves placeID into the fields a travel record needs.
// The city falls back from locality to postal town to the first and second
// administrative levels; the country code is the upper-cased short name.
func (c *Client) Details(ctx context.Context, placeID string) (domain.PlaceDetails, error) {
	params := url.Values{
		"place_id": {placeID},
		"fields":   {"address_component,geometry,name,place_id"},
	}

	var resp detailsResponse
	if err := c.call(ctx, "details", params, &resp); err != nil {
		return domain.PlaceDetails{}, err
	}
	if resp.Status != "OK" {
		return domain.PlaceDetails{}, c.statusError("details", "Details", resp.Status, resp.ErrorMessage)
	}

	r := resp.Result
	out := domain.PlaceDetails{
		PlaceExternalID: r.PlaceID,
		Title:           r.Name,
		CountryCode:     strings.ToUpper(component(r.AddressComponents, "country", true)),
		City: firstNonEmpty(
			component(r.AddressComponents, "locality", false),
			component(r.AddressComponents, "postal_town", false),
			component(r.AddressComponents, "administrative_area_level_2", false),
			component(r.AddressComponents, "administrative_area_level_1", false),
		),
		Latitude:  r.Geometry.Location.Lat,
		Longitude: r.Geometry.Location.Lng,
	}
	metrics.PlacesRequests.WithLabelValues("details", "success").Inc()
	return out, nil
}

// call performs GET <baseURL>/<op>/json through the breaker and decodes the body.
func (c *Client) call(ctx context.Context, op string, params url.Values, dst any) error {
	if c.apiKey == "" {
		metrics.PlacesRequests.WithLabelValues(op, "upstream_error").Inc()
		return fmt.Errorf("%w: Google Maps API key missing (set GOOGLE_MAPS_API_KEY)", domain.ErrUpstream)
	}
	params.Set("key", c.apiKey)
	endpoint := c.baseURL + "/" + op + "/json?" + params.Encode()

	body, err := c.cb.Execute(func() ([]byte, error) {
		return c.fetch(ctx, endpoint)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.PlacesRequests.WithLabelValues(op, "rejected").Inc()
		return fmt.Errorf("places.Client.%s: %w: %w", op, domain.ErrUnavailable, err)
	}
	if err != nil {
		metrics.PlacesRequests.WithLabelValues(op, "upstream_error").Inc()
		return fmt.Errorf("places.Client.%s: %w: %w", op, domain.ErrUpstream, err)
	}

	if err := json.Unmarshal(body, dst); err != nil {
		metrics.PlacesRequests.WithLabelValues(op, "upstream_error").Inc()
		return fmt.Errorf("places.Client.%s: %w: decode: %w", op, domain.ErrUpstream, err)
	}
	return nil
}

// fetch returns the response body. Transport errors and 5xx responses count
// as breaker failures; 4xx responses are returned as errors too but reflect
// the request, not provider health.
func (c *Client) fetch(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("provider returned HTTP %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, clientError{fmt.Errorf("provider returned HTTP %d", resp.StatusCode)}
	}
	return body, nil
}

func (c *Client) statusError(op, label, status, message string) error {
	metrics.PlacesRequests.WithLabelValues(op, "upstream_error").Inc()
	return fmt.Errorf("%w: %s failed: %s - %s", domain.ErrUpstream, label, status, message)
}

// clientError is a 4xx response. The breaker does not count it as a failure.
type clientError struct{ error }

func (e clientError) Unwrap() error { return e.error }

type autocompleteResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Predictions  []struct {
		PlaceID     string `json:"place_id"`
		Description string `json:"description"`
	} `json:"predictions"`
}

type detailsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Result       struct {
		PlaceID           string             `json:"place_id"`
		Name              string             `json:"name"`
		AddressComponents []addressComponent `json:"address_components"`
		Geometry          struct {
			Location struct {
				Lat *float64 `json:"lat"`
				Lng *float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"result"`
}

type addressComponent struct {
	LongName  string   `json:"long_name"`
	ShortName string   `json:"short_name"`
	Types     []string `json:"types"`
}

// component returns the long (or short) name of the first component tagged typ.
func component(comps []addressComponent, typ string, short bool) string {
	for _, c := range comps {
		for _, t := range c.Types {
			if t == typ {
				if short {
					return c.ShortName
				}
				return c.LongName
			}
		}
	}
	return ""
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
