package places_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/travel-log/internal/domain"
	"github.com/pkordes/travel-log/internal/metrics"
	"github.com/pkordes/travel-log/internal/places"
)

// fakeProvider serves a fixed body and remembers the last query it saw.
type fakeProvider struct {
	*httptest.Server
	mu   sync.Mutex
	last url.Values
}

func (f *fakeProvider) Last() url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

func newFakeProvider(t *testing.T, status int, body string) *fakeProvider {
	t.Helper()
	f := &fakeProvider{}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.last = r.URL.Query()
		f.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(f.Close)
	return f
}

func newClient(srv *fakeProvider) *places.Client {
	return places.NewClient("test-key", 5*time.Second, places.WithBaseURL(srv.URL))
}

// ---- Autocomplete ----------------------------------------------------------

func TestClient_Autocomplete(t *testing.T) {
	srv := newFakeProvider(t, http.StatusOK, `{
		"status": "OK",
		"predictions": [
			{"place_id": "abc", "description": "Paris, France"},
			{"place_id": "def", "description": "Paris, TX, USA"}
		]
	}`)

	got, err := newClient(srv).Autocomplete(context.Background(), "Paris", "sess-1")

	require.NoError(t, err)
	assert.Equal(t, []domain.PlacePrediction{
		{PlaceID: "abc", Description: "Paris, France"},
		{PlaceID: "def", Description: "Paris, TX, USA"},
	}, got)
	assert.Equal(t, "Paris", srv.Last().Get("input"))
	assert.Equal(t, "geocode", srv.Last().Get("types"))
	assert.Equal(t, "sess-1", srv.Last().Get("sessiontoken"))
	assert.Equal(t, "test-key", srv.Last().Get("key"))
}

func TestClient_Autocomplete_ZeroResults(t *testing.T) {
	srv := newFakeProvider(t, http.StatusOK, `{"status": "ZERO_RESULTS", "predictions": []}`)

	got, err := newClient(srv).Autocomplete(context.Background(), "zzzz", "")

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.False(t, srv.Last().Has("sessiontoken"))
}

func TestClient_Autocomplete_StatusNotOK(t *testing.T) {
	srv := newFakeProvider(t, http.StatusOK, `{"status": "REQUEST_DENIED", "error_message": "bad key"}`)

	_, err := newClient(srv).Autocomplete(context.Background(), "Paris", "")

	require.ErrorIs(t, err, domain.ErrUpstream)
	assert.ErrorContains(t, err, "Autocomplete failed: REQUEST_DENIED - bad key")
}

func TestClient_MissingAPIKey(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()
	c := places.NewClient("", time.Second, places.WithBaseURL(srv.URL))

	_, err := c.Autocomplete(context.Background(), "Paris", "")

	require.ErrorIs(t, err, domain.ErrUpstream)
	assert.ErrorContains(t, err, "GOOGLE_MAPS_API_KEY")
	assert.Zero(t, hits.Load(), "no request is sent without a key")
}

// ---- Details ---------------------------------------------------------------

func TestClient_Details(t *testing.T) {
	srv := newFakeProvider(t, http.StatusOK, `{
		"status": "OK",
		"result": {
			"place_id": "abc",
			"name": "Eiffel Tower",
			"address_components": [
				{"long_name": "Paris", "short_name": "Paris", "types": ["locality", "political"]},
				{"long_name": "France", "short_name": "fr", "types": ["country", "political"]}
			],
			"geometry": {"location": {"lat": 48.8584, "lng": 2.2945}}
		}
	}`)

	got, err := newClient(srv).Details(context.Background(), "abc")

	require.NoError(t, err)
	assert.Equal(t, "abc", got.PlaceExternalID)
	assert.Equal(t, "Eiffel Tower", got.Title)
	assert.Equal(t, "FR", got.CountryCode)
	assert.Equal(t, "Paris", got.City)
	require.NotNil(t, got.Latitude)
	require.NotNil(t, got.Longitude)
	assert.InDelta(t, 48.8584, *got.Latitude, 1e-9)
	assert.InDelta(t, 2.2945, *got.Longitude, 1e-9)
	assert.Equal(t, "abc", srv.Last().Get("place_id"))
}

func TestClient_Details_CityFallback(t *testing.T) {
	tests := []struct {
		name  string
		comps string
		want  string
	}{
		{"postal town", `[{"long_name": "Bath", "types": ["postal_town"]}, {"long_name": "Somerset", "types": ["administrative_area_level_2"]}]`, "Bath"},
		{"admin level 2", `[{"long_name": "Somerset", "types": ["administrative_area_level_2"]}, {"long_name": "England", "types": ["administrative_area_level_1"]}]`, "Somerset"},
		{"admin level 1", `[{"long_name": "England", "types": ["administrative_area_level_1"]}]`, "England"},
		{"none", `[]`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newFakeProvider(t, http.StatusOK,
				`{"status": "OK", "result": {"place_id": "x", "address_components": `+tt.comps+`}}`)

			got, err := newClient(srv).Details(context.Background(), "x")

			require.NoError(t, err)
			assert.Equal(t, tt.want, got.City)
			assert.Nil(t, got.Latitude, "missing geometry stays nil")
		})
	}
}

func TestClient_Details_StatusNotOK(t *testing.T) {
	srv := newFakeProvider(t, http.StatusOK, `{"status": "NOT_FOUND"}`)

	_, err := newClient(srv).Details(context.Background(), "missing")

	require.ErrorIs(t, err, domain.ErrUpstream)
	assert.ErrorContains(t, err, "Details failed: NOT_FOUND")
}

func TestClient_MalformedBody(t *testing.T) {
	srv := newFakeProvider(t, http.StatusOK, `not json`)

	_, err := newClient(srv).Details(context.Background(), "x")

	assert.ErrorIs(t, err, domain.ErrUpstream)
}

// ---- Circuit breaker -------------------------------------------------------

func TestClient_BreakerOpensAfterRepeatedServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()
	c := places.NewClient("test-key", 5*time.Second, places.WithBaseURL(srv.URL))
	rejected := metrics.PlacesRequests.WithLabelValues("autocomplete", "rejected")
	before := promtest.ToFloat64(rejected)

	for range 5 {
		_, err := c.Autocomplete(context.Background(), "Paris", "")
		require.ErrorIs(t, err, domain.ErrUpstream)
	}
	_, err := c.Autocomplete(context.Background(), "Paris", "")

	assert.ErrorIs(t, err, domain.ErrUnavailable)
	assert.EqualValues(t, 5, hits.Load(), "open breaker short-circuits the request")
	assert.Equal(t, before+1, promtest.ToFloat64(rejected))
}

func TestClient_ClientErrorsDoNotTripBreaker(t *testing.T) {
	srv := newFakeProvider(t, http.StatusBadRequest, `{}`)
	c := newClient(srv)

	for range 8 {
		_, err := c.Details(context.Background(), "x")
		require.ErrorIs(t, err, domain.ErrUpstream)
		require.NotErrorIs(t, err, domain.ErrUnavailable)
	}
}
