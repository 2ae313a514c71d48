package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/travel-log/internal/domain"
	"github.com/pkordes/travel-log/internal/handler"
)

// ---- mocks -----------------------------------------------------------------
// Each mock is a test double for one servicer interface. Set only the method
// fields your test needs.

type mockRecordServicer struct {
	create func(ctx context.Context, owner uuid.UUID, rec domain.TravelRecord) (domain.TravelRecord, error)
	get    func(ctx context.Context, owner, id uuid.UUID) (domain.TravelRecord, error)
	search func(ctx context.Context, owner uuid.UUID, spec domain.FilterSpec) (domain.Page[domain.TravelRecord], error)
	update func(ctx context.Context, owner, id uuid.UUID, patch domain.RecordPatch) (domain.TravelRecord, error)
	delete func(ctx context.Context, owner, id uuid.UUID) error
}

func (m *mockRecordServicer) Create(ctx context.Context, owner uuid.UUID, rec domain.TravelRecord) (domain.TravelRecord, error) {
	return m.create(ctx, owner, rec)
}
func (m *mockRecordServicer) Get(ctx context.Context, owner, id uuid.UUID) (domain.TravelRecord, error) {
	return m.get(ctx, owner, id)
}
func (m *mockRecordServicer) Search(ctx context.Context, owner uuid.UUID, spec domain.FilterSpec) (domain.Page[domain.TravelRecord], error) {
	return m.search(ctx, owner, spec)
}
func (m *mockRecordServicer) Update(ctx context.Context, owner, id uuid.UUID, patch domain.RecordPatch) (domain.TravelRecord, error) {
	return m.update(ctx, owner, id, patch)
}
func (m *mockRecordServicer) Delete(ctx context.Context, owner, id uuid.UUID) error {
	return m.delete(ctx, owner, id)
}

type mockPhotoServicer struct {
	attach func(ctx context.Context, owner, id uuid.UUID, r io.Reader) (domain.TravelRecord, error)
	detach func(ctx context.Context, owner, id uuid.UUID) error
}

func (m *mockPhotoServicer) Attach(ctx context.Context, owner, id uuid.UUID, r io.Reader) (domain.TravelRecord, error) {
	return m.attach(ctx, owner, id, r)
}
func (m *mockPhotoServicer) Detach(ctx context.Context, owner, id uuid.UUID) error {
	return m.detach(ctx, owner, id)
}

type mockAggregationServicer struct {
	avg func(ctx context.Context, owner uuid.UUID) ([]domain.CountryRating, error)
	top func(ctx context.Context, owner uuid.UUID) ([]domain.MonthTop, error)
}

func (m *mockAggregationServicer) AvgRatingByCountry(ctx context.Context, owner uuid.UUID) ([]domain.CountryRating, error) {
	return m.avg(ctx, owner)
}
func (m *mockAggregationServicer) TopDestinationPerMonth(ctx context.Context, owner uuid.UUID) ([]domain.MonthTop, error) {
	return m.top(ctx, owner)
}

type mockExportServicer struct {
	export func(ctx context.Context, owner uuid.UUID) ([]domain.ExportRow, error)
}

func (m *mockExportServicer) Export(ctx context.Context, owner uuid.UUID) ([]domain.ExportRow, error) {
	return m.export(ctx, owner)
}

type mockAuthServicer struct {
	signup func(ctx context.Context, in domain.Signup) (domain.User, error)
	login  func(ctx context.Context, email, password string) (string, error)
	me     func(ctx context.Context, id uuid.UUID) (domain.User, error)
}

func (m *mockAuthServicer) Signup(ctx context.Context, in domain.Signup) (domain.User, error) {
	return m.signup(ctx, in)
}
func (m *mockAuthServicer) Login(ctx context.Context, email, password string) (string, error) {
	return m.login(ctx, email, password)
}
func (m *mockAuthServicer) Me(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return m.me(ctx, id)
}

type mockPlaces struct {
	autocomplete func(ctx context.Context, q, sessionToken string) ([]domain.PlacePrediction, error)
	details      func(ctx context.Context, placeID string) (domain.PlaceDetails, error)
}

func (m *mockPlaces) Autocomplete(ctx context.Context, q, sessionToken string) ([]domain.PlacePrediction, error) {
	return m.autocomplete(ctx, q, sessionToken)
}
func (m *mockPlaces) Details(ctx context.Context, placeID string) (domain.PlaceDetails, error) {
	return m.details(ctx, placeID)
}

// compile-time checks: the mocks must satisfy the handler interfaces.
var (
	_ handler.RecordServicer      = (*mockRecordServicer)(nil)
	_ handler.PhotoServicer       = (*mockPhotoServicer)(nil)
	_ handler.AggregationServicer = (*mockAggregationServicer)(nil)
	_ handler.ExportServicer      = (*mockExportServicer)(nil)
	_ handler.AuthServicer        = (*mockAuthServicer)(nil)
	_ handler.PlacesLookup        = (*mockPlaces)(nil)
)

// fakeTokens accepts only testToken, issued to testUser.
type fakeTokens struct{}

func (fakeTokens) Parse(token string) (uuid.UUID, error) {
	if token != testToken {
		return uuid.Nil, errors.New("bad token")
	}
	return testUser, nil
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

// ---- helpers ---------------------------------------------------------------

const testToken = "test-token"

var testUser = uuid.MustParse("0190a000-0000-7000-8000-0000000000aa")

// uploadLimit is the photo size limit used by newHTTPHandler.
const uploadLimit = 1 << 20

// newHTTPHandler wires a Server with the given mocks into the router exactly
// as main.go does, minus rate limiting.
func newHTTPHandler(svc handler.Services) http.Handler {
	return handler.NewServer(svc).Routes(handler.RouteOptions{
		Tokens:         fakeTokens{},
		MaxJSONBytes:   64 << 10,
		MaxUploadBytes: uploadLimit,
	})
}

// do sends an authenticated request and returns the recorded response.
func do(h http.Handler, method, target string, body io.Reader) *httptest.ResponseRecorder {
	req := httptestRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return serve(h, req)
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

// errorBody decodes an ErrorResponse and returns its detail.
func errorBody(t *testing.T, rec *httptest.ResponseRecorder) handler.ErrorDetail {
	t.Helper()
	return decodeBody[handler.ErrorResponse](t, rec).Error
}

func recordFixture() domain.TravelRecord {
	created := time.Date(2025, 6, 12, 8, 0, 0, 0, time.UTC)
	return domain.TravelRecord{
		ID:              uuid.MustParse("0190a000-0000-7000-8000-0000000000b1"),
		UserID:          testUser,
		Title:           "Louvre",
		CountryCode:     "FR",
		City:            "Paris",
		Latitude:        48.8606,
		Longitude:       2.3376,
		DestinationType: domain.DestinationMuseum,
		Rating:          5,
		VisitedAt:       time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC),
		CreatedAt:       created,
	}
}

// httptestRequest builds an authenticated request without sending it.
func httptestRequest(method, target string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Authorization", "Bearer "+testToken)
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
