// Package handler implements the HTTP handlers for the Travel Log API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (record.go, photo.go, auth.go, ...) but share the same Server struct
// so they can reach its dependencies. Routes wires them into a chi router.
package handler

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/travel-log/internal/domain"
	"github.com/pkordes/travel-log/internal/middleware"
)

// RecordServicer defines the record operations the handlers depend on.
// Defining the interface here, in the consumer package, lets handler tests
// inject a mock without touching the database or service layer.
type RecordServicer interface {
	Create(ctx context.Context, owner uuid.UUID, rec domain.TravelRecord) (domain.TravelRecord, error)
	Get(ctx context.Context, owner, id uuid.UUID) (domain.TravelRecord, error)
	Search(ctx context.Context, owner uuid.UUID, spec domain.FilterSpec) (domain.Page[domain.TravelRecord], error)
	Update(ctx context.Context, owner, id uuid.UUID, patch domain.RecordPatch) (domain.TravelRecord, error)
	Delete(ctx context.Context, owner, id uuid.UUID) error
}

// PhotoServicer attaches and detaches record photos.
type PhotoServicer interface {
	Attach(ctx context.Context, owner, id uuid.UUID, r io.Reader) (domain.TravelRecord, error)
	Detach(ctx context.Context, owner, id uuid.UUID) error
}

// AggregationServicer computes the per-owner reports.
type AggregationServicer interface {
	AvgRatingByCountry(ctx context.Context, owner uuid.UUID) ([]domain.CountryRating, error)
	TopDestinationPerMonth(ctx context.Context, owner uuid.UUID) ([]domain.MonthTop, error)
}

// ExportServicer returns the flat export of an owner's records.
type ExportServicer interface {
	Export(ctx context.Context, owner uuid.UUID) ([]domain.ExportRow, error)
}

// AuthServicer handles signup, login and the current user.
type AuthServicer interface {
	Signup(ctx context.Context, in domain.Signup) (domain.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	Me(ctx context.Context, id uuid.UUID) (domain.User, error)
}

// PlacesLookup proxies the places provider.
type PlacesLookup interface {
	Autocomplete(ctx context.Context, q, sessionToken string) ([]domain.PlacePrediction, error)
	Details(ctx context.Context, placeID string) (domain.PlaceDetails, error)
}

// Pinger reports whether the database is reachable. *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services bundles the dependencies of Server. A nil DB skips the database
// check in /healthz.
type Services struct {
	Records      RecordServicer
	Photos       PhotoServicer
	Aggregations AggregationServicer
	Export       ExportServicer
	Auth         AuthServicer
	Places       PlacesLookup
	DB           Pinger
}

// Server holds the dependencies shared by every handler.
type Server struct {
	records      RecordServicer
	photos       PhotoServicer
	aggregations AggregationServicer
	export       ExportServicer
	auth         AuthServicer
	places       PlacesLookup
	db           Pinger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(svc Services) *Server {
	return &Server{
		records:      svc.Records,
		photos:       svc.Photos,
		aggregations: svc.Aggregations,
		export:       svc.Export,
		auth:         svc.Auth,
		places:       svc.Places,
		db:           svc.DB,
	}
}

// RouteOptions configures the cross-cutting middleware applied by Routes.
type RouteOptions struct {
	// Tokens verifies bearer tokens on protected routes.
	Tokens middleware.TokenParser
	// RateLimit is the per-IP request budget of the auth and places routes
	// per RateWindow. Zero disables limiting.
	RateLimit  int
	RateWindow time.Duration
	// MaxJSONBytes caps JSON and form bodies; MaxUploadBytes caps photo
	// uploads (the multipart envelope gets a little extra room).
	MaxJSONBytes   int64
	MaxUploadBytes int64
}

// multipartOverhead is the allowance for multipart boundaries and headers.
const multipartOverhead = 64 << 10

// Routes returns the API router: /healthz plus everything under /api.
func (s *Server) Routes(opts RouteOptions) chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", GetOpenAPI)

	limit := middleware.NewRateLimiter(opts.RateLimit, opts.RateWindow)
	jsonBody := middleware.NewMaxBodySizeHandler(opts.MaxJSONBytes)
	requireAuth := middleware.RequireAuth(opts.Tokens)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(limit, jsonBody).Post("/signup", s.Signup)
			r.With(limit, jsonBody).Post("/login", s.Login)
			r.With(limit, jsonBody).Post("/token", s.Token)
			r.With(requireAuth).Get("/me", s.Me)
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Route("/records", func(r chi.Router) {
				r.With(jsonBody).Post("/", s.CreateRecord)
				r.Get("/", s.ListRecords)
				r.Get("/export", s.GetExport)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.GetRecord)
					r.With(jsonBody).Patch("/", s.UpdateRecord)
					r.Delete("/", s.DeleteRecord)
					r.With(middleware.NewMaxBodySizeHandler(opts.MaxUploadBytes+multipartOverhead)).
						Post("/photo", s.UploadPhoto)
					r.Delete("/photo", s.DeletePhoto)
				})
			})

			r.Route("/aggregations", func(r chi.Router) {
				r.Get("/avg-rating-by-country", s.AvgRatingByCountry)
				r.Get("/top-destination-per-month", s.TopDestinationPerMonth)
			})

			r.Route("/places", func(r chi.Router) {
				r.Use(limit)
				r.Get("/autocomplete", s.PlacesAutocomplete)
				r.Get("/details", s.PlaceDetails)
			})
		})
	})
	return r
}

// owner returns the authenticated user id placed in the context by
// middleware.RequireAuth. Handlers behind RequireAuth can rely on it.
func owner(r *http.Request) uuid.UUID {
	id, _ := middleware.UserIDFrom(r.Context())
	return id
}
