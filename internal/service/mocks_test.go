package service_test

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/travel-log/internal/domain"
	"github.com/pkordes/travel-log/internal/repo"
)

// mockRecordRepo is a hand-written test double for repo.RecordRepo.
// Each method is a function field; set only the ones your test needs.
type mockRecordRepo struct {
	create      func(ctx context.Context, rec domain.TravelRecord) (domain.TravelRecord, error)
	getByID     func(ctx context.Context, ownerID, id uuid.UUID) (domain.TravelRecord, error)
	update      func(ctx context.Context, rec domain.TravelRecord) (domain.TravelRecord, error)
	delete      func(ctx context.Context, ownerID, id uuid.UUID) error
	search      func(ctx context.Context, ownerID uuid.UUID, spec domain.FilterSpec) ([]domain.TravelRecord, int64, error)
	listByOwner func(ctx context.Context, ownerID uuid.UUID) ([]domain.TravelRecord, error)
	setPhoto    func(ctx context.Context, ownerID, id uuid.UUID, photo *domain.Photo) (domain.TravelRecord, error)
}

func (m *mockRecordRepo) Create(ctx context.Context, rec domain.TravelRecord) (domain.TravelRecord, error) {
	return m.create(ctx, rec)
}
func (m *mockRecordRepo) GetByID(ctx context.Context, ownerID, id uuid.UUID) (domain.TravelRecord, error) {
	return m.getByID(ctx, ownerID, id)
}
func (m *mockRecordRepo) Update(ctx context.Context, rec domain.TravelRecord) (domain.TravelRecord, error) {
	return m.update(ctx, rec)
}
func (m *mockRecordRepo) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return m.delete(ctx, ownerID, id)
}
func (m *mockRecordRepo) Search(ctx context.Context, ownerID uuid.UUID, spec domain.FilterSpec) ([]domain.TravelRecord, int64, error) {
	return m.search(ctx, ownerID, spec)
}
func (m *mockRecordRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.TravelRecord, error) {
	return m.listByOwner(ctx, ownerID)
}
func (m *mockRecordRepo) SetPhoto(ctx context.Context, ownerID, id uuid.UUID, photo *domain.Photo) (domain.TravelRecord, error) {
	return m.setPhoto(ctx, ownerID, id, photo)
}

// mockUserRepo is a hand-written test double for repo.UserRepo.
type mockUserRepo struct {
	create     func(ctx context.Context, u domain.User) (domain.User, error)
	getByEmail func(ctx context.Context, email string) (domain.User, error)
	getByID    func(ctx context.Context, id uuid.UUID) (domain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	return m.create(ctx, u)
}
func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return m.getByEmail(ctx, email)
}
func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return m.getByID(ctx, id)
}

// mockStore hands out the mock repos and runs WithTx callbacks inline,
// recording the requested transaction modes.
type mockStore struct {
	users   *mockUserRepo
	records *mockRecordRepo
	modes   []repo.TxMode
}

func (m *mockStore) Users() repo.UserRepo     { return m.users }
func (m *mockStore) Records() repo.RecordRepo { return m.records }
func (m *mockStore) WithTx(_ context.Context, mode repo.TxMode, fn func(repo.Store) error) error {
	m.modes = append(m.modes, mode)
	return fn(m)
}

// compile-time checks: the mocks must satisfy the repo interfaces.
var (
	_ repo.RecordRepo = (*mockRecordRepo)(nil)
	_ repo.UserRepo   = (*mockUserRepo)(nil)
	_ repo.Store      = (*mockStore)(nil)
)

func recordStore(r *mockRecordRepo) *mockStore { return &mockStore{records: r} }
func userStore(u *mockUserRepo) *mockStore     { return &mockStore{users: u} }

// ---- fixtures --------------------------------------------------------------

var owner = uuid.MustParse("0190a000-0000-7000-8000-000000000001")

func validRecord() domain.TravelRecord {
	return domain.TravelRecord{
		Title:           "Louvre",
		CountryCode:     "FR",
		City:            "Paris",
		Latitude:        48.8606,
		Longitude:       2.3376,
		DestinationType: domain.DestinationMuseum,
		Rating:          5,
		VisitedAt:       time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC),
	}
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
