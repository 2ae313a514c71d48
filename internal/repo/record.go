package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/travel-log/internal/domain"
	"github.com/pkordes/travel-log/internal/query"
)

// RecordRepo defines the persistence operations for travel records.
// Every method is scoped to an owner: a record belonging to another user is
// reported as domain.ErrNotFound, never as a permission error.
type RecordRepo interface {
	// Create inserts a record for rec.UserID and returns the persisted row.
	// A UUIDv7 id is assigned when rec.ID is zero.
	Create(ctx context.Context, rec domain.TravelRecord) (domain.TravelRecord, error)

	// GetByID returns one record owned by ownerID.
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (domain.TravelRecord, error)

	// Update overwrites the mutable fields of the record identified by rec.ID
	// and rec.UserID, stamps updated_at and returns the new row.
	Update(ctx context.Context, rec domain.TravelRecord) (domain.TravelRecord, error)

	// Delete removes one record owned by ownerID.
	Delete(ctx context.Context, ownerID, id uuid.UUID) error

	// Search returns one page of ownerID's records matching spec, plus the
	// total number of matches ignoring limit and offset. Run it inside a
	// ReadOnly transaction when the two must agree.
	Search(ctx context.Context, ownerID uuid.UUID, spec domain.FilterSpec) ([]domain.TravelRecord, int64, error)

	// ListByOwner returns every record of ownerID ordered by visited_at, id.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.TravelRecord, error)

	// SetPhoto replaces the photo descriptor of a record. A nil photo clears it.
	SetPhoto(ctx context.Context, ownerID, id uuid.UUID, photo *domain.Photo) (domain.TravelRecord, error)
}

type pgRecordRepo struct {
	db db
}

// NewRecordRepo constructs a RecordRepo backed by the provided db connection.
func NewRecordRepo(db db) RecordRepo {
	return &pgRecordRepo{db: db}
}

const recordColumns = `id, user_id, title, notes, country_code, city, latitude, longitude,
		destination_type::text, rating, visited_at, place_external_id,
		photo_path, photo_content_type, photo_size_bytes, created_at, updated_at`

func (r *pgRecordRepo) Create(ctx context.Context, rec domain.TravelRecord) (domain.TravelRecord, error) {
	const q = `
		INSERT INTO travel_records (
			id, user_id, title, notes, country_code, city, latitude, longitude,
			destination_type, rating, visited_at, place_external_id)
		VALUES (
			@id, @user_id, @title, @notes, @country_code, @city, @latitude, @longitude,
			@destination_type::text::destination_type, @rating, @visited_at, @place_external_id)
		RETURNING ` + recordColumns

	if rec.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return domain.TravelRecord{}, fmt.Errorf("repo.RecordRepo.Create: new id: %w", err)
		}
		rec.ID = id
	}

	args := mutableArgs(rec)
	args["id"] = rec.ID
	args["user_id"] = rec.UserID

	result, err := scanRecord(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.TravelRecord{}, fmt.Errorf("repo.RecordRepo.Create: %w", mapErr(err))
	}
	return result, nil
}

func (r *pgRecordRepo) GetByID(ctx context.Context, ownerID, id uuid.UUID) (domain.TravelRecord, error) {
	const q = `SELECT ` + recordColumns + ` FROM travel_records WHERE id = @id AND user_id = @owner`

	result, err := scanRecord(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "owner": ownerID}))
	if err != nil {
		return domain.TravelRecord{}, fmt.Errorf("repo.RecordRepo.GetByID: %w", mapErr(err))
	}
	return result, nil
}

func (r *pgRecordRepo) Update(ctx context.Context, rec domain.TravelRecord) (domain.TravelRecord, error) {
	const q = `
		UPDATE travel_records
		SET title             = @title,
		    notes             = @notes,
		    country_code      = @country_code,
		    city              = @city,
		    latitude          = @latitude,
		    longitude         = @longitude,
		    destination_type  = @destination_type::text::destination_type,
		    rating            = @rating,
		    visited_at        = @visited_at,
		    place_external_id = @place_external_id,
		    updated_at        = now()
		WHERE id = @id AND user_id = @owner
		RETURNING ` + recordColumns

	args := mutableArgs(rec)
	args["id"] = rec.ID
	args["owner"] = rec.UserID

	result, err := scanRecord(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.TravelRecord{}, fmt.Errorf("repo.RecordRepo.Update: %w", mapErr(err))
	}
	return result, nil
}

func (r *pgRecordRepo) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	const q = `DELETE FROM travel_records WHERE id = @id AND user_id = @owner`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "owner": ownerID})
	if err != nil {
		return fmt.Errorf("repo.RecordRepo.Delete: %w", mapErr(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.RecordRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgRecordRepo) Search(ctx context.Context, ownerID uuid.UUID, spec domain.FilterSpec) ([]domain.TravelRecord, int64, error) {
	plan := query.Build(ownerID, spec)

	var total int64
	countQ := `SELECT count(*) FROM travel_records WHERE ` + plan.Where
	if err := r.db.QueryRow(ctx, countQ, plan.Args).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.RecordRepo.Search: count: %w", mapErr(err))
	}

	pageQ := `SELECT ` + recordColumns + ` FROM travel_records WHERE ` + plan.Where +
		` ORDER BY ` + plan.OrderBy + ` LIMIT @limit OFFSET @offset`
	records, err := r.list(ctx, pageQ, plan.Args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.RecordRepo.Search: %w", err)
	}
	return records, total, nil
}

func (r *pgRecordRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.TravelRecord, error) {
	const q = `SELECT ` + recordColumns + ` FROM travel_records
		WHERE user_id = @owner
		ORDER BY visited_at ASC, id ASC`

	records, err := r.list(ctx, q, pgx.NamedArgs{"owner": ownerID})
	if err != nil {
		return nil, fmt.Errorf("repo.RecordRepo.ListByOwner: %w", err)
	}
	return records, nil
}

func (r *pgRecordRepo) SetPhoto(ctx context.Context, ownerID, id uuid.UUID, photo *domain.Photo) (domain.TravelRecord, error) {
	const q = `
		UPDATE travel_records
		SET photo_path         = @path,
		    photo_content_type = @content_type,
		    photo_size_bytes   = @size_bytes,
		    updated_at         = now()
		WHERE id = @id AND user_id = @owner
		RETURNING ` + recordColumns

	args := pgx.NamedArgs{"id": id, "owner": ownerID, "path": nil, "content_type": nil, "size_bytes": nil}
	if photo != nil {
		args["path"] = photo.Path
		args["content_type"] = photo.ContentType
		args["size_bytes"] = photo.SizeBytes
	}

	result, err := scanRecord(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.TravelRecord{}, fmt.Errorf("repo.RecordRepo.SetPhoto: %w", mapErr(err))
	}
	return result, nil
}

func (r *pgRecordRepo) list(ctx context.Context, q string, args pgx.NamedArgs) ([]domain.TravelRecord, error) {
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	records := []domain.TravelRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", mapErr(err))
	}
	return records, nil
}

// mutableArgs holds the columns a client may set. Empty optional strings are
// written as NULL.
func mutableArgs(rec domain.TravelRecord) pgx.NamedArgs {
	return pgx.NamedArgs{
		"title":             rec.Title,
		"notes":             nullText(rec.Notes),
		"country_code":      rec.CountryCode,
		"city":              nullText(rec.City),
		"latitude":          rec.Latitude,
		"longitude":         rec.Longitude,
		"destination_type":  string(rec.DestinationType),
		"rating":            rec.Rating,
		"visited_at":        rec.VisitedAt.UTC(),
		"place_external_id": nullText(rec.PlaceExternalID),
	}
}

func nullText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

// scanRecord maps one row selected with recordColumns into a domain.TravelRecord.
// Nullable columns become empty strings or nil pointers; timestamps are UTC.
func scanRecord(s scanner) (domain.TravelRecord, error) {
	var (
		rec                  domain.TravelRecord
		destType             string
		notes, city, placeID pgtype.Text
		photoPath, photoType pgtype.Text
		photoSize            pgtype.Int8
		updatedAt            pgtype.Timestamptz
	)

	err := s.Scan(
		&rec.ID, &rec.UserID, &rec.Title, &notes, &rec.CountryCode, &city,
		&rec.Latitude, &rec.Longitude, &destType, &rec.Rating, &rec.VisitedAt, &placeID,
		&photoPath, &photoType, &photoSize, &rec.CreatedAt, &updatedAt,
	)
	if err != nil {
		return domain.TravelRecord{}, err
	}

	rec.DestinationType = domain.DestinationType(destType)
	rec.Notes = notes.String
	rec.City = city.String
	rec.PlaceExternalID = placeID.String
	rec.VisitedAt = rec.VisitedAt.UTC()
	rec.CreatedAt = rec.CreatedAt.UTC()
	if updatedAt.Valid {
		u := updatedAt.Time.UTC()
		rec.UpdatedAt = &u
	}
	if photoPath.Valid {
		rec.Photo = &domain.Photo{
			Path:        photoPath.String,
			ContentType: photoType.String,
			SizeBytes:   photoSize.Int64,
		}
	}
	return rec, nil
}
