// Package repo contains all database access logic for the Travel Log API.
// Each resource has its own file with an interface and a Postgres
// implementation. Only SQL and type mapping live here.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pkordes/travel-log/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool and pgx.Tx.
// Integration tests pass a transaction that is rolled back after each test;
// Begin on a pgx.Tx opens a savepoint, so WithTx nests cleanly inside it.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// txBeginner is implemented by *pgxpool.Pool but not by pgx.Tx.
type txBeginner interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

// TxMode selects the isolation used by Store.WithTx.
type TxMode int

const (
	// ReadWrite is a default read-committed transaction.
	ReadWrite TxMode = iota
	// ReadOnly is a repeatable-read, read-only transaction. Every statement in
	// it sees the same snapshot, so a count and the page it describes agree.
	ReadOnly
)

// Store groups the repositories and lets callers run several operations
// against one transaction.
type Store interface {
	Users() UserRepo
	Records() RecordRepo

	// WithTx runs fn against a Store bound to a new transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	WithTx(ctx context.Context, mode TxMode, fn func(Store) error) error
}

type pgStore struct {
	db db
}

// NewStore constructs a Store backed by the provided connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewStore(db db) Store {
	return &pgStore{db: db}
}

func (s *pgStore) Users() UserRepo     { return NewUserRepo(s.db) }
func (s *pgStore) Records() RecordRepo { return NewRecordRepo(s.db) }

func (s *pgStore) WithTx(ctx context.Context, mode TxMode, fn func(Store) error) error {
	tx, err := s.begin(ctx, mode)
	if err != nil {
		return fmt.Errorf("repo.Store.WithTx: begin: %w", err)
	}
	// Rollback after a successful commit is a no-op.
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&pgStore{db: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("repo.Store.WithTx: commit: %w", err)
	}
	return nil
}

func (s *pgStore) begin(ctx context.Context, mode TxMode) (pgx.Tx, error) {
	b, ok := s.db.(txBeginner)
	if !ok {
		return s.db.Begin(ctx)
	}
	var opts pgx.TxOptions
	if mode == ReadOnly {
		opts = pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}
	}
	return b.BeginTx(ctx, opts)
}

// Postgres SQLSTATE codes mapped onto domain errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgInvalidText         = "22P02"
)

// mapErr converts driver errors into domain sentinels so callers can branch
// with errors.Is. Unrecognised errors pass through unchanged.
func mapErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.ConstraintName)
	case pgForeignKeyViolation:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, pgErr.ConstraintName)
	case pgCheckViolation, pgInvalidText:
		return fmt.Errorf("%w: %s", domain.ErrValidation, pgErr.Message)
	}
	return err
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scan helpers to
// be reused for QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}
