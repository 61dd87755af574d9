// Package postgres implements the repository interfaces on PostgreSQL with pgx.
//
// Every service gets a thin view over one Store so that BeginTx can return the
// transaction interface that service expects. All views share one Tx type.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/Ascend_Go/internal/repository"
)

// Store holds the connection pool and serves the non-transactional reads
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a Store on pool
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

var (
	_ repository.Catalog       = (*Store)(nil)
	_ repository.CatalogWriter = (*Store)(nil)
	_ repository.Feed          = (*Store)(nil)
	_ repository.Notifications = (*Store)(nil)
)

// Tx wraps a pgx transaction and implements every *Tx repository interface
type Tx struct {
	tx pgx.Tx
}

var (
	_ repository.CraftingTx  = (*Tx)(nil)
	_ repository.EconomyTx   = (*Tx)(nil)
	_ repository.CompanionTx = (*Tx)(nil)
	_ repository.SeasonTx    = (*Tx)(nil)
	_ repository.OutboxTx    = (*Tx)(nil)
)

func (s *Store) begin(ctx context.Context) (*Tx, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	return &Tx{tx: tx}, nil
}

// Commit commits the transaction
func (t *Tx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToCommit, err)
	}
	return nil
}

// Rollback rolls back the transaction. It is a no-op after Commit.
func (t *Tx) Rollback(ctx context.Context) error {
	if err := t.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return err
	}
	return nil
}

// Repository views. Each returns the same store behind the interface of one service.

type craftingRepo struct{ *Store }
type economyRepo struct{ *Store }
type companionRepo struct{ *Store }
type seasonRepo struct{ *Store }
type outboxRepo struct{ *Store }

func (s *Store) Crafting() repository.Crafting   { return craftingRepo{s} }
func (s *Store) Economy() repository.Economy     { return economyRepo{s} }
func (s *Store) Companion() repository.Companion { return companionRepo{s} }
func (s *Store) Season() repository.Season       { return seasonRepo{s} }
func (s *Store) Outbox() repository.Outbox       { return outboxRepo{s} }

func (r craftingRepo) BeginTx(ctx context.Context) (repository.CraftingTx, error) {
	return r.begin(ctx)
}

func (r economyRepo) BeginTx(ctx context.Context) (repository.EconomyTx, error) {
	return r.begin(ctx)
}

func (r companionRepo) BeginTx(ctx context.Context) (repository.CompanionTx, error) {
	return r.begin(ctx)
}

func (r seasonRepo) BeginTx(ctx context.Context) (repository.SeasonTx, error) {
	return r.begin(ctx)
}

func (r outboxRepo) BeginTx(ctx context.Context) (repository.OutboxTx, error) {
	return r.begin(ctx)
}

// pgCode returns the SQLSTATE of err, or "" if err is not a server error
func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// missing reports whether err means the looked-up row does not exist.
// A malformed UUID cannot match any row, so it counts as missing.
func missing(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || pgCode(err) == PgErrorCodeInvalidTextRepresentation
}
