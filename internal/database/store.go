// internal/database/store.go
package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Store is a Querier that can scope work in a transaction.
type Store interface {
	Querier
	// ExecTx runs fn inside a transaction. Called on a Store handed to fn, it opens a
	// savepoint instead, so an inner failure rolls back only the inner work.
	ExecTx(ctx context.Context, fn func(Store) error) error
}

// TxStarter is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type TxStarter interface {
	DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}

// SQLStore executes queries against Postgres.
type SQLStore struct {
	*Queries
	db TxStarter
}

var _ Store = (*SQLStore)(nil)

// NewStore wraps a pool (or connection) in a Store.
func NewStore(db TxStarter) *SQLStore {
	return &SQLStore{Queries: New(db), db: db}
}

// ExecTx commits when fn returns nil and rolls back otherwise.
func (s *SQLStore) ExecTx(ctx context.Context, fn func(Store) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // Rollback is a no-op if the transaction is already committed.

	if err := fn(&SQLStore{Queries: New(tx), db: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
