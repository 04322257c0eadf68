package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // register postgres dialect
	"github.com/lib/pq"

	custom_error "github.com/anggaSaputra16/management-assets-sub004/pkg/errors"
)

type Repository struct {
	DB            *sql.DB
	GoquDBWrapper *goqu.Database
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		DB:            db,
		GoquDBWrapper: goqu.New("postgres", db),
	}
}

// RepeatableRead is the isolation level required by the execute/assemble
// paths: the asset and spare part mutations must observe one snapshot.
var RepeatableRead = &sql.TxOptions{Isolation: sql.LevelRepeatableRead}

// WithTransaction runs fn inside a single transaction, rolling back on error
// or panic. Every mutating public operation of the engine goes through here;
// there is no code path that commits asset and spare part state separately.
func WithTransaction(ctx context.Context, db *goqu.Database, opts *sql.TxOptions, fn func(tx *goqu.TxDatabase) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
			err = translateTxError(err)
		} else {
			err = translateTxError(tx.Commit())
		}
	}()

	err = fn(tx)
	return
}

// translateTxError maps postgres serialization failures (SQLSTATE 40001) to
// ErrConcurrentModification. Under repeatable read the executor that loses a
// race on the request row is aborted with 40001 rather than seeing zero rows
// affected; callers treat both the same way, re-fetch and retry.
func translateTxError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "40001" {
		return fmt.Errorf("transaction aborted by concurrent update: %w", custom_error.ErrConcurrentModification)
	}
	return err
}
