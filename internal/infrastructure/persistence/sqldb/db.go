package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jmanzanog/ticker-lens/internal/domain"
)

// DB pairs a connection pool with the dialect that knows its SQL.
type DB struct {
	*sql.DB
	Dialect Dialect
}

func New(db *sql.DB, dialect Dialect) *DB {
	return &DB{
		DB:      db,
		Dialect: dialect,
	}
}

// journalTx runs fn in a transaction that writes record. Every failure is
// logged once with the backend and lookup id, and the returned error is
// prefixed with the dialect name so callers can tell which store refused it.
func (db *DB) journalTx(ctx context.Context, record *domain.LookupRecord, fn func(tx *sql.Tx) error) error {
	backend := db.Dialect.Name()
	logger := slog.With("dialect", backend, "lookup_id", record.ID)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to begin journal write", "error", err)
		return fmt.Errorf("%s: begin journal write: %w", backend, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.WarnContext(ctx, "Failed to roll back journal write", "error", rbErr)
		}
		logger.ErrorContext(ctx, "Failed to save lookup", "error", err)
		return fmt.Errorf("%s: %w", backend, err)
	}

	if err := tx.Commit(); err != nil {
		logger.ErrorContext(ctx, "Failed to commit journal write", "error", err)
		return fmt.Errorf("%s: commit journal write: %w", backend, err)
	}

	return nil
}
