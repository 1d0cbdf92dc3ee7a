package sqldb

import (
	"context"
	"database/sql"

	"github.com/jmanzanog/ticker-lens/internal/domain"
)

// Dialect isolates the statements that differ between database engines.
type Dialect interface {
	Name() string
	Migrate(ctx context.Context, db *sql.DB) error
	InsertLookup(ctx context.Context, tx *sql.Tx, r *domain.LookupRecord) error
	// RecentQuery selects the newest lookups; it takes the row limit as $1.
	RecentQuery() string
}

const selectLookups = `SELECT id, query, symbol, source, outcome, period, created_at FROM lookups ORDER BY created_at DESC`

func insertLookup(ctx context.Context, tx *sql.Tx, query string, r *domain.LookupRecord) error {
	_, err := tx.ExecContext(ctx, query,
		r.ID,
		r.Query,
		r.Symbol.String(),
		string(r.Source),
		string(r.Outcome),
		r.Period.String(),
		r.CreatedAt,
	)
	return err
}
