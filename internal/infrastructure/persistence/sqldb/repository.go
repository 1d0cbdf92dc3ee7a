package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jmanzanog/ticker-lens/internal/domain"
)

// DefaultRecentLimit applies when Recent is called with a non-positive limit.
const DefaultRecentLimit = 20

type Repository struct {
	db *DB
}

func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

var _ domain.LookupRepository = (*Repository)(nil)

// Migrate brings the schema up to date for the configured dialect.
func (r *Repository) Migrate(ctx context.Context) error {
	return r.db.Dialect.Migrate(ctx, r.db.DB)
}

func (r *Repository) Save(ctx context.Context, record *domain.LookupRecord) error {
	return r.db.journalTx(ctx, record, func(tx *sql.Tx) error {
		if err := r.db.Dialect.InsertLookup(ctx, tx, record); err != nil {
			return fmt.Errorf("insert lookup %s: %w", record.ID, err)
		}
		return nil
	})
}

func (r *Repository) Recent(ctx context.Context, limit int) ([]domain.LookupRecord, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	rows, err := r.db.QueryContext(ctx, r.rebind(r.db.Dialect.RecentQuery()), limit)
	if err != nil {
		return nil, fmt.Errorf("query lookups: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("Failed to close rows", "error", err)
		}
	}()

	records := make([]domain.LookupRecord, 0, limit)
	for rows.Next() {
		var (
			rec                             domain.LookupRecord
			symbol, source, outcome, period string
			createdAt                       time.Time
		)
		if err := rows.Scan(&rec.ID, &rec.Query, &symbol, &source, &outcome, &period, &createdAt); err != nil {
			return nil, fmt.Errorf("scan lookup: %w", err)
		}
		rec.Symbol = domain.TickerSymbol(symbol)
		rec.Source = domain.ResolutionSource(source)
		rec.Outcome = domain.LookupOutcome(outcome)
		rec.Period = domain.Period(period)
		rec.CreatedAt = createdAt.UTC()
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lookups: %w", err)
	}
	return records, nil
}

// rebind rewrites $n placeholders for drivers that do not accept them.
func (r *Repository) rebind(query string) string {
	var prefix string
	switch r.db.Dialect.Name() {
	case "oracle":
		prefix = ":"
	case "sqlite":
		prefix = "?"
	default:
		return query
	}
	for i := 10; i >= 1; i-- {
		query = strings.ReplaceAll(query, fmt.Sprintf("$%d", i), fmt.Sprintf("%s%d", prefix, i))
	}
	return query
}
