package sqldb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmanzanog/ticker-lens/internal/domain"
	"github.com/jmanzanog/ticker-lens/internal/infrastructure/persistence/sqldb/migrations"
	"github.com/pressly/goose/v3"
)

// SqliteDialect targets modernc.org/sqlite, registered as driver "sqlite".
type SqliteDialect struct{}

func (d *SqliteDialect) Name() string { return "sqlite" }

func (d *SqliteDialect) Migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.SqliteFS)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "sqlite"); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}

func (d *SqliteDialect) InsertLookup(ctx context.Context, tx *sql.Tx, r *domain.LookupRecord) error {
	query := `
		INSERT OR IGNORE INTO lookups (id, query, symbol, source, outcome, period, created_at)
		VALUES (?1, ?2, ?3, ?4, ?5, ?6, ?7)
	`
	return insertLookup(ctx, tx, query, r)
}

func (d *SqliteDialect) RecentQuery() string {
	return selectLookups + ` LIMIT $1`
}
