package sqldb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmanzanog/ticker-lens/internal/domain"
	"github.com/jmanzanog/ticker-lens/internal/infrastructure/persistence/sqldb/migrations"
	"github.com/pressly/goose/v3"
)

type PostgresDialect struct{}

func (d *PostgresDialect) Name() string { return "postgres" }

func (d *PostgresDialect) Migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.PostgresFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("setting dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "postgres"); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}

func (d *PostgresDialect) InsertLookup(ctx context.Context, tx *sql.Tx, r *domain.LookupRecord) error {
	query := `
		INSERT INTO lookups (id, query, symbol, source, outcome, period, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`
	return insertLookup(ctx, tx, query, r)
}

func (d *PostgresDialect) RecentQuery() string {
	return selectLookups + ` LIMIT $1`
}
