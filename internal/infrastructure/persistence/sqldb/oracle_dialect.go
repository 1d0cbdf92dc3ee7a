package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmanzanog/ticker-lens/internal/domain"
	"github.com/jmanzanog/ticker-lens/internal/infrastructure/persistence/sqldb/migrations"
)

type OracleDialect struct{}

func (d *OracleDialect) Name() string { return "oracle" }

func (d *OracleDialect) Migrate(ctx context.Context, db *sql.DB) error {
	// goose has no Oracle dialect; run the script statement by statement.
	content, err := migrations.OracleFS.ReadFile("oracle/20240101000000_init.sql")
	if err != nil {
		return fmt.Errorf("reading migration file: %w", err)
	}

	// Split statements by '/' which is standard in Oracle scripts
	statements := strings.Split(string(content), "/")

	for _, stmt := range statements {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}

		if _, err := db.ExecContext(ctx, stmt); err != nil {
			// ORA-00955: name is already used by an existing object
			if !strings.Contains(err.Error(), "ORA-00955") {
				return fmt.Errorf("migrating: %s: %w", stmt, err)
			}
		}
	}
	return nil
}

func (d *OracleDialect) InsertLookup(ctx context.Context, tx *sql.Tx, r *domain.LookupRecord) error {
	query := `MERGE INTO lookups l
             USING (SELECT :1 as id_val FROM dual) s
             ON (l.id = s.id_val)
             WHEN NOT MATCHED THEN
               INSERT (id, query, symbol, source, outcome, period, created_at)
               VALUES (:2, :3, :4, :5, :6, :7, :8)`

	_, err := tx.ExecContext(ctx, query,
		r.ID,              // 1 (s.id_val)
		r.ID,              // 2
		r.Query,           // 3
		r.Symbol.String(), // 4
		string(r.Source),  // 5
		string(r.Outcome), // 6
		r.Period.String(), // 7
		r.CreatedAt,       // 8
	)
	return err
}

func (d *OracleDialect) RecentQuery() string {
	return selectLookups + ` FETCH FIRST $1 ROWS ONLY`
}
