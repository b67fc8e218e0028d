// Package catalog persists discovered notices and their processing
// milestones in a local SQLite database, giving the pipeline dedup
// across runs.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"EditalScanner/internal/domain"
	"EditalScanner/internal/ports"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS notices (
		id         TEXT PRIMARY KEY,
		title      TEXT NOT NULL DEFAULT '',
		url        TEXT NOT NULL DEFAULT '',
		pub_date   TEXT NOT NULL DEFAULT '',
		edition    TEXT NOT NULL DEFAULT '',
		section    TEXT NOT NULL DEFAULT '',
		status     TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_notices_status ON notices(status)`,
}

// SQLite records discovered notices and their milestones.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

var _ ports.Catalog = (*SQLite)(nil)

// Open creates or opens the catalog database and ensures its schema.
// The catalog is single-writer; the pool is capped accordingly.
func Open(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply %s: %w", pragma, err)
		}
	}
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ensure catalog schema: %w", err)
		}
	}

	return &SQLite{db: db, now: time.Now}, nil
}

// Close releases the database handle.
func (c *SQLite) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Seen returns a map with the notice IDs that are already cataloged.
func (c *SQLite) Seen(ctx context.Context, ids []string) (map[string]bool, error) {
	seen := make(map[string]bool, len(ids))
	if c.db == nil || len(ids) == 0 {
		return seen, nil
	}

	query, args, err := sq.Select("id").From("notices").Where(sq.Eq{"id": ids}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build seen query: %w", err)
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query seen: %w", err)
	}

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan id: %w", err)
		}
		seen[id] = true
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}

	return seen, nil
}

// Upsert inserts or refreshes the notice snapshot and its status.
func (c *SQLite) Upsert(ctx context.Context, entry domain.CatalogEntry) error {
	if c.db == nil {
		return nil
	}
	if entry.Notice.ID == "" {
		return fmt.Errorf("catalog entry has no notice id")
	}

	now := c.now().UTC()
	created := entry.CreatedAt
	if created.IsZero() {
		created = now
	}
	updated := entry.UpdatedAt
	if updated.IsZero() {
		updated = now
	}
	status := entry.Status
	if status == "" {
		status = domain.StatusDiscovered
	}

	query, args, err := sq.Insert("notices").
		Columns("id", "title", "url", "pub_date", "edition", "section", "status", "created_at", "updated_at").
		Values(
			entry.Notice.ID,
			entry.Notice.Title,
			entry.Notice.URL,
			pubDateCell(entry.Notice.PubDate),
			entry.Notice.Edition,
			entry.Notice.Section,
			string(status),
			created.Format(time.RFC3339),
			updated.Format(time.RFC3339),
		).
		Suffix(`ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			url = excluded.url,
			pub_date = excluded.pub_date,
			edition = excluded.edition,
			section = excluded.section,
			status = excluded.status,
			updated_at = excluded.updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := c.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert notice %s: %w", entry.Notice.ID, err)
	}
	return nil
}

// MarkStatus advances the milestone of a cataloged notice.
func (c *SQLite) MarkStatus(ctx context.Context, id string, status domain.ProcessingStatus) error {
	if c.db == nil {
		return nil
	}

	query, args, err := sq.Update("notices").
		Set("status", string(status)).
		Set("updated_at", c.now().UTC().Format(time.RFC3339)).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build status update: %w", err)
	}

	res, err := c.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("mark notice %s %s: %w", id, status, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("notice %s is not cataloged", id)
	}
	return nil
}

func pubDateCell(d domain.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.ISO()
}
