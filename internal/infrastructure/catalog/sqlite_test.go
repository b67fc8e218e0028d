package catalog

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"EditalScanner/internal/domain"
)

func testCatalog(t *testing.T) *SQLite {
	t.Helper()
	cat, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("open catalog: %v", err)
	}
	t.Cleanup(func() { _ = cat.Close() })
	return cat
}

func notice(id string) domain.Notice {
	return domain.Notice{
		ID:      id,
		Title:   "EDITAL Nº 4/2026 DE ABERTURA",
		URL:     "https://www.in.gov.br/web/dou/-/" + id,
		PubDate: domain.NewDate(2026, 1, 5),
		Edition: "3",
		Section: "DO3",
	}
}

func TestCatalogSeen(t *testing.T) {
	t.Parallel()

	cat := testCatalog(t)
	ctx := context.Background()

	if err := cat.Upsert(ctx, domain.CatalogEntry{Notice: notice("a"), Status: domain.StatusDiscovered}); err != nil {
		t.Fatalf("upsert a: %v", err)
	}
	if err := cat.Upsert(ctx, domain.CatalogEntry{Notice: notice("b"), Status: domain.StatusExtracted}); err != nil {
		t.Fatalf("upsert b: %v", err)
	}

	seen, err := cat.Seen(ctx, []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("seen: %v", err)
	}
	if !seen["a"] || !seen["b"] || seen["c"] {
		t.Fatalf("unexpected seen map: %v", seen)
	}

	empty, err := cat.Seen(ctx, nil)
	if err != nil {
		t.Fatalf("seen with no ids: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected empty map, got %v", empty)
	}
}

func TestCatalogUpsertRefreshesStatus(t *testing.T) {
	t.Parallel()

	cat := testCatalog(t)
	ctx := context.Background()

	if err := cat.Upsert(ctx, domain.CatalogEntry{Notice: notice("a")}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if err := cat.Upsert(ctx, domain.CatalogEntry{Notice: notice("a"), Status: domain.StatusExtracted}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	var count int
	var status string
	if err := cat.db.QueryRow(`SELECT COUNT(*), MAX(status) FROM notices WHERE id = ?`, "a").Scan(&count, &status); err != nil {
		t.Fatalf("inspect row: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected a single row, got %d", count)
	}
	if status != string(domain.StatusExtracted) {
		t.Fatalf("status not refreshed: %s", status)
	}
}

func TestCatalogMarkStatus(t *testing.T) {
	t.Parallel()

	cat := testCatalog(t)
	cat.now = func() time.Time { return time.Date(2026, 1, 6, 8, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	if err := cat.Upsert(ctx, domain.CatalogEntry{Notice: notice("a")}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := cat.MarkStatus(ctx, "a", domain.StatusReviewed); err != nil {
		t.Fatalf("mark status: %v", err)
	}

	var status, updated string
	if err := cat.db.QueryRow(`SELECT status, updated_at FROM notices WHERE id = ?`, "a").Scan(&status, &updated); err != nil {
		t.Fatalf("inspect row: %v", err)
	}
	if status != string(domain.StatusReviewed) {
		t.Fatalf("unexpected status: %s", status)
	}
	if !strings.HasPrefix(updated, "2026-01-06T08:00:00") {
		t.Fatalf("updated_at not stamped: %s", updated)
	}
}

func TestCatalogMarkStatusUnknownNotice(t *testing.T) {
	t.Parallel()

	cat := testCatalog(t)
	if err := cat.MarkStatus(context.Background(), "ghost", domain.StatusExtracted); err == nil {
		t.Fatal("expected an error for an uncataloged notice")
	}
}

func TestCatalogRejectsEmptyID(t *testing.T) {
	t.Parallel()

	cat := testCatalog(t)
	if err := cat.Upsert(context.Background(), domain.CatalogEntry{}); err == nil {
		t.Fatal("expected an error for an entry without a notice id")
	}
}
