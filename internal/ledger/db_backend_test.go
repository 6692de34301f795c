package ledger

import (
	"context"
	"path/filepath"
	"testing"
)

func TestSQLiteRecordUpserts(t *testing.T) {
	s, err := NewSQLite(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("NewSQLite() error = %v", err)
	}
	defer func() { _ = s.Close() }()
	ctx := context.Background()

	if err := s.Record(ctx, "Acme", "Impact", 80); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if err := s.Record(ctx, "Acme", "Impact", 95); err != nil {
		t.Fatalf("Record() upsert error = %v", err)
	}
	if err := s.Record(ctx, "Globex", "Impact", 12); err != nil {
		t.Fatalf("Record() second project error = %v", err)
	}

	var score int
	row := s.db.QueryRow(`SELECT score FROM scores WHERE project = ? AND variable = ?`, "Acme", "Impact")
	if err := row.Scan(&score); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if score != 95 {
		t.Fatalf("score = %d, want 95 (last write wins)", score)
	}

	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM scores`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("rows = %d, want 2", count)
	}
}

func TestNewFromEnvFallsBackToFile(t *testing.T) {
	t.Setenv("LEDGER_PG_DSN", "")
	t.Setenv("LEDGER_SQLITE_PATH", "")
	s := NewFromEnv(filepath.Join(t.TempDir(), "scores.csv"))
	if s.kind != backendFile {
		t.Fatalf("kind = %v, want file backend", s.kind)
	}
}

func TestNewFromEnvPrefersSQLite(t *testing.T) {
	t.Setenv("LEDGER_PG_DSN", "")
	t.Setenv("LEDGER_SQLITE_PATH", filepath.Join(t.TempDir(), "ledger.db"))
	s := NewFromEnv("unused.csv")
	defer func() { _ = s.Close() }()
	if s.kind != backendSQLite {
		t.Fatalf("kind = %v, want sqlite backend", s.kind)
	}
}
