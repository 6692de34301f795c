// Package ledger persists finalized scores to an external tabular store
// addressed by project (rows) x variable (columns). Backends: a CSV grid file
// (default), SQLite, and Postgres, selected from the environment.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Ledger is the write contract the interview controller depends on. Record is
// an idempotent upsert per (project, variable); last write wins.
type Ledger interface {
	Record(ctx context.Context, project, variable string, score int) error
}

type backendKind int

const (
	backendFile backendKind = iota
	backendSQLite
	backendPostgres
)

// Store dispatches Record calls to the configured backend. A small LRU of the
// last written (project, variable) cells short-circuits duplicate writes so
// retried turns stay cheap.
type Store struct {
	kind backendKind
	path string
	db   *sql.DB

	mu sync.Mutex // serializes locate-or-create on the file grid

	schemaOnce sync.Once
	schemaErr  error

	written *lru.Cache[string, int]
}

// NewFile returns a CSV-grid backed store at path.
func NewFile(path string) *Store {
	return &Store{kind: backendFile, path: path, written: newWrittenCache()}
}

// NewSQLite opens (or creates) a SQLite ledger at path.
func NewSQLite(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("ledger: open sqlite %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ledger: ping sqlite %s: %w", path, err)
	}
	return &Store{kind: backendSQLite, db: db, written: newWrittenCache()}, nil
}

// NewPostgres connects to a Postgres ledger.
func NewPostgres(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, fmt.Errorf("ledger: open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ledger: ping postgres: %w", err)
	}
	return &Store{kind: backendPostgres, db: db, written: newWrittenCache()}, nil
}

// NewFromEnv picks the backend: LEDGER_PG_DSN, then LEDGER_SQLITE_PATH, then
// the CSV grid at filePath. Connection failures fall back to the file grid so
// a misconfigured database never blocks the interview.
func NewFromEnv(filePath string) *Store {
	if dsn := strings.TrimSpace(os.Getenv("LEDGER_PG_DSN")); dsn != "" {
		s, err := NewPostgres(dsn)
		if err == nil {
			return s
		}
		log.Printf("ledger: postgres unavailable, falling back to file grid: %v", err)
	}
	if path := strings.TrimSpace(os.Getenv("LEDGER_SQLITE_PATH")); path != "" {
		s, err := NewSQLite(path)
		if err == nil {
			return s
		}
		log.Printf("ledger: sqlite unavailable, falling back to file grid: %v", err)
	}
	return NewFile(filePath)
}

func newWrittenCache() *lru.Cache[string, int] {
	c, err := lru.New[string, int](1024)
	if err != nil {
		return nil
	}
	return c
}

func cellKey(project, variable string) string {
	return strings.ToLower(strings.TrimSpace(project)) + "\x00" + strings.TrimSpace(variable)
}

// Record upserts one score cell. Errors are descriptive and expected to be
// reported by the caller, never to abort the session.
func (s *Store) Record(ctx context.Context, project, variable string, score int) error {
	if s == nil {
		return fmt.Errorf("ledger: store not configured")
	}
	project = strings.TrimSpace(project)
	variable = strings.TrimSpace(variable)
	if variable == "" {
		return fmt.Errorf("ledger: variable is required")
	}
	if project == "" {
		project = "Unknown Project"
	}

	key := cellKey(project, variable)
	if s.written != nil {
		if prev, ok := s.written.Get(key); ok && prev == score {
			return nil
		}
	}

	var err error
	switch s.kind {
	case backendSQLite, backendPostgres:
		err = s.recordDB(ctx, project, variable, score)
	default:
		err = s.recordFile(project, variable, score)
	}
	if err == nil && s.written != nil {
		s.written.Add(key, score)
	}
	return err
}

// Close releases the database handle, if any.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
