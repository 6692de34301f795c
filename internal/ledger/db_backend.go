package ledger

import (
	"context"
	"fmt"
	"time"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS scores (
  project TEXT NOT NULL,
  variable TEXT NOT NULL,
  score INTEGER NOT NULL,
  updated_at TEXT NOT NULL,
  PRIMARY KEY (project, variable)
);`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS scores (
  project TEXT NOT NULL,
  variable TEXT NOT NULL,
  score INTEGER NOT NULL,
  updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
  PRIMARY KEY (project, variable)
);`

func (s *Store) ensureSchema(ctx context.Context) error {
	s.schemaOnce.Do(func() {
		schema := sqliteSchema
		if s.kind == backendPostgres {
			schema = postgresSchema
		}
		_, s.schemaErr = s.db.ExecContext(ctx, schema)
	})
	return s.schemaErr
}

func (s *Store) recordDB(ctx context.Context, project, variable string, score int) error {
	if err := s.ensureSchema(ctx); err != nil {
		return fmt.Errorf("ledger: ensure schema: %w", err)
	}

	var err error
	if s.kind == backendPostgres {
		_, err = s.db.ExecContext(ctx, `
INSERT INTO scores (project, variable, score, updated_at)
VALUES ($1, $2, $3, NOW())
ON CONFLICT (project, variable)
DO UPDATE SET score = EXCLUDED.score, updated_at = EXCLUDED.updated_at`,
			project, variable, score)
	} else {
		now := time.Now().UTC().Format(time.RFC3339Nano)
		_, err = s.db.ExecContext(ctx, `
INSERT INTO scores (project, variable, score, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT (project, variable)
DO UPDATE SET score = excluded.score, updated_at = excluded.updated_at`,
			project, variable, score, now)
	}
	if err != nil {
		return fmt.Errorf("ledger: upsert %s/%s: %w", project, variable, err)
	}
	return nil
}
