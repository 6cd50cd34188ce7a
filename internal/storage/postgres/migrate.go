package postgres

import (
	"context"
	"fmt"
	"io/fs"
	"sort"

	"github.com/batchwell/batchwell/migrations"
)

// Migrate applies every embedded *.sql file in lexical filename order. Each
// migration's DDL is expected to be idempotent (CREATE ... IF NOT EXISTS),
// so there is no separate tracking table: re-running the sequence is safe.
// A migration failure aborts the sequence; the caller is expected to exit
// the process before binding the HTTP server.
func (s *Store) Migrate(ctx context.Context) error {
	entries, err := fs.Glob(migrations.FS, "*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(entries)

	for _, name := range entries {
		b, err := migrations.FS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := s.pool.Exec(ctx, string(b)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
	}
	return nil
}
