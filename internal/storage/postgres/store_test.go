package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/batchwell/batchwell/internal/ingest"
)

func getTestDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping Postgres store tests")
	}
	return dsn
}

func mustOpen(t *testing.T, dsn string) *Store {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s, err := Open(ctx, dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return s
}

func truncateAll(t *testing.T, s *Store) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, _ = s.pool.Exec(ctx, `truncate table generic_results, gottcha2_results, stast_results`)
}

// TestStore_MigrateAndIdempotentInsert runs the embedded migrations against
// a real database, then exercises the generic stream's conflict clause: the
// same (run_id, task_id, shard) and idempotency_key submitted twice must
// collapse to a single row rather than erroring or duplicating.
func TestStore_MigrateAndIdempotentInsert(t *testing.T) {
	dsn := getTestDSN(t)
	s := mustOpen(t, dsn)
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := s.Ready(ctx); err != nil {
		t.Fatalf("ready: %v", err)
	}
	truncateAll(t, s)

	rec := ingest.GenericRecord{
		RunID:          "r1",
		TaskID:         "t1",
		Shard:          0,
		IdempotencyKey: "k1",
		SchemaVersion:  1,
		Payload:        []byte(`{"a":1}`),
	}

	send := func() {
		ch := make(chan ingest.GenericRecord, 1)
		ch <- rec
		close(ch)
		if err := ingest.Insert(ctx, s, ch, 0); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	send()
	send()

	var count int
	if err := s.pool.QueryRow(ctx, `select count(*) from generic_results where run_id = $1 and task_id = $2 and shard = $3`,
		rec.RunID, rec.TaskID, rec.Shard).Scan(&count); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count != 1 {
		t.Fatalf("row count = %d, want 1 (resubmission must be idempotent)", count)
	}
}

// TestStore_CreatedAtOrdersInsertionSequence confirms created_at reflects
// insertion order closely enough to sort append-only stream rows by arrival.
func TestStore_CreatedAtOrdersInsertionSequence(t *testing.T) {
	dsn := getTestDSN(t)
	s := mustOpen(t, dsn)
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	truncateAll(t, s)

	for _, sampleID := range []string{"sample-a", "sample-b", "sample-c"} {
		ch := make(chan ingest.StastRecord, 1)
		ch <- ingest.StastRecord{
			Task:     "t",
			SampleID: sampleID,
			Qseqid:   "q",
			Sseqid:   "s",
		}
		close(ch)
		if err := ingest.Insert(ctx, s, ch, 0); err != nil {
			t.Fatalf("insert %s: %v", sampleID, err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	rows, err := s.pool.Query(ctx, `select sample_id from stast_results order by created_at asc`)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	defer rows.Close()

	var got []string
	for rows.Next() {
		var sampleID string
		if err := rows.Scan(&sampleID); err != nil {
			t.Fatalf("scan: %v", err)
		}
		got = append(got, sampleID)
	}
	want := []string{"sample-a", "sample-b", "sample-c"}
	if len(got) != len(want) {
		t.Fatalf("got %d rows, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d = %s, want %s (created_at should order insertion sequence)", i, got[i], want[i])
		}
	}
}
