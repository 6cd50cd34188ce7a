package ingest

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5/pgconn"
)

// fakePool is a minimal in-memory stand-in for a pgx pool, adapted from the
// teacher's storage/memory package concept: a small guarded map/slice
// instead of a SQL engine, just enough surface for the inserter to drive.
type fakePool struct {
	mu        sync.Mutex
	execCalls []execCall
	failAfter int // fail the Nth call onward (0 = never fail)
	failErr   error
}

type execCall struct {
	sql  string
	args []any
}

func (f *fakePool) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.execCalls = append(f.execCalls, execCall{sql: sql, args: append([]any(nil), args...)})
	if f.failAfter > 0 && len(f.execCalls) >= f.failAfter {
		return pgconn.CommandTag{}, f.failErr
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (f *fakePool) calls() []execCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]execCall, len(f.execCalls))
	copy(out, f.execCalls)
	return out
}
