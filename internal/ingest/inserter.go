package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// DefaultBatchLimit is the maximum number of records accumulated before a
// flush is forced, used whenever the caller doesn't override it (e.g. via
// the BATCH_LIMIT environment variable read in internal/config).
const DefaultBatchLimit = 1000

// maxParams is Postgres's hard ceiling on positional parameters per
// statement. batchLimit * fieldCount must never exceed it.
const maxParams = 65535

// Execer is the subset of pgxpool.Pool (and pgx.Tx) the inserter needs.
// Defined locally so the ingest package has no compile-time pgxpool
// dependency beyond this narrow surface, and so tests can supply a fake.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Insert consumes records of a single kind from in, accumulates them into
// batches of up to effectiveBatchSize (batchLimit, lowered if
// batchLimit*FieldCount would exceed maxParams), and flushes each batch as
// one multi-row INSERT. It returns on the first statement failure (wrapped
// in DatabaseError) or once in is drained and empty. A batchLimit <= 0 falls
// back to DefaultBatchLimit.
//
// Insert always ranges over in until it is closed — including when the
// decoder side failed first — so that whatever was already buffered by the
// decoder is still flushed. The channel close is the only end-of-stream
// signal this side relies on; a caller wanting a hard deadline passes a
// ctx that db.Exec will observe and fail on.
func Insert[T Record](ctx context.Context, db Execer, in <-chan T, batchLimit int) error {
	if batchLimit <= 0 {
		batchLimit = DefaultBatchLimit
	}
	var zero T
	table := zero.TableName()
	batchSize := effectiveBatchSize(zero.FieldCount(), batchLimit)
	buf := make([]T, 0, batchSize)

	flush := func() error {
		if len(buf) == 0 {
			return nil
		}
		start := time.Now()
		if err := execBatch(ctx, db, buf); err != nil {
			return &DatabaseError{Cause: err}
		}
		observeFlush(table, len(buf), time.Since(start))
		buf = buf[:0]
		channelDepth.WithLabelValues(table).Set(float64(len(in)))
		return nil
	}

	for rec := range in {
		buf = append(buf, rec)
		channelDepth.WithLabelValues(table).Set(float64(len(in)))
		if len(buf) >= batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	return flush()
}

// effectiveBatchSize lowers batchLimit when the per-record field count would
// push a full batch over Postgres's parameter ceiling.
func effectiveBatchSize(fieldCount, batchLimit int) int {
	if fieldCount <= 0 {
		return batchLimit
	}
	if batchLimit*fieldCount <= maxParams {
		return batchLimit
	}
	return maxParams / fieldCount
}

// execBatch builds and runs one INSERT INTO <table>(<cols>) VALUES
// (...),(...)[,...] [ON CONFLICT ...] statement binding every record in buf,
// in receive order.
func execBatch[T Record](ctx context.Context, db Execer, buf []T) error {
	if len(buf) == 0 {
		return nil
	}
	first := buf[0]
	cols := first.ColumnNames()
	n := len(cols)

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(first.TableName())
	sb.WriteByte('(')
	sb.WriteString(strings.Join(cols, ", "))
	sb.WriteString(") VALUES ")

	args := make([]any, 0, len(buf)*n)
	pos := 1
	for i, rec := range buf {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte('(')
		for j := 0; j < n; j++ {
			if j > 0 {
				sb.WriteByte(',')
			}
			fmt.Fprintf(&sb, "$%d", pos)
			pos++
		}
		sb.WriteByte(')')
		args = rec.Bind(args)
	}

	if cr, ok := any(first).(ConflictRecord); ok {
		sb.WriteByte(' ')
		sb.WriteString(cr.ConflictClause())
	}

	_, err := db.Exec(ctx, sb.String(), args...)
	return err
}
