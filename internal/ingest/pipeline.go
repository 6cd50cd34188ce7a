package ingest

import (
	"context"
	"io"

	"golang.org/x/sync/errgroup"
)

// recordStream is satisfied by every concrete record kind: the bulk-insert
// capability (Record) plus the decoder's field-validation capability
// (Validatable).
type recordStream interface {
	Record
	Validatable
}

// Run joins a streaming decode of body against db for one request: the
// decoder and inserter run concurrently on the same channel. batchLimit
// caps how many records the inserter accumulates before flushing (<= 0
// falls back to DefaultBatchLimit); the channel itself is sized to one
// batch, large enough to keep the inserter fed without blunting
// back-pressure.
//
// Decoder error: Decode always closes the channel on its way out (success
// or failure), so the inserter observes end-of-stream, flushes whatever it
// had already buffered, and returns normally — the last flushed batch
// stays committed, per the partial-commit contract.
//
// Inserter error: the inserter stops receiving, but the decoder may be
// blocked sending to a now-full, now-abandoned channel. decodeCtx is
// cancelled as soon as the inserter returns, so the decoder's blocked send
// unblocks with ctx.Err() instead of leaking the goroutine.
//
// Either way Wait returns the first non-nil error observed.
func Run[T recordStream](ctx context.Context, body io.Reader, maxBytes int64, db Execer, batchLimit int) error {
	if batchLimit <= 0 {
		batchLimit = DefaultBatchLimit
	}
	ch := make(chan T, batchLimit)
	decodeCtx, cancelDecode := context.WithCancel(ctx)
	defer cancelDecode()

	g := new(errgroup.Group)
	g.Go(func() error {
		return Decode[T](decodeCtx, body, maxBytes, ch)
	})
	g.Go(func() error {
		defer cancelDecode()
		return Insert(ctx, db, ch, batchLimit)
	})
	return g.Wait()
}
