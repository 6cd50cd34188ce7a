package ingest

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"io"
	"unicode/utf8"

	"github.com/batchwell/batchwell/internal/errs"
)

// maxLineBytes bounds a single NDJSON line; lines are never unbounded in
// practice for these record shapes, and bufio.Scanner needs a ceiling.
const maxLineBytes = 8 * 1024 * 1024

// Validatable is implemented by every Record kind: it reports whether a
// freshly unmarshalled value has all required fields present and well-typed.
type Validatable interface {
	Validate() error
}

// Decode streams body through gzip decompression, splits it into NDJSON
// lines, unmarshals each line into T and sends it on out. It never buffers
// the whole body: gzip output is read and forwarded line by line.
//
// maxBytes caps the decompressed byte count; exceeding it aborts the
// decode with errs.ErrTooLarge without reading further (gzip-bomb protection).
//
// On success, out is closed and nil is returned. On any error — gzip, I/O,
// UTF-8, JSON, or missing-field — out is closed and the error is returned;
// the caller (the pipeline joiner) is responsible for treating channel
// closure as the sole end-of-stream signal regardless of which side it
// observed first.
func Decode[T Validatable](ctx context.Context, body io.Reader, maxBytes int64, out chan<- T) (err error) {
	defer close(out)

	gz, err := gzip.NewReader(body)
	if err != nil {
		return &ParseError{Cause: CauseGzip, Detail: err.Error()}
	}
	defer gz.Close()

	counted := &countingReader{r: gz, limit: maxBytes}
	scanner := bufio.NewScanner(counted)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	line := 0
	for scanner.Scan() {
		if counted.exceeded {
			// The scanner yields the truncated tail as a final token once the
			// budget is spent; that token is never parsed.
			return errs.ErrTooLarge
		}
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		if !utf8.Valid(raw) {
			return &ParseError{Line: line, Cause: CauseUTF8, Detail: "invalid UTF-8"}
		}

		var rec T
		if decErr := json.Unmarshal(raw, &rec); decErr != nil {
			return &ParseError{Line: line, Cause: CauseJSON, Detail: decErr.Error()}
		}
		if valErr := rec.Validate(); valErr != nil {
			var pe *ParseError
			if errors.As(valErr, &pe) {
				pe.Line = line
				return pe
			}
			return &ParseError{Line: line, Cause: CauseMissingField, Detail: valErr.Error()}
		}

		select {
		case out <- rec:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, errs.ErrTooLarge) {
			return errs.ErrTooLarge
		}
		return &ParseError{Line: line + 1, Cause: CauseGzip, Detail: err.Error()}
	}
	return nil
}

// countingReader enforces an upper bound on bytes read from an underlying
// (decompressing) reader, surfacing errs.ErrTooLarge once the budget is spent.
type countingReader struct {
	r        io.Reader
	limit    int64
	read     int64
	exceeded bool
}

func (c *countingReader) Read(p []byte) (int, error) {
	if c.limit > 0 && c.read >= c.limit {
		// The budget is spent; the body is only too large if more data follows.
		var probe [1]byte
		if n, err := c.r.Read(probe[:]); n == 0 && err != nil {
			return 0, err
		}
		c.exceeded = true
		return 0, errs.ErrTooLarge
	}
	if c.limit > 0 && c.read+int64(len(p)) > c.limit {
		if c.limit-c.read == 0 {
			c.exceeded = true
			return 0, errs.ErrTooLarge
		}
		p = p[:c.limit-c.read]
	}
	n, err := c.r.Read(p)
	c.read += int64(n)
	return n, err
}
