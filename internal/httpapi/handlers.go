package httpapi

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/batchwell/batchwell/internal/ingest"
)

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 800*time.Millisecond)
	defer cancel()
	if err := s.db.Ready(ctx); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	runIngest(w, r, s, "generic", ingest.Run[ingest.GenericRecord])
}

func (s *Server) handleIngestGottcha2(w http.ResponseWriter, r *http.Request) {
	runIngest(w, r, s, "gottcha2", ingest.Run[ingest.Gottcha2Record])
}

func (s *Server) handleIngestStast(w http.ResponseWriter, r *http.Request) {
	runIngest(w, r, s, "stast", ingest.Run[ingest.StastRecord])
}

// runPipeline matches ingest.Run's signature once instantiated for a single
// record kind.
type runPipeline func(ctx context.Context, body io.Reader, maxBytes int64, db ingest.Execer, batchLimit int) error

// runIngest drives one record kind's pipeline against the request body: the
// gate (auth, rate limit, size cap) has already run as middleware by the
// time a handler is reached, so this is purely C2+C3+C4 plus status mapping.
func runIngest(w http.ResponseWriter, r *http.Request, s *Server, stream string, run runPipeline) {
	if err := run(r.Context(), r.Body, s.maxUncompressedBytes, s.db, s.batchLimit); err != nil {
		status, code := mapErr(err)
		if status >= 500 {
			s.log.Error("ingest failed", "stream", stream, "err", err)
		} else {
			s.log.Warn("ingest rejected", "stream", stream, "code", code)
		}
		ingestRejectedTotal.WithLabelValues(code).Inc()
		writeErr(w, status, code, code)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ingested"))
}
