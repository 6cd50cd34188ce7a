package httpapi

import (
	"crypto/subtle"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/batchwell/batchwell/internal/errs"
)

// requireBearerToken checks for an exact "Authorization: Bearer <token>"
// header and a constant-time match against the configured shared secret.
// No body parsing is attempted before this check runs.
func requireBearerToken(token string) func(http.Handler) http.Handler {
	want := []byte(token)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok := parseBearerToken(r)
			if !ok || subtle.ConstantTimeCompare([]byte(got), want) != 1 {
				ingestRejectedTotal.WithLabelValues("auth").Inc()
				writeErrFor(w, errs.ErrAuth)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func parseBearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(h, prefix) {
		return "", false
	}
	return strings.TrimPrefix(h, prefix), true
}

// rateLimit admits at most limiter's configured sustained rate, with burst
// capacity, rejecting immediately rather than waiting when the bucket is
// empty. The limiter is process-wide: all clients share one trusted token,
// so per-client keying would add cost without adding safety.
func rateLimit(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				ingestRejectedTotal.WithLabelValues("rate_limited").Inc()
				writeErrFor(w, errs.ErrRateLimited)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// limitRequestBody caps the compressed request body size using
// http.MaxBytesReader. This is a coarse outer bound on the wire payload;
// the decoder applies a second cap to the decompressed byte count.
func limitRequestBody(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil && maxBytes > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requestLogger logs basic request info at a level chosen by status (INFO,
// WARN for 4xx, ERROR for 5xx) and downgrades health endpoints to DEBUG to
// keep logs quiet under liveness polling.
func requestLogger(l *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			reqID := chimw.GetReqID(r.Context())

			next.ServeHTTP(ww, r)

			dur := time.Since(start)
			lvl := levelForStatus(ww.Status())
			if r.URL.Path == "/healthz" || r.URL.Path == "/readyz" {
				lvl = slog.LevelDebug
			}
			attrs := []any{
				"req_id", reqID,
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", dur.Milliseconds(),
				"ip", clientIP(r),
			}
			switch lvl {
			case slog.LevelError:
				l.Error("request complete", attrs...)
			case slog.LevelWarn:
				l.Warn("request complete", attrs...)
			case slog.LevelDebug:
				l.Debug("request complete", attrs...)
			default:
				l.Info("request complete", attrs...)
			}
		})
	}
}

// recoverer logs panics as ERROR and returns 500 without leaking the panic
// value or request body into the response.
func recoverer(l *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					reqID := chimw.GetReqID(r.Context())
					l.Error("panic", "req_id", reqID, "err", rec, "path", r.URL.Path, "method", r.Method, "stack", string(debug.Stack()))
					w.WriteHeader(http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func levelForStatus(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		return host
	}
	return r.RemoteAddr
}
