package httpapi

import (
	"errors"
	"net/http"

	"github.com/batchwell/batchwell/internal/errs"
	"github.com/batchwell/batchwell/internal/ingest"
)

// errorResponse is the standard error payload for the API.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeErr(w http.ResponseWriter, status int, msg, code string) {
	toJSON(w, status, errorResponse{Error: msg, Code: code})
}

// writeErrFor maps err through mapErr and writes the resulting response.
func writeErrFor(w http.ResponseWriter, err error) {
	status, code := mapErr(err)
	writeErr(w, status, code, code)
}

// mapErr maps both gate rejections (internal/errs sentinels) and the
// ingestion taxonomy (internal/ingest) onto the status codes spec'd for the
// ingest endpoints: 401 for a bad bearer token, 429 once the rate limiter
// trips, 422 for malformed/missing data, 413 for an oversized decompressed
// body, 500 for anything the database rejected.
func mapErr(err error) (status int, code string) {
	var parseErr *ingest.ParseError
	var dbErr *ingest.DatabaseError

	switch {
	case errors.Is(err, errs.ErrAuth):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, errs.ErrRateLimited):
		return http.StatusTooManyRequests, "rate_limited"
	case errors.Is(err, errs.ErrTooLarge):
		return http.StatusRequestEntityTooLarge, "payload_too_large"
	case errors.As(err, &parseErr):
		return http.StatusUnprocessableEntity, string(parseErr.Cause)
	case errors.As(err, &dbErr):
		return http.StatusInternalServerError, "database_error"
	default:
		return http.StatusUnprocessableEntity, "unprocessable"
	}
}
