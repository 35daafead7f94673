// Package httputil centralizes JSON response writing and domain error
// translation so every handler returns the same envelopes.
package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"

	dErrors "gatehouse/pkg/domain-errors"
)

var statusByCode = map[dErrors.Code]int{
	dErrors.CodeValidation:         http.StatusUnprocessableEntity,
	dErrors.CodeBadRequest:         http.StatusBadRequest,
	dErrors.CodeInvalidState:       http.StatusConflict,
	dErrors.CodeConflict:           http.StatusConflict,
	dErrors.CodeNotFound:           http.StatusNotFound,
	dErrors.CodeForbidden:          http.StatusForbidden,
	dErrors.CodeUnauthorized:       http.StatusUnauthorized,
	dErrors.CodeUnavailable:        http.StatusServiceUnavailable,
	dErrors.CodeInvariantViolation: http.StatusConflict,
	dErrors.CodeInternal:           http.StatusInternalServerError,
}

// ToHTTPStatus maps a domain error code to its HTTP status.
func ToHTTPStatus(code dErrors.Code) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// WriteJSON writes a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// DecodeAndPrepare decodes a JSON request body into T. On failure it writes
// the bad_request envelope and reports false; the handler just returns.
func DecodeAndPrepare[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, requestID string) (T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if logger != nil {
			logger.WarnContext(r.Context(), "request body rejected",
				"request_id", requestID,
				"error", err,
			)
		}
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		var zero T
		return zero, false
	}
	return req, true
}

// WriteError writes the error envelope for a (possibly uncoded) error.
// Internal and unavailable errors omit the description so infrastructure
// details never leak to callers; everything else is user-correctable and
// keeps its message.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	body := map[string]string{"error": string(code)}
	if code != dErrors.CodeInternal && code != dErrors.CodeUnavailable {
		body["error_description"] = err.Error()
	}
	WriteJSON(w, ToHTTPStatus(code), body)
}
