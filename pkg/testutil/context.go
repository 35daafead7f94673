package testutil

import (
	"net/http"
	"time"

	id "gatehouse/pkg/domain"
	"gatehouse/pkg/requestcontext"
)

// WithActor adds a resolved actor (user ID + role) to the request context.
// This simulates what the auth middleware would do for authenticated requests.
// An invalid user ID leaves the request unauthenticated.
func WithActor(req *http.Request, userID string, role id.Role) *http.Request {
	parsed, err := id.ParseUserID(userID)
	if err != nil {
		return req
	}
	return req.WithContext(requestcontext.WithActor(req.Context(), parsed, role))
}

// WithRequestTime pins the request clock, matching the request-time middleware.
func WithRequestTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}
