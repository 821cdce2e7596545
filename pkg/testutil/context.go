package testutil

import (
	"net/http"

	id "talentflow/pkg/domain"
	"talentflow/pkg/requestcontext"
)

// WithActor adds an authenticated identity to the request context,
// simulating what the auth middleware does for valid bearer tokens.
// An invalid user ID leaves the request unchanged.
func WithActor(req *http.Request, userID string, role id.Role) *http.Request {
	parsed, err := id.ParseUserID(userID)
	if err != nil {
		return req
	}
	return req.WithContext(requestcontext.WithActor(req.Context(), parsed, role))
}

// WithRequestID stamps a request ID onto the request context.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}
