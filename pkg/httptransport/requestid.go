package httptransport

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// RequestIDHeader carries the correlation id of a request.
const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// WithRequestID stores id in ctx so the next outbound request reuses it.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the id stored by WithRequestID, or "".
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// RequestID sets X-Request-ID on every request that lacks one. A valid id
// from the context is reused; otherwise a new UUID v4 is generated. The
// request is cloned before the header is set.
func RequestID() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if isValidRequestID(req.Header.Get(RequestIDHeader)) {
				return next.RoundTrip(req)
			}
			id := RequestIDFromContext(req.Context())
			if !isValidRequestID(id) {
				id = uuid.New().String()
			}
			req = req.Clone(req.Context())
			req.Header.Set(RequestIDHeader, id)
			return next.RoundTrip(req)
		})
	}
}

// isValidRequestID checks that id is non-empty, at most 128 bytes, and
// printable ASCII.
func isValidRequestID(id string) bool {
	if len(id) == 0 || len(id) > 128 {
		return false
	}
	for i := range len(id) {
		if id[i] < 0x20 || id[i] > 0x7E {
			return false
		}
	}
	return true
}
