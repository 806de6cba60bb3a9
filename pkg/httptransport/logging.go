package httptransport

import (
	"net/http"
	"time"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// Logging logs every round trip with the logger carried by the request
// context. Failures are logged at warn level, everything else at debug.
func Logging() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(req)

			lg := zctx.From(req.Context()).With(
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.String("request_id", req.Header.Get(RequestIDHeader)),
				zap.Duration("duration", time.Since(start)),
			)
			switch {
			case err != nil:
				lg.Warn("Request failed", zap.Error(err))
			case resp.StatusCode >= http.StatusBadRequest:
				lg.Warn("Request rejected", zap.Int("status", resp.StatusCode))
			default:
				lg.Debug("Request completed", zap.Int("status", resp.StatusCode))
			}
			return resp, err
		})
	}
}
