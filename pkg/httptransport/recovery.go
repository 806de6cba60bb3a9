package httptransport

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// ErrPanic is returned when the wrapped transport panicked.
var ErrPanic = errors.New("transport panic")

// Recovery turns a panic in the wrapped transport into an error so one bad
// request does not take the console down.
func Recovery() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (resp *http.Response, err error) {
			defer func() {
				if rec := recover(); rec != nil {
					zctx.From(req.Context()).Error("Panic recovered",
						zap.Any("panic", rec),
						zap.Stack("stack"),
					)
					resp = nil
					err = errors.Wrapf(ErrPanic, "%s %s: %v", req.Method, req.URL.Path, rec)
				}
			}()
			return next.RoundTrip(req)
		})
	}
}
