package middlewares

import (
	"net/http"
	"runtime"

	"github.com/dmitrymomot/approuter/internal"
)

// DefaultStackSize caps the captured stack trace in bytes.
const DefaultStackSize = 4096

type recoverConfig struct {
	stackSize int
	noStack   bool
}

type RecoverOption func(*recoverConfig)

func WithRecoverStackSize(size int) RecoverOption {
	return func(cfg *recoverConfig) {
		if size > 0 {
			cfg.stackSize = size
		}
	}
}

// WithRecoverDisablePrintStack skips stack capture. PanicError.Stack stays nil.
func WithRecoverDisablePrintStack() RecoverOption {
	return func(cfg *recoverConfig) { cfg.noStack = true }
}

// Recover is the stock recover slot. A panic in a later slot or handler
// becomes a 500 HTTPError wrapping *PanicError, tagged with the request ID.
// http.ErrAbortHandler is re-raised so the server drops the connection.
func Recover(opts ...RecoverOption) internal.Middleware {
	cfg := recoverConfig{stackSize: DefaultStackSize}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				if r == http.ErrAbortHandler {
					panic(r)
				}

				pe := &PanicError{Value: r}
				attrs := []any{"panic", r}
				if !cfg.noStack {
					pe.Stack = captureStack(cfg.stackSize)
					attrs = append(attrs, "stack", string(pe.Stack))
				}
				c.LogError("panic recovered", attrs...)

				err = internal.ErrInternal(http.StatusText(http.StatusInternalServerError),
					internal.WithError(pe),
					internal.WithRequestID(GetRequestID(c)))
			}()
			return next(c)
		}
	}
}

func captureStack(size int) []byte {
	buf := make([]byte, size)
	return buf[:runtime.Stack(buf, false)]
}
