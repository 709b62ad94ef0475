package middlewares

import (
	"github.com/dmitrymomot/approuter/internal"
	"github.com/dmitrymomot/approuter/pkg/id"
	"github.com/dmitrymomot/approuter/pkg/logger"
)

type requestIDKey struct{}

// DefaultRequestIDHeaders are checked in order for an upstream request ID.
// X-Vcap-Request-Id is set by the Cloud Foundry gorouter.
var DefaultRequestIDHeaders = []string{"X-Request-ID", "X-Correlation-ID", "X-Vcap-Request-Id"}

const maxRequestIDLength = 128

type requestIDConfig struct {
	headers  []string
	generate func() string
	echo     string
}

type RequestIDOption func(*requestIDConfig)

// WithRequestIDHeaders replaces the headers searched for an upstream ID.
func WithRequestIDHeaders(headers ...string) RequestIDOption {
	return func(cfg *requestIDConfig) { cfg.headers = headers }
}

func WithRequestIDGenerator(gen func() string) RequestIDOption {
	return func(cfg *requestIDConfig) {
		if gen != nil {
			cfg.generate = gen
		}
	}
}

// WithRequestIDResponseHeader sets the response header echoing the ID.
// An empty name disables the echo.
func WithRequestIDResponseHeader(header string) RequestIDOption {
	return func(cfg *requestIDConfig) { cfg.echo = header }
}

// RequestID is the stock requestID slot. It reuses an upstream ID when one
// is present and well formed, and generates a ULID otherwise.
func RequestID(opts ...RequestIDOption) internal.Middleware {
	cfg := requestIDConfig{
		headers:  DefaultRequestIDHeaders,
		generate: id.NewULID,
		echo:     "X-Request-ID",
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	sources := make([]internal.ExtractorSource, 0, len(cfg.headers))
	for _, h := range cfg.headers {
		sources = append(sources, internal.FromHeader(h))
	}
	upstream := internal.NewExtractor(sources...)

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			rid, ok := upstream.Extract(c)
			if !ok || !validRequestID(rid) {
				rid = cfg.generate()
			}
			c.Set(requestIDKey{}, rid)
			if cfg.echo != "" {
				c.SetHeader(cfg.echo, rid)
			}
			return next(c)
		}
	}
}

// validRequestID accepts up to maxRequestIDLength visible ASCII characters.
func validRequestID(s string) bool {
	if len(s) > maxRequestIDLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '!' || s[i] > '~' {
			return false
		}
	}
	return true
}

// GetRequestID returns the ID assigned by RequestID, or "".
func GetRequestID(c internal.Context) string {
	v, _ := c.Get(requestIDKey{}).(string)
	return v
}

// RequestIDExtractor adds "request_id" to every log record of the request.
func RequestIDExtractor() logger.ContextExtractor {
	return logger.ValueExtractor("request_id", requestIDKey{})
}
