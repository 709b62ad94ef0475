// Package logger builds slog loggers for the router.
//
// Records are written to stdout as JSON (or text with LOG_FORMAT=text).
// Context extractors add request-scoped attributes such as the request ID to
// every record logged with a context:
//
//	log := logger.New(middlewares.RequestIDExtractor())
//	log.InfoContext(r.Context(), "forwarded", slog.Int("status", 200))
//	// {"level":"INFO","msg":"forwarded","status":200,"request_id":"..."}
//
// NewFromConfig reads the level and format from a Config, normally filled by
// the config package from LOG_LEVEL, LOG_FORMAT and SENTRY_* variables. When
// SENTRY_DSN is set, error records are also reported to Sentry and warnings
// are stored as Sentry logs. Call Flush before the process exits.
//
// WithExtractors wraps any slog.Handler, so extractors also work with custom
// handlers:
//
//	h := slog.NewTextHandler(os.Stderr, nil)
//	log := slog.New(logger.WithExtractors(h, extractors...))
package logger
