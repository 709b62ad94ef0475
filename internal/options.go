package internal

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/approuter/pkg/cookie"
	"github.com/dmitrymomot/approuter/pkg/logger"
	"github.com/dmitrymomot/approuter/pkg/session"
)

// Option configures the application.
type Option func(*App)

// WithNamedMiddleware appends a named slot to the request chain.
// Slots run in registration order. Registering the same name twice panics.
//
// Example:
//
//	approuter.New(
//	    approuter.WithNamedMiddleware("audit", auditMiddleware),
//	)
func WithNamedMiddleware(name string, mw Middleware) Option {
	return func(a *App) {
		if err := a.chain.Append(name, mw); err != nil {
			panic(err)
		}
	}
}

// WithMiddlewareOverride replaces the implementation of an existing slot,
// keeping its position in the chain. The slot is located by name, never by index.
// New panics if no slot with that name was registered.
//
// Example:
//
//	approuter.New(
//	    approuter.DefaultChain(table, dir),
//	    approuter.WithMiddlewareOverride(approuter.SlotStaticResource, static.Middleware()),
//	)
func WithMiddlewareOverride(name string, mw Middleware) Option {
	return func(a *App) {
		a.overrides = append(a.overrides, Slot{Name: name, Middleware: mw})
	}
}

// WithHandlers registers handlers that declare routes.
// Each handler's Routes method is called during setup.
func WithHandlers(h ...Handler) Option {
	return func(a *App) {
		a.handlers = append(a.handlers, h...)
	}
}

// WithHTTPHandler mounts a plain http.Handler at the given pattern.
//
// Example:
//
//	approuter.New(
//	    approuter.WithHTTPHandler("/metrics", metrics.Handler()),
//	)
func WithHTTPHandler(pattern string, h http.Handler) Option {
	return func(a *App) {
		if pattern != "" && h != nil {
			a.mounts = append(a.mounts, mount{handler: h, pattern: pattern})
		}
	}
}

// WithErrorHandler sets a custom error handler for handler errors.
// Called when a handler or middleware returns a non-nil error.
// Defaults to DefaultErrorHandler.
//
// Example:
//
//	approuter.WithErrorHandler(func(c approuter.Context, err error) error {
//	    return c.String(http.StatusInternalServerError, "oops")
//	})
func WithErrorHandler(h ErrorHandler) Option {
	return func(a *App) {
		if h != nil {
			a.errorHandler = h
		}
	}
}

// WithNotFoundHandler sets a custom handler for requests that reach the end
// of the chain without matching a registered route.
//
// Example:
//
//	approuter.WithNotFoundHandler(forwarder.Handle)
func WithNotFoundHandler(h HandlerFunc) Option {
	return func(a *App) {
		a.notFoundHandler = h
	}
}

// WithMethodNotAllowedHandler sets a custom 405 handler.
func WithMethodNotAllowedHandler(h HandlerFunc) Option {
	return func(a *App) {
		a.methodNotAllowedHandler = h
	}
}

// WithHealthChecks enables health check endpoints with optional configuration.
// Liveness (/health/live): Always returns OK if process is running.
// Readiness (/health/ready): Runs all configured checks.
//
// Example:
//
//	approuter.WithHealthChecks(
//	    approuter.WithReadinessCheck("db", db.Healthcheck(pool)),
//	    approuter.WithReadinessCheck("redis", redis.Healthcheck(client)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return func(a *App) {
		cfg := &healthConfig{
			livenessPath:  defaultLivenessPath,
			readinessPath: defaultReadinessPath,
			checks:        make(healthChecks),
		}
		for _, opt := range opts {
			opt(cfg)
		}
		a.healthConfig = cfg
	}
}

// WithLogger creates a logger with a component name and optional extractors.
// Extractors pull values from context (e.g., request_id).
//
// Example:
//
//	approuter.New(
//	    approuter.WithLogger("approuter", middlewares.RequestIDExtractor()),
//	)
func WithLogger(component string, extractors ...logger.ContextExtractor) Option {
	return func(a *App) {
		a.logger = logger.New(extractors...).With("component", component)
	}
}

// WithCustomLogger sets a fully custom logger.
func WithCustomLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithCookieOptions configures the cookie manager.
//
// Example:
//
//	approuter.New(
//	    approuter.WithCookieOptions(
//	        approuter.WithCookieSecret(cfg.CookieSecret),
//	        approuter.WithCookieSecure(true),
//	    ),
//	)
func WithCookieOptions(opts ...cookie.Option) Option {
	return func(a *App) {
		a.cookieManager = cookie.New(opts...)
	}
}

// WithSession enables server-side session management.
// Sessions are loaded lazily and saved automatically before the response is written.
//
// Example:
//
//	approuter.New(
//	    approuter.WithSession(session.NewCacheStore(cache.NewMemory[session.Session]()),
//	        approuter.WithSessionMaxAge(15*60),
//	        approuter.WithSessionSecure(true),
//	    ),
//	)
func WithSession(store session.Store, opts ...SessionOption) Option {
	return func(a *App) {
		a.sessionManager = NewSessionManager(store, opts...)
	}
}
