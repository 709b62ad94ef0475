package approuter

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/dmitrymomot/approuter/internal"
	"github.com/dmitrymomot/approuter/middlewares"
	"github.com/dmitrymomot/approuter/pkg/cookie"
	"github.com/dmitrymomot/approuter/pkg/logger"
	"github.com/dmitrymomot/approuter/pkg/routes"
	"github.com/dmitrymomot/approuter/pkg/session"
)

// Type aliases - public API
type (
	// App orchestrates the application lifecycle.
	// It owns the listener, the host routes and the named middleware chain.
	App = internal.App

	// Router is the interface handlers use to declare routes.
	Router = internal.Router

	// Context provides request/response access and helper methods.
	Context = internal.Context

	// Handler declares routes on a router.
	Handler = internal.Handler

	// HandlerFunc is the signature for route handlers.
	HandlerFunc = internal.HandlerFunc

	// Middleware wraps a HandlerFunc to add cross-cutting concerns.
	Middleware = internal.Middleware

	// Slot is a named entry of the request chain.
	Slot = internal.Slot

	// ErrorHandler handles errors returned from handlers.
	ErrorHandler = internal.ErrorHandler

	// HTTPError carries a status, a message and response headers to the error handler.
	HTTPError = internal.HTTPError

	// HTTPErrorOption configures an HTTPError.
	HTTPErrorOption = internal.HTTPErrorOption

	// Option configures the application.
	Option = internal.Option

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// HealthOption configures health check endpoints.
	HealthOption = internal.HealthOption

	// CheckFunc is a readiness check.
	CheckFunc = internal.CheckFunc

	// ContextExtractor extracts a slog attribute from context.
	// Used with WithLogger to add request-scoped values to logs.
	ContextExtractor = logger.ContextExtractor

	// CookieOption configures the cookie manager.
	CookieOption = cookie.Option

	// SessionOption configures the session manager.
	SessionOption = internal.SessionOption

	// Session represents a user session.
	Session = session.Session

	// SessionStore defines the interface for session persistence.
	SessionStore = session.Store
)

// Stock slot names, in DefaultChain order.
const (
	SlotRequestID      = internal.SlotRequestID
	SlotRecover        = internal.SlotRecover
	SlotMetrics        = internal.SlotMetrics
	SlotRouteResolver  = internal.SlotRouteResolver
	SlotLoginCheck     = internal.SlotLoginCheck
	SlotStaticResource = internal.SlotStaticResource
)

// ErrSlotNotFound is the panic value of New when an override names an unknown slot.
var ErrSlotNotFound = internal.ErrSlotNotFound

// Constructors

// New creates a new application with the given options.
// The App is immutable after creation.
//
// Example:
//
//	app := approuter.New(
//	    approuter.WithLogger("approuter", middlewares.RequestIDExtractor()),
//	    approuter.DefaultChain(table, cfg.WorkingDir),
//	    approuter.WithMiddlewareOverride(approuter.SlotLoginCheck, gate.Middleware()),
//	    approuter.WithMiddlewareOverride(approuter.SlotStaticResource, static.Middleware()),
//	    approuter.WithNotFoundHandler(forwarder.Handler()),
//	)
//
//	err := app.Run(cfg.Address(), approuter.Logger(log))
func New(opts ...Option) *App {
	return internal.New(opts...)
}

// DefaultChain registers the stock slots in order: requestID, recover,
// metrics, routeResolver, loginCheck, staticResourceHandler.
// Relative localDir entries of table resolve against workingDir.
func DefaultChain(table *routes.Table, workingDir string) Option {
	slots := []Slot{
		{Name: SlotRequestID, Middleware: middlewares.RequestID()},
		{Name: SlotRecover, Middleware: middlewares.Recover()},
		{Name: SlotMetrics, Middleware: middlewares.Metrics()},
		{Name: SlotRouteResolver, Middleware: middlewares.RouteResolver(table)},
		{Name: SlotLoginCheck, Middleware: middlewares.LoginCheck()},
		{Name: SlotStaticResource, Middleware: middlewares.StaticFiles(workingDir)},
	}
	return func(a *App) {
		for _, s := range slots {
			internal.WithNamedMiddleware(s.Name, s.Middleware)(a)
		}
	}
}

// App options

// WithNamedMiddleware appends a named slot to the request chain.
// Registering the same name twice panics.
func WithNamedMiddleware(name string, mw Middleware) Option {
	return internal.WithNamedMiddleware(name, mw)
}

// WithMiddlewareOverride replaces the implementation of an existing slot
// while keeping its position. New panics with ErrSlotNotFound for unknown names.
func WithMiddlewareOverride(name string, mw Middleware) Option {
	return internal.WithMiddlewareOverride(name, mw)
}

// WithHandlers registers handlers that declare routes.
// Each handler's Routes method is called during setup.
func WithHandlers(h ...Handler) Option {
	return internal.WithHandlers(h...)
}

// WithHTTPHandler mounts a plain http.Handler, such as the metrics endpoint.
func WithHTTPHandler(pattern string, h http.Handler) Option {
	return internal.WithHTTPHandler(pattern, h)
}

// WithErrorHandler sets a custom error handler for handler errors.
// Called when a handler returns a non-nil error.
func WithErrorHandler(h ErrorHandler) Option {
	return internal.WithErrorHandler(h)
}

// WithNotFoundHandler sets the handler reached by requests that no host
// route and no chain slot answered, typically the destination forwarder.
func WithNotFoundHandler(h HandlerFunc) Option {
	return internal.WithNotFoundHandler(h)
}

// WithMethodNotAllowedHandler sets a custom 405 handler.
func WithMethodNotAllowedHandler(h HandlerFunc) Option {
	return internal.WithMethodNotAllowedHandler(h)
}

// WithHealthChecks enables health check endpoints with optional configuration.
// Liveness (/health/live): Always returns OK if process is running.
// Readiness (/health/ready): Runs all configured checks.
//
// Example:
//
//	approuter.WithHealthChecks(
//	    approuter.WithReadinessCheck("redis", redis.Healthcheck(client)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return internal.WithHealthChecks(opts...)
}

// WithLogger creates a logger with a component name and optional extractors.
// The component name is added to every log entry for easy filtering.
func WithLogger(component string, extractors ...ContextExtractor) Option {
	return internal.WithLogger(component, extractors...)
}

// WithCustomLogger sets a fully custom logger.
func WithCustomLogger(l *slog.Logger) Option {
	return internal.WithCustomLogger(l)
}

// WithCookieOptions configures the cookie manager.
//
// Example:
//
//	approuter.New(
//	    approuter.WithCookieOptions(
//	        cookie.WithSecret(cfg.CookieSecret),
//	        cookie.WithSecure(true),
//	    ),
//	)
func WithCookieOptions(opts ...CookieOption) Option {
	return internal.WithCookieOptions(opts...)
}

// WithSession enables server-side sessions backed by store.
func WithSession(store SessionStore, opts ...SessionOption) Option {
	return internal.WithSession(store, opts...)
}

// Health check options

// WithLivenessPath sets a custom liveness endpoint path.
// Defaults to "/health/live".
func WithLivenessPath(path string) HealthOption {
	return internal.WithLivenessPath(path)
}

// WithReadinessPath sets a custom readiness endpoint path.
// Defaults to "/health/ready".
func WithReadinessPath(path string) HealthOption {
	return internal.WithReadinessPath(path)
}

// WithReadinessCheck adds a named readiness check.
func WithReadinessCheck(name string, fn CheckFunc) HealthOption {
	return internal.WithReadinessCheck(name, fn)
}

// Session options

// WithSessionCookieName sets the session cookie name.
func WithSessionCookieName(name string) SessionOption {
	return internal.WithSessionCookieName(name)
}

// WithSessionMaxAge sets the idle timeout in seconds.
func WithSessionMaxAge(seconds int) SessionOption {
	return internal.WithSessionMaxAge(seconds)
}

// WithSessionSecure sets the Secure flag of the session cookie.
func WithSessionSecure(secure bool) SessionOption {
	return internal.WithSessionSecure(secure)
}

// Run options

// Logger sets the server logger.
func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

// ShutdownTimeout sets the timeout for graceful shutdown.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// ShutdownHook registers a cleanup function to run during shutdown.
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// WithContext sets the base context whose cancellation stops the server.
func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}

// WithListener serves on an existing listener instead of the Run address.
func WithListener(ln net.Listener) RunOption {
	return internal.WithListener(ln)
}

// Errors

// IsHostRoute reports whether the request targets a route registered on the App.
func IsHostRoute(ctx context.Context) bool {
	return internal.IsHostRoute(ctx)
}

// NewHTTPError creates an HTTPError.
func NewHTTPError(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.NewHTTPError(code, message, opts...)
}

// WithHeader adds a response header to an HTTPError.
func WithHeader(name, value string) HTTPErrorOption {
	return internal.WithHeader(name, value)
}

// WithError attaches the cause to an HTTPError.
func WithError(err error) HTTPErrorOption {
	return internal.WithError(err)
}
