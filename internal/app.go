package internal

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/approuter/pkg/cookie"
	"github.com/dmitrymomot/approuter/pkg/logger"
)

// Default server timeouts (hardcoded, opinionated).
const (
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20 // 1MB
	defaultShutdownTimeout   = 30 * time.Second
)

// App orchestrates the application lifecycle.
// Every request runs through the named middleware chain first. The chain ends
// in the route table of registered handlers.
// App is immutable after creation - all configuration is done via New().
type App struct {
	router                  chi.Router
	handler                 HandlerFunc
	errorHandler            ErrorHandler
	notFoundHandler         HandlerFunc
	methodNotAllowedHandler HandlerFunc
	healthConfig            *healthConfig
	logger                  *slog.Logger
	cookieManager           *cookie.Manager
	sessionManager          *SessionManager
	chain                   Chain
	overrides               []Slot
	handlers                []Handler
	mounts                  []mount
}

// mount represents a plain http.Handler mount point.
type mount struct {
	handler http.Handler
	pattern string
}

// hostRouteKey marks requests that target a route registered on the App.
type hostRouteKey struct{}

// New creates a new application with the given options.
// Middleware overrides are applied after every slot has been registered,
// so an override may target a slot added by a later option.
// New panics if an override names a slot that does not exist.
//
// Example:
//
//	app := approuter.New(
//	    approuter.DefaultChain(table, dir),
//	    approuter.WithMiddlewareOverride(approuter.SlotLoginCheck, gate.Middleware()),
//	    approuter.WithHandlers(callbackHandler),
//	)
func New(opts ...Option) *App {
	a := &App{
		router:        chi.NewRouter(),
		logger:        logger.NewNope(), // Default: noop logger (before options)
		cookieManager: cookie.New(),     // Default: cookie manager (no secret)
		errorHandler:  DefaultErrorHandler,
	}

	for _, opt := range opts {
		opt(a)
	}

	for _, o := range a.overrides {
		if err := a.chain.Replace(o.Name, o.Middleware); err != nil {
			panic(err)
		}
	}

	a.setupRoutes()
	a.handler = a.chain.Then(a.dispatch)
	return a
}

// Router returns the underlying chi.Router holding the registered handlers.
func (a *App) Router() chi.Router {
	return a.router
}

// MiddlewareNames returns the chain's slot names in execution order.
func (a *App) MiddlewareNames() []string {
	return a.chain.Names()
}

// ServeHTTP runs the request through the middleware chain and the route table.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if a.router.Match(chi.NewRouteContext(), r.Method, r.URL.Path) {
		r = r.WithContext(context.WithValue(r.Context(), hostRouteKey{}, true))
	}

	c := newContext(w, r, a)
	if err := a.handler(c); err != nil {
		a.handleError(c, err)
	}
}

// IsHostRoute reports whether the request targets a handler registered on the App
// (login callback, logout, health, metrics) rather than the route table.
func IsHostRoute(ctx context.Context) bool {
	v, _ := ctx.Value(hostRouteKey{}).(bool)
	return v
}

// Run starts the HTTP server and blocks until shutdown.
//
// Example:
//
//	app := approuter.New(approuter.DefaultChain(table, dir))
//	err := app.Run(":5000", approuter.Logger(log))
func (a *App) Run(addr string, opts ...RunOption) error {
	cfg := buildRunConfig(opts...)

	return runServer(runtimeConfig{
		handler:         a,
		address:         addr,
		logger:          cfg.logger,
		shutdownTimeout: cfg.shutdownTimeout,
		shutdownHooks:   cfg.shutdownHooks,
		baseCtx:         cfg.baseCtx,
		listener:        cfg.listener,
	})
}

// dispatch is the end of the chain. It hands the request to the route table.
func (a *App) dispatch(c Context) error {
	a.router.ServeHTTP(c.Response(), c.Request())
	return nil
}

// setupRoutes configures the router with handlers.
func (a *App) setupRoutes() {
	notFound := a.notFoundHandler
	if notFound == nil {
		notFound = func(Context) error {
			return ErrNotFound(http.StatusText(http.StatusNotFound))
		}
	}
	a.router.NotFound(a.wrapHandler(notFound))

	if a.methodNotAllowedHandler != nil {
		a.router.MethodNotAllowed(a.wrapHandler(a.methodNotAllowedHandler))
	}

	for _, m := range a.mounts {
		a.router.Mount(m.pattern, m.handler)
	}

	if a.healthConfig != nil {
		a.router.Get(a.healthConfig.livenessPath, livenessHandler())
		a.router.Get(a.healthConfig.readinessPath, readinessHandler(a.healthConfig.checks, a.logger))
	}

	r := &routerAdapter{router: a.router, app: a}
	for _, h := range a.handlers {
		h.Routes(r)
	}
}

// wrapHandler converts a HandlerFunc to http.HandlerFunc using the app's error handler.
func (a *App) wrapHandler(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := newContext(w, r, a)
		if err := h(c); err != nil {
			a.handleError(c, err)
		}
	}
}

// handleError handles errors from handlers using the configured error handler.
func (a *App) handleError(c Context, err error) {
	if c.Written() {
		c.LogWarn("error after response was written", slog.Any("error", err))
		return
	}
	if a.errorHandler != nil {
		if herr := a.errorHandler(c, err); herr != nil {
			c.LogError("error handler failed", slog.Any("error", herr))
		}
		return
	}
	http.Error(c.Response(), http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// healthConfig holds health check endpoint configuration.
type healthConfig struct {
	checks        healthChecks
	livenessPath  string
	readinessPath string
}

// Default health check paths.
const (
	defaultLivenessPath  = "/health/live"
	defaultReadinessPath = "/health/ready"
)

// HealthOption configures health check endpoints.
type HealthOption func(*healthConfig)

// WithLivenessPath sets a custom liveness endpoint path.
// Defaults to "/health/live".
func WithLivenessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.livenessPath = path
		}
	}
}

// WithReadinessPath sets a custom readiness endpoint path.
// Defaults to "/health/ready".
func WithReadinessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.readinessPath = path
		}
	}
}

// WithReadinessCheck adds a named readiness check.
// Checks run in parallel during readiness probe.
//
// Example:
//
//	approuter.WithReadinessCheck("redis", redis.Healthcheck(client))
func WithReadinessCheck(name string, fn CheckFunc) HealthOption {
	return func(c *healthConfig) {
		if c.checks == nil {
			c.checks = make(healthChecks)
		}
		c.checks[name] = fn
	}
}
