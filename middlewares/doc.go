// Package middlewares provides the stock slots of the approuter request chain.
//
// approuter.DefaultChain registers them in this order:
//
//	requestID             RequestID
//	recover               Recover
//	metrics               Metrics
//	routeResolver         RouteResolver
//	loginCheck            LoginCheck
//	staticResourceHandler StaticFiles
//
// # Request ID
//
// RequestID reuses an upstream X-Request-ID (or X-Correlation-ID,
// X-Vcap-Request-Id) and generates a ULID otherwise. Pair it with
// RequestIDExtractor so every log line of the request carries request_id:
//
//	app := approuter.New(
//	    approuter.WithLogger("approuter", middlewares.RequestIDExtractor()),
//	    approuter.DefaultChain(table, dir),
//	)
//
// # Recover
//
// Recover turns panics into a 500 HTTPError wrapping a *PanicError.
//
// # Route resolution
//
// RouteResolver stores the matched routes.Descriptor in the request context.
// Later slots read it with routes.FromContext.
//
// # Login check and static files
//
// LoginCheck and StaticFiles are minimal implementations meant to be
// overridden by name:
//
//	approuter.WithMiddlewareOverride(approuter.SlotLoginCheck, gate.Middleware())
//	approuter.WithMiddlewareOverride(approuter.SlotStaticResource, static.Middleware())
package middlewares
