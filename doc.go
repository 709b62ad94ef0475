// Package approuter is an application router: a single entry point that
// serves the static resources of a web application, logs users in and
// forwards API calls to backend destinations.
//
// Every request runs through a chain of named middleware slots. The stock
// chain registered by [DefaultChain] is
//
//	requestID → recover → metrics → routeResolver → loginCheck → staticResourceHandler
//
// and ends in the host routes (login callback, logout, health) or, when none
// matches, in the not-found handler, usually the destination forwarder.
//
// # Routes
//
// The route table is read from xs-app.json or xs-app.yaml at startup (see
// package routes). The routeResolver slot stores the matched route and the
// rewritten path in the request context; later slots read it with
// routes.FromContext.
//
// # Replacing slots
//
// Slots are addressed by name, never by position. Production wiring swaps
// the stock login check and static handler:
//
//	gate, _ := logingate.New(logingate.Config{Realm: cfg.App.Realm()}, logingate.Deps{
//	    Provider:  provider,
//	    AuthCodes: codes,
//	})
//	static := staticfiles.New(staticfiles.Config{WorkingDir: cfg.WorkingDir})
//
//	app := approuter.New(
//	    approuter.DefaultChain(table, cfg.WorkingDir),
//	    approuter.WithMiddlewareOverride(approuter.SlotLoginCheck, gate.Middleware()),
//	    approuter.WithMiddlewareOverride(approuter.SlotStaticResource, static.Middleware()),
//	)
//
// Overriding a slot that was never registered panics with [ErrSlotNotFound].
//
// # Errors
//
// Slots and handlers return errors instead of writing failure responses.
// An [HTTPError] carries the status code and any headers (WWW-Authenticate,
// X-Login-Required); the default error handler writes them verbatim. Other
// errors become 500.
//
// # Shutdown
//
// Run handles SIGINT/SIGTERM for graceful shutdown. Register cleanup with
// ShutdownHook:
//
//	err := app.Run(cfg.Address(),
//	    approuter.Logger(log),
//	    approuter.ShutdownHook(redis.Shutdown(client)),
//	)
package approuter
