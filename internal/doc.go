// Package internal provides the core types behind the approuter package.
//
// This package is internal and should not be used directly. Import
// "github.com/dmitrymomot/approuter" instead, which re-exports the public API.
//
// # Core Types
//
//   - App: owns the request chain, the host router and graceful shutdown
//   - Chain: ordered, named middleware slots that can be replaced by name
//   - Context: request/response access, cookies and the browser session
//   - Router: interface handlers use to declare host routes
//   - HTTPError: a failure rendered by the error handler with status and headers
//
// # Request flow
//
// Every request enters App.ServeHTTP. Requests matching a host route
// (login callback, logout, health, metrics) are marked so that chain
// slots can tell them apart from route-table traffic (see IsHostRoute).
// The request then runs through the chain slots in registration order.
// The end of the chain dispatches to the host router, whose NotFound
// handler forwards everything else.
//
// # Context as context.Context
//
// Context embeds context.Context, so it can be passed directly to any
// function that expects a standard library context:
//
//	func (h *Handlers) logout(c approuter.Context) error {
//	    if err := c.DestroySession(); err != nil {
//	        return err
//	    }
//	    return c.Redirect(http.StatusFound, h.logoutPage)
//	}
//
// A Context created for a request is reused for the whole chain, so the
// session loaded by one slot is visible to the next.
//
// # Sessions
//
// With WithSession configured, the session is loaded lazily from the
// session cookie. Loading a session pushes its expiry forward. Dirty
// sessions are persisted right before the first response byte is written.
// AuthenticateSession rotates the token to prevent fixation.
package internal
