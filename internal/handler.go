package internal

// Handler declares routes on a router.
//
// Example:
//
//	type LogoutHandler struct {
//	    endpoint string
//	}
//
//	func (h *LogoutHandler) Routes(r approuter.Router) {
//	    r.GET(h.endpoint, h.logout)
//	}
type Handler interface {
	Routes(r Router)
}

// HandlerFunc is the signature for route handlers.
// It receives a Context and returns an error.
// Returning a non-nil error triggers the error handler.
type HandlerFunc func(c Context) error

// Middleware wraps a HandlerFunc to add cross-cutting concerns.
// Middleware can inspect or annotate the request, short-circuit processing
// by returning an error or writing a response, or continue with next.
//
// Example:
//
//	func RequireHTTPS(next approuter.HandlerFunc) approuter.HandlerFunc {
//	    return func(c approuter.Context) error {
//	        if c.Request().TLS == nil {
//	            return c.Error(http.StatusForbidden, "https required")
//	        }
//	        return next(c)
//	    }
//	}
type Middleware func(next HandlerFunc) HandlerFunc

// ErrorHandler handles errors returned from handlers and middleware.
type ErrorHandler func(Context, error) error
