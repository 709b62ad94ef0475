package middlewares

import (
	"github.com/dmitrymomot/approuter/internal"
	"github.com/dmitrymomot/approuter/pkg/logingate"
	"github.com/dmitrymomot/approuter/pkg/routes"
)

// LoginCheck is the stock loginCheck slot: requests to routes that need a
// user are rejected with 401 unless the session is authenticated.
// Production wiring replaces it with the login gate.
func LoginCheck() internal.Middleware {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			d, _ := routes.FromContext(c.Context())
			if d.AuthenticationType() == routes.AuthNone || c.IsAuthenticated() {
				return next(c)
			}
			return internal.ErrUnauthorized("Authentication required",
				internal.WithHeader(logingate.HeaderLoginRequired, "true"))
		}
	}
}
