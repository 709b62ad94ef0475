package middlewares

import (
	"github.com/dmitrymomot/approuter/internal"
	"github.com/dmitrymomot/approuter/pkg/routes"
)

// RouteResolver returns middleware that matches the request against the
// route table and stores the resulting descriptor in the request context.
// Requests for "/" resolve the welcome file when one is configured.
// Host routes (login callback, logout, health) are never resolved.
func RouteResolver(table *routes.Table) internal.Middleware {
	welcome := table.WelcomeFile()

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			if internal.IsHostRoute(c.Context()) {
				return next(c)
			}

			path := c.Request().URL.Path
			if path == "/" && welcome != "" {
				path = "/" + welcome
			}

			d, ok := table.Match(c.Request().Method, path)
			if !ok {
				c.LogDebug("no route matched", "path", path)
				return next(c)
			}

			c.SetContext(routes.WithDescriptor(c.Context(), d))
			return next(c)
		}
	}
}
