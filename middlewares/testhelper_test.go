package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/approuter/internal"
	"github.com/dmitrymomot/approuter/pkg/routes"
)

// serve runs req through an app whose chain holds slots in order and ends
// in final.
func serve(t *testing.T, req *http.Request, final internal.HandlerFunc, slots ...internal.Slot) *httptest.ResponseRecorder {
	t.Helper()
	opts := make([]internal.Option, 0, len(slots)+1)
	for _, s := range slots {
		opts = append(opts, internal.WithNamedMiddleware(s.Name, s.Middleware))
	}
	if final != nil {
		opts = append(opts, internal.WithNotFoundHandler(final))
	}
	rec := httptest.NewRecorder()
	internal.New(opts...).ServeHTTP(rec, req)
	return rec
}

func ok(c internal.Context) error {
	return c.String(http.StatusOK, "ok")
}

// resolveWith stores the descriptor table.Match returns for the request.
func resolveWith(t *testing.T, cfg routes.Config) internal.Slot {
	t.Helper()
	tbl, err := routes.New(cfg)
	require.NoError(t, err)
	return internal.Slot{Name: internal.SlotRouteResolver, Middleware: func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			if d, ok := tbl.Match(c.Request().Method, c.Request().URL.Path); ok {
				c.SetContext(routes.WithDescriptor(c.Context(), d))
			}
			return next(c)
		}
	}}
}
