package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/approuter/internal"
	"github.com/dmitrymomot/approuter/middlewares"
	"github.com/dmitrymomot/approuter/pkg/metrics"
)

// Not parallel: the collectors are process-wide.
func TestMetrics(t *testing.T) {
	slot := internal.Slot{Name: internal.SlotMetrics, Middleware: middlewares.Metrics()}

	t.Run("written responses", func(t *testing.T) {
		counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodPut, "202")
		before := testutil.ToFloat64(counter)

		serve(t, httptest.NewRequest(http.MethodPut, "/", nil), func(c internal.Context) error {
			return c.NoContent(http.StatusAccepted)
		}, slot)

		assert.Equal(t, before+1, testutil.ToFloat64(counter))
	})

	t.Run("returned errors", func(t *testing.T) {
		counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodPatch, "401")
		before := testutil.ToFloat64(counter)

		app := internal.New(
			internal.WithNamedMiddleware(slot.Name, slot.Middleware),
			internal.WithNamedMiddleware("deny", func(internal.HandlerFunc) internal.HandlerFunc {
				return func(internal.Context) error { return internal.ErrUnauthorized("no") }
			}),
		)
		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, before+1, testutil.ToFloat64(counter))
	})

	t.Run("in flight gauge settles", func(t *testing.T) {
		before := testutil.ToFloat64(metrics.HTTPRequestsInFlight)
		var during float64

		serve(t, httptest.NewRequest(http.MethodGet, "/", nil), func(c internal.Context) error {
			during = testutil.ToFloat64(metrics.HTTPRequestsInFlight)
			return ok(c)
		}, slot)

		assert.Equal(t, before+1, during)
		assert.Equal(t, before, testutil.ToFloat64(metrics.HTTPRequestsInFlight))
	})
}
