package middlewares

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrymomot/approuter/internal"
	"github.com/dmitrymomot/approuter/pkg/metrics"
)

// Metrics returns middleware that records request count, latency and
// in-flight requests. Errors not yet rendered are counted with the status
// the error handler will write.
func Metrics() internal.Middleware {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			metrics.HTTPRequestsInFlight.Inc()
			defer metrics.HTTPRequestsInFlight.Dec()

			start := time.Now()
			err := next(c)

			status := c.ResponseWriter().Status()
			if err != nil && !c.Written() {
				status = http.StatusInternalServerError
				if he := internal.AsHTTPError(err); he != nil && he.Code >= 400 && he.Code <= 599 {
					status = he.Code
				}
			}

			labels := []string{c.Request().Method, strconv.Itoa(status)}
			metrics.HTTPRequestsTotal.WithLabelValues(labels...).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
