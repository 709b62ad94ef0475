// Package metrics declares the router's Prometheus collectors.
//
// Collectors are registered on the default registry at package init and
// exposed by Handler, which the binary mounts at /metrics:
//
//	approuter.WithHTTPHandler("/metrics", metrics.Handler())
//
// Label values are bounded: HTTP metrics are labelled by method and status
// only, never by path.
package metrics
