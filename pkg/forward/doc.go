// Package forward proxies requests to the destination named by their route.
//
// Destinations come from the DESTINATIONS environment variable:
//
//	DESTINATIONS='[{"name":"backend","url":"http://orders.internal:8080"}]'
//
// The forwarder is installed as the app's not-found handler, so it only sees
// requests that passed the whole middleware chain without being served
// locally. The upstream path is the route descriptor's rewritten Pathname and
// the authenticated user travels in the X-Approuter-User header; any
// client-supplied value of that header is dropped.
package forward
