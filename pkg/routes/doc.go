// Package routes loads the router configuration file and matches requests
// against its route table.
//
// The file lists routes in priority order. Each route has a regular
// expression source, an optional target rewrite using $1-style groups, and
// either a localDir served from disk or a destination forwarded upstream:
//
//	{
//	  "welcomeFile": "index.html",
//	  "authenticationMethod": "route",
//	  "logout": {"logoutEndpoint": "/do/logout", "logoutPage": "/logout.html"},
//	  "routes": [
//	    {"source": "^/api/(.*)$", "target": "/$1", "destination": "backend"},
//	    {"source": "^/public/(.*)$", "target": "$1", "localDir": "public", "authenticationType": "none"},
//	    {"source": "^(.*)$", "target": "$1", "localDir": "webapp",
//	     "replace": {"pathSuffixes": [".html"], "view": {"title": "Orders"}}}
//	  ]
//	}
//
// Load accepts the same structure as YAML. Routes without an
// authenticationType inherit defaultAuthenticationType (xsuaa when unset);
// authenticationMethod "none" disables authentication for every route.
//
// Table.Match returns a Descriptor, the request's internal URL. The route
// resolver middleware stores it in the request context where the login gate
// and the static resource server read it back with FromContext.
package routes
