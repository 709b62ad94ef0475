package routes

import "context"

// Descriptor is the resolved internal URL of a request.
type Descriptor struct {
	Route *Route
	// Pathname is the request path after the route target was applied.
	Pathname string
	// Original is the request path before rewriting.
	Original string
	authType AuthType
}

// AuthenticationType returns the effective authentication type of the route,
// with the table default and authenticationMethod "none" applied.
func (d *Descriptor) AuthenticationType() AuthType {
	if d == nil {
		return AuthNone
	}
	return d.authType
}

// LocalDir returns the route's local directory or "".
func (d *Descriptor) LocalDir() string {
	if d == nil || d.Route == nil {
		return ""
	}
	return d.Route.LocalDir
}

type descriptorKey struct{}

// WithDescriptor stores d in ctx.
func WithDescriptor(ctx context.Context, d *Descriptor) context.Context {
	return context.WithValue(ctx, descriptorKey{}, d)
}

// FromContext returns the descriptor stored by the route resolver.
func FromContext(ctx context.Context) (*Descriptor, bool) {
	d, ok := ctx.Value(descriptorKey{}).(*Descriptor)
	return d, ok && d != nil
}
