package auth

import (
	"fmt"

	"github.com/dmitrymomot/approuter/internal"
	"github.com/dmitrymomot/approuter/pkg/logingate"
	"github.com/dmitrymomot/approuter/pkg/oauth"
	"github.com/dmitrymomot/approuter/pkg/routes"
)

const (
	// ExchangeHeader carries the bearer token exchanged for a session.
	ExchangeHeader = "X-Approuter-Authorization"

	// DefaultCallbackPath is where identity providers send the browser back.
	DefaultCallbackPath = "/login/callback"
)

// Provider answers the login gate's questions from the resolved route,
// the session and the configured identity providers.
type Provider struct {
	tokens       *TokenVerifier
	basic        *BasicAuthenticator
	oauth        map[routes.AuthType]*OAuthAuthenticator
	exchange     internal.Extractor
	callbackPath string
}

var _ logingate.LoginProvider = (*Provider)(nil)

// Option configures a Provider.
type Option func(*Provider)

// WithCallbackPath sets the OAuth callback path. Defaults to /login/callback.
func WithCallbackPath(path string) Option {
	return func(p *Provider) {
		if path != "" {
			p.callbackPath = path
		}
	}
}

// WithTokenVerifier enables token exchange.
func WithTokenVerifier(v *TokenVerifier) Option {
	return func(p *Provider) {
		p.tokens = v
	}
}

// WithBasicAuthenticator serves routes with authenticationType "basic".
func WithBasicAuthenticator(b *BasicAuthenticator) Option {
	return func(p *Provider) {
		p.basic = b
	}
}

// WithIdentityProvider serves routes whose authenticationType equals the
// provider's name. redirectURL may be empty.
func WithIdentityProvider(ip oauth.Provider, redirectURL string) Option {
	return func(p *Provider) {
		p.oauth[routes.AuthType(ip.Name())] = NewOAuthAuthenticator(ip, "", redirectURL)
	}
}

// NewProvider creates a Provider.
//
// Example:
//
//	xsuaa, _ := oauth.NewProvider("xsuaa", cfg.XSUAA)
//	p := auth.NewProvider(
//	    auth.WithIdentityProvider(xsuaa, cfg.XSUAA.RedirectURL),
//	    auth.WithBasicAuthenticator(basic),
//	)
func NewProvider(opts ...Option) *Provider {
	p := &Provider{
		oauth:        make(map[routes.AuthType]*OAuthAuthenticator),
		exchange:     internal.NewExtractor(internal.FromBearerToken(ExchangeHeader)),
		callbackPath: DefaultCallbackPath,
	}
	for _, opt := range opts {
		opt(p)
	}
	for _, a := range p.oauth {
		a.callbackPath = p.callbackPath
	}
	return p
}

// CallbackPath returns the OAuth callback path.
func (p *Provider) CallbackPath() string {
	return p.callbackPath
}

// IsLoginRequired reports whether the route needs a user and the session has none.
func (p *Provider) IsLoginRequired(c internal.Context) bool {
	d, ok := routes.FromContext(c.Context())
	if !ok || d.AuthenticationType() == routes.AuthNone {
		return false
	}
	if d.Route != nil && !d.Route.AllowsMethod(c.Request().Method) {
		return false
	}
	if c.Request().URL.Path == p.callbackPath {
		return false
	}
	return !c.IsAuthenticated()
}

// IsExchangeTokenRequired reports whether an unauthenticated request to an
// identity provider route carries an exchange token.
func (p *Provider) IsExchangeTokenRequired(c internal.Context) bool {
	if p.tokens == nil || !logingate.RouteAuthenticationType(c).Protected() {
		return false
	}
	if _, ok := p.exchange.Extract(c); !ok {
		return false
	}
	return !c.IsAuthenticated()
}

// ExchangeToken authenticates the session as the token's subject and continues.
func (p *Provider) ExchangeToken(c internal.Context, next internal.HandlerFunc) error {
	raw, ok := p.exchange.Extract(c)
	if !ok || p.tokens == nil {
		return internal.ErrUnauthorized("Invalid token", internal.WithError(ErrInvalidToken))
	}
	subject, err := p.tokens.Verify(raw)
	if err != nil {
		return internal.ErrUnauthorized("Invalid token", internal.WithError(err))
	}
	if err := c.AuthenticateSession(subject); err != nil {
		return err
	}
	c.LogInfo("exchange token accepted", "user", subject)
	return next(c)
}

// Authenticator resolves the login flow for the route's authentication type.
func (p *Provider) Authenticator(c internal.Context) (logingate.Authenticator, error) {
	authType := logingate.RouteAuthenticationType(c)
	switch authType {
	case routes.AuthBasic:
		if p.basic == nil {
			return nil, fmt.Errorf("%w: %w", logingate.ErrUnauthorized, ErrInvalidCredentials)
		}
		return p.basic.Resolve(c)
	case routes.AuthXSUAA, routes.AuthIAS:
		a, ok := p.oauth[authType]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNoIdentityProvider, authType)
		}
		return a.Authenticate, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAuthType, authType)
	}
}

// identityProvider returns the provider registered under name.
func (p *Provider) identityProvider(name string) (*OAuthAuthenticator, bool) {
	a, ok := p.oauth[routes.AuthType(name)]
	return a, ok
}
