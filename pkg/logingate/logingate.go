package logingate

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/approuter/internal"
	"github.com/dmitrymomot/approuter/pkg/metrics"
	"github.com/dmitrymomot/approuter/pkg/routes"
)

// ErrUnauthorized is returned by LoginProvider.Authenticator when the request
// must answer a Basic authentication challenge.
var ErrUnauthorized = errors.New("logingate: unauthorized")

// ErrNoProvider is returned by New when Deps.Provider is nil.
var ErrNoProvider = errors.New("logingate: login provider is required")

// ErrNoAuthCodes is returned by New without an authorization code redeemer.
var ErrNoAuthCodes = errors.New("logingate: authorization code sessions are required")

const (
	// AuthCodeParam is the query parameter carrying a single-use authorization code.
	AuthCodeParam = "approuterAuthCode"

	// HeaderLoginRequired tells script clients to navigate to login instead of retrying.
	HeaderLoginRequired = "X-Login-Required"
)

// Decision labels, also used as metric label values.
const (
	DecisionPassthrough   = "passthrough"
	DecisionExchangeToken = "exchange_token"
	DecisionAuthCode      = "auth_code"
	DecisionLoginRequired = "login_required"
	DecisionChallenge     = "basic_challenge"
	DecisionError         = "error"
	DecisionAuthenticate  = "authenticate"
)

// Config holds the gate's process-wide flags.
type Config struct {
	// Realm is presented in WWW-Authenticate challenges.
	Realm string
	// LogoutWithoutSessionTriggersLogin makes logout requests go through login.
	LogoutWithoutSessionTriggersLogin bool
	// PreserveFragment passes the response to authenticators so they can
	// restore the URL fragment after the identity provider round trip.
	PreserveFragment bool
}

// AuthCall is handed to an Authenticator.
type AuthCall struct {
	Context internal.Context
	// Response is nil when fragment preservation is disabled.
	Response http.ResponseWriter
	Next     internal.HandlerFunc
}

// Continue runs the rest of the chain.
func (a AuthCall) Continue() error {
	return a.Next(a.Context)
}

// Authenticator runs an interactive or credential-based login for one request.
// It either writes a response (a redirect) or calls Continue.
type Authenticator func(call AuthCall) error

// LoginProvider answers the gate's questions about a request.
type LoginProvider interface {
	IsLoginRequired(c internal.Context) bool
	IsExchangeTokenRequired(c internal.Context) bool
	ExchangeToken(c internal.Context, next internal.HandlerFunc) error
	// Authenticator returns ErrUnauthorized (possibly wrapped) when the
	// request must be challenged for Basic credentials.
	Authenticator(c internal.Context) (Authenticator, error)
}

// AuthCodeSessions creates a session from a single-use authorization code.
type AuthCodeSessions interface {
	CreateSessionByAuthCode(c internal.Context, code string, next internal.HandlerFunc) error
}

// Deps are the gate's collaborators. Provider and AuthCodes are required;
// nil functions get defaults.
type Deps struct {
	Provider  LoginProvider
	AuthCodes AuthCodeSessions

	// IsLogoutRequest defaults to never.
	IsLogoutRequest func(c internal.Context) bool
	// AuthenticationType defaults to the type of the resolved route.
	AuthenticationType func(c internal.Context) routes.AuthType
	// IsAjaxRequest defaults to X-Requested-With: XMLHttpRequest.
	IsAjaxRequest func(c internal.Context) bool
}

// Gate decides per request whether login must run before the chain continues.
type Gate struct {
	authCode internal.Extractor
	cfg      Config
	deps     Deps
}

// New creates a Gate. It returns ErrNoProvider or ErrNoAuthCodes when a
// required dependency is missing.
func New(cfg Config, deps Deps) (*Gate, error) {
	if deps.Provider == nil {
		return nil, ErrNoProvider
	}
	if deps.AuthCodes == nil {
		return nil, ErrNoAuthCodes
	}
	if deps.IsLogoutRequest == nil {
		deps.IsLogoutRequest = func(internal.Context) bool { return false }
	}
	if deps.AuthenticationType == nil {
		deps.AuthenticationType = RouteAuthenticationType
	}
	if deps.IsAjaxRequest == nil {
		deps.IsAjaxRequest = IsAjaxRequest
	}
	return &Gate{
		authCode: internal.NewExtractor(internal.FromQuery(AuthCodeParam)),
		cfg:      cfg,
		deps:     deps,
	}, nil
}

// Middleware returns the gate as a chain slot implementation.
func (g *Gate) Middleware() internal.Middleware {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			return g.Check(c, next)
		}
	}
}

// Check runs the decision sequence for one request:
//
//  1. no login and no token exchange needed, or a logout request while
//     logout without session does not trigger login: continue
//  2. token exchange needed: exchange and continue
//  3. approuterAuthCode present: create the session from the code
//  4. non-GET on xsuaa/ias routes, or an AJAX call: 401 with X-Login-Required
//  5. otherwise resolve and run the authenticator; ErrUnauthorized becomes a
//     401 Basic challenge, other resolution errors propagate
func (g *Gate) Check(c internal.Context, next internal.HandlerFunc) error {
	p := g.deps.Provider

	if (!p.IsLoginRequired(c) && !p.IsExchangeTokenRequired(c)) ||
		(g.deps.IsLogoutRequest(c) && !g.cfg.LogoutWithoutSessionTriggersLogin) {
		g.record(c, DecisionPassthrough)
		return next(c)
	}

	if p.IsExchangeTokenRequired(c) {
		g.record(c, DecisionExchangeToken)
		return p.ExchangeToken(c, next)
	}

	if code, ok := g.authCode.Extract(c); ok {
		g.record(c, DecisionAuthCode)
		return g.deps.AuthCodes.CreateSessionByAuthCode(c, code, next)
	}

	authType := g.deps.AuthenticationType(c)
	if (c.Request().Method != http.MethodGet && authType.Protected()) || g.deps.IsAjaxRequest(c) {
		g.record(c, DecisionLoginRequired, slog.String("auth_type", string(authType)))
		return internal.ErrUnauthorized("Authentication required",
			internal.WithHeader(HeaderLoginRequired, "true"))
	}

	authenticate, err := p.Authenticator(c)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			g.record(c, DecisionChallenge)
			return internal.ErrUnauthorized("Authentication required",
				internal.WithHeader("WWW-Authenticate", `Basic realm="`+g.cfg.Realm+`"`),
				internal.WithError(err))
		}
		g.record(c, DecisionError, slog.Any("error", err))
		return err
	}

	call := AuthCall{Context: c, Next: next}
	if g.cfg.PreserveFragment {
		call.Response = c.Response()
	}
	g.record(c, DecisionAuthenticate, slog.String("auth_type", string(authType)))
	return authenticate(call)
}

func (g *Gate) record(c internal.Context, decision string, attrs ...any) {
	metrics.LoginGateDecisions.WithLabelValues(decision).Inc()
	attrs = append(attrs,
		slog.String("decision", decision),
		slog.String("method", c.Request().Method),
		slog.String("path", c.Request().URL.Path))
	c.LogDebug("login check", attrs...)
}

// RouteAuthenticationType returns the authentication type of the route
// resolved for the request, or "none" when no route matched.
func RouteAuthenticationType(c internal.Context) routes.AuthType {
	d, _ := routes.FromContext(c.Context())
	return d.AuthenticationType()
}

// IsAjaxRequest reports whether the request was sent by a script.
func IsAjaxRequest(c internal.Context) bool {
	return c.Header("X-Requested-With") == "XMLHttpRequest"
}
