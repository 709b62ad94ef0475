package auth

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/approuter/internal"
	"github.com/dmitrymomot/approuter/pkg/session"
)

// DefaultAuthCodePath issues authorization codes for the current user.
const DefaultAuthCodePath = "/approuter/auth-code"

// Handlers serves the login callback, the logout endpoint and the
// authorization code endpoint on the host router.
type Handlers struct {
	provider       *Provider
	codes          *CodeStore
	logoutEndpoint string
	logoutPage     string
}

// HandlersConfig configures the host routes. Empty LogoutEndpoint disables
// logout; nil Codes disables the authorization code endpoint.
type HandlersConfig struct {
	Codes          *CodeStore
	LogoutEndpoint string
	LogoutPage     string
}

// NewHandlers creates the host routes for p.
func NewHandlers(p *Provider, cfg HandlersConfig) *Handlers {
	page := cfg.LogoutPage
	if page == "" {
		page = "/"
	}
	return &Handlers{
		provider:       p,
		codes:          cfg.Codes,
		logoutEndpoint: cfg.LogoutEndpoint,
		logoutPage:     page,
	}
}

func (h *Handlers) Routes(r internal.Router) {
	r.GET(h.provider.CallbackPath(), h.callback)
	if h.logoutEndpoint != "" {
		r.GET(h.logoutEndpoint, h.logout)
		r.POST(h.logoutEndpoint, h.logout)
	}
	if h.codes != nil {
		r.GET(DefaultAuthCodePath, h.issueCode)
	}
}

func (h *Handlers) callback(c internal.Context) error {
	st, err := readState(c)
	if err != nil {
		return internal.ErrBadRequest("Invalid login state", internal.WithError(err))
	}
	if st.State == "" || c.Query("state") != st.State {
		return internal.ErrBadRequest("Invalid login state", internal.WithError(ErrInvalidState))
	}

	a, ok := h.provider.identityProvider(st.Provider)
	if !ok {
		return internal.ErrBadRequest("Invalid login state", internal.WithError(ErrNoIdentityProvider))
	}

	if e := c.Query("error"); e != "" {
		return internal.ErrUnauthorized("Login failed",
			internal.WithError(ErrLoginFailed), internal.WithDetail(e+": "+c.Query("error_description")))
	}
	code := c.Query("code")
	if code == "" {
		return internal.ErrBadRequest("Missing authorization code", internal.WithError(ErrLoginFailed))
	}

	token, err := a.provider.Exchange(c.Context(), code, a.callbackURL(c.Request()))
	if err != nil {
		return internal.ErrUnauthorized("Login failed", internal.WithError(errors.Join(ErrLoginFailed, err)))
	}
	info, err := a.provider.FetchUserInfo(c.Context(), token)
	if err != nil {
		return internal.ErrUnauthorized("Login failed", internal.WithError(errors.Join(ErrLoginFailed, err)))
	}

	if err := c.AuthenticateSession(info.ID); err != nil {
		return err
	}
	c.LogInfo("user logged in", "provider", st.Provider, "user", info.ID)
	return c.Redirect(http.StatusFound, returnTarget(c, st))
}

func (h *Handlers) logout(c internal.Context) error {
	if err := c.DestroySession(); err != nil && !errors.Is(err, session.ErrNotConfigured) {
		return err
	}
	return c.Redirect(http.StatusFound, h.logoutPage)
}

func (h *Handlers) issueCode(c internal.Context) error {
	userID := c.UserID()
	if userID == "" {
		return internal.ErrUnauthorized("Authentication required", internal.WithError(ErrNotAuthenticated))
	}
	code, err := h.codes.Issue(c.Context(), userID)
	if err != nil {
		return err
	}
	c.SetHeader("Cache-Control", "no-store")
	return c.JSON(http.StatusOK, map[string]string{"code": code})
}
