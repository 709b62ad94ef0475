package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/cbroglie/mustache"
	"golang.org/x/oauth2"

	"github.com/dmitrymomot/approuter/internal"
	"github.com/dmitrymomot/approuter/pkg/id"
	"github.com/dmitrymomot/approuter/pkg/logingate"
	"github.com/dmitrymomot/approuter/pkg/oauth"
)

const (
	stateCookie    = "approuter_login"
	fragmentCookie = "approuter_fragment"
	stateMaxAge    = 600
	stateBytes     = 24
)

// loginState survives the identity provider round trip in a signed cookie.
type loginState struct {
	State    string `json:"s"`
	Provider string `json:"p"`
	Return   string `json:"r"`
}

// fragmentPage stores location.hash in a cookie before leaving for the
// identity provider, so the callback can restore it.
var fragmentPage = mustParse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="approuter-login" content="{{authURL}}">
<title>Redirecting</title>
</head>
<body>
<script>
if (location.hash) {
  document.cookie = "{{cookie}}=" + encodeURIComponent(location.hash) + "; path=/; max-age={{maxAge}}; SameSite=Lax";
}
location.replace(document.querySelector('meta[name="approuter-login"]').content);
</script>
<noscript><a href="{{authURL}}">Continue to login</a></noscript>
</body>
</html>
`)

func mustParse(src string) *mustache.Template {
	tmpl, err := mustache.ParseString(src)
	if err != nil {
		panic(err)
	}
	return tmpl
}

// OAuthAuthenticator starts the authorization code flow of one identity provider.
type OAuthAuthenticator struct {
	provider     oauth.Provider
	callbackPath string
	redirectURL  string
}

// NewOAuthAuthenticator creates an authenticator for provider. The callback
// URL is redirectURL when set, otherwise derived from the request host.
func NewOAuthAuthenticator(provider oauth.Provider, callbackPath, redirectURL string) *OAuthAuthenticator {
	return &OAuthAuthenticator{
		provider:     provider,
		callbackPath: callbackPath,
		redirectURL:  redirectURL,
	}
}

// Authenticate redirects the browser to the identity provider.
// With call.Response set and a GET request it answers with a page that
// carries the URL fragment along instead of a bare 302.
func (a *OAuthAuthenticator) Authenticate(call logingate.AuthCall) error {
	c := call.Context

	state, err := id.NewToken(stateBytes)
	if err != nil {
		return err
	}
	data, err := json.Marshal(loginState{
		State:    state,
		Provider: a.provider.Name(),
		Return:   c.Request().URL.RequestURI(),
	})
	if err != nil {
		return err
	}
	if err := c.SetCookieSigned(stateCookie, string(data), stateMaxAge); err != nil {
		return err
	}

	authURL := a.provider.AuthCodeURL(state, oauth2.SetAuthURLParam("redirect_uri", a.callbackURL(c.Request())))
	c.LogDebug("redirecting to identity provider", "provider", a.provider.Name())

	if call.Response == nil || c.Request().Method != http.MethodGet {
		return c.Redirect(http.StatusFound, authURL)
	}

	page, err := fragmentPage.Render(map[string]any{
		"authURL": authURL,
		"cookie":  fragmentCookie,
		"maxAge":  stateMaxAge,
	})
	if err != nil {
		return err
	}
	call.Response.Header().Set("Cache-Control", "no-store")
	return c.Blob(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}

func (a *OAuthAuthenticator) callbackURL(r *http.Request) string {
	if a.redirectURL != "" {
		return a.redirectURL
	}
	scheme := "http"
	if r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	return scheme + "://" + r.Host + a.callbackPath
}

var fragmentSource = internal.FromCookie(fragmentCookie)

// readState decodes and clears the login state cookie.
func readState(c internal.Context) (loginState, error) {
	raw, err := c.CookieSigned(stateCookie)
	c.DeleteCookie(stateCookie)
	if err != nil {
		return loginState{}, errors.Join(ErrInvalidState, err)
	}
	var st loginState
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return loginState{}, errors.Join(ErrInvalidState, err)
	}
	return st, nil
}

// returnTarget rebuilds the post-login URL. Only local paths are accepted.
func returnTarget(c internal.Context, st loginState) string {
	target := st.Return
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		target = "/"
	}
	if frag, ok := fragmentSource(c); ok {
		c.DeleteCookie(fragmentCookie)
		if frag, err := url.PathUnescape(frag); err == nil && strings.HasPrefix(frag, "#") && !strings.Contains(target, "#") {
			target += frag
		}
	}
	return target
}
