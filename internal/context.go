package internal

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/approuter/pkg/cookie"
	"github.com/dmitrymomot/approuter/pkg/session"
)

// Context is the per-request value passed through the chain and to handlers.
// It is also a context.Context backed by the current request context.
type Context interface {
	context.Context

	Request() *http.Request
	Response() http.ResponseWriter
	// ResponseWriter exposes status and size of the response.
	ResponseWriter() *ResponseWriter
	Context() context.Context

	// SetContext replaces the request context. ctx should derive from Context().
	SetContext(ctx context.Context)
	// Set stores a request-scoped value; Get and Value read it back.
	Set(key, value any)
	Get(key any) any

	Query(name string) string
	Header(name string) string
	SetHeader(name, value string)

	JSON(code int, v any) error
	String(code int, s string) error
	// Blob writes data as is. An empty contentType leaves the header untouched.
	Blob(code int, contentType string, data []byte) error
	NoContent(code int) error
	Redirect(code int, url string) error
	// Error builds an HTTPError to return from a handler. Nothing is written.
	Error(code int, message string, opts ...HTTPErrorOption) *HTTPError
	// Written reports whether the response header has been committed.
	Written() bool

	LogDebug(msg string, attrs ...any)
	LogInfo(msg string, attrs ...any)
	LogWarn(msg string, attrs ...any)
	LogError(msg string, attrs ...any)

	Cookie(name string) (string, error)
	DeleteCookie(name string)
	// CookieSigned and SetCookieSigned return cookie.ErrNoSecret without
	// a configured secret.
	CookieSigned(name string) (string, error)
	SetCookieSigned(name, value string, maxAge int) error

	// UserID is the user bound to the session, or "".
	UserID() string
	IsAuthenticated() bool

	// Session loads the request's session once. It returns nil, nil without
	// a session cookie and session.ErrNotConfigured without WithSession.
	Session() (*session.Session, error)
	// AuthenticateSession binds userID to the session, creating one if
	// needed, and rotates its token.
	AuthenticateSession(userID string) error
	// DestroySession deletes the session from the store and clears the cookie.
	DestroySession() error
}

// requestContextKey carries the *requestContext through the request context,
// so handlers behind the router see the context the chain built.
type requestContextKey struct{}

type requestContext struct {
	w       *ResponseWriter
	r       *http.Request
	log     *slog.Logger
	cookies *cookie.Manager

	sessions        *SessionManager
	sess            *session.Session
	sessLoaded      bool
	flushRegistered bool
}

// newContext returns the request's context, creating it on first use.
func newContext(w http.ResponseWriter, r *http.Request, app *App) *requestContext {
	if c, ok := r.Context().Value(requestContextKey{}).(*requestContext); ok {
		c.r = r
		return c
	}

	rw, ok := w.(*ResponseWriter)
	if !ok {
		rw = NewResponseWriter(w)
	}
	c := &requestContext{
		w:        rw,
		log:      app.logger,
		cookies:  app.cookieManager,
		sessions: app.sessionManager,
	}
	c.r = r.WithContext(context.WithValue(r.Context(), requestContextKey{}, c))
	return c
}

func (c *requestContext) Request() *http.Request          { return c.r }
func (c *requestContext) Response() http.ResponseWriter   { return c.w }
func (c *requestContext) ResponseWriter() *ResponseWriter { return c.w }
func (c *requestContext) Context() context.Context        { return c.r.Context() }

func (c *requestContext) Deadline() (time.Time, bool) { return c.r.Context().Deadline() }
func (c *requestContext) Done() <-chan struct{}       { return c.r.Context().Done() }
func (c *requestContext) Err() error                  { return c.r.Context().Err() }
func (c *requestContext) Value(key any) any           { return c.r.Context().Value(key) }

func (c *requestContext) SetContext(ctx context.Context) {
	c.r = c.r.WithContext(ctx)
}

func (c *requestContext) Set(key, value any) {
	c.SetContext(context.WithValue(c.r.Context(), key, value))
}

func (c *requestContext) Get(key any) any {
	return c.r.Context().Value(key)
}

func (c *requestContext) Query(name string) string  { return c.r.URL.Query().Get(name) }
func (c *requestContext) Header(name string) string { return c.r.Header.Get(name) }

func (c *requestContext) SetHeader(name, value string) {
	c.w.Header().Set(name, value)
}

func (c *requestContext) JSON(code int, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Blob(code, "application/json; charset=utf-8", append(data, '\n'))
}

func (c *requestContext) String(code int, s string) error {
	return c.Blob(code, "text/plain; charset=utf-8", []byte(s))
}

func (c *requestContext) Blob(code int, contentType string, data []byte) error {
	if contentType != "" {
		c.w.Header().Set("Content-Type", contentType)
	}
	c.w.WriteHeader(code)
	_, err := c.w.Write(data)
	return err
}

func (c *requestContext) NoContent(code int) error {
	c.w.WriteHeader(code)
	return nil
}

func (c *requestContext) Redirect(code int, url string) error {
	http.Redirect(c.w, c.r, url, code)
	return nil
}

func (c *requestContext) Error(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(code, message, opts...)
}

func (c *requestContext) Written() bool { return c.w.Written() }

func (c *requestContext) LogDebug(msg string, attrs ...any) {
	c.log.DebugContext(c.r.Context(), msg, attrs...)
}

func (c *requestContext) LogInfo(msg string, attrs ...any) {
	c.log.InfoContext(c.r.Context(), msg, attrs...)
}

func (c *requestContext) LogWarn(msg string, attrs ...any) {
	c.log.WarnContext(c.r.Context(), msg, attrs...)
}

func (c *requestContext) LogError(msg string, attrs ...any) {
	c.log.ErrorContext(c.r.Context(), msg, attrs...)
}

func (c *requestContext) Cookie(name string) (string, error) {
	return c.cookies.Get(c.r, name)
}

func (c *requestContext) DeleteCookie(name string) {
	c.cookies.Delete(c.w, name)
}

func (c *requestContext) CookieSigned(name string) (string, error) {
	return c.cookies.GetSigned(c.r, name)
}

func (c *requestContext) SetCookieSigned(name, value string, maxAge int) error {
	return c.cookies.SetSigned(c.w, name, value, maxAge)
}
