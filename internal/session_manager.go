package internal

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrymomot/approuter/pkg/id"
	"github.com/dmitrymomot/approuter/pkg/session"
)

const (
	defaultSessionCookieName  = "JSESSIONID"
	defaultSessionIdleTimeout = 15 * time.Minute
	sessionTokenBytes         = 32
)

// SessionManager ties the session store to the session cookie.
// The cookie carries no Max-Age: it lives for the browser session while the
// store enforces the idle timeout.
type SessionManager struct {
	store  session.Store
	idle   time.Duration
	cookie http.Cookie
}

// SessionOption configures the SessionManager.
type SessionOption func(*SessionManager)

// NewSessionManager creates a SessionManager. The cookie defaults to
// JSESSIONID on path "/", HttpOnly, SameSite=Lax.
func NewSessionManager(store session.Store, opts ...SessionOption) *SessionManager {
	sm := &SessionManager{
		store: store,
		idle:  defaultSessionIdleTimeout,
		cookie: http.Cookie{
			Name:     defaultSessionCookieName,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		},
	}
	for _, opt := range opts {
		opt(sm)
	}
	return sm
}

func WithSessionCookieName(name string) SessionOption {
	return func(sm *SessionManager) {
		if name != "" {
			sm.cookie.Name = name
		}
	}
}

// WithSessionMaxAge sets the idle timeout in seconds. Non-positive values are ignored.
func WithSessionMaxAge(seconds int) SessionOption {
	return func(sm *SessionManager) {
		if seconds > 0 {
			sm.idle = time.Duration(seconds) * time.Second
		}
	}
}

func WithSessionDomain(domain string) SessionOption {
	return func(sm *SessionManager) { sm.cookie.Domain = domain }
}

func WithSessionPath(path string) SessionOption {
	return func(sm *SessionManager) {
		if path != "" {
			sm.cookie.Path = path
		}
	}
}

func WithSessionSecure(secure bool) SessionOption {
	return func(sm *SessionManager) { sm.cookie.Secure = secure }
}

func WithSessionHTTPOnly(httpOnly bool) SessionOption {
	return func(sm *SessionManager) { sm.cookie.HttpOnly = httpOnly }
}

func WithSessionSameSite(sameSite http.SameSite) SessionOption {
	return func(sm *SessionManager) { sm.cookie.SameSite = sameSite }
}

// Store returns the underlying session store.
func (sm *SessionManager) Store() session.Store {
	return sm.store
}

// LoadSession resolves the session cookie of r and slides its expiry.
// A request without the cookie yields nil, nil. Store errors such as
// session.ErrNotFound and session.ErrExpired are returned unchanged.
func (sm *SessionManager) LoadSession(ctx context.Context, r *http.Request) (*session.Session, error) {
	ck, err := r.Cookie(sm.cookie.Name)
	if err != nil || ck.Value == "" {
		return nil, nil
	}

	sess, err := sm.store.Get(ctx, ck.Value)
	if err != nil {
		return nil, err
	}
	sess.Touch(time.Now(), sm.idle)
	return sess, nil
}

// CreateSession stores a new anonymous session for r.
func (sm *SessionManager) CreateSession(ctx context.Context, r *http.Request) (*session.Session, error) {
	token, err := newSessionToken()
	if err != nil {
		return nil, err
	}

	sess := session.New(id.NewULID(), token, time.Now().Add(sm.idle))
	sess.IP = clientIP(r)
	sess.UserAgent = r.UserAgent()
	if err := sm.store.Create(ctx, sess); err != nil {
		return nil, err
	}
	sess.ClearNew()
	sess.ClearDirty()
	return sess, nil
}

// RotateToken replaces the session token and persists it. The old token is
// restored when the store rejects the update.
func (sm *SessionManager) RotateToken(ctx context.Context, sess *session.Session) error {
	token, err := newSessionToken()
	if err != nil {
		return err
	}

	old := sess.Token
	sess.Token = token
	sess.MarkDirty()
	if err := sm.store.Update(ctx, sess); err != nil {
		sess.Token = old
		return err
	}
	return nil
}

// SaveSession sets the session cookie to the session's token.
func (sm *SessionManager) SaveSession(w http.ResponseWriter, sess *session.Session) {
	ck := sm.cookie
	ck.Value = sess.Token
	http.SetCookie(w, &ck)
}

// DeleteSession expires the session cookie in the browser.
func (sm *SessionManager) DeleteSession(w http.ResponseWriter) {
	ck := sm.cookie
	ck.MaxAge = -1
	http.SetCookie(w, &ck)
}

func newSessionToken() (string, error) {
	token, err := id.NewToken(sessionTokenBytes)
	if err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return token, nil
}

// clientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then RemoteAddr.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
