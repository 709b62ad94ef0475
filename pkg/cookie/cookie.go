package cookie

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
)

var (
	ErrNotFound = errors.New("cookie: not found")
	ErrNoSecret = errors.New("cookie: secret required")
	ErrBadSig   = errors.New("cookie: invalid signature")
)

// MinSecretLength is the shortest secret WithSecret accepts.
const MinSecretLength = 32

var b64 = base64.RawURLEncoding

// Manager writes and reads cookies that share one set of attributes,
// so the session cookie and the login state cookies never diverge.
type Manager struct {
	secret []byte
	attrs  http.Cookie
}

type Option func(*Manager)

// New creates a cookie Manager. Cookies default to path "/", HttpOnly and SameSite=Lax.
func New(opts ...Option) *Manager {
	m := &Manager{attrs: http.Cookie{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// WithSecret sets the HMAC key for signed cookies.
// Secrets shorter than MinSecretLength are ignored.
func WithSecret(secret string) Option {
	return func(m *Manager) {
		if len(secret) >= MinSecretLength {
			m.secret = []byte(secret)
		}
	}
}

func WithDomain(domain string) Option {
	return func(m *Manager) { m.attrs.Domain = domain }
}

func WithPath(path string) Option {
	return func(m *Manager) {
		if path != "" {
			m.attrs.Path = path
		}
	}
}

func WithSecure(secure bool) Option {
	return func(m *Manager) { m.attrs.Secure = secure }
}

func WithHTTPOnly(httpOnly bool) Option {
	return func(m *Manager) { m.attrs.HttpOnly = httpOnly }
}

func WithSameSite(ss http.SameSite) Option {
	return func(m *Manager) { m.attrs.SameSite = ss }
}

// HasSecret reports whether signed cookies are available.
func (m *Manager) HasSecret() bool {
	return m.secret != nil
}

// Get returns a plain cookie value, or ErrNotFound.
func (m *Manager) Get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if errors.Is(err, http.ErrNoCookie) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return c.Value, nil
}

// Set writes a plain cookie. A zero maxAge makes it a browser-session cookie.
func (m *Manager) Set(w http.ResponseWriter, name, value string, maxAge int) {
	m.write(w, name, value, maxAge)
}

func (m *Manager) Delete(w http.ResponseWriter, name string) {
	m.write(w, name, "", -1)
}

// GetSigned returns the value of a cookie written by SetSigned.
// It returns ErrNoSecret without a secret and ErrBadSig when the value was
// tampered with or signed for another cookie name.
func (m *Manager) GetSigned(r *http.Request, name string) (string, error) {
	if m.secret == nil {
		return "", ErrNoSecret
	}
	raw, err := m.Get(r, name)
	if err != nil {
		return "", err
	}
	return m.decode(name, raw)
}

// SetSigned writes value as "<base64 value>.<base64 HMAC-SHA256>".
func (m *Manager) SetSigned(w http.ResponseWriter, name, value string, maxAge int) error {
	if m.secret == nil {
		return ErrNoSecret
	}
	m.write(w, name, m.encode(name, value), maxAge)
	return nil
}

func (m *Manager) encode(name, value string) string {
	return b64.EncodeToString([]byte(value)) + "." + b64.EncodeToString(m.mac(name, []byte(value)))
}

func (m *Manager) decode(name, raw string) (string, error) {
	encValue, encSig, ok := strings.Cut(raw, ".")
	if !ok {
		return "", ErrBadSig
	}
	value, err := b64.DecodeString(encValue)
	if err != nil {
		return "", ErrBadSig
	}
	sig, err := b64.DecodeString(encSig)
	if err != nil || !hmac.Equal(sig, m.mac(name, value)) {
		return "", ErrBadSig
	}
	return string(value), nil
}

// mac covers the cookie name, so a value cannot be replayed under another name.
func (m *Manager) mac(name string, value []byte) []byte {
	h := hmac.New(sha256.New, m.secret)
	h.Write([]byte(name))
	h.Write([]byte{0})
	h.Write(value)
	return h.Sum(nil)
}

func (m *Manager) write(w http.ResponseWriter, name, value string, maxAge int) {
	c := m.attrs
	c.Name, c.Value, c.MaxAge = name, value, maxAge
	http.SetCookie(w, &c)
}
