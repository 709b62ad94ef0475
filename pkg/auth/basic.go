package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/approuter/internal"
	"github.com/dmitrymomot/approuter/pkg/logingate"
	"github.com/dmitrymomot/approuter/pkg/session"
)

// BasicAuthenticator checks HTTP Basic credentials against bcrypt hashes.
type BasicAuthenticator struct {
	users map[string][]byte
}

// NewBasicAuthenticator creates an authenticator for the given user to
// bcrypt hash map. Malformed hashes are rejected up front.
func NewBasicAuthenticator(users map[string]string) (*BasicAuthenticator, error) {
	b := &BasicAuthenticator{users: make(map[string][]byte, len(users))}
	for name, hash := range users {
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, fmt.Errorf("%w: user %q: %w", ErrInvalidPasswordHash, name, err)
		}
		b.users[name] = []byte(hash)
	}
	return b, nil
}

// Resolve checks the request credentials. Missing or wrong credentials
// return logingate.ErrUnauthorized so the gate answers with a Basic challenge.
func (b *BasicAuthenticator) Resolve(c internal.Context) (logingate.Authenticator, error) {
	user, password, ok := c.Request().BasicAuth()
	if !ok {
		return nil, errors.Join(logingate.ErrUnauthorized, ErrMissingCredentials)
	}

	hash, known := b.users[user]
	if !known {
		// Compare anyway so unknown users cost the same as wrong passwords.
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, errors.Join(logingate.ErrUnauthorized, ErrInvalidCredentials)
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return nil, errors.Join(logingate.ErrUnauthorized, ErrInvalidCredentials)
	}

	return func(call logingate.AuthCall) error {
		err := call.Context.AuthenticateSession(user)
		if err != nil && !errors.Is(err, session.ErrNotConfigured) {
			return err
		}
		call.Context.LogInfo("basic login", "user", user)
		return call.Continue()
	}, nil
}

// Well-formed cost 10 hash used for unknown users.
var dummyHash = []byte("$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z3/N6XfQ0Wn5/9bZ8F/rIgOe")
