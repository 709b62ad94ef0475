package auth

import "errors"

var (
	ErrInvalidToken        = errors.New("auth: invalid exchange token")
	ErrMissingSigningKey   = errors.New("auth: token signing key is required")
	ErrUnknownAuthType     = errors.New("auth: unknown authentication type")
	ErrNoIdentityProvider  = errors.New("auth: no identity provider configured for authentication type")
	ErrInvalidState        = errors.New("auth: invalid login state")
	ErrLoginFailed         = errors.New("auth: identity provider login failed")
	ErrCodeNotFound        = errors.New("auth: authorization code not found or already used")
	ErrInvalidCredentials  = errors.New("auth: invalid basic credentials")
	ErrMissingCredentials  = errors.New("auth: missing basic credentials")
	ErrNotAuthenticated    = errors.New("auth: no authenticated session")
	ErrInvalidPasswordHash = errors.New("auth: invalid bcrypt hash")
)
