package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// TokenVerifier validates exchange tokens: HMAC-signed JWTs whose subject
// becomes the session user.
type TokenVerifier struct {
	key    []byte
	issuer string
}

// NewTokenVerifier creates a verifier for tokens signed with key.
// When issuer is non-empty the iss claim must match it.
func NewTokenVerifier(key, issuer string) (*TokenVerifier, error) {
	if key == "" {
		return nil, ErrMissingSigningKey
	}
	return &TokenVerifier{key: []byte(key), issuer: issuer}, nil
}

// Verify parses raw and returns its subject.
// Tokens without an expiry or subject are rejected.
func (v *TokenVerifier) Verify(raw string) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{
			jwt.SigningMethodHS256.Alg(),
			jwt.SigningMethodHS384.Alg(),
			jwt.SigningMethodHS512.Alg(),
		}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	var claims jwt.RegisteredClaims
	if _, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return v.key, nil
	}, opts...); err != nil {
		return "", errors.Join(ErrInvalidToken, err)
	}

	if claims.Subject == "" {
		return "", errors.Join(ErrInvalidToken, jwt.ErrTokenInvalidSubject)
	}
	return claims.Subject, nil
}
