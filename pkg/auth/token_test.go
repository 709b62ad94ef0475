package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/approuter/pkg/auth"
)

func TestTokenVerifier(t *testing.T) {
	t.Parallel()

	v, err := auth.NewTokenVerifier(signingKey, issuer)
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		sub, err := v.Verify(signToken(t, signingKey, "bob", time.Now().Add(time.Minute)))
		require.NoError(t, err)
		assert.Equal(t, "bob", sub)
	})

	t.Run("expired", func(t *testing.T) {
		t.Parallel()
		_, err := v.Verify(signToken(t, signingKey, "bob", time.Now().Add(-time.Minute)))
		require.ErrorIs(t, err, auth.ErrInvalidToken)
		require.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		t.Parallel()
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject:   "bob",
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		}).SignedString([]byte(signingKey))
		require.NoError(t, err)

		_, err = v.Verify(tok)
		require.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("missing expiry", func(t *testing.T) {
		t.Parallel()
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject: "bob",
			Issuer:  issuer,
		}).SignedString([]byte(signingKey))
		require.NoError(t, err)

		_, err = v.Verify(tok)
		require.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("missing subject", func(t *testing.T) {
		t.Parallel()
		_, err := v.Verify(signToken(t, signingKey, "", time.Now().Add(time.Minute)))
		require.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("unsigned", func(t *testing.T) {
		t.Parallel()
		tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
			Subject:   "bob",
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = v.Verify(tok)
		require.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}

func TestNewTokenVerifier_RequiresKey(t *testing.T) {
	t.Parallel()

	_, err := auth.NewTokenVerifier("", "")
	require.ErrorIs(t, err, auth.ErrMissingSigningKey)
}
