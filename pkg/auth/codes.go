package auth

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrymomot/approuter/internal"
	"github.com/dmitrymomot/approuter/pkg/cache"
	"github.com/dmitrymomot/approuter/pkg/id"
)

const (
	codeKeyPrefix  = "authcode:"
	codeBytes      = 32
	defaultCodeTTL = time.Minute
)

// CodeStore issues single-use authorization codes that turn into a session
// on the next request carrying ?approuterAuthCode=<code>.
type CodeStore struct {
	codes cache.Cache[string]
	ttl   time.Duration
}

// NewCodeStore keeps codes in c. A non-positive ttl defaults to one minute.
func NewCodeStore(c cache.Cache[string], ttl time.Duration) *CodeStore {
	if ttl <= 0 {
		ttl = defaultCodeTTL
	}
	return &CodeStore{codes: c, ttl: ttl}
}

// Issue returns a fresh code bound to userID.
func (s *CodeStore) Issue(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", ErrNotAuthenticated
	}
	code, err := id.NewToken(codeBytes)
	if err != nil {
		return "", err
	}
	if err := s.codes.Set(ctx, codeKeyPrefix+code, userID, s.ttl); err != nil {
		return "", err
	}
	return code, nil
}

// Redeem consumes code and returns the user it was issued for.
// A code can be redeemed once.
func (s *CodeStore) Redeem(ctx context.Context, code string) (string, error) {
	userID, err := s.codes.Take(ctx, codeKeyPrefix+code)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return "", ErrCodeNotFound
		}
		return "", err
	}
	return userID, nil
}

// CreateSessionByAuthCode redeems code, authenticates the session and continues.
// Unknown or used codes end the request with 401.
func (s *CodeStore) CreateSessionByAuthCode(c internal.Context, code string, next internal.HandlerFunc) error {
	userID, err := s.Redeem(c.Context(), code)
	if err != nil {
		if errors.Is(err, ErrCodeNotFound) {
			return internal.ErrUnauthorized("Invalid authorization code", internal.WithError(err))
		}
		return err
	}
	if err := c.AuthenticateSession(userID); err != nil {
		return err
	}
	c.LogInfo("session created from authorization code", "user", userID)
	return next(c)
}
