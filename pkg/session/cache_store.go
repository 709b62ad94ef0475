package session

import (
	"context"
	"errors"
	"maps"
	"time"

	"github.com/dmitrymomot/approuter/pkg/cache"
)

// CacheStore keeps sessions in a pkg/cache backend (memory or Redis).
// Sessions are stored by ID; a second cache maps cookie tokens to IDs.
// Index entries left behind by token rotation are rejected on lookup and
// expire with the session.
type CacheStore struct {
	sessions cache.Cache[Session]
	tokens   cache.Cache[string]
}

// NewCacheStore creates a store on top of the given caches.
//
// Example:
//
//	store := session.NewCacheStore(
//	    cache.NewRedis[session.Session](client, nil, cache.WithPrefix("approuter:sess")),
//	    cache.NewRedis[string](client, nil, cache.WithPrefix("approuter:tok")),
//	)
func NewCacheStore(sessions cache.Cache[Session], tokens cache.Cache[string]) *CacheStore {
	return &CacheStore{sessions: sessions, tokens: tokens}
}

// NewMemoryStore creates a CacheStore backed by in-process caches.
func NewMemoryStore() *CacheStore {
	return NewCacheStore(cache.NewMemory[Session](), cache.NewMemory[string]())
}

func (s *CacheStore) Create(ctx context.Context, sess *Session) error {
	return s.put(ctx, sess)
}

func (s *CacheStore) Get(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	id, err := s.tokens.Get(ctx, token)
	if err != nil {
		return nil, mapCacheErr(err)
	}

	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, mapCacheErr(err)
	}
	if sess.Token != token {
		return nil, ErrNotFound
	}
	if sess.IsExpired() {
		return nil, ErrExpired
	}
	sess.Values = maps.Clone(sess.Values)
	if sess.Values == nil {
		sess.Values = make(map[string]any)
	}
	sess.ClearNew()
	sess.ClearDirty()
	return &sess, nil
}

func (s *CacheStore) Update(ctx context.Context, sess *Session) error {
	return s.put(ctx, sess)
}

func (s *CacheStore) Delete(ctx context.Context, id string) error {
	sess, err := s.sessions.Take(ctx, id)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil
		}
		return err
	}
	return s.tokens.Delete(ctx, sess.Token)
}

// Close releases both caches.
func (s *CacheStore) Close() error {
	return errors.Join(s.sessions.Close(), s.tokens.Close())
}

func (s *CacheStore) put(ctx context.Context, sess *Session) error {
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return ErrExpired
	}
	stored := *sess
	stored.Values = maps.Clone(sess.Values)
	if err := s.sessions.Set(ctx, sess.ID, stored, ttl); err != nil {
		return err
	}
	return s.tokens.Set(ctx, sess.Token, sess.ID, ttl)
}

func mapCacheErr(err error) error {
	if errors.Is(err, cache.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

var _ Store = (*CacheStore)(nil)
