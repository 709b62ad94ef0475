package session

import (
	"fmt"
	"time"
)

// Session is the server-side state behind the JSESSIONID cookie.
// It is stored as JSON by the cache stores and as a row by PostgresStore.
type Session struct {
	CreatedAt    time.Time `json:"created_at"`
	LastActiveAt time.Time `json:"last_active_at"`
	ExpiresAt    time.Time `json:"expires_at"`

	// UserID is nil until login succeeds.
	UserID    *string        `json:"user_id,omitempty"`
	Values    map[string]any `json:"values,omitempty"`
	ID        string         `json:"id"`
	Token     string         `json:"token"`
	IP        string         `json:"ip,omitempty"`
	UserAgent string         `json:"user_agent,omitempty"`

	dirty bool
	isNew bool
}

// New returns an anonymous session that is new and unsaved.
func New(id, token string, expiresAt time.Time) *Session {
	now := time.Now()
	return &Session{
		ID:           id,
		Token:        token,
		Values:       make(map[string]any),
		CreatedAt:    now,
		LastActiveAt: now,
		ExpiresAt:    expiresAt,
		isNew:        true,
		dirty:        true,
	}
}

// Touch records activity at now and slides the expiry to now+idle.
func (s *Session) Touch(now time.Time, idle time.Duration) {
	s.LastActiveAt = now
	s.ExpiresAt = now.Add(idle)
	s.dirty = true
}

// Authenticate binds the session to userID.
func (s *Session) Authenticate(userID string) {
	s.UserID = &userID
	s.dirty = true
}

// Subject returns the bound user ID, or "" for anonymous sessions.
func (s *Session) Subject() string {
	if s == nil || s.UserID == nil {
		return ""
	}
	return *s.UserID
}

// IsAuthenticated reports whether a non-empty user ID is bound.
func (s *Session) IsAuthenticated() bool {
	return s.Subject() != ""
}

// SetValue stores val under key.
func (s *Session) SetValue(key string, val any) {
	if s.Values == nil {
		s.Values = make(map[string]any)
	}
	s.Values[key] = val
	s.dirty = true
}

// GetValue returns the value stored under key.
func (s *Session) GetValue(key string) (any, bool) {
	val, ok := s.Values[key]
	return val, ok
}

// DeleteValue removes key. Removing an absent key leaves the session clean.
func (s *Session) DeleteValue(key string) {
	if _, ok := s.Values[key]; ok {
		delete(s.Values, key)
		s.dirty = true
	}
}

func (s *Session) IsDirty() bool { return s.dirty }
func (s *Session) MarkDirty()    { s.dirty = true }
func (s *Session) ClearDirty()   { s.dirty = false }
func (s *Session) IsNew() bool   { return s.isNew }
func (s *Session) ClearNew()     { s.isNew = false }

// IsExpired reports whether ExpiresAt has passed.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Value returns the value under key as T.
// Values read back from JSON stores hold JSON types (numbers are float64).
func Value[T any](s *Session, key string) (T, error) {
	var zero T
	if s == nil {
		return zero, ErrNotFound
	}
	val, ok := s.GetValue(key)
	if !ok {
		return zero, ErrNotFound
	}
	typed, ok := val.(T)
	if !ok {
		return zero, fmt.Errorf("session: value %q has type %T", key, val)
	}
	return typed, nil
}

// ValueOr is Value with a fallback for missing or mistyped values.
func ValueOr[T any](s *Session, key string, fallback T) T {
	if v, err := Value[T](s, key); err == nil {
		return v
	}
	return fallback
}
