package session

import (
	"context"
	"fmt"
)

// DefaultSweepSchedule runs the expired session sweep every five minutes.
const DefaultSweepSchedule = "*/5 * * * *"

// ExpiredDeleter is implemented by stores that keep expired rows until swept.
type ExpiredDeleter interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// Sweeper is a scheduled task that purges expired sessions.
type Sweeper struct {
	store     ExpiredDeleter
	onDeleted func(int64)
	schedule  string
}

// NewSweeper creates a sweeper for store. An empty schedule means DefaultSweepSchedule.
func NewSweeper(store ExpiredDeleter, schedule string) *Sweeper {
	if schedule == "" {
		schedule = DefaultSweepSchedule
	}
	return &Sweeper{store: store, schedule: schedule}
}

// OnDeleted registers a callback receiving the number of purged sessions.
func (s *Sweeper) OnDeleted(fn func(int64)) *Sweeper {
	s.onDeleted = fn
	return s
}

func (s *Sweeper) Name() string     { return "session_sweep" }
func (s *Sweeper) Schedule() string { return s.schedule }

// Handle deletes expired sessions once.
func (s *Sweeper) Handle(ctx context.Context) error {
	n, err := s.store.DeleteExpired(ctx)
	if err != nil {
		return fmt.Errorf("session: sweep expired: %w", err)
	}
	if s.onDeleted != nil && n > 0 {
		s.onDeleted(n)
	}
	return nil
}
