package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/approuter"
	"github.com/dmitrymomot/approuter/pkg/cache"
	"github.com/dmitrymomot/approuter/pkg/config"
	"github.com/dmitrymomot/approuter/pkg/db"
	"github.com/dmitrymomot/approuter/pkg/job"
	"github.com/dmitrymomot/approuter/pkg/metrics"
	"github.com/dmitrymomot/approuter/pkg/redis"
	"github.com/dmitrymomot/approuter/pkg/session"
)

const keyPrefix = "approuter:"

// backend holds the session store and authorization code cache selected
// by SESSION_STORE, along with their readiness checks and closers.
type backend struct {
	sessions approuter.SessionStore
	codes    cache.Cache[string]
	checks   []approuter.HealthOption
	closers  []func(context.Context) error
}

func openBackend(ctx context.Context, cfg config.Config, log *slog.Logger) (*backend, error) {
	b := &backend{}

	switch cfg.Session.Store {
	case config.StoreRedis:
		client, err := redis.Open(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		b.sessions = session.NewCacheStore(
			cache.NewRedis[session.Session](client, nil, cache.WithPrefix(keyPrefix+"session:")),
			cache.NewRedis[string](client, nil, cache.WithPrefix(keyPrefix+"token:")),
		)
		b.codes = cache.NewRedis[string](client, nil, cache.WithPrefix(keyPrefix))
		b.checks = append(b.checks, approuter.WithReadinessCheck("redis", redis.Healthcheck(client)))
		b.closers = append(b.closers, redis.Shutdown(client))

	case config.StorePostgres:
		pool, err := db.Connect(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, db.Shutdown(pool))
		b.checks = append(b.checks, approuter.WithReadinessCheck("postgres", db.Healthcheck(pool)))

		if err := db.Migrate(ctx, pool, session.Migrations(), cfg.DB.MigrationsTable, log); err != nil {
			return nil, errors.Join(err, b.close(ctx))
		}
		store := session.NewPostgresStore(pool)
		b.sessions = store

		sweeper := session.NewSweeper(store, cfg.Session.SweepSchedule).
			OnDeleted(func(n int64) { metrics.SessionsExpiredDeleted.Add(float64(n)) })
		jobs, err := job.NewManager(pool, job.WithLogger(log), job.WithScheduledTask(sweeper))
		if err != nil {
			return nil, errors.Join(err, b.close(ctx))
		}
		if err := jobs.Migrate(ctx); err != nil {
			return nil, errors.Join(err, b.close(ctx))
		}
		if err := jobs.Start(ctx); err != nil {
			return nil, errors.Join(err, b.close(ctx))
		}
		// Stop the scheduler before the pool it runs on.
		b.closers = append([]func(context.Context) error{jobs.Shutdown()}, b.closers...)
		b.checks = append(b.checks, approuter.WithReadinessCheck("jobs", job.Healthcheck(jobs)))

		// Codes are short-lived and single-use; each instance keeps its own.
		codes := cache.NewMemory[string]()
		b.codes = codes
		b.closers = append(b.closers, func(context.Context) error { return codes.Close() })

	case config.StoreMemory, "":
		store := session.NewMemoryStore()
		codes := cache.NewMemory[string]()
		b.sessions = store
		b.codes = codes
		b.closers = append(b.closers,
			func(context.Context) error { return store.Close() },
			func(context.Context) error { return codes.Close() },
		)

	default:
		return nil, fmt.Errorf("%w: %s", config.ErrUnknownStore, cfg.Session.Store)
	}

	return b, nil
}

// close releases every resource in order and joins the errors.
func (b *backend) close(ctx context.Context) error {
	var errs []error
	for _, fn := range b.closers {
		if err := fn(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
