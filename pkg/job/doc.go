// Package job runs periodic maintenance tasks on top of River, a
// Postgres-backed job queue.
//
// Tasks are registered with structural typing and a cron schedule:
//
//	manager, err := job.NewManager(pool,
//	    job.WithLogger(log),
//	    job.WithScheduledTask(session.NewSweeper(store, "*/5 * * * *")),
//	)
//	if err != nil {
//	    return err
//	}
//	if err := manager.Migrate(ctx); err != nil {
//	    return err
//	}
//	if err := manager.Start(ctx); err != nil {
//	    return err
//	}
//	defer manager.Stop(ctx)
//
// Because River elects a single leader per database, a periodic task
// fires once per tick even when several router instances share the pool.
//
// Healthcheck reports whether the manager is running and the database
// is reachable.
package job
