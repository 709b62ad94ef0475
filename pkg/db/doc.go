// Package db opens the PostgreSQL pool behind the postgres session store
// (SESSION_STORE=postgres) and applies its schema migrations with goose.
//
//	pool, err := db.Connect(ctx, cfg.Database)
//	if err != nil {
//	    return err
//	}
//	if err := db.Migrate(ctx, pool, session.Migrations, cfg.Database.MigrationsTable, log); err != nil {
//	    return err
//	}
//
// [Healthcheck] and [Shutdown] plug into the readiness endpoint and the
// server's shutdown hooks. Errors wrap the package sentinels with [errors.Join].
package db
