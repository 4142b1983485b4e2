// Package pg bootstraps PostgreSQL access on top of pgx/v5.
//
// Connect opens a *pgxpool.Pool with retries, Migrate applies embedded goose
// migrations, and Healthcheck returns a readiness probe. IsDuplicateKeyError
// and ConstraintName classify *pgconn.PgError values so stores can map unique
// violations to domain errors.
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	if err := pg.Migrate(ctx, pool, pgstore.Migrations, cfg, log); err != nil {
//	    return err
//	}
package pg
