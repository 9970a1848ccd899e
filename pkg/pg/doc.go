// Package pg connects to PostgreSQL through a pgx pool and applies goose
// migrations shipped inside the binary.
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, pgstore.Migrations, log); err != nil {
//	    return err
//	}
//
// Connect retries with a linearly growing delay and gives up early when the
// context is cancelled.
package pg
