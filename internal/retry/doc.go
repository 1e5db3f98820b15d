// Package retry re-runs operations that fail with transient errors,
// waiting an exponentially growing delay between attempts.
//
//	exec := retry.NewExecutor(retry.NewPostgreSQLErrorClassifier(), retry.NewExponentialBackoff(3))
//	err := exec.Execute(ctx, func(ctx context.Context) error {
//	    return pool.Ping(ctx)
//	})
//
// Fatal errors are returned immediately; context cancellation stops the
// wait between attempts.
package retry
