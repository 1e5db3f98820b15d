package retry

import (
	"context"
	"time"
)

// Classifier separates transient errors from fatal ones.
type Classifier interface {
	IsTransient(err error) bool
}

// Strategy yields the wait before retry attempt n (zero-based) and bounds
// the number of retries.
type Strategy interface {
	NextDelay(attempt int) time.Duration
	MaxAttempts() int
}

// Executor runs an operation until it succeeds, fails fatally, or the
// backoff strategy's attempts are exhausted. It is safe for concurrent use.
type Executor struct {
	classifier Classifier
	strategy   Strategy
	onRetry    func(attempt int, err error, delay time.Duration)
}

// NewExecutor panics when classifier or strategy is nil.
func NewExecutor(classifier Classifier, strategy Strategy) *Executor {
	if classifier == nil || strategy == nil {
		panic("retry: classifier and strategy are required")
	}
	return &Executor{classifier: classifier, strategy: strategy}
}

// WithOnRetry returns a copy of the executor that calls fn before every wait.
func (e *Executor) WithOnRetry(fn func(attempt int, err error, delay time.Duration)) *Executor {
	clone := *e
	clone.onRetry = fn
	return &clone
}

// Execute runs op and returns the error of the last attempt.
func (e *Executor) Execute(ctx context.Context, op func(ctx context.Context) error) error {
	err := op(ctx)
	max := e.strategy.MaxAttempts()

	for attempt := 0; err != nil && e.classifier.IsTransient(err) && (max < 0 || attempt < max); attempt++ {
		delay := e.strategy.NextDelay(attempt)
		if e.onRetry != nil {
			e.onRetry(attempt, err, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		err = op(ctx)
	}
	return err
}
