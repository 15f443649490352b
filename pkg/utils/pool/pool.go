package pool

import (
	"context"
	"runtime/debug"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"
)

// Task is one unit of work executed by the pool.
type Task func(ctx context.Context) error

// Run executes tasks with bounded concurrency and waits for all of them.
// A panicking task is recovered, logged with its stack, and reported as an
// error; the first error cancels the shared context for remaining tasks.
func Run(ctx context.Context, limit int, tasks []Task) error {
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for _, task := range tasks {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					stack := debug.Stack()
					ctxlog.From(ctx).Error("panic in pool task",
						"recover", r,
						"stack", string(stack))
					err = goerr.New("panic in pool task", goerr.V("recover", r))
				}
			}()

			return task(ctx)
		})
	}

	return g.Wait()
}
