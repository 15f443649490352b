package pool_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/driftwatch/driftwatch/pkg/utils/pool"
)

func TestRun(t *testing.T) {
	t.Run("executes all tasks", func(t *testing.T) {
		var count atomic.Int64
		tasks := make([]pool.Task, 10)
		for i := range tasks {
			tasks[i] = func(ctx context.Context) error {
				count.Add(1)
				return nil
			}
		}

		gt.NoError(t, pool.Run(context.Background(), 3, tasks))
		gt.Equal(t, count.Load(), int64(10))
	})

	t.Run("respects concurrency limit", func(t *testing.T) {
		var mu sync.Mutex
		running, peak := 0, 0

		tasks := make([]pool.Task, 8)
		for i := range tasks {
			tasks[i] = func(ctx context.Context) error {
				mu.Lock()
				running++
				if running > peak {
					peak = running
				}
				mu.Unlock()

				mu.Lock()
				running--
				mu.Unlock()
				return nil
			}
		}

		gt.NoError(t, pool.Run(context.Background(), 2, tasks))
		gt.True(t, peak <= 2)
	})

	t.Run("returns task error", func(t *testing.T) {
		wantErr := errors.New("task failed")
		tasks := []pool.Task{
			func(ctx context.Context) error { return nil },
			func(ctx context.Context) error { return wantErr },
		}

		err := pool.Run(context.Background(), 0, tasks)
		gt.True(t, errors.Is(err, wantErr))
	})

	t.Run("recovers from panic", func(t *testing.T) {
		tasks := []pool.Task{
			func(ctx context.Context) error { panic("boom") },
		}

		err := pool.Run(context.Background(), 1, tasks)
		gt.Error(t, err)
	})

	t.Run("no tasks is a no-op", func(t *testing.T) {
		gt.NoError(t, pool.Run(context.Background(), 1, nil))
	})
}
