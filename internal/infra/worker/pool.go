// File: internal/infra/worker/pool.go
package worker

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
)

// Pool runs dispatch tasks on a fixed set of goroutines. Each goroutine is an
// execution slot: its id travels in the task context, and the telegram
// session manager binds one MTProto session per slot. Tasks for the same slot
// therefore reuse the same session; tasks never migrate between slots.

type slotKey struct{}

// WithSlot stamps an execution slot id into ctx.
func WithSlot(ctx context.Context, slot int) context.Context {
	return context.WithValue(ctx, slotKey{}, slot)
}

// Slot extracts the execution slot id; 0 for contexts outside the pool.
func Slot(ctx context.Context) int {
	if v, ok := ctx.Value(slotKey{}).(int); ok {
		return v
	}
	return 0
}

type Task func(ctx context.Context) error

var ErrQueueFull = errors.New("worker queue full")

type Pool struct {
	wg   sync.WaitGroup
	jobs chan Task
	quit chan struct{}
	n    int
	log  *zerolog.Logger
}

func NewPool(workers int, logger *zerolog.Logger) *Pool {
	if workers <= 0 {
		workers = 4
	}
	return &Pool{jobs: make(chan Task, workers*4), quit: make(chan struct{}), n: workers, log: logger}
}

func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.n; i++ {
		p.wg.Add(1)
		go func(slot int) {
			defer p.wg.Done()
			wctx := WithSlot(ctx, slot)
			for {
				select {
				case <-ctx.Done():
					return
				case <-p.quit:
					return
				case task := <-p.jobs:
					if task == nil {
						continue
					}
					if err := task(wctx); err != nil {
						p.log.Error().Err(err).Int("slot", slot).Msg("task failed")
					}
				}
			}
		}(i + 1) // slot 0 is reserved for out-of-pool callers
	}
}

func (p *Pool) Stop() {
	close(p.quit)
	p.wg.Wait()
}

// Submit enqueues a task without blocking. Saturation is reported to the
// caller instead of applying back-pressure.
func (p *Pool) Submit(task Task) error {
	if task == nil {
		return errors.New("nil task")
	}
	select {
	case p.jobs <- task:
		return nil
	default:
		return ErrQueueFull
	}
}
