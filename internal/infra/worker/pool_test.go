package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestSlot_DefaultsToZero(t *testing.T) {
	if got := Slot(context.Background()); got != 0 {
		t.Errorf("Slot on a plain context = %d, want 0", got)
	}
	ctx := WithSlot(context.Background(), 3)
	if got := Slot(ctx); got != 3 {
		t.Errorf("Slot = %d, want 3", got)
	}
}

func TestPool_TasksRunWithSlots(t *testing.T) {
	nop := zerolog.Nop()
	p := NewPool(4, &nop)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)
	defer p.Stop()

	var mu sync.Mutex
	slots := make(map[int]bool)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		err := p.Submit(func(tctx context.Context) error {
			defer wg.Done()
			s := Slot(tctx)
			mu.Lock()
			slots[s] = true
			mu.Unlock()
			return nil
		})
		if err != nil {
			wg.Done()
			t.Fatalf("submit: %v", err)
		}
	}
	wg.Wait()

	for s := range slots {
		if s < 1 || s > 4 {
			t.Errorf("task ran with out-of-range slot %d", s)
		}
	}
	if len(slots) == 0 {
		t.Fatal("no tasks ran")
	}
}

func TestPool_SubmitDoesNotBlockWhenFull(t *testing.T) {
	nop := zerolog.Nop()
	p := NewPool(1, &nop)
	// not started: the queue only drains on Start

	var sawFull bool
	for i := 0; i < 100; i++ {
		if err := p.Submit(func(context.Context) error { return nil }); err != nil {
			if !errors.Is(err, ErrQueueFull) {
				t.Fatalf("unexpected submit error: %v", err)
			}
			sawFull = true
			break
		}
	}
	if !sawFull {
		t.Error("expected ErrQueueFull once the buffer filled up")
	}
}

func TestPool_NilTaskRejected(t *testing.T) {
	nop := zerolog.Nop()
	p := NewPool(1, &nop)
	if err := p.Submit(nil); err == nil {
		t.Error("nil task should be rejected")
	}
}

func TestPool_StopWaitsForWorkers(t *testing.T) {
	nop := zerolog.Nop()
	p := NewPool(2, &nop)
	ctx := context.Background()
	p.Start(ctx)

	done := make(chan struct{})
	if err := p.Submit(func(context.Context) error {
		time.Sleep(10 * time.Millisecond)
		close(done)
		return nil
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	<-done
	p.Stop()
}
