package taskpool

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func newTestPool(t *testing.T, workers int) Pool {
	t.Helper()
	p, err := New(Config{Workers: workers, Logger: NewNopLogger()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return p
}

func TestNew_Validation(t *testing.T) {
	for _, workers := range []int{0, -1} {
		_, err := New(Config{Workers: workers})
		if !errors.Is(err, ErrInvalidConfiguration) {
			t.Errorf("New(workers=%d) error = %v, want ErrInvalidConfiguration", workers, err)
		}
	}

	p := newTestPool(t, 4)
	defer p.Shutdown(true)

	if p.Size() != 4 {
		t.Errorf("Size() = %d, want 4", p.Size())
	}
}

func TestPool_SquaresFanOut(t *testing.T) {
	p := newTestPool(t, 2)
	defer p.Shutdown(true)

	futures := make([]Future, 5)
	for i := 0; i < 5; i++ {
		i := i
		f, err := p.Submit(TaskFunc(func(ctx context.Context) (interface{}, error) {
			return i * i, nil
		}))
		if err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
		futures[i] = f
	}

	p.WaitIdle()

	got := make(map[int]bool)
	for i, f := range futures {
		if !f.IsComplete() {
			t.Errorf("futures[%d].IsComplete() = false after WaitIdle()", i)
		}
		value, err := f.Await(context.Background())
		if err != nil {
			t.Fatalf("Await() error = %v", err)
		}
		got[value.(int)] = true
	}

	for _, want := range []int{0, 1, 4, 9, 16} {
		if !got[want] {
			t.Errorf("result set missing %d, got %v", want, got)
		}
	}
}

func TestPool_FIFOSingleWorker(t *testing.T) {
	p := newTestPool(t, 1)
	defer p.Shutdown(true)

	var mu sync.Mutex
	var log []string

	for _, tag := range []string{"A", "B"} {
		tag := tag
		_, err := p.Submit(NewNamedTask(tag, func(ctx context.Context) (interface{}, error) {
			mu.Lock()
			log = append(log, tag)
			mu.Unlock()
			return nil, nil
		}))
		if err != nil {
			t.Fatalf("Submit(%s) error = %v", tag, err)
		}
	}

	p.WaitIdle()

	mu.Lock()
	defer mu.Unlock()
	if len(log) != 2 || log[0] != "A" || log[1] != "B" {
		t.Errorf("execution log = %v, want [A B]", log)
	}
}

func TestPool_WaitIdleFreshPool(t *testing.T) {
	p := newTestPool(t, 2)
	defer p.Shutdown(true)

	start := time.Now()
	p.WaitIdle()
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("WaitIdle() on fresh pool took %v, want near-immediate return", elapsed)
	}
}

func TestPool_ShutdownIdempotentConcurrent(t *testing.T) {
	p := newTestPool(t, 2)

	for i := 0; i < 10; i++ {
		p.Submit(TaskFunc(func(ctx context.Context) (interface{}, error) {
			time.Sleep(time.Millisecond)
			return nil, nil
		}))
	}

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Shutdown(true)
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("concurrent Shutdown(true) calls did not both return")
	}

	// A third call after the pool stopped is still a no-op
	p.Shutdown(true)
}

func TestPool_SubmitAfterShutdown(t *testing.T) {
	p := newTestPool(t, 1)
	p.Shutdown(false)

	executed := false
	_, err := p.Submit(TaskFunc(func(ctx context.Context) (interface{}, error) {
		executed = true
		return nil, nil
	}))
	if !errors.Is(err, ErrPoolClosed) {
		t.Errorf("Submit() after shutdown error = %v, want ErrPoolClosed", err)
	}
	if executed {
		t.Error("task submitted after shutdown must not execute")
	}
}

func TestPool_TaskErrorContained(t *testing.T) {
	p := newTestPool(t, 1)
	defer p.Shutdown(true)

	boom := errors.New("boom")
	failed, err := p.Submit(NewNamedTask("failing", func(ctx context.Context) (interface{}, error) {
		return nil, boom
	}))
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	// The worker must survive the failure and keep executing
	ok, err := p.Submit(TaskFunc(func(ctx context.Context) (interface{}, error) {
		return "alive", nil
	}))
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	p.WaitIdle()

	_, err = failed.Await(context.Background())
	if !errors.Is(err, boom) {
		t.Errorf("Await() error = %v, want wrapped boom", err)
	}
	var taskErr *TaskError
	if !errors.As(err, &taskErr) {
		t.Errorf("Await() error = %T, want *TaskError", err)
	} else if taskErr.TaskName != "failing" {
		t.Errorf("TaskError.TaskName = %q, want %q", taskErr.TaskName, "failing")
	}

	value, err := ok.Await(context.Background())
	if err != nil || value != "alive" {
		t.Errorf("Await() = (%v, %v), want (alive, nil)", value, err)
	}
}

func TestPool_PanicContained(t *testing.T) {
	p := newTestPool(t, 1)
	defer p.Shutdown(true)

	f, err := p.Submit(NewNamedTask("panicking", func(ctx context.Context) (interface{}, error) {
		panic("kaboom")
	}))
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	p.WaitIdle()

	_, err = f.Await(context.Background())
	var taskErr *TaskError
	if !errors.As(err, &taskErr) {
		t.Fatalf("Await() error = %v, want *TaskError", err)
	}

	// The pool remains usable afterwards
	ok, err := p.Submit(TaskFunc(func(ctx context.Context) (interface{}, error) {
		return 42, nil
	}))
	if err != nil {
		t.Fatalf("Submit() after panic error = %v", err)
	}
	value, err := ok.Await(context.Background())
	if err != nil || value != 42 {
		t.Errorf("Await() = (%v, %v), want (42, nil)", value, err)
	}
}

func TestPool_ShutdownNoDrainFailsAbandoned(t *testing.T) {
	p := newTestPool(t, 1)

	gate := make(chan struct{})
	blocker, err := p.Submit(NewNamedTask("blocker", func(ctx context.Context) (interface{}, error) {
		<-gate
		return "done", nil
	}))
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	// Wait until the single worker has picked up the blocker
	waitFor(t, func() bool { return p.Pending() == 0 })

	var executed [3]bool
	abandoned := make([]Future, 3)
	for i := range abandoned {
		i := i
		f, err := p.Submit(TaskFunc(func(ctx context.Context) (interface{}, error) {
			executed[i] = true
			return nil, nil
		}))
		if err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
		abandoned[i] = f
	}

	shutdownDone := make(chan struct{})
	go func() {
		p.Shutdown(false)
		close(shutdownDone)
	}()

	// Abandoned futures are failed before workers are joined, so these
	// resolve even while the blocker is still running.
	for i, f := range abandoned {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		_, err := f.Await(ctx)
		cancel()
		if !errors.Is(err, ErrPoolClosed) {
			t.Errorf("abandoned[%d].Await() error = %v, want ErrPoolClosed", i, err)
		}
	}

	close(gate)

	select {
	case <-shutdownDone:
	case <-time.After(5 * time.Second):
		t.Fatal("Shutdown(false) did not return after the in-flight task finished")
	}

	for i, ran := range executed {
		if ran {
			t.Errorf("abandoned task %d was executed", i)
		}
	}

	// The in-flight task still completed normally
	value, err := blocker.Await(context.Background())
	if err != nil || value != "done" {
		t.Errorf("blocker.Await() = (%v, %v), want (done, nil)", value, err)
	}
}

func TestPool_DrainWaitsForInFlight(t *testing.T) {
	p := newTestPool(t, 2)

	var mu sync.Mutex
	finished := 0
	for i := 0; i < 20; i++ {
		p.Submit(TaskFunc(func(ctx context.Context) (interface{}, error) {
			time.Sleep(time.Millisecond)
			mu.Lock()
			finished++
			mu.Unlock()
			return nil, nil
		}))
	}

	p.Shutdown(true)

	mu.Lock()
	defer mu.Unlock()
	if finished != 20 {
		t.Errorf("finished = %d after Shutdown(true), want 20", finished)
	}
}

func TestPool_NilTask(t *testing.T) {
	p := newTestPool(t, 1)
	defer p.Shutdown(true)

	if _, err := p.Submit(nil); !errors.Is(err, ErrNilTask) {
		t.Errorf("Submit(nil) error = %v, want ErrNilTask", err)
	}
}

func TestPool_PendingSnapshot(t *testing.T) {
	p := newTestPool(t, 1)

	gate := make(chan struct{})
	p.Submit(TaskFunc(func(ctx context.Context) (interface{}, error) {
		<-gate
		return nil, nil
	}))
	waitFor(t, func() bool { return p.Pending() == 0 })

	for i := 0; i < 5; i++ {
		p.Submit(TaskFunc(func(ctx context.Context) (interface{}, error) {
			return nil, nil
		}))
	}

	if got := p.Pending(); got != 5 {
		t.Errorf("Pending() = %d, want 5", got)
	}

	close(gate)
	p.Shutdown(true)

	if got := p.Pending(); got != 0 {
		t.Errorf("Pending() after drain = %d, want 0", got)
	}
}

// waitFor polls cond until it holds or the deadline expires.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("condition not reached within %v", 2*time.Second)
}
