package shutdown

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"syscall"
	"testing"
	"time"
)

func TestHandler_Wait_ContextOrder(t *testing.T) {
	h := NewHandler(5 * time.Second)

	var mu sync.Mutex
	var callOrder []int
	for i := 1; i <= 3; i++ {
		n := i
		h.OnShutdown(func(ctx context.Context) error {
			mu.Lock()
			callOrder = append(callOrder, n)
			mu.Unlock()
			return nil
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- h.Wait(ctx) }()
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Wait() returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Wait() did not complete in time")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(callOrder) != 3 || callOrder[0] != 3 || callOrder[1] != 2 || callOrder[2] != 1 {
		t.Errorf("hooks called in wrong order: %v, want [3 2 1]", callOrder)
	}

	select {
	case <-h.Done():
	default:
		t.Error("Done channel should be closed after Wait completes")
	}
}

func TestHandler_Wait_Signal(t *testing.T) {
	h := NewHandler(5 * time.Second)
	var called atomic.Bool
	h.OnShutdown(func(ctx context.Context) error {
		called.Store(true)
		return nil
	})

	errCh := make(chan error, 1)
	go func() { errCh <- h.Wait(context.Background()) }()
	time.Sleep(50 * time.Millisecond)

	syscall.Kill(syscall.Getpid(), syscall.SIGTERM)

	select {
	case <-errCh:
	case <-time.After(2 * time.Second):
		t.Fatal("Wait() did not return after SIGTERM")
	}
	if !called.Load() {
		t.Error("shutdown hook not called")
	}
}

func TestHandler_Wait_Reload(t *testing.T) {
	h := NewHandler(time.Second)
	reloaded := make(chan struct{}, 1)
	h.OnReload(func() { reloaded <- struct{}{} })

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- h.Wait(ctx) }()
	time.Sleep(50 * time.Millisecond)

	syscall.Kill(syscall.Getpid(), syscall.SIGHUP)

	select {
	case <-reloaded:
	case <-time.After(2 * time.Second):
		t.Fatal("reload hook not called on SIGHUP")
	}

	select {
	case <-h.Done():
		t.Fatal("SIGHUP must not shut down")
	default:
	}

	cancel()
	<-errCh
}

func TestHandler_Shutdown_HookErrors(t *testing.T) {
	h := NewHandler(time.Second)
	errA := errors.New("a failed")
	errB := errors.New("b failed")
	var ran atomic.Int32

	h.OnShutdown(func(ctx context.Context) error { ran.Add(1); return errA })
	h.OnShutdown(func(ctx context.Context) error { ran.Add(1); return nil })
	h.OnShutdown(func(ctx context.Context) error { ran.Add(1); return errB })

	err := h.Shutdown()
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("Shutdown() error = %v, want both hook errors", err)
	}
	if ran.Load() != 3 {
		t.Errorf("ran %d hooks, want 3 even after errors", ran.Load())
	}

	if err := h.Shutdown(); err != nil {
		t.Errorf("second Shutdown() = %v, want nil", err)
	}
	if ran.Load() != 3 {
		t.Error("hooks should only run once")
	}
}

func TestHandler_Shutdown_Timeout(t *testing.T) {
	h := NewHandler(20 * time.Millisecond)
	h.OnShutdown(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	if err := h.Shutdown(); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Shutdown() error = %v, want DeadlineExceeded", err)
	}
}

func TestHandler_ConcurrentOnShutdown(t *testing.T) {
	h := NewHandler(time.Second)
	var count atomic.Int32

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.OnShutdown(func(ctx context.Context) error {
				count.Add(1)
				return nil
			})
		}()
	}
	wg.Wait()

	if err := h.Shutdown(); err != nil {
		t.Fatal(err)
	}
	if count.Load() != 50 {
		t.Errorf("count = %d, want 50", count.Load())
	}
}
