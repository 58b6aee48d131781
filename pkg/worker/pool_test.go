package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type testWork struct {
	id    int
	delay time.Duration
	fail  bool
}

func mustPool(t *testing.T, workers, queueSize int, processor func(context.Context, testWork) error, opts ...Option[testWork]) *Pool[testWork] {
	t.Helper()
	pool, err := NewPool(workers, queueSize, processor, opts...)
	if err != nil {
		t.Fatalf("NewPool failed: %v", err)
	}
	return pool
}

func TestNewPool(t *testing.T) {
	processor := func(ctx context.Context, _ testWork) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			return nil
		}
	}

	pool := mustPool(t, 5, 100, processor)
	if pool.workers != 5 {
		t.Errorf("Expected 5 workers, got %d", pool.workers)
	}
	if pool.queueSize != 100 {
		t.Errorf("Expected queue size 100, got %d", pool.queueSize)
	}

	pool = mustPool(t, 5, 0, processor)
	if pool.queueSize != 1000 {
		t.Errorf("Expected default queue size 1000, got %d", pool.queueSize)
	}
}

func TestNewPool_ZeroWorkers(t *testing.T) {
	processor := func(_ context.Context, _ testWork) error { return nil }
	_, err := NewPool(0, 100, processor)
	if !errors.Is(err, ErrSchedulerIncompatible) {
		t.Errorf("Expected ErrSchedulerIncompatible, got %v", err)
	}
}

func TestNewPool_NilProcessor(t *testing.T) {
	_, err := NewPool[testWork](5, 100, nil)
	if !errors.Is(err, ErrNilProcessor) {
		t.Errorf("Expected ErrNilProcessor, got %v", err)
	}
}

func TestPool_StartStop(t *testing.T) {
	var processedCount int64
	processor := func(_ context.Context, _ testWork) error {
		atomic.AddInt64(&processedCount, 1)
		return nil
	}

	pool := mustPool(t, 2, 10, processor)

	ctx := context.Background()
	if err := pool.Start(ctx); err != nil {
		t.Fatalf("Failed to start pool: %v", err)
	}

	if err := pool.Start(ctx); !errors.Is(err, ErrPoolAlreadyStarted) {
		t.Errorf("Expected ErrPoolAlreadyStarted, got %v", err)
	}

	for i := 0; i < 5; i++ {
		if err := pool.Submit(testWork{id: i}); err != nil {
			t.Errorf("Failed to submit work %d: %v", i, err)
		}
	}

	time.Sleep(100 * time.Millisecond)

	if err := pool.Stop(5 * time.Second); err != nil {
		t.Fatalf("Failed to stop pool: %v", err)
	}

	processed := atomic.LoadInt64(&processedCount)
	if processed != 5 {
		t.Errorf("Expected 5 processed items, got %d", processed)
	}

	if err := pool.Submit(testWork{id: 999}); !errors.Is(err, ErrPoolStopped) {
		t.Errorf("Expected ErrPoolStopped, got %v", err)
	}
}

func TestPool_SubmitBeforeStart(t *testing.T) {
	processor := func(_ context.Context, _ testWork) error { return nil }
	pool := mustPool(t, 2, 10, processor)

	if err := pool.Submit(testWork{id: 1}); !errors.Is(err, ErrPoolNotStarted) {
		t.Errorf("Expected ErrPoolNotStarted, got %v", err)
	}
}

func TestPool_QueueFull(t *testing.T) {
	processor := func(_ context.Context, work testWork) error {
		time.Sleep(work.delay)
		return nil
	}

	pool := mustPool(t, 1, 2, processor)

	ctx := context.Background()
	if err := pool.Start(ctx); err != nil {
		t.Fatalf("Failed to start pool: %v", err)
	}
	defer pool.Stop(5 * time.Second)

	submitted := 0
	dropped := 0

	for i := 0; i < 5; i++ {
		err := pool.Submit(testWork{id: i, delay: 200 * time.Millisecond})
		if err != nil {
			dropped++
		} else {
			submitted++
		}
	}

	if dropped == 0 {
		t.Error("Expected some work to be dropped due to full queue")
	}
	if submitted == 0 {
		t.Error("Expected some work to be submitted successfully")
	}

	stats := pool.Stats()
	if stats.Dropped == 0 {
		t.Error("Stats should show dropped work items")
	}
}

func TestPool_StopTimeout(t *testing.T) {
	processor := func(ctx context.Context, _ testWork) error {
		select {
		case <-time.After(10 * time.Second):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	pool := mustPool(t, 1, 10, processor)

	ctx := context.Background()
	if err := pool.Start(ctx); err != nil {
		t.Fatalf("Failed to start pool: %v", err)
	}

	_ = pool.Submit(testWork{id: 1})
	time.Sleep(10 * time.Millisecond)

	if err := pool.Stop(50 * time.Millisecond); !errors.Is(err, ErrStopTimeout) {
		t.Errorf("Expected ErrStopTimeout, got %v", err)
	}
}

func TestPool_ProcessingErrors(t *testing.T) {
	var successCount, errorCount int64

	processor := func(_ context.Context, work testWork) error {
		if work.fail {
			atomic.AddInt64(&errorCount, 1)
			return errors.New("simulated error")
		}
		atomic.AddInt64(&successCount, 1)
		return nil
	}

	pool := mustPool(t, 2, 10, processor)

	ctx := context.Background()
	if err := pool.Start(ctx); err != nil {
		t.Fatalf("Failed to start pool: %v", err)
	}
	defer pool.Stop(5 * time.Second)

	for i := 0; i < 10; i++ {
		if err := pool.Submit(testWork{id: i, fail: i%2 == 0}); err != nil {
			t.Errorf("Failed to submit work %d: %v", i, err)
		}
	}

	time.Sleep(100 * time.Millisecond)

	if got := atomic.LoadInt64(&successCount); got != 5 {
		t.Errorf("Expected 5 successful processes, got %d", got)
	}
	if got := atomic.LoadInt64(&errorCount); got != 5 {
		t.Errorf("Expected 5 failed processes, got %d", got)
	}

	stats := pool.Stats()
	if stats.Processed != 10 {
		t.Errorf("Expected 10 processed items in stats, got %d", stats.Processed)
	}
	if stats.Failed != 5 {
		t.Errorf("Expected 5 failed items in stats, got %d", stats.Failed)
	}
}

func TestPool_ConcurrentSubmissions(t *testing.T) {
	var processedCount int64

	processor := func(_ context.Context, _ testWork) error {
		atomic.AddInt64(&processedCount, 1)
		return nil
	}

	pool := mustPool(t, 5, 100, processor)

	ctx := context.Background()
	if err := pool.Start(ctx); err != nil {
		t.Fatalf("Failed to start pool: %v", err)
	}
	defer pool.Stop(5 * time.Second)

	var wg sync.WaitGroup
	submitters := 10
	workPerSubmitter := 10

	for i := 0; i < submitters; i++ {
		wg.Add(1)
		go func(submitterID int) {
			defer wg.Done()
			for j := 0; j < workPerSubmitter; j++ {
				work := testWork{id: submitterID*workPerSubmitter + j}
				if err := pool.Submit(work); err != nil {
					t.Errorf("Submitter %d failed to submit work %d: %v", submitterID, j, err)
				}
			}
		}(i)
	}

	wg.Wait()
	time.Sleep(200 * time.Millisecond)

	processed := atomic.LoadInt64(&processedCount)
	expected := int64(submitters * workPerSubmitter)
	if processed != expected {
		t.Errorf("Expected %d processed items, got %d", expected, processed)
	}
}

// TestPool_SyncBridge exercises the pattern secrets.Broker relies on: a
// caller blocks on a per-submission result channel while a pool worker
// performs the actual fetch.
func TestPool_SyncBridge(t *testing.T) {
	type fetchJob struct {
		key    string
		result chan string
	}

	pool, err := NewPool(4, 32, func(_ context.Context, job fetchJob) error {
		job.result <- "value:" + job.key
		return nil
	})
	if err != nil {
		t.Fatalf("NewPool failed: %v", err)
	}

	ctx := context.Background()
	if err := pool.Start(ctx); err != nil {
		t.Fatalf("Failed to start pool: %v", err)
	}
	defer pool.Stop(5 * time.Second)

	resultCh := make(chan string, 1)
	if err := pool.Submit(fetchJob{key: "db/password", result: resultCh}); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	select {
	case v := <-resultCh:
		if v != "value:db/password" {
			t.Errorf("Expected value:db/password, got %s", v)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for sync bridge result")
	}
}
