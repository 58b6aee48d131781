// Package worker provides a generic, thread-safe worker pool for concurrent task processing.
//
// # Overview
//
// rtsettings uses this pool for exactly one purpose: bridging the secret
// broker's synchronous Get call onto an asynchronous fetch. A pool worker
// performs the actual network round trip to the secret store; the calling
// goroutine blocks on a per-call result channel until a worker delivers a
// value or the context is cancelled.
//
//   - Generic type support for type-safe work processing
//   - Bounded queue with backpressure (non-blocking submit)
//   - Context-aware cancellation and graceful shutdown
//   - Dual-tracking observability (always-on statistics + optional Prometheus metrics)
//
// # Usage
//
//	type fetchJob struct {
//	    ref    secretRef
//	    result chan fetchResult
//	}
//
//	pool, err := worker.NewPool[fetchJob](8, 256, func(ctx context.Context, job fetchJob) error {
//	    val, err := store.Get(ctx, job.ref)
//	    job.result <- fetchResult{val, err}
//	    return err
//	})
//	if err != nil {
//	    return err
//	}
//	pool.Start(ctx)
//	defer pool.Stop(5 * time.Second)
//
//	resultCh := make(chan fetchResult, 1)
//	if err := pool.Submit(fetchJob{ref: ref, result: resultCh}); err != nil {
//	    return err
//	}
//	select {
//	case res := <-resultCh:
//	    return res.value, res.err
//	case <-ctx.Done():
//	    return zero, ctx.Err()
//	}
//
// # Architecture decisions
//
// Submit() uses a non-blocking send (select with default case) rather than
// blocking on a full queue: predictable latency, ErrQueueFull as a clear
// backpressure signal. Workers receive the context passed to Start() and
// exit on cancellation or channel close.
//
// # Thread safety
//
// All public methods are safe for concurrent use. Start() can only be
// called once; Submit() fails if not started or already stopped; Stop()
// is idempotent.
package worker
