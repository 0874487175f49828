// Package invoker wraps a generation backend for benchmark use: it
// isolates generated text from terminal noise, converts every failure
// mode into a soft per-call result, and optionally gates concurrent
// invocations behind a weighted semaphore with a hard acquire timeout.
package invoker

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/zen-systems/specroute/pkg/adapter"
)

// DefaultAcquireTimeout is the hard limit on waiting for an invocation
// slot before the call is abandoned with a gate-timeout result.
const DefaultAcquireTimeout = 60 * time.Second

// Invoker invokes models on a single backend adapter.
type Invoker struct {
	backend        adapter.Adapter
	gate           *semaphore.Weighted
	gateSize       int64
	acquireTimeout time.Duration
	closed         bool
	debug          bool
}

// Option configures an Invoker.
type Option func(*Invoker)

// WithConcurrencyLimit gates calls to the backend behind n slots. The
// limit reflects how many generation requests the endpoint serves
// efficiently, independent of how many workers prepare requests.
func WithConcurrencyLimit(n int64) Option {
	return func(inv *Invoker) {
		if n > 0 {
			inv.gate = semaphore.NewWeighted(n)
			inv.gateSize = n
		}
	}
}

// WithAcquireTimeout overrides the hard slot-wait limit.
func WithAcquireTimeout(d time.Duration) Option {
	return func(inv *Invoker) {
		if d > 0 {
			inv.acquireTimeout = d
		}
	}
}

// WithDebug enables debug logging.
func WithDebug(debug bool) Option {
	return func(inv *Invoker) {
		inv.debug = debug
	}
}

// New creates an invoker over the given backend.
func New(backend adapter.Adapter, opts ...Option) *Invoker {
	inv := &Invoker{
		backend:        backend,
		acquireTimeout: DefaultAcquireTimeout,
	}
	for _, opt := range opts {
		opt(inv)
	}
	return inv
}

// Invoke runs one generation call. It never returns an error: transport
// failures, overload rejections, and gate timeouts all come back as a
// Result with Failed set and zero metrics, so a benchmark run always
// continues to the next test case.
func (inv *Invoker) Invoke(ctx context.Context, model, prompt string) *Result {
	if inv.closed {
		return failedResult("invoker closed", false)
	}

	var gateWait time.Duration
	if inv.gate != nil {
		waitStart := time.Now()
		acquireCtx, cancel := context.WithTimeout(ctx, inv.acquireTimeout)
		err := inv.gate.Acquire(acquireCtx, 1)
		cancel()
		gateWait = time.Since(waitStart)
		if err != nil {
			if inv.debug {
				log.Printf("[invoker] gate timeout after %v (model=%s)", gateWait, model)
			}
			r := failedResult(fmt.Sprintf("timed out waiting for invocation slot: %v", err), false)
			r.GateWait = gateWait
			r.GateTimeout = true
			return r
		}
		// Released on every path below.
		defer inv.gate.Release(1)
	}

	resp, err := inv.backend.Generate(ctx, model, prompt)
	if err != nil {
		if inv.debug {
			log.Printf("[invoker] backend error (model=%s): %v", model, err)
		}
		r := failedResult(err.Error(), adapter.IsOverload(err))
		r.GateWait = gateWait
		return r
	}
	if resp == nil {
		r := failedResult("backend returned empty response", false)
		r.GateWait = gateWait
		return r
	}

	return &Result{
		Response: CleanOutput(resp.Text),
		Meta:     resp.Meta,
		GateWait: gateWait,
	}
}

// Close drains and disposes the concurrency gate. In-flight invocations
// finish; later ones fail soft.
func (inv *Invoker) Close() {
	if inv.gate != nil {
		// Acquiring the full weight waits out every in-flight call.
		_ = inv.gate.Acquire(context.Background(), inv.gateSize)
		inv.gate.Release(inv.gateSize)
	}
	inv.closed = true
}

func failedResult(msg string, overloaded bool) *Result {
	return &Result{
		Response:   "[invocation error: " + msg + "]",
		Failed:     true,
		Error:      msg,
		Overloaded: overloaded,
	}
}
