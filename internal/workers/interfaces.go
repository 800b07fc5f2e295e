// Package workers runs the long-lived background loops of the server, such
// as push delivery, under one lifetime.
package workers

import "context"

// Worker is a background loop. Run blocks until ctx is done or the worker
// fails.
//
// Example implementation:
//
//	type MyWorker struct{ jobs chan Job }
//
//	func (w *MyWorker) Run(ctx context.Context) error {
//	    for {
//	        select {
//	        case <-ctx.Done():
//	            return nil
//	        case job := <-w.jobs:
//	            job.Do(ctx)
//	        }
//	    }
//	}
type Worker interface {
	Run(ctx context.Context) error
}

// WorkerFunc adapts a plain function to Worker.
type WorkerFunc func(ctx context.Context) error

// Run calls f(ctx).
func (f WorkerFunc) Run(ctx context.Context) error {
	return f(ctx)
}
