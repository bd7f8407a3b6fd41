// SPDX-License-Identifier: Apache-2.0

// Package workers runs the application's background maintenance: the
// recurring-task pass and the weekly auto-backup. Each worker owns one
// goroutine with a Start/Stop lifecycle; the Workers aggregate starts and
// stops them as a unit.
package workers

import "context"

// Worker is a background job with an explicit lifecycle. Start launches
// the job's goroutine and returns immediately; Stop blocks until the
// goroutine has fully exited. Stop is safe to call on a worker that was
// never started.
type Worker interface {
	Start(ctx context.Context)
	Stop()
}

// Workers starts and stops a set of workers as one unit.
type Workers struct {
	workers []Worker
}

// NewWorkers groups workers. They are started in the given order and
// stopped in reverse.
func NewWorkers(ws ...Worker) *Workers {
	return &Workers{workers: ws}
}

// Start launches every worker.
func (w *Workers) Start(ctx context.Context) {
	for _, worker := range w.workers {
		worker.Start(ctx)
	}
}

// Stop stops every worker in reverse start order and blocks until all
// goroutines have exited.
func (w *Workers) Stop() {
	for i := len(w.workers) - 1; i >= 0; i-- {
		w.workers[i].Stop()
	}
}
