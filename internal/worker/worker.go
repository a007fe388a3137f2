// Package worker runs long jobs (attribute baking) off the interactive
// thread. At most one job runs at a time: Submit rejects while a job is in
// flight rather than queuing. Callers poll Status and drain Results at their
// own cadence; there is no cancellation, a submitted job runs to completion.
package worker

import (
	"fmt"
	"sync"
)

// Status is the shared job status record.
type Status struct {
	Running  bool
	Progress float64 // 0-100
	Message  string
}

// Result carries a finished job's value or error.
type Result struct {
	Value any
	Err   error
}

// Job is a unit of background work. It reports progress through update and
// returns its result when done.
type Job func(update func(progress float64, message string)) (any, error)

// Worker owns one background goroutine consuming submitted jobs.
type Worker struct {
	mu      sync.Mutex
	status  Status
	jobs    chan Job
	results chan Result
	once    sync.Once
}

func New() *Worker {
	return &Worker{
		status:  Status{Message: "idle"},
		jobs:    make(chan Job, 1),
		results: make(chan Result, 16),
	}
}

// Submit hands a job to the worker. Returns false without side effects when
// a job is already running.
func (w *Worker) Submit(job Job) bool {
	w.once.Do(func() { go w.loop() })

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.status.Running {
		return false
	}
	w.status = Status{Running: true, Message: "starting"}
	w.jobs <- job
	return true
}

// Status returns a copy of the shared status record.
func (w *Worker) Status() Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

// Results is the channel finished jobs publish to. The caller is expected to
// drain it; results are buffered, not dropped.
func (w *Worker) Results() <-chan Result {
	return w.results
}

func (w *Worker) loop() {
	for job := range w.jobs {
		w.results <- w.run(job)
		w.mu.Lock()
		w.status = Status{Running: false, Progress: 100, Message: "finished"}
		w.mu.Unlock()
	}
}

func (w *Worker) run(job Job) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{Err: fmt.Errorf("job panicked: %v", r)}
		}
	}()

	update := func(progress float64, message string) {
		w.mu.Lock()
		w.status.Progress = progress
		if message != "" {
			w.status.Message = message
		}
		w.mu.Unlock()
	}

	value, err := job(update)
	return Result{Value: value, Err: err}
}
