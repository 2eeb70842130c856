// Package worker runs CPU heavy jobs, such as verifying recordings, on a fixed set of goroutines.
package worker

import (
	"runtime"
	"sync"

	"github.com/getsentry/sentry-go"
)

// Pool is a fixed set of goroutines draining a job queue. A job that panics is reported to sentry and
// does not take its worker down.
type Pool struct {
	queue chan func()
	wg    sync.WaitGroup
}

// New starts a pool of n workers. n <= 0 uses one worker per CPU.
func New(n int) *Pool {
	if n <= 0 {
		n = runtime.NumCPU()
	}
	p := &Pool{queue: make(chan func(), n)}
	for i := 0; i < n; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	for f := range p.queue {
		p.run(f)
	}
}

func (p *Pool) run(f func()) {
	defer p.wg.Done()
	defer sentry.Recover()

	f()
}

// Submit queues f, blocking while every worker is busy and the queue is full.
func (p *Pool) Submit(f func()) {
	p.wg.Add(1)
	p.queue <- f
}

// Wait blocks until every submitted job has finished.
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Close waits for every submitted job and stops the workers. The pool cannot be used afterwards.
func (p *Pool) Close() {
	p.wg.Wait()
	close(p.queue)
}
