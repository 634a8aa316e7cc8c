package worker

import (
	"clinic-connector/internal/infra/logger"
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
)

var ErrPoolClosed = errors.New("worker pool is closed")

type Job func(ctx context.Context)

// Pool runs jobs on a fixed number of goroutines behind a bounded queue.
// Enqueue never blocks; jobs that do not fit are dropped.
type Pool struct {
	Logger *logger.Logger

	pool     *ants.Pool
	queue    chan Job
	mu       sync.RWMutex
	closed   bool
	inflight sync.WaitGroup
	done     chan struct{}
}

func NewPool(logger *logger.Logger, size, queueSize int) (*Pool, error) {
	if size <= 0 {
		size = 1
	}
	if queueSize <= 0 {
		queueSize = 1
	}

	p := &Pool{
		Logger: logger,
		queue:  make(chan Job, queueSize),
		done:   make(chan struct{}),
	}

	pool, err := ants.NewPool(size, ants.WithPanicHandler(func(v interface{}) {
		logger.Error(fmt.Sprintf("Recovered from panic in worker: %v", v))
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}
	p.pool = pool

	go p.dispatch()
	return p, nil
}

// Enqueue schedules job. It returns false when the pool is closed or the queue is full.
func (p *Pool) Enqueue(job Job) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		p.Logger.Warn("Dropping job: worker pool is shutting down")
		return false
	}

	p.inflight.Add(1)
	select {
	case p.queue <- job:
		return true
	default:
		p.inflight.Done()
		p.Logger.Warn(fmt.Sprintf("Dropping job: queue is full (%d pending)", cap(p.queue)))
		return false
	}
}

func (p *Pool) dispatch() {
	defer close(p.done)

	for job := range p.queue {
		job := job
		err := p.pool.Submit(func() {
			defer p.inflight.Done()
			p.run(job)
		})
		if err != nil {
			p.Logger.Error(fmt.Sprintf("Failed to submit job: %v", err))
			p.inflight.Done()
		}
	}
}

func (p *Pool) run(job Job) {
	defer func() {
		if r := recover(); r != nil {
			p.Logger.Error(fmt.Sprintf("Recovered from panic: %v\n%s", r, debug.Stack()))
		}
	}()
	job(context.Background())
}

// Running reports the number of jobs currently executing.
func (p *Pool) Running() int {
	return p.pool.Running()
}

// Shutdown stops intake and waits up to timeout for queued and running jobs.
func (p *Pool) Shutdown(timeout time.Duration) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrPoolClosed
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	drained := make(chan struct{})
	go func() {
		p.inflight.Wait()
		<-p.done
		close(drained)
	}()

	var err error
	select {
	case <-drained:
	case <-time.After(timeout):
		err = fmt.Errorf("worker pool did not drain within %s", timeout)
	}

	p.pool.Release()
	return err
}
