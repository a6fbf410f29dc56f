// Package parallel spreads row stripes of an image over a fixed set of
// worker goroutines.
package parallel

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
)

// DefaultStripeRows is the number of image rows handed to a worker at once.
const DefaultStripeRows = 16

// WorkerPool runs work items on a fixed number of goroutines.
//
// Each worker owns a queue and steals from the others when its own queue
// is empty, so stripes of uneven cost still balance.
//
// WorkerPool is safe for concurrent use.
type WorkerPool struct {
	workers int
	queues  []chan func()
	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool
}

// NewWorkerPool starts a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	queueSize := max(workers*4, 8)

	p := &WorkerPool{
		workers: workers,
		queues:  make([]chan func(), workers),
		done:    make(chan struct{}),
	}
	for i := range workers {
		p.queues[i] = make(chan func(), queueSize)
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}
	return p
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()
	own := p.queues[id]

	for {
		select {
		case <-p.done:
			p.drain(own)
			return
		case work := <-own:
			work()
		default:
			if stolen := p.steal(id); stolen != nil {
				stolen()
				continue
			}
			select {
			case <-p.done:
				p.drain(own)
				return
			case work := <-own:
				work()
			}
		}
	}
}

func (p *WorkerPool) drain(queue chan func()) {
	for {
		select {
		case work := <-queue:
			work()
		default:
			return
		}
	}
}

func (p *WorkerPool) steal(id int) func() {
	for i := range p.workers {
		if i == id {
			continue
		}
		select {
		case work := <-p.queues[i]:
			return work
		default:
		}
	}
	return nil
}

// ExecuteAll distributes work round-robin and waits until every item has
// run. It is a no-op on a closed pool.
func (p *WorkerPool) ExecuteAll(work []func()) {
	if len(work) == 0 || !p.running.Load() {
		return
	}

	var pending sync.WaitGroup
	pending.Add(len(work))
	for i, fn := range work {
		wrapped := func() {
			defer pending.Done()
			fn()
		}
		select {
		case p.queues[i%p.workers] <- wrapped:
		case <-p.done:
			pending.Done()
		}
	}
	pending.Wait()
}

// Stripes splits rows [0, rows) into stripes of at most stripeRows rows
// and calls fn(y0, y1) for each stripe on the pool. Stripes not yet
// started when ctx is cancelled are skipped and ctx.Err() is returned.
func (p *WorkerPool) Stripes(ctx context.Context, rows, stripeRows int, fn func(y0, y1 int)) error {
	if stripeRows <= 0 {
		stripeRows = DefaultStripeRows
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	work := make([]func(), 0, (rows+stripeRows-1)/stripeRows)
	for y0 := 0; y0 < rows; y0 += stripeRows {
		y1 := min(y0+stripeRows, rows)
		work = append(work, func() {
			if ctx.Err() != nil {
				return
			}
			fn(y0, y1)
		})
	}
	p.ExecuteAll(work)
	return ctx.Err()
}

// Close stops accepting work, runs what is already queued and stops the
// workers. Close is safe to call more than once.
func (p *WorkerPool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// IsRunning reports whether the pool still accepts work.
func (p *WorkerPool) IsRunning() bool {
	return p.running.Load()
}
