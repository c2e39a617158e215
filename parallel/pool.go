package parallel

import (
	"errors"
	"runtime"
	"sync"
)

type Pool struct {
	wg   sync.WaitGroup
	do   func(func())
	stop func()
}

// Start runs numWorkers workers. Less than one worker means one per CPU;
// exactly one runs every task inline, in submission order.
func Start(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	pool := &Pool{
		do: func(f func()) {
			f()
		},
		stop: func() {},
	}

	if numWorkers > 1 {
		workChan := make(chan func(), numWorkers)

		for range numWorkers {
			pool.wg.Go(func() {
				for f := range workChan {
					f()
				}
			})
		}

		pool.do = func(f func()) {
			workChan <- f
		}
		pool.stop = sync.OnceFunc(func() { close(workChan) })
	}

	return pool
}

// Close stops the workers once queued tasks are done. The pool must not
// be used afterwards.
func (p *Pool) Close() {
	p.stop()
	p.wg.Wait()
}

// Batch groups tasks so that their completion and errors can be awaited
// together, while the pool stays open for further batches.
type Batch struct {
	pool *Pool
	wg   sync.WaitGroup
	mu   sync.Mutex
	errs []error
}

func (p *Pool) Batch() *Batch {
	return &Batch{pool: p}
}

func (b *Batch) Go(f func() error) {
	b.wg.Add(1)
	b.pool.do(func() {
		defer b.wg.Done()
		if err := f(); err != nil {
			b.mu.Lock()
			b.errs = append(b.errs, err)
			b.mu.Unlock()
		}
	})
}

// Wait blocks until every task of the batch has returned and joins their
// errors.
func (b *Batch) Wait() error {
	b.wg.Wait()
	b.mu.Lock()
	defer b.mu.Unlock()
	return errors.Join(b.errs...)
}
