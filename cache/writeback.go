/*
Copyright 2026 The Flux authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package cache

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
)

// WriteBack is the handle of an asynchronous cold tier insertion. A nil
// WriteBack stands for an insertion that was not needed and is always done.
type WriteBack struct {
	done chan struct{}
	err  error
}

func newWriteBack() *WriteBack {
	return &WriteBack{done: make(chan struct{})}
}

func (w *WriteBack) complete(err error) {
	w.err = err
	close(w.done)
}

var closedCh = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// Done returns a channel closed once the write-back completed.
func (w *WriteBack) Done() <-chan struct{} {
	if w == nil {
		return closedCh
	}
	return w.done
}

// Err returns the error the write-back completed with, nil while it is
// still running.
func (w *WriteBack) Err() error {
	if w == nil {
		return nil
	}
	select {
	case <-w.done:
		return w.err
	default:
		return nil
	}
}

// Wait blocks until the write-back completed or ctx is done, and returns
// the write-back error or the context error.
func (w *WriteBack) Wait(ctx context.Context) error {
	if w == nil {
		return nil
	}
	select {
	case <-w.done:
		return w.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// WriteBackPool runs cold tier insertions on a fixed set of workers fed by a
// bounded queue. When the queue is full the task runs in the submitting
// goroutine instead.
type WriteBackPool struct {
	tasks      chan func()
	workers    int
	callerRuns atomic.Uint64
	wg         sync.WaitGroup
	closeOnce  sync.Once
	mu         sync.RWMutex
	closed     bool
}

// DefaultWorkers returns the default number of write-back workers,
// GOMAXPROCS with a minimum of two.
func DefaultWorkers() int {
	return max(2, runtime.GOMAXPROCS(0))
}

// NewWriteBackPool starts a pool of workers with a queue of the same depth.
// A non positive count selects DefaultWorkers.
func NewWriteBackPool(workers int) *WriteBackPool {
	if workers <= 0 {
		workers = DefaultWorkers()
	}
	p := &WriteBackPool{
		tasks:   make(chan func(), workers),
		workers: workers,
	}
	p.wg.Add(workers)
	for range workers {
		go func() {
			defer p.wg.Done()
			for task := range p.tasks {
				task()
			}
		}()
	}
	return p
}

var (
	sharedPool     *WriteBackPool
	sharedPoolOnce sync.Once
)

// defaultWriteBackPool returns the process wide pool used by caches built
// without WithWriteBackPool. It is never closed.
func defaultWriteBackPool() *WriteBackPool {
	sharedPoolOnce.Do(func() {
		sharedPool = NewWriteBackPool(0)
	})
	return sharedPool
}

// Workers returns the number of workers of the pool.
func (p *WriteBackPool) Workers() int {
	return p.workers
}

// CallerRuns returns how many tasks ran in the submitting goroutine.
func (p *WriteBackPool) CallerRuns() uint64 {
	return p.callerRuns.Load()
}

// Submit schedules fn and returns its handle.
func (p *WriteBackPool) Submit(fn func() error) *WriteBack {
	wb, _ := p.submit(fn)
	return wb
}

// submit schedules fn, reporting whether it ran in the calling goroutine.
func (p *WriteBackPool) submit(fn func() error) (*WriteBack, bool) {
	wb := newWriteBack()
	task := func() { wb.complete(fn()) }

	p.mu.RLock()
	if !p.closed {
		select {
		case p.tasks <- task:
			p.mu.RUnlock()
			return wb, false
		default:
		}
	}
	p.mu.RUnlock()

	p.callerRuns.Add(1)
	task()
	return wb, true
}

// Close stops the workers once the queued tasks ran. Tasks submitted after
// Close run in the submitting goroutine.
func (p *WriteBackPool) Close() {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.tasks)
		p.mu.Unlock()
		p.wg.Wait()
	})
}

// pending counts the write-backs a cache has in flight.
type pending struct {
	mu   sync.Mutex
	cond *sync.Cond
	n    int
}

func newPending() *pending {
	p := &pending{}
	p.cond = sync.NewCond(&p.mu)
	return p
}

func (p *pending) add() {
	p.mu.Lock()
	p.n++
	p.mu.Unlock()
}

func (p *pending) done() {
	p.mu.Lock()
	p.n--
	if p.n == 0 {
		p.cond.Broadcast()
	}
	p.mu.Unlock()
}

// wait blocks until nothing is in flight.
func (p *pending) wait() {
	p.mu.Lock()
	for p.n > 0 {
		p.cond.Wait()
	}
	p.mu.Unlock()
}
