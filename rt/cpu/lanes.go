package cpu

import (
	"runtime"
	"sync"
)

// inlineThreshold is the lane count below which dispatch runs on the caller.
// Goroutine hand-off costs more than the work for tiny populations.
const inlineThreshold = 256

// Scheduler runs lane(i) once for every i in [0, n) and returns when all lanes finished.
// Lanes must not share mutable state; the order lanes run in is unspecified.
type Scheduler interface {
	Dispatch(n int, lane func(i int))
}

// Sequential runs lanes in index order on the calling goroutine.
type Sequential struct{}

func (Sequential) Dispatch(n int, lane func(i int)) {
	for i := 0; i < n; i++ {
		lane(i)
	}
}

type laneChunk struct {
	start, end int
	lane       func(i int)
	done       *sync.WaitGroup
}

// Pool is a persistent set of worker goroutines that run contiguous, disjoint
// index ranges. One Dispatch at a time.
type Pool struct {
	numWorkers int
	workChan   chan laneChunk
	wg         sync.WaitGroup
	closeOnce  sync.Once
}

// NewPool starts workers goroutines; workers <= 0 uses GOMAXPROCS.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	p := &Pool{
		numWorkers: workers,
		workChan:   make(chan laneChunk, workers),
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

func (p *Pool) Workers() int { return p.numWorkers }

func (p *Pool) worker() {
	defer p.wg.Done()
	for c := range p.workChan {
		for i := c.start; i < c.end; i++ {
			c.lane(i)
		}
		c.done.Done()
	}
}

func (p *Pool) Dispatch(n int, lane func(i int)) {
	if n <= 0 {
		return
	}
	if n < inlineThreshold || p.numWorkers == 1 {
		Sequential{}.Dispatch(n, lane)
		return
	}

	chunkSize := (n + p.numWorkers - 1) / p.numWorkers
	var done sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		done.Add(1)
		p.workChan <- laneChunk{start: start, end: end, lane: lane, done: &done}
	}
	done.Wait()
}

// Close stops the workers. Dispatch must not be called afterwards.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		close(p.workChan)
		p.wg.Wait()
	})
}
