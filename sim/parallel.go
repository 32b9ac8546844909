package sim

import (
	"runtime"
	"sync"
)

// parallelThreshold is the default minimum cell count for parallel processing.
// Below this, single-threaded is faster due to goroutine overhead.
const parallelThreshold = 64

// workChunk represents a range of cells for a worker to process.
type workChunk struct {
	start, end int
	dt         float64
}

// parallelState holds the double buffer and the worker pool.
type parallelState struct {
	read      []Cell       // start-of-tick state, read by every worker
	peers     []*Cell      // pointers into read
	receptors [][]Receptor // per cell, parallel to read
	write     []Cell       // computed state, one slot per worker-owned index

	numWorkers int

	// Worker pool channels
	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool           // true if workers are running
}

func newParallelState(workers int) *parallelState {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &parallelState{
		numWorkers: workers,
		read:       make([]Cell, 0, 64),
		write:      make([]Cell, 0, 64),
	}
}

// startWorkers launches persistent worker goroutines.
func (p *parallelState) startWorkers(s *Simulation) {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(s)
	}
}

// stopWorkers signals all workers to exit and waits for them.
func (p *parallelState) stopWorkers() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

// worker runs in a goroutine, processing chunks until stopped.
func (p *parallelState) worker(s *Simulation) {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			s.computeChunk(chunk.start, chunk.end, chunk.dt)
			p.doneChan <- struct{}{}
		}
	}
}

// computeParallel dispatches work to the worker pool and waits for it.
func (s *Simulation) computeParallel(n int, dt float64) {
	ps := s.parallel
	if !ps.running {
		ps.startWorkers(s)
	}

	chunkSize := (n + ps.numWorkers - 1) / ps.numWorkers

	chunksDispatched := 0
	for w := 0; w < ps.numWorkers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			continue
		}

		ps.workChan <- workChunk{start: start, end: end, dt: dt}
		chunksDispatched++
	}

	for i := 0; i < chunksDispatched; i++ {
		<-ps.doneChan
	}
}
