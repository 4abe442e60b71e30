package core

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
)

// Phase processes the half-open index range [lo, hi). batch identifies the
// range so callers can keep per-batch scratch state without locking.
type Phase func(batch, lo, hi int)

// SchedulerState enumerates the states of a two-phase step.
type SchedulerState int32

const (
	StateIdle SchedulerState = iota
	StateCompute
	StateCommit
)

func (s SchedulerState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCompute:
		return "compute"
	case StateCommit:
		return "commit"
	default:
		return fmt.Sprintf("SchedulerState(%d)", int32(s))
	}
}

// ErrBusy is returned when Step is called while another step is running.
var ErrBusy = errors.New("scheduler: step already in progress")

// Scheduler runs simultaneous-activation steps: compute runs for every index
// before commit runs for any index.
type Scheduler interface {
	// Batches reports how many batches Step will use for n cells.
	Batches(n int) int
	// Step runs compute over all n indices, waits, then runs commit.
	Step(n int, compute, commit Phase) error
	// State reports the current phase.
	State() SchedulerState
	// Close releases worker resources.
	Close()
}

type phaseTracker struct {
	state atomic.Int32
}

func (p *phaseTracker) State() SchedulerState { return SchedulerState(p.state.Load()) }

func (p *phaseTracker) begin() error {
	if !p.state.CompareAndSwap(int32(StateIdle), int32(StateCompute)) {
		return ErrBusy
	}
	return nil
}

func (p *phaseTracker) enter(s SchedulerState) { p.state.Store(int32(s)) }

// Sequential runs both phases on the calling goroutine.
type Sequential struct {
	phaseTracker
}

// NewSequential returns a single-threaded scheduler.
func NewSequential() *Sequential { return &Sequential{} }

// Batches always reports a single batch.
func (s *Sequential) Batches(int) int { return 1 }

// Step runs compute then commit over [0, n).
func (s *Sequential) Step(n int, compute, commit Phase) error {
	if err := s.begin(); err != nil {
		return err
	}
	defer s.enter(StateIdle)
	compute(0, 0, n)
	s.enter(StateCommit)
	commit(0, 0, n)
	return nil
}

// Close is a no-op.
func (s *Sequential) Close() {}

type job struct {
	phase  Phase
	batch  int
	lo, hi int
	wg     *sync.WaitGroup
}

// Concurrent partitions the index space into fixed-size batches and feeds them
// to a bounded pool of long-lived workers. Each phase ends in a single join, so
// commit never starts before every compute batch has finished.
type Concurrent struct {
	phaseTracker

	workers   int
	batchSize int

	jobs   chan job
	once   sync.Once
	mu     sync.Mutex
	failed error
}

// NewConcurrent starts a worker pool. Non-positive workers default to
// GOMAXPROCS; non-positive batch sizes default to 1024 cells.
func NewConcurrent(workers, batchSize int) *Concurrent {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if batchSize <= 0 {
		batchSize = 1024
	}
	c := &Concurrent{
		workers:   workers,
		batchSize: batchSize,
		jobs:      make(chan job),
	}
	for i := 0; i < workers; i++ {
		go c.work()
	}
	return c
}

// Workers returns the pool size.
func (c *Concurrent) Workers() int { return c.workers }

// BatchSize returns the number of cells per batch.
func (c *Concurrent) BatchSize() int { return c.batchSize }

// Batches reports ceil(n / batchSize).
func (c *Concurrent) Batches(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + c.batchSize - 1) / c.batchSize
}

func (c *Concurrent) work() {
	for j := range c.jobs {
		c.run(j)
	}
}

func (c *Concurrent) run(j job) {
	defer j.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			c.mu.Lock()
			if c.failed == nil {
				c.failed = fmt.Errorf("scheduler: batch %d [%d,%d) panicked: %v", j.batch, j.lo, j.hi, r)
			}
			c.mu.Unlock()
		}
	}()
	j.phase(j.batch, j.lo, j.hi)
}

func (c *Concurrent) dispatch(n int, phase Phase) error {
	var wg sync.WaitGroup
	batches := c.Batches(n)
	wg.Add(batches)
	for b := 0; b < batches; b++ {
		lo := b * c.batchSize
		hi := min(lo+c.batchSize, n)
		c.jobs <- job{phase: phase, batch: b, lo: lo, hi: hi, wg: &wg}
	}
	wg.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	err := c.failed
	c.failed = nil
	return err
}

// Step runs compute over every batch, waits for all of them, then does the
// same for commit. A panicking batch aborts the step before commit.
func (c *Concurrent) Step(n int, compute, commit Phase) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.enter(StateIdle)
	if err := c.dispatch(n, compute); err != nil {
		return err
	}
	c.enter(StateCommit)
	return c.dispatch(n, commit)
}

// Close stops the workers. The scheduler must not be used afterwards.
func (c *Concurrent) Close() {
	c.once.Do(func() { close(c.jobs) })
}
