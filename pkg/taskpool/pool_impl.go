package taskpool

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/eapache/queue"
	"github.com/google/uuid"
)

// phase is the pool's lifecycle marker. Transitions are monotonic:
// Running -> Terminating -> Stopped, never reversed.
type phase int32

const (
	phaseRunning phase = iota
	phaseTerminating
	phaseStopped
)

// job pairs a boxed task with its one-shot result cell
type job struct {
	id       string
	task     Task
	future   *future
	accepted time.Time
}

// defaultPool implements Pool. All shared state lives behind a single mutex
// with two wait conditions: workCond ("queue non-empty or terminating",
// consumed by workers) and idleCond ("queue empty and nothing executing",
// consumed by idle-waiters). Idleness is derived from the queue length and
// an explicit executing count, so shutdown needs no compensating entries.
type defaultPool struct {
	workers int

	mu        sync.Mutex
	workCond  *sync.Cond
	idleCond  *sync.Cond
	queue     *queue.Queue // of *job
	executing int
	phase     phase
	draining  bool

	wg   sync.WaitGroup
	done chan struct{} // closed once the first Shutdown call completes

	baseCtx context.Context
	logger  Logger
	metrics Metrics
}

// New creates a Pool and starts its workers immediately.
// Returns ErrInvalidConfiguration if cfg.Workers is not positive.
func New(cfg Config) (Pool, error) {
	if cfg.Workers <= 0 {
		return nil, fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidConfiguration, cfg.Workers)
	}
	if cfg.Logger == nil {
		cfg.Logger = newDefaultLogger()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = nopMetrics{}
	}
	if cfg.BaseContext == nil {
		cfg.BaseContext = context.Background()
	}

	p := &defaultPool{
		workers: cfg.Workers,
		queue:   queue.New(),
		done:    make(chan struct{}),
		baseCtx: cfg.BaseContext,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
	}
	p.workCond = sync.NewCond(&p.mu)
	p.idleCond = sync.NewCond(&p.mu)

	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go p.worker(i)
	}
	p.metrics.WorkersStarted(p.workers)

	return p, nil
}

// Submit implements Pool interface
func (p *defaultPool) Submit(task Task) (Future, error) {
	if task == nil {
		p.metrics.TaskRejected()
		return nil, ErrNilTask
	}

	p.mu.Lock()
	if p.phase != phaseRunning {
		p.mu.Unlock()
		p.metrics.TaskRejected()
		return nil, ErrPoolClosed
	}

	j := &job{
		id:       uuid.NewString(),
		task:     task,
		future:   newFuture(),
		accepted: time.Now(),
	}
	p.queue.Add(j)
	depth := p.queue.Length()
	p.workCond.Signal()
	p.mu.Unlock()

	p.metrics.TaskSubmitted()
	p.metrics.QueueDepth(depth)
	p.logger.Debugf("task submitted: name=%s id=%s queued=%d", task.Name(), j.id, depth)

	return j.future, nil
}

// Size implements Pool interface
func (p *defaultPool) Size() int {
	return p.workers
}

// Pending implements Pool interface
func (p *defaultPool) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queue.Length()
}

// WaitIdle implements Pool interface
func (p *defaultPool) WaitIdle() {
	p.mu.Lock()
	for p.queue.Length() > 0 || p.executing > 0 {
		p.idleCond.Wait()
	}
	p.mu.Unlock()
}

// Shutdown implements Pool interface
func (p *defaultPool) Shutdown(drain bool) {
	p.mu.Lock()
	if p.draining || p.phase != phaseRunning {
		// Another caller owns the shutdown; wait for it to finish.
		p.mu.Unlock()
		<-p.done
		return
	}
	p.draining = true

	if drain {
		for p.queue.Length() > 0 || p.executing > 0 {
			p.idleCond.Wait()
		}
	}

	p.phase = phaseTerminating

	// Fail anything still queued so no future blocks forever. With drain the
	// queue is already empty (modulo submissions racing the drain wait).
	abandoned := 0
	for p.queue.Length() > 0 {
		j := p.queue.Remove().(*job)
		j.future.fail(fmt.Errorf("task %s abandoned: %w", j.id, ErrPoolClosed))
		p.metrics.TaskAbandoned()
		abandoned++
	}
	p.metrics.QueueDepth(0)

	p.workCond.Broadcast()
	p.mu.Unlock()

	p.wg.Wait()

	p.mu.Lock()
	p.phase = phaseStopped
	p.idleCond.Broadcast()
	p.mu.Unlock()

	close(p.done)
	p.logger.Infof("pool stopped: workers=%d abandoned=%d", p.workers, abandoned)
}

// worker is the long-lived execution loop. It exits only when a blocking
// dequeue observes the terminating phase.
func (p *defaultPool) worker(id int) {
	defer p.wg.Done()

	for {
		j, ok := p.next()
		if !ok {
			p.logger.Debugf("worker %d exiting", id)
			return
		}
		p.run(j)
	}
}

// next blocks until work is available or the pool is terminating. During
// termination it does not pop: remaining jobs belong to the shutdown
// controller, which fails them deterministically.
func (p *defaultPool) next() (*job, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for p.queue.Length() == 0 && p.phase == phaseRunning {
		p.workCond.Wait()
	}
	if p.phase != phaseRunning {
		return nil, false
	}

	j := p.queue.Remove().(*job)
	p.executing++
	return j, true
}

// run executes a single job inside the failure boundary, resolves its
// future, and performs the idle bookkeeping. The bookkeeping is identical
// whether the job succeeded, failed, or panicked.
func (p *defaultPool) run(j *job) {
	start := time.Now()
	value, err := p.execute(j)
	elapsed := time.Since(start)

	if err != nil {
		j.future.fail(err)
		p.metrics.TaskFailed(elapsed)
		p.logger.Errorf("task failed: name=%s id=%s err=%v", j.task.Name(), j.id, err)
	} else {
		j.future.complete(value)
		p.metrics.TaskCompleted(elapsed)
	}

	p.mu.Lock()
	p.executing--
	if p.queue.Length() == 0 && p.executing == 0 {
		p.idleCond.Broadcast()
	}
	p.mu.Unlock()
}

// execute is the failure boundary around a task body. A panic inside the
// task is converted into a TaskError instead of escaping the worker.
func (p *defaultPool) execute(j *job) (value interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			value = nil
			err = &TaskError{
				TaskName: j.task.Name(),
				TaskID:   j.id,
				cause:    fmt.Errorf("panic: %v", r),
			}
		}
	}()

	value, err = j.task.Execute(p.baseCtx)
	if err != nil {
		err = &TaskError{TaskName: j.task.Name(), TaskID: j.id, cause: err}
	}
	return value, err
}
