package workqueue

import (
	"fmt"
	"sync"

	"github.com/tohafrit/workqueue/pkg/workqueue/observability"
)

// dispatchPolicy yields tasks for dispatch. The concrete queue types
// implement it. Both methods are only ever called with the engine mutex held
// and must not block.
type dispatchPolicy interface {
	// nextReadyTask removes and returns the next task eligible for
	// dispatch, or nil when the policy has none ready.
	nextReadyTask() Task

	// pendingLen reports the number of tasks waiting for dispatch.
	pendingLen() int
}

// WorkQueue is the dispatch engine embedded by FifoWorkQueue and
// OrderedWorkQueue. It owns the slot pool and the join barrier; the concrete
// type owns the pending-task container and the hand-out order.
//
// A single mutex guards both the slot bookkeeping and the policy's pending
// container, so there is no lock ordering to get wrong.
type WorkQueue struct {
	mu     sync.Mutex
	joined *sync.Cond // signaled on every worker termination

	policy dispatchPolicy

	maxWorkers    int
	activeWorkers int
	availableIDs  []int          // free slot ids, reused FIFO
	agents        []*workerAgent // slot id -> running agent, nil while free

	logger       observability.Logger
	panicHandler func(*TaskPanicError)
	stats        *statsCollector
}

func newWorkQueue(cfg Config, policy dispatchPolicy) (*WorkQueue, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = observability.NoOpLogger{}
	}

	q := &WorkQueue{
		policy:       policy,
		maxWorkers:   cfg.Workers,
		availableIDs: make([]int, 0, cfg.Workers),
		agents:       make([]*workerAgent, cfg.Workers),
		logger:       logger,
		panicHandler: cfg.PanicHandler,
		stats:        newStatsCollector(),
	}
	q.joined = sync.NewCond(&q.mu)

	for id := 0; id < cfg.Workers; id++ {
		q.availableIDs = append(q.availableIDs, id)
	}

	if q.panicHandler == nil {
		q.panicHandler = func(err *TaskPanicError) {
			q.logger.Error("task panicked",
				observability.Field{Key: "slot", Value: err.SlotID},
				observability.Field{Key: "panic", Value: err.Recovered},
			)
		}
	}

	return q, nil
}

// notify matches free slots to ready tasks. For every match it binds a new
// worker agent to the slot and starts its goroutine. Returns once eligible
// workers have been started; it never waits for task completion.
func (q *WorkQueue) notify() {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.availableIDs) > 0 {
		task := q.policy.nextReadyTask()
		if task == nil {
			break
		}

		id := q.availableIDs[0]
		q.availableIDs = q.availableIDs[1:]

		agent := &workerAgent{queue: q, slotID: id, initial: task}
		q.agents[id] = agent
		q.activeWorkers++
		q.stats.recordWorkerSpawn()

		q.logger.Debug("creating worker",
			observability.Field{Key: "slot", Value: id},
			observability.Field{Key: "active", Value: q.activeWorkers},
			observability.Field{Key: "max", Value: q.maxWorkers},
		)

		go agent.run()
	}
}

// nextTask hands the calling worker agent another ready task, if any.
// Dispatch logic runs without binding a fresh agent, which is what lets a
// worker goroutine be reused across tasks.
func (q *WorkQueue) nextTask() Task {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.policy.nextReadyTask()
}

// workerComplete is invoked by an agent that found no further task. It frees
// the slot and wakes every goroutine blocked in JoinAll.
func (q *WorkQueue) workerComplete(slotID int) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if slotID < 0 || slotID >= q.maxWorkers {
		panic(fmt.Sprintf("workqueue: completion reported for slot %d, pool size %d", slotID, q.maxWorkers))
	}

	q.activeWorkers--
	q.agents[slotID] = nil
	q.availableIDs = append(q.availableIDs, slotID)

	q.logger.Debug("terminating worker",
		observability.Field{Key: "slot", Value: slotID},
		observability.Field{Key: "active", Value: q.activeWorkers},
		observability.Field{Key: "max", Value: q.maxWorkers},
	)

	q.joined.Broadcast()
}

// MaxThreads returns the configured pool size.
func (q *WorkQueue) MaxThreads() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.maxWorkers
}

// ActiveThreads returns the number of currently occupied slots.
func (q *WorkQueue) ActiveThreads() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.activeWorkers
}

// JoinAll blocks the caller until no worker slot is occupied. Tasks submitted
// while a join is in progress are drained before it returns: worker
// termination is the only wake-up, and the predicate is re-checked after
// every wake. With zero active workers it returns immediately.
func (q *WorkQueue) JoinAll() {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.activeWorkers != 0 {
		q.joined.Wait()
	}
}

// Stats returns a snapshot of queue statistics. Safe for concurrent use.
func (q *WorkQueue) Stats() Stats {
	q.mu.Lock()
	pending := q.policy.pendingLen()
	active := q.activeWorkers
	maxWorkers := q.maxWorkers
	q.mu.Unlock()

	return q.stats.snapshot(pending, active, maxWorkers)
}
