package workqueue

import "github.com/tohafrit/workqueue/pkg/workqueue/observability"

// OrderedWorkQueue hands out tasks in strictly increasing index order,
// starting at index 0. A task is only dispatched when its index equals the
// next expected index; a missing index stalls dispatch for every higher
// index until the gap is filled, even while slots sit idle.
//
// The ordering applies to hand-out, not completion: with more than one slot,
// task k+1 may finish before task k.
type OrderedWorkQueue struct {
	*WorkQueue
	pendingTasks map[int]Task
	nextIndex    int
}

// NewOrderedWorkQueue creates an ordered queue with the given configuration.
func NewOrderedWorkQueue(cfg Config) (*OrderedWorkQueue, error) {
	q := &OrderedWorkQueue{pendingTasks: make(map[int]Task)}
	engine, err := newWorkQueue(cfg, q)
	if err != nil {
		return nil, err
	}
	q.WorkQueue = engine
	return q, nil
}

// NewDefaultOrderedWorkQueue creates an ordered queue sized to the host.
func NewDefaultOrderedWorkQueue() *OrderedWorkQueue {
	q, _ := NewOrderedWorkQueue(DefaultConfig())
	return q
}

// Add enqueues a task under the given index and dispatches to any free
// slots. Submitting an index twice silently replaces the earlier task.
// Indices below the next expected index are never dispatched.
func (q *OrderedWorkQueue) Add(task Task, index int) {
	q.mu.Lock()
	q.pendingTasks[index] = task
	q.mu.Unlock()

	q.notify()
}

// AddFunc is shorthand for Add(TaskFunc(fn), index).
func (q *OrderedWorkQueue) AddFunc(fn func(), index int) {
	q.Add(TaskFunc(fn), index)
}

// Size reports the number of tasks waiting for dispatch.
func (q *OrderedWorkQueue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pendingTasks)
}

// NextIndex reports the index the queue will dispatch next.
func (q *OrderedWorkQueue) NextIndex() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.nextIndex
}

func (q *OrderedWorkQueue) nextReadyTask() Task {
	if len(q.pendingTasks) == 0 {
		return nil
	}

	// The minimum pending index must match the expected one; a stale low
	// index stalls dispatch the same way a gap does.
	minIndex := 0
	first := true
	for index := range q.pendingTasks {
		if first || index < minIndex {
			minIndex = index
			first = false
		}
	}
	if minIndex != q.nextIndex {
		return nil
	}

	task := q.pendingTasks[minIndex]
	delete(q.pendingTasks, minIndex)
	q.nextIndex++

	q.logger.Debug("handing out ordered task",
		observability.Field{Key: "index", Value: minIndex},
	)

	return task
}

func (q *OrderedWorkQueue) pendingLen() int {
	return len(q.pendingTasks)
}
