package workqueue

// FifoWorkQueue hands out tasks strictly in the order they were submitted.
// Once handed out, relative completion order across slots is unspecified.
type FifoWorkQueue struct {
	*WorkQueue
	pendingTasks []Task
}

// NewFifoWorkQueue creates a FIFO queue with the given configuration.
func NewFifoWorkQueue(cfg Config) (*FifoWorkQueue, error) {
	q := &FifoWorkQueue{}
	engine, err := newWorkQueue(cfg, q)
	if err != nil {
		return nil, err
	}
	q.WorkQueue = engine
	return q, nil
}

// NewDefaultFifoWorkQueue creates a FIFO queue sized to the host.
func NewDefaultFifoWorkQueue() *FifoWorkQueue {
	q, _ := NewFifoWorkQueue(DefaultConfig())
	return q
}

// Add enqueues a task and dispatches to any free slots. It returns once
// eligible workers have been started; it does not wait for completion.
func (q *FifoWorkQueue) Add(task Task) {
	q.mu.Lock()
	q.pendingTasks = append(q.pendingTasks, task)
	q.mu.Unlock()

	q.notify()
}

// AddFunc is shorthand for Add(TaskFunc(fn)).
func (q *FifoWorkQueue) AddFunc(fn func()) {
	q.Add(TaskFunc(fn))
}

// Size reports the number of tasks waiting for dispatch.
func (q *FifoWorkQueue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pendingTasks)
}

func (q *FifoWorkQueue) nextReadyTask() Task {
	if len(q.pendingTasks) == 0 {
		return nil
	}
	task := q.pendingTasks[0]
	q.pendingTasks[0] = nil // drop the queue's reference
	q.pendingTasks = q.pendingTasks[1:]
	return task
}

func (q *FifoWorkQueue) pendingLen() int {
	return len(q.pendingTasks)
}
