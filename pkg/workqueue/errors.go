package workqueue

import (
	"errors"
	"fmt"
)

// ErrInvalidWorkers is returned when a config asks for a non-positive pool size.
var ErrInvalidWorkers = errors.New("workqueue: workers must be positive")

// TaskPanicError reports a task that panicked during Run. The worker that ran
// the task survives and keeps draining the queue.
type TaskPanicError struct {
	SlotID    int    // pool slot the task was running on
	Recovered any    // value recovered from the panic
	Stack     []byte // goroutine stack captured at recovery
}

func (e *TaskPanicError) Error() string {
	return fmt.Sprintf("workqueue: task panicked on slot %d: %v", e.SlotID, e.Recovered)
}
