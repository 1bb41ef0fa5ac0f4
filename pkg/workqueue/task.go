package workqueue

// Task is a unit of work. Run executes synchronously on the calling worker
// goroutine and returns nothing. The queue never mutates a task; a task that
// touches shared state must carry its own synchronization.
//
// A task may be referenced by the submitter and the queue at the same time.
// The queue drops its reference after Run returns.
type Task interface {
	Run()
}

// TaskFunc adapts a plain function to the Task interface.
type TaskFunc func()

// Run invokes the function.
func (f TaskFunc) Run() { f() }
