package workqueue

import (
	"runtime/debug"
	"time"

	"github.com/tohafrit/workqueue/pkg/workqueue/observability"
)

// workerAgent executes tasks on one pool slot. It runs the task it was
// started with, then keeps asking the queue for more until none is ready,
// then reports the slot free.
type workerAgent struct {
	queue   *WorkQueue
	slotID  int
	initial Task
}

func (w *workerAgent) run() {
	w.execute(w.initial)
	w.initial = nil

	for {
		task := w.queue.nextTask()
		if task == nil {
			break
		}
		w.queue.stats.recordWorkerReuse()
		w.queue.logger.Debug("reusing worker",
			observability.Field{Key: "slot", Value: w.slotID},
		)
		w.execute(task)
	}

	w.queue.workerComplete(w.slotID)
}

// execute runs one task with panic isolation. A panicking task is counted
// separately and reported through the queue's panic handler; it does not
// take the worker down.
func (w *workerAgent) execute(task Task) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			w.queue.stats.recordTaskPanic()
			w.queue.panicHandler(&TaskPanicError{
				SlotID:    w.slotID,
				Recovered: r,
				Stack:     debug.Stack(),
			})
			return
		}
		w.queue.stats.recordTaskCompletion(time.Since(start))
	}()

	task.Run()
}
