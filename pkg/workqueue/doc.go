// Package workqueue provides a bounded-concurrency task-execution engine
// with pluggable dispatch order.
//
// A queue owns a fixed pool of worker slots. Submitting a task never blocks:
// the task is enqueued according to the queue's policy and dispatch
// immediately binds ready tasks to free slots. Each occupied slot runs one
// goroutine which executes its initial task and then keeps draining the
// queue until no ready task remains, so a single goroutine may run many
// tasks back to back.
//
// Two policies are provided:
//   - FifoWorkQueue hands out tasks strictly in submission order.
//   - OrderedWorkQueue hands out tasks in increasing explicit-index order
//     starting at 0, stalling on gaps.
//
// Both orderings apply to hand-out only; with more than one worker slot the
// completion order across tasks is unspecified.
//
// # Basic Usage
//
//	queue, err := workqueue.NewFifoWorkQueue(workqueue.Config{Workers: 4})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	queue.AddFunc(func() {
//	    // Do work
//	})
//
//	queue.JoinAll() // block until every slot is idle
//
// # Ordered dispatch
//
//	queue := workqueue.NewDefaultOrderedWorkQueue()
//	queue.AddFunc(stitchTile2, 2) // held back until 0 and 1 were handed out
//	queue.AddFunc(stitchTile0, 0)
//	queue.AddFunc(stitchTile1, 1)
//	queue.JoinAll()
//
// # Failure policy
//
// A task that panics is isolated: the panic is recovered on the worker
// goroutine, wrapped in *TaskPanicError and passed to Config.PanicHandler
// (by default it is logged at error level), and the worker keeps draining
// the queue. There is no cancellation of in-flight tasks and no per-task
// result value; tasks that need either must arrange it themselves.
package workqueue
