package workqueue

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tohafrit/workqueue/pkg/workqueue/observability"
)

// captureLogger records every message so tests can assert on dispatch order.
// Dispatch events are emitted with the queue lock held, so the captured
// sequence equals hand-out order.
type captureLogger struct {
	mu      sync.Mutex
	entries []capturedEntry
}

type capturedEntry struct {
	msg    string
	fields map[string]any
}

func (l *captureLogger) record(msg string, fields []observability.Field) {
	entry := capturedEntry{msg: msg, fields: make(map[string]any, len(fields))}
	for _, f := range fields {
		entry.fields[f.Key] = f.Value
	}

	l.mu.Lock()
	l.entries = append(l.entries, entry)
	l.mu.Unlock()
}

func (l *captureLogger) Debug(msg string, fields ...observability.Field) { l.record(msg, fields) }
func (l *captureLogger) Info(msg string, fields ...observability.Field)  { l.record(msg, fields) }
func (l *captureLogger) Warn(msg string, fields ...observability.Field)  { l.record(msg, fields) }
func (l *captureLogger) Error(msg string, fields ...observability.Field) { l.record(msg, fields) }

// intFields returns, in capture order, the named int field of every entry
// with the given message.
func (l *captureLogger) intFields(msg, key string) []int {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []int
	for _, e := range l.entries {
		if e.msg != msg {
			continue
		}
		if v, ok := e.fields[key].(int); ok {
			out = append(out, v)
		}
	}
	return out
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if cfg.Workers != runtime.NumCPU() {
		t.Errorf("DefaultConfig().Workers = %d, want %d", cfg.Workers, runtime.NumCPU())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v, want nil", err)
	}
}

func TestWorkQueue_Accessors(t *testing.T) {
	t.Parallel()

	queue, err := NewFifoWorkQueue(Config{Workers: 7})
	if err != nil {
		t.Fatalf("Failed to create queue: %v", err)
	}

	if got := queue.MaxThreads(); got != 7 {
		t.Errorf("MaxThreads() = %d, want 7", got)
	}
	if got := queue.ActiveThreads(); got != 0 {
		t.Errorf("ActiveThreads() = %d, want 0", got)
	}
}

func TestWorkQueue_JoinAllEmpty(t *testing.T) {
	t.Parallel()

	queue, err := NewFifoWorkQueue(Config{Workers: 2})
	if err != nil {
		t.Fatalf("Failed to create queue: %v", err)
	}

	done := make(chan struct{})
	go func() {
		queue.JoinAll()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("JoinAll on an idle queue did not return")
	}
}

func TestWorkQueue_JoinAllWaitsForCompletion(t *testing.T) {
	t.Parallel()

	queue, err := NewFifoWorkQueue(Config{Workers: 2})
	if err != nil {
		t.Fatalf("Failed to create queue: %v", err)
	}

	var finished atomic.Bool
	queue.AddFunc(func() {
		time.Sleep(50 * time.Millisecond)
		finished.Store(true)
	})

	// Several goroutines may join concurrently.
	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			queue.JoinAll()
			if !finished.Load() {
				t.Error("JoinAll returned before the task finished")
			}
		}()
	}
	wg.Wait()

	if got := queue.ActiveThreads(); got != 0 {
		t.Errorf("ActiveThreads() after join = %d, want 0", got)
	}
}

func TestWorkQueue_JoinAllDrainsTasksSubmittedByTasks(t *testing.T) {
	t.Parallel()

	queue, err := NewFifoWorkQueue(Config{Workers: 1})
	if err != nil {
		t.Fatalf("Failed to create queue: %v", err)
	}

	var first, second atomic.Bool
	queue.AddFunc(func() {
		first.Store(true)
		queue.AddFunc(func() {
			second.Store(true)
		})
	})

	queue.JoinAll()

	if !first.Load() || !second.Load() {
		t.Errorf("tasks ran = (%v, %v), want both", first.Load(), second.Load())
	}
}

func TestWorkQueue_ActiveNeverExceedsMax(t *testing.T) {
	t.Parallel()

	const workers = 4

	queue, err := NewFifoWorkQueue(Config{Workers: workers})
	if err != nil {
		t.Fatalf("Failed to create queue: %v", err)
	}

	var running atomic.Int32
	var peak atomic.Int32

	for i := 0; i < 50; i++ {
		queue.AddFunc(func() {
			n := running.Add(1)
			for {
				old := peak.Load()
				if n <= old || peak.CompareAndSwap(old, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			running.Add(-1)
		})

		if got := queue.ActiveThreads(); got > workers {
			t.Errorf("ActiveThreads() = %d, exceeds max %d", got, workers)
		}
	}

	queue.JoinAll()

	if got := peak.Load(); got > workers {
		t.Errorf("peak concurrent tasks = %d, exceeds max %d", got, workers)
	}
}

func TestWorkQueue_ConcurrentSubmitters(t *testing.T) {
	t.Parallel()

	queue, err := NewFifoWorkQueue(Config{Workers: 4})
	if err != nil {
		t.Fatalf("Failed to create queue: %v", err)
	}

	var wg sync.WaitGroup
	submitters := 10
	tasksPerSubmitter := 100

	var counter atomic.Int32

	for i := 0; i < submitters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < tasksPerSubmitter; j++ {
				queue.AddFunc(func() {
					counter.Add(1)
				})
			}
		}()
	}

	wg.Wait()
	queue.JoinAll()

	expected := int32(submitters * tasksPerSubmitter)
	if got := counter.Load(); got != expected {
		t.Errorf("Expected %d tasks to complete, got %d", expected, got)
	}
}

func TestWorkQueue_PanicIsolation(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var panicErr *TaskPanicError

	queue, err := NewFifoWorkQueue(Config{
		Workers: 1,
		PanicHandler: func(err *TaskPanicError) {
			mu.Lock()
			panicErr = err
			mu.Unlock()
		},
	})
	if err != nil {
		t.Fatalf("Failed to create queue: %v", err)
	}

	var survived atomic.Bool
	queue.AddFunc(func() {
		panic("boom")
	})
	queue.AddFunc(func() {
		survived.Store(true)
	})

	queue.JoinAll()

	mu.Lock()
	defer mu.Unlock()

	if panicErr == nil {
		t.Fatal("Expected panic to be reported")
	}
	if panicErr.Recovered != "boom" {
		t.Errorf("Recovered = %v, want boom", panicErr.Recovered)
	}
	if len(panicErr.Stack) == 0 {
		t.Error("Expected a captured stack")
	}
	if !survived.Load() {
		t.Error("Worker did not survive the panicking task")
	}

	stats := queue.Stats()
	if stats.PanickedTasks != 1 {
		t.Errorf("PanickedTasks = %d, want 1", stats.PanickedTasks)
	}
	if stats.CompletedTasks != 1 {
		t.Errorf("CompletedTasks = %d, want 1", stats.CompletedTasks)
	}
}

func TestWorkQueue_Statistics(t *testing.T) {
	t.Parallel()

	queue, err := NewFifoWorkQueue(Config{Workers: 2})
	if err != nil {
		t.Fatalf("Failed to create queue: %v", err)
	}

	taskCount := 20
	for i := 0; i < taskCount; i++ {
		queue.AddFunc(func() {
			time.Sleep(time.Millisecond)
		})
	}

	queue.JoinAll()

	stats := queue.Stats()
	if stats.CompletedTasks != int64(taskCount) {
		t.Errorf("CompletedTasks = %d, want %d", stats.CompletedTasks, taskCount)
	}
	if stats.MaxWorkers != 2 {
		t.Errorf("MaxWorkers = %d, want 2", stats.MaxWorkers)
	}
	if stats.ActiveWorkers != 0 {
		t.Errorf("ActiveWorkers = %d, want 0", stats.ActiveWorkers)
	}
	if stats.PendingTasks != 0 {
		t.Errorf("PendingTasks = %d, want 0", stats.PendingTasks)
	}
	if stats.AverageLatency == 0 {
		t.Error("Expected non-zero average latency")
	}
	if stats.Uptime == 0 {
		t.Error("Expected non-zero uptime")
	}
}

func TestWorkQueue_CompletionOutsideSlotRangePanics(t *testing.T) {
	t.Parallel()

	queue, err := NewFifoWorkQueue(Config{Workers: 2})
	if err != nil {
		t.Fatalf("Failed to create queue: %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Error("Expected panic for out-of-range slot id")
		}
	}()
	queue.workerComplete(99)
}
