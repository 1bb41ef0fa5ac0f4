package workqueue

import (
	"runtime"

	"github.com/tohafrit/workqueue/pkg/workqueue/observability"
)

// Config controls queue construction.
type Config struct {
	// Workers is the fixed pool size: the upper bound on concurrently
	// running tasks. Immutable after construction.
	Workers int

	// Logger receives debug events for worker creation, reuse and
	// termination. Purely observational; nil disables logging.
	Logger observability.Logger

	// PanicHandler is invoked on the worker goroutine when a task panics.
	// When nil, the panic is logged at error level and the worker moves on.
	PanicHandler func(*TaskPanicError)
}

// DefaultConfig returns a config sized to the host.
// Workers = runtime.NumCPU().
func DefaultConfig() Config {
	return Config{Workers: runtime.NumCPU()}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Workers <= 0 {
		return ErrInvalidWorkers
	}
	return nil
}
