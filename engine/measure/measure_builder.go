package measure

import (
	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/rs/zerolog"
)

type ToolBuilderOption func(*toolImpl)

// WithPool sets the worker pool used to project label anchors.
//
// Parameters:
//   - pool: the pool; nil projects on the calling goroutine
//
// Returns:
//   - ToolBuilderOption: a function that sets the pool
func WithPool(pool worker.DynamicWorkerPool) ToolBuilderOption {
	return func(t *toolImpl) {
		t.pool = pool
	}
}

// WithLogger sets the logger that reports committed measurements.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - ToolBuilderOption: a function that sets the logger
func WithLogger(logger zerolog.Logger) ToolBuilderOption {
	return func(t *toolImpl) {
		t.logger = logger.With().Str("component", "measure").Logger()
	}
}
