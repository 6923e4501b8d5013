package mocks

import (
	"sync"

	"github.com/user/vidpump/pkg/ports"
)

// SyncExecutor runs dispatched functions inline, making progress
// callbacks deterministic in tests.
type SyncExecutor struct {
	mu sync.Mutex

	Dispatches int
}

// Dispatch implements ports.Executor.
func (e *SyncExecutor) Dispatch(fn func()) {
	e.mu.Lock()
	e.Dispatches++
	e.mu.Unlock()
	fn()
}

var _ ports.Executor = (*SyncExecutor)(nil)
