package ports

// Executor abstracts the execution context that progress callbacks are
// dispatched on. Dispatch is fire-and-forget: it must return without
// waiting for fn to run, so the transcode loop is never blocked by a
// slow observer.
type Executor interface {
	Dispatch(fn func())
}

// GoExecutor runs each dispatched function on its own goroutine.
type GoExecutor struct{}

// Dispatch implements Executor.
func (GoExecutor) Dispatch(fn func()) {
	go fn()
}

var _ Executor = GoExecutor{}
