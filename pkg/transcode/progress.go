package transcode

import "github.com/user/vidpump/pkg/ports"

// ProgressObserver receives (completed, total) progress updates on the
// given executor. Total is fixed at transcode start from the estimated
// frame count; completed is video-frame-denominated and may exceed the
// estimate on variable-frame-rate sources.
type ProgressObserver struct {
	Executor ports.Executor
	Fn       func(completed, total int64)
}

// progressReporter converts consumed video frames into fractional
// completion dispatches. It lives on the transcode worker goroutine;
// dispatches are fire-and-forget and never block the pump loop.
type progressReporter struct {
	total     int64
	completed int64
	observer  *ProgressObserver
}

func newProgressReporter(total int64, observer *ProgressObserver) *progressReporter {
	if observer != nil && observer.Executor == nil {
		observer = &ProgressObserver{Executor: ports.GoExecutor{}, Fn: observer.Fn}
	}
	return &progressReporter{total: total, observer: observer}
}

// frameConsumed records one consumed video sample and notifies the
// observer, if any. Completed is monotonically non-decreasing.
func (r *progressReporter) frameConsumed() {
	r.completed++
	if r.observer == nil || r.observer.Fn == nil {
		return
	}
	completed, total := r.completed, r.total
	fn := r.observer.Fn
	r.observer.Executor.Dispatch(func() {
		fn(completed, total)
	})
}
