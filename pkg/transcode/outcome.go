package transcode

import (
	"sync"
	"sync/atomic"
)

// OutcomeKind tags the terminal result of a transcode.
type OutcomeKind int

const (
	// OutcomeSuccess means the destination container was finalized.
	OutcomeSuccess OutcomeKind = iota
	// OutcomeFailure means a setup, source, sink, or rasterization
	// error aborted the transcode.
	OutcomeFailure
	// OutcomeCancelled means the caller set the cancellation flag.
	OutcomeCancelled
)

// Outcome is the terminal result of a transcode. Exactly one Outcome is
// produced per transcode, exactly once.
type Outcome struct {
	Kind     OutcomeKind
	Location string // destination path, success only
	Err      error  // failure only
}

// Success builds a success outcome for the given destination.
func Success(location string) Outcome {
	return Outcome{Kind: OutcomeSuccess, Location: location}
}

// Failure builds a failure outcome wrapping err.
func Failure(err error) Outcome {
	return Outcome{Kind: OutcomeFailure, Err: err}
}

// Cancelled builds a cancelled outcome. Cancellation is not an error.
func Cancelled() Outcome {
	return Outcome{Kind: OutcomeCancelled}
}

// Handle is returned by Transcode and exposes the single settable
// cancellation flag. The flag is the only state mutated from outside
// the transcode's worker goroutine; it is polled once per loop
// iteration, so setting it guarantees observation within one iteration
// plus one idle-yield interval.
type Handle struct {
	cancel atomic.Bool
	once   sync.Once
	done   chan struct{}
}

func newHandle() *Handle {
	return &Handle{done: make(chan struct{})}
}

// Cancel requests cooperative cancellation. Calling it after the
// transcode has resolved is a no-op.
func (h *Handle) Cancel() {
	h.cancel.Store(true)
}

// Done returns a channel closed once the outcome has been delivered.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// resolve delivers the outcome through onOutcome at most once.
func (h *Handle) resolve(o Outcome, onOutcome func(Outcome)) {
	h.once.Do(func() {
		if onOutcome != nil {
			onOutcome(o)
		}
		close(h.done)
	})
}
