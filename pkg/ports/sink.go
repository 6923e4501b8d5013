package ports

import (
	"github.com/user/vidpump/pkg/media"
)

// SinkStatus is the global state reported by a mux sink.
type SinkStatus int

const (
	// SinkWriting means the sink is accepting samples.
	SinkWriting SinkStatus = iota
	// SinkFailed means the sink hit a fatal error; Err holds it.
	SinkFailed
	// SinkCompleted means the output has been finalized.
	SinkCompleted
)

// Sink abstracts a mux sink: a component that encodes per-track raw
// samples into an output container. Inputs signal backpressure through
// Ready; the pump must not append to an input that is not ready.
type Sink interface {
	// AddInput registers a track input with the given encode format. It
	// reports false if the sink cannot accept the format.
	AddInput(kind media.TrackKind, format media.EncodeFormat) (TrackInput, bool)

	// StartWriting begins the output session at time zero.
	StartWriting() bool

	// Status returns the current global sink state.
	Status() SinkStatus

	// Err returns the fatal error after Status reports SinkFailed.
	Err() error

	// Finalize flushes and closes the output, then invokes onComplete
	// exactly once with the result. It blocks until the output is durable.
	Finalize(onComplete func(err error))

	// Abort discards pending output. Partial data already written to the
	// destination is left in place. Safe to call more than once.
	Abort()
}

// TrackInput accepts samples for one registered track.
type TrackInput interface {
	// Ready reports whether the input can accept more data now.
	Ready() bool

	// Append hands one sample to the input. It reports false on failure;
	// append failures are fatal and never retried.
	Append(sample media.Sample) bool

	// MarkFinished signals that no more samples will arrive for this
	// track. Terminal.
	MarkFinished()
}
