// Package nullsink provides a discarding mux sink, used for dry runs
// where the pipeline should execute end to end without writing output.
package nullsink

import (
	"github.com/user/vidpump/pkg/media"
	"github.com/user/vidpump/pkg/ports"
)

// Sink is a ports.Sink that accepts any reasonable track layout and
// discards every sample.
type Sink struct {
	inputs    int
	started   bool
	finalized bool
	aborted   bool

	// Appended counts discarded samples per track kind.
	Appended map[media.TrackKind]int
}

// New creates a discarding sink.
func New() *Sink {
	return &Sink{Appended: make(map[media.TrackKind]int)}
}

// AddInput implements ports.Sink.
func (s *Sink) AddInput(kind media.TrackKind, format media.EncodeFormat) (ports.TrackInput, bool) {
	if s.started || s.finalized || s.aborted {
		return nil, false
	}
	s.inputs++
	return &Input{sink: s, kind: kind}, true
}

// StartWriting implements ports.Sink.
func (s *Sink) StartWriting() bool {
	if s.finalized || s.aborted || s.inputs == 0 {
		return false
	}
	s.started = true
	return true
}

// Status implements ports.Sink.
func (s *Sink) Status() ports.SinkStatus {
	if s.finalized {
		return ports.SinkCompleted
	}
	return ports.SinkWriting
}

// Err implements ports.Sink.
func (s *Sink) Err() error {
	return nil
}

// Finalize implements ports.Sink.
func (s *Sink) Finalize(onComplete func(err error)) {
	s.finalized = true
	onComplete(nil)
}

// Abort implements ports.Sink.
func (s *Sink) Abort() {
	s.aborted = true
}

// Input discards samples for one track.
type Input struct {
	sink     *Sink
	kind     media.TrackKind
	finished bool
}

// Ready implements ports.TrackInput.
func (i *Input) Ready() bool {
	return i.sink.started && !i.sink.finalized && !i.sink.aborted && !i.finished
}

// Append implements ports.TrackInput.
func (i *Input) Append(sample media.Sample) bool {
	if !i.Ready() {
		return false
	}
	i.sink.Appended[i.kind]++
	return true
}

// MarkFinished implements ports.TrackInput.
func (i *Input) MarkFinished() {
	i.finished = true
}

var (
	_ ports.Sink       = (*Sink)(nil)
	_ ports.TrackInput = (*Input)(nil)
)
