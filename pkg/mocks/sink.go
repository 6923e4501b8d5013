package mocks

import (
	"sync"

	"github.com/user/vidpump/pkg/media"
	"github.com/user/vidpump/pkg/ports"
)

// TrackInput is a mock ports.TrackInput that records appended samples.
// It reports ready unless NotReady is set or ReadyFunc overrides it.
type TrackInput struct {
	mu sync.Mutex

	NotReady  bool
	ReadyFunc func() bool

	// AppendFunc, when set, decides the append result. The sample is
	// still recorded.
	AppendFunc func(media.Sample) bool

	Appended []media.Sample
	Finished bool
}

// Ready implements ports.TrackInput.
func (i *TrackInput) Ready() bool {
	if i.ReadyFunc != nil {
		return i.ReadyFunc()
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	return !i.NotReady
}

// Append implements ports.TrackInput.
func (i *TrackInput) Append(sample media.Sample) bool {
	i.mu.Lock()
	i.Appended = append(i.Appended, sample)
	i.mu.Unlock()
	if i.AppendFunc != nil {
		return i.AppendFunc(sample)
	}
	return true
}

// MarkFinished implements ports.TrackInput.
func (i *TrackInput) MarkFinished() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.Finished = true
}

// AppendedCount returns how many samples were appended.
func (i *TrackInput) AppendedCount() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.Appended)
}

// IsFinished reports whether MarkFinished was called.
func (i *TrackInput) IsFinished() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.Finished
}

var _ ports.TrackInput = (*TrackInput)(nil)

// Sink is a mock ports.Sink with one video and one audio input.
type Sink struct {
	mu sync.Mutex

	VideoInput TrackInput
	AudioInput TrackInput

	// RejectInputs makes AddInput refuse the listed kinds.
	RejectInputs map[media.TrackKind]bool

	// RejectStart makes StartWriting report failure.
	RejectStart bool

	// FinalizeErr is handed to the Finalize completion callback.
	FinalizeErr error

	// StatusFunc, when set, replaces the stored status.
	StatusFunc func() ports.SinkStatus

	status ports.SinkStatus
	err    error

	// Recorded calls.
	AddedFormats  []media.EncodeFormat
	StartCalled   bool
	FinalizeCalls int
	AbortCalled   bool
}

// AddInput implements ports.Sink.
func (s *Sink) AddInput(kind media.TrackKind, format media.EncodeFormat) (ports.TrackInput, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.RejectInputs[kind] {
		return nil, false
	}
	s.AddedFormats = append(s.AddedFormats, format)
	if kind == media.KindVideo {
		return &s.VideoInput, true
	}
	return &s.AudioInput, true
}

// StartWriting implements ports.Sink.
func (s *Sink) StartWriting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.StartCalled = true
	return !s.RejectStart
}

// Status implements ports.Sink.
func (s *Sink) Status() ports.SinkStatus {
	if s.StatusFunc != nil {
		return s.StatusFunc()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Err implements ports.Sink.
func (s *Sink) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Finalize implements ports.Sink.
func (s *Sink) Finalize(onComplete func(err error)) {
	s.mu.Lock()
	s.FinalizeCalls++
	s.status = ports.SinkCompleted
	err := s.FinalizeErr
	s.mu.Unlock()
	onComplete(err)
}

// Abort implements ports.Sink.
func (s *Sink) Abort() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.AbortCalled = true
}

// Fail moves the sink into the failed state with err.
func (s *Sink) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = ports.SinkFailed
	s.err = err
}

// Aborted reports whether Abort was called.
func (s *Sink) Aborted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.AbortCalled
}

// Finalized reports how many times Finalize was called.
func (s *Sink) Finalized() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.FinalizeCalls
}

var _ ports.Sink = (*Sink)(nil)
