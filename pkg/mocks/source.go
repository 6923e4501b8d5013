// Package mocks provides hand-rolled mock implementations of the ports
// used by the transcode core, for use in tests.
package mocks

import (
	"sync"

	"github.com/user/vidpump/pkg/media"
	"github.com/user/vidpump/pkg/ports"
)

// TrackOutput is a mock ports.TrackOutput that yields a fixed sample
// slice and then reports exhaustion.
type TrackOutput struct {
	mu      sync.Mutex
	Samples []media.Sample
	next    int

	// NextFunc, when set, replaces the default behavior entirely.
	NextFunc func() (media.Sample, bool)
}

// NextSample implements ports.TrackOutput.
func (o *TrackOutput) NextSample() (media.Sample, bool) {
	if o.NextFunc != nil {
		return o.NextFunc()
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.next >= len(o.Samples) {
		return media.Sample{}, false
	}
	s := o.Samples[o.next]
	o.next++
	return s, true
}

// Consumed returns how many samples have been pulled so far.
func (o *TrackOutput) Consumed() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.next
}

var _ ports.TrackOutput = (*TrackOutput)(nil)

// Source is a mock ports.Source serving one video and one audio track.
type Source struct {
	mu sync.Mutex

	// Track layout. A nil track is reported as absent.
	VideoTrack *media.Track
	AudioTrack *media.Track

	// Sample feeds handed out by RegisterOutput.
	VideoOutput TrackOutput
	AudioOutput TrackOutput

	// RejectOutputs makes RegisterOutput refuse the listed kinds.
	RejectOutputs map[media.TrackKind]bool

	// RejectStart makes StartReading report failure.
	RejectStart bool

	// StatusFunc, when set, replaces the stored status.
	StatusFunc func() ports.SourceStatus

	status ports.SourceStatus
	err    error

	// Recorded calls.
	StartCalled     bool
	CancelCalled    bool
	RegisteredKinds []media.TrackKind
}

// Tracks implements ports.Source.
func (s *Source) Tracks(kind media.TrackKind) []media.Track {
	switch {
	case kind == media.KindVideo && s.VideoTrack != nil:
		return []media.Track{*s.VideoTrack}
	case kind == media.KindAudio && s.AudioTrack != nil:
		return []media.Track{*s.AudioTrack}
	default:
		return nil
	}
}

// RegisterOutput implements ports.Source.
func (s *Source) RegisterOutput(track media.Track, format media.DecodeFormat) (ports.TrackOutput, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.RejectOutputs[track.Kind] {
		return nil, false
	}
	s.RegisteredKinds = append(s.RegisteredKinds, track.Kind)
	if track.Kind == media.KindVideo {
		return &s.VideoOutput, true
	}
	return &s.AudioOutput, true
}

// StartReading implements ports.Source.
func (s *Source) StartReading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.StartCalled = true
	return !s.RejectStart
}

// Status implements ports.Source.
func (s *Source) Status() ports.SourceStatus {
	if s.StatusFunc != nil {
		return s.StatusFunc()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Err implements ports.Source.
func (s *Source) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Cancel implements ports.Source.
func (s *Source) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CancelCalled = true
}

// Fail moves the source into the failed state with err.
func (s *Source) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = ports.SourceFailed
	s.err = err
}

// Cancelled reports whether Cancel was called.
func (s *Source) Cancelled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.CancelCalled
}

var _ ports.Source = (*Source)(nil)
