package ports

import (
	"github.com/user/vidpump/pkg/media"
)

// SourceStatus is the global state reported by a demux source.
type SourceStatus int

const (
	// SourceReading means the source is still producing samples.
	SourceReading SourceStatus = iota
	// SourceFailed means the source hit a fatal error; Err holds it.
	SourceFailed
	// SourceCompleted means every registered output has been drained.
	SourceCompleted
)

// Source abstracts a demux source: a component that decodes a container
// into per-track raw samples. The transcode pump consumes it strictly
// by polling; NextSample and Status are synchronous, non-blocking calls.
type Source interface {
	// Tracks returns the tracks of the given kind present in the container.
	Tracks(kind media.TrackKind) []media.Track

	// RegisterOutput requests decoded samples for a track in the given
	// format. It reports false if the source cannot satisfy the format.
	RegisterOutput(track media.Track, format media.DecodeFormat) (TrackOutput, bool)

	// StartReading begins producing samples from a zero-based session
	// start time shared with the sink.
	StartReading() bool

	// Status returns the current global source state.
	Status() SourceStatus

	// Err returns the fatal error after Status reports SourceFailed.
	Err() error

	// Cancel stops the source. Safe to call more than once.
	Cancel()
}

// TrackOutput yields decoded samples for one registered track.
type TrackOutput interface {
	// NextSample returns the next decoded sample, or ok=false once the
	// track is exhausted. Exhaustion is terminal.
	NextSample() (media.Sample, bool)
}
