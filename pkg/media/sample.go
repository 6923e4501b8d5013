// Package media defines the sample, track, and orientation types that
// flow between the demux source, the transcode pump, and the mux sink.
package media

import "image"

// TrackKind identifies the media type of a track.
type TrackKind int

const (
	// KindVideo is a video track.
	KindVideo TrackKind = iota
	// KindAudio is an audio track.
	KindAudio
)

// String returns the string representation of the track kind.
func (k TrackKind) String() string {
	switch k {
	case KindVideo:
		return "video"
	case KindAudio:
		return "audio"
	default:
		return "unknown"
	}
}

// Sample is one timestamped unit of media data belonging to exactly one
// track. Video samples carry a decoded Image; audio samples carry their
// raw payload in Data. A sample is owned by the pump for the duration of
// one poll iteration and must never be retained across iterations.
type Sample struct {
	Kind     TrackKind
	PTS      Time
	Duration Time
	Data     []byte
	Image    image.Image
	Sync     bool
}

// Size represents pixel dimensions.
type Size struct {
	Width  int
	Height int
}

// Track is a handle to one media stream within a container.
type Track struct {
	ID        uint32
	Kind      TrackKind
	Timescale uint32
	Duration  Time
	Width     int
	Height    int
	FrameRate float64 // nominal frames per second, video only
	Rotation  int     // capture rotation in degrees from container metadata
}
