package transcode

import "errors"

// Setup errors, reported before any frame work. Mid-transcode source,
// sink, and rasterization failures carry the underlying error instead.
var (
	// ErrTrackNotFound means the source lacks a required video or audio track.
	ErrTrackNotFound = errors.New("track not found")

	// ErrSinkRejectedInput means the sink cannot accept the configured
	// output format.
	ErrSinkRejectedInput = errors.New("sink rejected input format")

	// ErrSourceRejectedOutput means the source cannot decode a track to
	// the requested format.
	ErrSourceRejectedOutput = errors.New("source rejected output format")
)
