package media

// PixelFormat identifies the pixel layout requested for decoded frames.
type PixelFormat int

const (
	// PixelRGBA is 8-bit-per-channel RGBA.
	PixelRGBA PixelFormat = iota
	// PixelBGRA is 8-bit-per-channel BGRA.
	PixelBGRA
)

// DecodeFormat describes the decoded output requested from a source
// track output.
type DecodeFormat struct {
	Kind  TrackKind
	Pixel PixelFormat // video only
}

// EncodeFormat describes the encoded input registered with a sink. The
// fields are pass-through configuration; the core never interprets them
// beyond handing them to the sink.
type EncodeFormat struct {
	Kind             TrackKind
	Codec            string
	Width            int
	Height           int
	FrameRate        float64
	VideoBitrate     int // bits per second
	KeyFrameInterval int // frames between sync samples
	Profile          string
	AudioSampleRate  int
	AudioBitrate     int
	Channels         int
}
