// Package mp4mux provides a mux sink that writes a fragmented MP4
// container. Video inputs carry rasterized frames which are stored as
// JPEG samples (intra-only); audio payloads are muxed as-is.
package mp4mux

import (
	"bytes"
	"fmt"
	"image/jpeg"

	"github.com/Eyevinn/mp4ff/mp4"

	"github.com/user/vidpump/pkg/adapters/logger"
	"github.com/user/vidpump/pkg/media"
	"github.com/user/vidpump/pkg/ports"
)

const (
	videoTimescale = 90000

	// highWaterBytes is the backpressure threshold: an input stops
	// reporting ready once its unflushed bytes exceed this, until the
	// pending group is sealed into a fragment.
	highWaterBytes = 4 << 20

	// audioFragmentSamples caps audio fragment length; video fragments
	// follow the configured key frame interval.
	audioFragmentSamples = 256
)

var knownProfiles = map[string]bool{
	"":         true,
	"baseline": true,
	"main":     true,
	"high":     true,
}

// Sink implements ports.Sink over a fragmented MP4 file built with
// mp4ff. All state belongs to the transcode worker goroutine; the sink
// performs no locking of its own.
type Sink struct {
	path   string
	fs     ports.FileSystem
	logger ports.Logger

	video *Input
	audio *Input

	fragSeq   uint32
	fragments []*mp4.Fragment

	started   bool
	finalized bool
	aborted   bool
	err       error
}

// NewSink creates a sink that will write the container to path through
// fs when finalized.
func NewSink(path string, fs ports.FileSystem, log ports.Logger) *Sink {
	if log == nil {
		log = logger.NewNoop()
	}
	return &Sink{path: path, fs: fs, logger: log.WithComponent("mp4mux")}
}

// AddInput implements ports.Sink. Unknown profiles and degenerate video
// dimensions are rejected here, before any frame work.
func (s *Sink) AddInput(kind media.TrackKind, format media.EncodeFormat) (ports.TrackInput, bool) {
	if s.started || s.finalized || s.aborted {
		return nil, false
	}
	switch kind {
	case media.KindVideo:
		if s.video != nil || format.Width <= 0 || format.Height <= 0 || !knownProfiles[format.Profile] {
			return nil, false
		}
		interval := format.KeyFrameInterval
		if interval <= 0 {
			interval = 30
		}
		s.video = &Input{
			sink:          s,
			kind:          kind,
			format:        format,
			timescale:     videoTimescale,
			fragmentCount: interval,
			jpegQuality:   jpegQualityForBitrate(format.VideoBitrate),
		}
		return s.video, true
	case media.KindAudio:
		if s.audio != nil || format.AudioSampleRate <= 0 {
			return nil, false
		}
		s.audio = &Input{
			sink:          s,
			kind:          kind,
			format:        format,
			timescale:     uint32(format.AudioSampleRate),
			fragmentCount: audioFragmentSamples,
		}
		return s.audio, true
	default:
		return nil, false
	}
}

// StartWriting implements ports.Sink.
func (s *Sink) StartWriting() bool {
	if s.finalized || s.aborted || s.video == nil && s.audio == nil {
		return false
	}
	s.started = true
	return true
}

// Status implements ports.Sink.
func (s *Sink) Status() ports.SinkStatus {
	switch {
	case s.err != nil:
		return ports.SinkFailed
	case s.finalized:
		return ports.SinkCompleted
	default:
		return ports.SinkWriting
	}
}

// Err implements ports.Sink.
func (s *Sink) Err() error {
	return s.err
}

// Finalize implements ports.Sink. It seals any pending sample groups,
// encodes the container, and writes it to the destination before
// invoking onComplete.
func (s *Sink) Finalize(onComplete func(err error)) {
	if s.finalized || s.aborted {
		onComplete(fmt.Errorf("sink already closed"))
		return
	}

	err := s.finalize()
	if err != nil {
		s.err = err
	} else {
		s.finalized = true
	}
	onComplete(err)
}

func (s *Sink) finalize() error {
	for _, in := range []*Input{s.video, s.audio} {
		if in == nil {
			continue
		}
		if err := in.seal(); err != nil {
			return err
		}
	}

	data, err := s.buildContainer()
	if err != nil {
		return err
	}
	if err := s.fs.WriteFile(s.path, data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	s.logger.Debug("Finalized output: %d bytes", len(data))
	return nil
}

// Abort implements ports.Sink. Pending data is discarded; anything
// already at the destination is left in place.
func (s *Sink) Abort() {
	if s.finalized {
		return
	}
	s.aborted = true
	s.fragments = nil
	if s.video != nil {
		s.video.pending = nil
	}
	if s.audio != nil {
		s.audio.pending = nil
	}
}

// buildContainer assembles ftyp + moov + fragments in append order.
func (s *Sink) buildContainer() ([]byte, error) {
	init := mp4.CreateEmptyInit()

	var trackIDs [2]uint32
	nextTrack := 0
	if s.video != nil {
		init.AddEmptyTrack(videoTimescale, "video", "en")
		trak := init.Moov.Traks[nextTrack]
		entry := mp4.CreateVisualSampleEntryBox("jpeg",
			uint16(s.video.format.Width), uint16(s.video.format.Height), nil)
		trak.Mdia.Minf.Stbl.Stsd.AddChild(entry)
		trak.Tkhd.Width = mp4.Fixed32(s.video.format.Width << 16)
		trak.Tkhd.Height = mp4.Fixed32(s.video.format.Height << 16)
		s.video.trackID = trak.Tkhd.TrackID
		trackIDs[nextTrack] = trak.Tkhd.TrackID
		nextTrack++
	}
	if s.audio != nil {
		init.AddEmptyTrack(s.audio.timescale, "audio", "en")
		trak := init.Moov.Traks[nextTrack]
		esds := mp4.CreateEsdsBox(nil)
		entry := mp4.CreateAudioSampleEntryBox("mp4a",
			uint16(channelCount(s.audio.format)), 16, uint16(s.audio.format.AudioSampleRate), esds)
		trak.Mdia.Minf.Stbl.Stsd.AddChild(entry)
		s.audio.trackID = trak.Tkhd.TrackID
	}

	// Fragments were created before track IDs were known; renumber the
	// track references now that the init segment is built.
	for _, in := range []*Input{s.video, s.audio} {
		if in == nil {
			continue
		}
		for _, frag := range in.fragments {
			for _, traf := range frag.Moof.Trafs {
				traf.Tfhd.TrackID = in.trackID
			}
		}
	}

	var buf bytes.Buffer

	ftyp := mp4.NewFtyp("isom", 0x200, []string{"isom", "iso2", "mp41"})
	if err := ftyp.Encode(&buf); err != nil {
		return nil, fmt.Errorf("encode ftyp: %w", err)
	}
	if err := init.Moov.Encode(&buf); err != nil {
		return nil, fmt.Errorf("encode moov: %w", err)
	}
	for _, frag := range s.fragments {
		if err := frag.Encode(&buf); err != nil {
			return nil, fmt.Errorf("encode fragment: %w", err)
		}
	}
	return buf.Bytes(), nil
}

// Input implements ports.TrackInput for one track.
type Input struct {
	sink      *Sink
	kind      media.TrackKind
	format    media.EncodeFormat
	timescale uint32
	trackID   uint32

	jpegQuality   int
	fragmentCount int

	pending      []mp4.FullSample
	pendingBytes int
	fragments    []*mp4.Fragment
	finished     bool
}

// Ready implements ports.TrackInput. An input over the high-water mark
// reports not ready once and seals the oversized group, so the next
// poll finds it ready again; the pump's idle yield absorbs the gap.
func (i *Input) Ready() bool {
	s := i.sink
	if !s.started || s.finalized || s.aborted || s.err != nil || i.finished {
		return false
	}
	if i.pendingBytes >= highWaterBytes {
		if err := i.seal(); err != nil {
			s.err = err
		}
		return false
	}
	return true
}

// Append implements ports.TrackInput.
func (i *Input) Append(sample media.Sample) bool {
	s := i.sink
	if !s.started || s.finalized || s.aborted || s.err != nil || i.finished {
		return false
	}

	data, err := i.encode(sample)
	if err != nil {
		s.err = err
		return false
	}

	dur := sample.Duration.Rescale(i.timescale).Value
	if dur <= 0 {
		dur = i.defaultDuration()
	}
	i.pending = append(i.pending, mp4.FullSample{
		Sample: mp4.Sample{
			Flags: mp4.SyncSampleFlags,
			Size:  uint32(len(data)),
			Dur:   uint32(dur),
		},
		DecodeTime: uint64(sample.PTS.Rescale(i.timescale).Value),
		Data:       data,
	})
	i.pendingBytes += len(data)

	if len(i.pending) >= i.fragmentCount {
		if err := i.seal(); err != nil {
			s.err = err
			return false
		}
	}
	return true
}

// MarkFinished implements ports.TrackInput.
func (i *Input) MarkFinished() {
	i.finished = true
}

// encode produces the stored sample payload: JPEG for video frames,
// the raw payload for audio.
func (i *Input) encode(sample media.Sample) ([]byte, error) {
	if i.kind == media.KindAudio {
		return sample.Data, nil
	}
	if sample.Image == nil {
		return nil, fmt.Errorf("video sample at %dms has no image", sample.PTS.Millis())
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, sample.Image, &jpeg.Options{Quality: i.jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode frame at %dms: %w", sample.PTS.Millis(), err)
	}
	return buf.Bytes(), nil
}

// seal moves the pending sample group into a finished fragment.
func (i *Input) seal() error {
	if len(i.pending) == 0 {
		return nil
	}
	s := i.sink
	s.fragSeq++
	// Track IDs are assigned when the init segment is built; 1 is a
	// placeholder renumbered in buildContainer.
	frag, err := mp4.CreateFragment(s.fragSeq, 1)
	if err != nil {
		return fmt.Errorf("create fragment: %w", err)
	}
	for _, full := range i.pending {
		frag.AddFullSample(full)
	}
	i.fragments = append(i.fragments, frag)
	s.fragments = append(s.fragments, frag)
	i.pending = nil
	i.pendingBytes = 0
	return nil
}

func (i *Input) defaultDuration() int64 {
	if i.kind == media.KindVideo {
		fps := i.format.FrameRate
		if fps <= 0 {
			fps = 30
		}
		return int64(float64(i.timescale) / fps)
	}
	// AAC-style frame: 1024 samples at the track sample rate.
	return 1024
}

func channelCount(format media.EncodeFormat) int {
	if format.Channels > 0 {
		return format.Channels
	}
	return 2
}

// jpegQualityForBitrate maps the configured video bitrate to a JPEG
// quality setting. Rough, monotonic mapping clamped to a sane range.
func jpegQualityForBitrate(bitrate int) int {
	if bitrate <= 0 {
		return 85
	}
	q := 60 + bitrate/250_000
	if q > 95 {
		q = 95
	}
	return q
}

var (
	_ ports.Sink       = (*Sink)(nil)
	_ ports.TrackInput = (*Input)(nil)
)
