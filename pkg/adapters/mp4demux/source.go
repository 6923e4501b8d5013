// Package mp4demux provides a demux source over fragmented MP4 files
// parsed with mp4ff. Video samples carrying JPEG payloads are decoded
// to images on demand; audio payloads pass through raw.
package mp4demux

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	"github.com/Eyevinn/mp4ff/mp4"

	"github.com/user/vidpump/pkg/adapters/logger"
	"github.com/user/vidpump/pkg/media"
	"github.com/user/vidpump/pkg/ports"
)

// Source implements ports.Source for one fragmented MP4 file. The whole
// sample table is extracted at Open time; this is an offline batch
// transcoder and sources fit in memory the same way the output does.
type Source struct {
	logger ports.Logger

	tracks  map[media.TrackKind]trackSamples
	outputs []*TrackOutput

	started   bool
	cancelled bool
	err       error
}

type trackSamples struct {
	track   media.Track
	samples []rawSample
}

// rawSample is one undecoded sample with its resolved timing.
type rawSample struct {
	data       []byte
	decodeTime uint64
	dur        uint32
	sync       bool
}

// Open parses the container at path through fs and builds the per-track
// sample tables. Progressive (non-fragmented) MP4 is not supported.
func Open(path string, fs ports.FileSystem, log ports.Logger) (*Source, error) {
	if log == nil {
		log = logger.NewNoop()
	}
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}

	mp4File, err := mp4.DecodeFile(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode mp4: %w", err)
	}
	if !mp4File.IsFragmented() {
		return nil, fmt.Errorf("progressive MP4 not supported, use fragmented MP4")
	}

	s := &Source{
		logger: log.WithComponent("mp4demux"),
		tracks: make(map[media.TrackKind]trackSamples),
	}
	if err := s.extract(mp4File); err != nil {
		return nil, err
	}
	s.logger.Debug("Opened source: %d video, %d audio tracks",
		trackCount(s.tracks, media.KindVideo), trackCount(s.tracks, media.KindAudio))
	return s, nil
}

// extract walks the init segment and fragments, building one sample
// slice per track kind (the pump design is fixed to one track of each).
func (s *Source) extract(mp4File *mp4.File) error {
	if mp4File.Init == nil || mp4File.Init.Moov == nil {
		return fmt.Errorf("missing init segment")
	}
	moov := mp4File.Init.Moov

	type trackMeta struct {
		kind      media.TrackKind
		timescale uint32
		width     int
		height    int
	}
	metas := make(map[uint32]trackMeta)
	trexs := make(map[uint32]*mp4.TrexBox)

	for _, trak := range moov.Traks {
		if trak.Mdia == nil || trak.Mdia.Hdlr == nil || trak.Mdia.Mdhd == nil {
			continue
		}
		var kind media.TrackKind
		switch trak.Mdia.Hdlr.HandlerType {
		case "vide":
			kind = media.KindVideo
		case "soun":
			kind = media.KindAudio
		default:
			continue
		}
		if _, dup := s.tracks[kind]; dup {
			// First track of each kind wins.
			continue
		}
		meta := trackMeta{
			kind:      kind,
			timescale: trak.Mdia.Mdhd.Timescale,
			width:     int(trak.Tkhd.Width >> 16),
			height:    int(trak.Tkhd.Height >> 16),
		}
		metas[trak.Tkhd.TrackID] = meta
		s.tracks[kind] = trackSamples{track: media.Track{
			ID:        trak.Tkhd.TrackID,
			Kind:      kind,
			Timescale: meta.timescale,
			Width:     meta.width,
			Height:    meta.height,
		}}
	}

	if moov.Mvex != nil {
		for _, trex := range moov.Mvex.Trexs {
			trexs[trex.TrackID] = trex
		}
	}

	for _, seg := range mp4File.Segments {
		for _, frag := range seg.Fragments {
			if frag.Moof == nil {
				continue
			}
			for _, traf := range frag.Moof.Trafs {
				meta, ok := metas[traf.Tfhd.TrackID]
				if !ok {
					continue
				}
				var baseDecodeTime uint64
				if traf.Tfdt != nil {
					baseDecodeTime = traf.Tfdt.BaseMediaDecodeTime()
				}
				samples, err := frag.GetFullSamples(trexs[traf.Tfhd.TrackID])
				if err != nil {
					return fmt.Errorf("get samples: %w", err)
				}
				ts := s.tracks[meta.kind]
				currentTime := baseDecodeTime
				for _, sample := range samples {
					ts.samples = append(ts.samples, rawSample{
						data:       sample.Data,
						decodeTime: currentTime,
						dur:        sample.Dur,
						sync:       sample.Flags == mp4.SyncSampleFlags,
					})
					currentTime += uint64(sample.Dur)
				}
				s.tracks[meta.kind] = ts
			}
		}
	}

	// Fragmented files often carry no mdhd duration; derive duration
	// and the nominal frame rate from the sample table instead.
	for kind, ts := range s.tracks {
		var totalDur uint64
		for _, sample := range ts.samples {
			totalDur += uint64(sample.dur)
		}
		ts.track.Duration = media.NewTime(int64(totalDur), ts.track.Timescale)
		if kind == media.KindVideo {
			seconds := ts.track.Duration.Seconds()
			if seconds > 0 {
				ts.track.FrameRate = float64(len(ts.samples)) / seconds
			}
		}
		s.tracks[kind] = ts
	}
	return nil
}

// Tracks implements ports.Source.
func (s *Source) Tracks(kind media.TrackKind) []media.Track {
	ts, ok := s.tracks[kind]
	if !ok {
		return nil
	}
	return []media.Track{ts.track}
}

// RegisterOutput implements ports.Source. Video outputs only support
// RGBA-class decode; anything else is a format rejection.
func (s *Source) RegisterOutput(track media.Track, format media.DecodeFormat) (ports.TrackOutput, bool) {
	ts, ok := s.tracks[track.Kind]
	if !ok || ts.track.ID != track.ID {
		return nil, false
	}
	if track.Kind == media.KindVideo && format.Pixel != media.PixelRGBA {
		return nil, false
	}
	out := &TrackOutput{source: s, track: ts.track, samples: ts.samples}
	s.outputs = append(s.outputs, out)
	return out, true
}

// StartReading implements ports.Source.
func (s *Source) StartReading() bool {
	if s.cancelled || len(s.outputs) == 0 {
		return false
	}
	s.started = true
	return true
}

// Status implements ports.Source.
func (s *Source) Status() ports.SourceStatus {
	if s.err != nil {
		return ports.SourceFailed
	}
	if s.started && len(s.outputs) > 0 {
		done := true
		for _, out := range s.outputs {
			if !out.exhausted() {
				done = false
				break
			}
		}
		if done {
			return ports.SourceCompleted
		}
	}
	return ports.SourceReading
}

// Err implements ports.Source.
func (s *Source) Err() error {
	return s.err
}

// Cancel implements ports.Source. Sticky; outputs stop yielding.
func (s *Source) Cancel() {
	s.cancelled = true
}

func (s *Source) fail(err error) {
	if s.err == nil {
		s.err = err
	}
}

// TrackOutput implements ports.TrackOutput for one registered track.
type TrackOutput struct {
	source  *Source
	track   media.Track
	samples []rawSample
	next    int
}

// NextSample implements ports.TrackOutput. Video payloads are decoded
// from JPEG; a decode failure moves the source into the failed state
// and ends the track.
func (o *TrackOutput) NextSample() (media.Sample, bool) {
	s := o.source
	if s.cancelled || s.err != nil || o.next >= len(o.samples) {
		return media.Sample{}, false
	}
	raw := o.samples[o.next]
	o.next++

	sample := media.Sample{
		Kind:     o.track.Kind,
		PTS:      media.NewTime(int64(raw.decodeTime), o.track.Timescale),
		Duration: media.NewTime(int64(raw.dur), o.track.Timescale),
		Sync:     raw.sync,
	}
	if o.track.Kind == media.KindVideo {
		img, err := decodeFrame(raw.data)
		if err != nil {
			s.fail(fmt.Errorf("decode frame at %dms: %w", sample.PTS.Millis(), err))
			return media.Sample{}, false
		}
		sample.Image = img
	} else {
		sample.Data = raw.data
	}
	return sample, true
}

func (o *TrackOutput) exhausted() bool {
	return o.next >= len(o.samples)
}

func decodeFrame(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty sample payload")
	}
	return jpeg.Decode(bytes.NewReader(data))
}

func trackCount(tracks map[media.TrackKind]trackSamples, kind media.TrackKind) int {
	if _, ok := tracks[kind]; ok {
		return 1
	}
	return 0
}

var (
	_ ports.Source      = (*Source)(nil)
	_ ports.TrackOutput = (*TrackOutput)(nil)
)
