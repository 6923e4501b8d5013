// Package transcode implements the core transcoding pump: a
// single-threaded, poll-driven loop that drains one video and one audio
// track from a demux source into a mux sink, applying the orientation
// transform and scratch-buffer rasterization to video frames, tracking
// progress, honoring cancellation, and resolving exactly one terminal
// outcome per transcode.
package transcode

import (
	"fmt"
	"math"
	"time"

	"github.com/user/vidpump/pkg/config"
	"github.com/user/vidpump/pkg/media"
	"github.com/user/vidpump/pkg/ports"
	"github.com/user/vidpump/pkg/raster"
	"github.com/user/vidpump/pkg/transform"
)

// OpenSourceFunc opens a demux source for a location.
type OpenSourceFunc func(location string) (ports.Source, error)

// OpenSinkFunc opens a mux sink for a destination location.
type OpenSinkFunc func(location string) (ports.Sink, error)

// DefaultIdleYield is the bounded sleep applied when neither sink is
// ready, so the poll loop does not spin hot while encoder backpressure
// clears.
const DefaultIdleYield = 2 * time.Millisecond

// Options configures a Transcoder.
type Options struct {
	OpenSource OpenSourceFunc
	OpenSink   OpenSinkFunc
	Logger     ports.Logger
	IdleYield  time.Duration // 0 = DefaultIdleYield
}

// Transcoder runs transcodes. Each Transcode call owns a dedicated
// worker goroutine plus its own source, sink, and scratch buffer;
// nothing is shared between concurrent transcodes.
type Transcoder struct {
	openSource OpenSourceFunc
	openSink   OpenSinkFunc
	logger     ports.Logger
	idleYield  time.Duration
}

// New creates a Transcoder.
func New(opts Options) *Transcoder {
	idle := opts.IdleYield
	if idle <= 0 {
		idle = DefaultIdleYield
	}
	logger := opts.Logger
	if logger == nil {
		logger = noopLogger{}
	}
	return &Transcoder{
		openSource: opts.OpenSource,
		openSink:   opts.OpenSink,
		logger:     logger,
		idleYield:  idle,
	}
}

// Request describes one transcode invocation.
type Request struct {
	Source      string
	Destination string

	// TargetSize overrides the output dimensions; nil keeps the
	// (orientation-corrected) source dimensions.
	TargetSize *media.Size

	// Orientation overrides the correction derived from source
	// metadata; nil derives it from the video track's rotation.
	Orientation *media.Orientation

	Encode config.EncodeConfig

	// Progress, when set, receives (completed, total) on its executor
	// for every consumed video frame.
	Progress *ProgressObserver

	// OnOutcome receives the single terminal outcome.
	OnOutcome func(Outcome)
}

// Transcode starts a transcode on its own worker goroutine and returns
// immediately with a cancellation handle. Exactly one Outcome is
// delivered through req.OnOutcome.
func (t *Transcoder) Transcode(req Request) *Handle {
	h := newHandle()
	go t.run(req, h)
	return h
}

func (t *Transcoder) run(req Request, h *Handle) {
	resolve := func(o Outcome) { h.resolve(o, req.OnOutcome) }

	s, err := t.setup(req)
	if err != nil {
		t.logger.Error("Transcode setup failed: %s", err)
		resolve(Failure(err))
		return
	}
	s.loop(h, resolve)
}

// session holds the per-transcode state owned by one worker goroutine.
type session struct {
	src         ports.Source
	sink        ports.Sink
	video       *trackPump
	audio       *trackPump
	scratch     raster.Scratch
	reporter    *progressReporter
	logger      ports.Logger
	idleYield   time.Duration
	destination string
}

// setup opens the collaborators and validates the track layout,
// failing fast before any frame is processed.
func (t *Transcoder) setup(req Request) (*session, error) {
	src, err := t.openSource(req.Source)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}

	sink, err := t.openSink(req.Destination)
	if err != nil {
		src.Cancel()
		return nil, fmt.Errorf("open sink: %w", err)
	}

	fail := func(err error) (*session, error) {
		src.Cancel()
		sink.Abort()
		return nil, err
	}

	videoTracks := src.Tracks(media.KindVideo)
	if len(videoTracks) == 0 {
		return fail(fmt.Errorf("%w: video", ErrTrackNotFound))
	}
	audioTracks := src.Tracks(media.KindAudio)
	if len(audioTracks) == 0 {
		return fail(fmt.Errorf("%w: audio", ErrTrackNotFound))
	}
	videoTrack, audioTrack := videoTracks[0], audioTracks[0]

	orientation := media.FromRotation(videoTrack.Rotation, false)
	if req.Orientation != nil {
		orientation = *req.Orientation
	}

	outSize := transform.OutputSize(media.Size{Width: videoTrack.Width, Height: videoTrack.Height}, orientation)
	if req.TargetSize != nil {
		outSize = *req.TargetSize
	}

	videoIn, ok := sink.AddInput(media.KindVideo, media.EncodeFormat{
		Kind:             media.KindVideo,
		Width:            outSize.Width,
		Height:           outSize.Height,
		FrameRate:        videoTrack.FrameRate,
		VideoBitrate:     req.Encode.VideoBitrate,
		KeyFrameInterval: req.Encode.KeyFrameInterval,
		Profile:          req.Encode.Profile,
	})
	if !ok {
		return fail(fmt.Errorf("%w: video", ErrSinkRejectedInput))
	}
	audioIn, ok := sink.AddInput(media.KindAudio, media.EncodeFormat{
		Kind:            media.KindAudio,
		AudioSampleRate: req.Encode.AudioSampleRate,
		AudioBitrate:    req.Encode.AudioBitrate,
	})
	if !ok {
		return fail(fmt.Errorf("%w: audio", ErrSinkRejectedInput))
	}

	videoOut, ok := src.RegisterOutput(videoTrack, media.DecodeFormat{Kind: media.KindVideo, Pixel: media.PixelRGBA})
	if !ok {
		return fail(fmt.Errorf("%w: video", ErrSourceRejectedOutput))
	}
	audioOut, ok := src.RegisterOutput(audioTrack, media.DecodeFormat{Kind: media.KindAudio})
	if !ok {
		return fail(fmt.Errorf("%w: audio", ErrSourceRejectedOutput))
	}

	// Progress denominator: estimated frame count from nominal frame
	// rate. Variable-frame-rate sources may yield more or fewer samples
	// than this; that is a known approximation, not an error.
	totalFrames := int64(math.Ceil(videoTrack.Duration.Seconds() * videoTrack.FrameRate))

	if !src.StartReading() {
		return fail(startErr("source", src.Err()))
	}
	if !sink.StartWriting() {
		return fail(startErr("sink", sink.Err()))
	}

	s := &session{
		src:         src,
		sink:        sink,
		scratch:     raster.NewScratch(req.TargetSize),
		reporter:    newProgressReporter(totalFrames, req.Progress),
		logger:      t.logger,
		idleYield:   t.idleYield,
		destination: req.Destination,
	}
	s.video = newTrackPump(media.KindVideo, videoOut, videoIn, func(sample media.Sample) (media.Sample, error) {
		oriented := transform.Apply(sample.Image, orientation)
		buf, err := s.scratch.Rasterize(oriented)
		if err != nil {
			return sample, err
		}
		sample.Image = buf
		sample.Data = nil
		return sample, nil
	})
	s.audio = newTrackPump(media.KindAudio, audioOut, audioIn, nil)

	t.logger.Debug("Transcode set up: %dx%d output, orientation %s, %d estimated frames",
		outSize.Width, outSize.Height, orientation, totalFrames)
	return s, nil
}

// loop is the pump. Each iteration runs the checks in a fixed order:
// sink error, source error, cancellation, video step, audio step,
// idle yield. The ordering bounds wasted work to at most one in-flight
// frame after a fatal condition appears.
func (s *session) loop(h *Handle, resolve func(Outcome)) {
	defer s.scratch.Release()

	for {
		if s.sink.Status() == ports.SinkFailed {
			s.abort()
			resolve(Failure(fmt.Errorf("sink failed: %w", s.sink.Err())))
			return
		}
		if s.src.Status() == ports.SourceFailed {
			s.abort()
			resolve(Failure(fmt.Errorf("source failed: %w", s.src.Err())))
			return
		}
		if h.cancel.Load() {
			s.logger.Info("Transcode cancelled")
			s.abort()
			resolve(Cancelled())
			return
		}

		stepped := false
		if !s.video.finished && s.video.in.Ready() {
			res, err := s.video.step()
			if err != nil {
				s.abort()
				resolve(Failure(err))
				return
			}
			stepped = true
			if res == stepConsumed {
				s.reporter.frameConsumed()
			}
		}
		if !s.audio.finished && s.audio.in.Ready() {
			if _, err := s.audio.step(); err != nil {
				s.abort()
				resolve(Failure(err))
				return
			}
			stepped = true
		}

		if s.video.finished && s.audio.finished {
			break
		}
		if !stepped {
			time.Sleep(s.idleYield)
		}
	}

	// Both channels finished. A failure discovered on the very last
	// step (e.g. a decode error that also ended a track) must still win
	// over finalization, so re-check the statuses once.
	if s.sink.Status() == ports.SinkFailed {
		s.abort()
		resolve(Failure(fmt.Errorf("sink failed: %w", s.sink.Err())))
		return
	}
	if s.src.Status() == ports.SourceFailed {
		s.abort()
		resolve(Failure(fmt.Errorf("source failed: %w", s.src.Err())))
		return
	}

	// Finalize the sink, then resolve. The finalize call blocks until
	// the output is durable.
	var finalizeErr error
	s.sink.Finalize(func(err error) { finalizeErr = err })
	if finalizeErr != nil {
		s.src.Cancel()
		resolve(Failure(fmt.Errorf("finalize sink: %w", finalizeErr)))
		return
	}
	s.logger.Info("Transcode completed: %s", s.destination)
	resolve(Success(s.destination))
}

// abort tears down both collaborators. Partial output at the
// destination is left for the caller to clean up.
func (s *session) abort() {
	s.src.Cancel()
	s.sink.Abort()
}

func startErr(side string, err error) error {
	if err != nil {
		return fmt.Errorf("%s failed to start: %w", side, err)
	}
	return fmt.Errorf("%s failed to start", side)
}

// noopLogger is the default logger when none is configured.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{})      {}
func (noopLogger) Info(string, ...interface{})       {}
func (noopLogger) Warn(string, ...interface{})       {}
func (noopLogger) Error(string, ...interface{})      {}
func (noopLogger) WithComponent(string) ports.Logger { return noopLogger{} }

var _ ports.Logger = noopLogger{}
