package mp4mux

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/Eyevinn/mp4ff/mp4"

	"github.com/user/vidpump/pkg/media"
	"github.com/user/vidpump/pkg/mocks"
	"github.com/user/vidpump/pkg/ports"
)

func videoFormat() media.EncodeFormat {
	return media.EncodeFormat{
		Kind:             media.KindVideo,
		Width:            64,
		Height:           48,
		FrameRate:        30,
		VideoBitrate:     2_000_000,
		KeyFrameInterval: 30,
		Profile:          "main",
	}
}

func audioFormat() media.EncodeFormat {
	return media.EncodeFormat{
		Kind:            media.KindAudio,
		AudioSampleRate: 44100,
		AudioBitrate:    128_000,
	}
}

func frame(w, h int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 4), G: uint8(y * 5), A: 255})
		}
	}
	return img
}

func videoSample(frameIdx int) media.Sample {
	return media.Sample{
		Kind:     media.KindVideo,
		PTS:      media.NewTime(int64(frameIdx)*3000, 90000),
		Duration: media.NewTime(3000, 90000),
		Image:    frame(64, 48),
		Sync:     true,
	}
}

func audioSample(idx int, payload []byte) media.Sample {
	return media.Sample{
		Kind:     media.KindAudio,
		PTS:      media.NewTime(int64(idx)*1024, 44100),
		Duration: media.NewTime(1024, 44100),
		Data:     payload,
	}
}

func TestAddInput_Validation(t *testing.T) {
	s := NewSink("out.mp4", mocks.NewFileSystem(), nil)

	if _, ok := s.AddInput(media.KindVideo, media.EncodeFormat{Width: 0, Height: 48}); ok {
		t.Error("accepted zero-width video format")
	}
	bad := videoFormat()
	bad.Profile = "extended"
	if _, ok := s.AddInput(media.KindVideo, bad); ok {
		t.Error("accepted unknown profile")
	}
	if _, ok := s.AddInput(media.KindAudio, media.EncodeFormat{AudioSampleRate: 0}); ok {
		t.Error("accepted zero sample rate")
	}

	if _, ok := s.AddInput(media.KindVideo, videoFormat()); !ok {
		t.Fatal("rejected valid video format")
	}
	if _, ok := s.AddInput(media.KindVideo, videoFormat()); ok {
		t.Error("accepted duplicate video input")
	}
	if _, ok := s.AddInput(media.KindAudio, audioFormat()); !ok {
		t.Fatal("rejected valid audio format")
	}

	if !s.StartWriting() {
		t.Fatal("StartWriting failed")
	}
	if _, ok := s.AddInput(media.KindVideo, videoFormat()); ok {
		t.Error("accepted input after start")
	}
}

func TestStartWriting_RequiresInputs(t *testing.T) {
	s := NewSink("out.mp4", mocks.NewFileSystem(), nil)
	if s.StartWriting() {
		t.Error("started with no inputs")
	}
}

func TestAppend_BeforeStartRejected(t *testing.T) {
	s := NewSink("out.mp4", mocks.NewFileSystem(), nil)
	in, _ := s.AddInput(media.KindVideo, videoFormat())
	if in.Ready() {
		t.Error("input ready before start")
	}
	if in.Append(videoSample(0)) {
		t.Error("append succeeded before start")
	}
}

func TestFinalize_WritesParsableContainer(t *testing.T) {
	fs := mocks.NewFileSystem()
	s := NewSink("out.mp4", fs, nil)
	vin, _ := s.AddInput(media.KindVideo, videoFormat())
	ain, _ := s.AddInput(media.KindAudio, audioFormat())
	if !s.StartWriting() {
		t.Fatal("StartWriting failed")
	}

	for i := 0; i < 45; i++ { // spans two video fragments at interval 30
		if !vin.Append(videoSample(i)) {
			t.Fatalf("video append %d failed: %v", i, s.Err())
		}
	}
	for i := 0; i < 10; i++ {
		if !ain.Append(audioSample(i, []byte{0xDE, 0xAD, byte(i)})) {
			t.Fatalf("audio append %d failed: %v", i, s.Err())
		}
	}
	vin.MarkFinished()
	ain.MarkFinished()

	var finalizeErr error
	s.Finalize(func(err error) { finalizeErr = err })
	if finalizeErr != nil {
		t.Fatalf("finalize failed: %v", finalizeErr)
	}
	if s.Status() != ports.SinkCompleted {
		t.Errorf("expected completed status, got %v", s.Status())
	}

	data, err := fs.ReadFile("out.mp4")
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	parsed, err := mp4.DecodeFile(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output does not parse: %v", err)
	}
	if !parsed.IsFragmented() {
		t.Fatal("output is not fragmented")
	}
	if got := len(parsed.Init.Moov.Traks); got != 2 {
		t.Fatalf("expected 2 tracks, got %d", got)
	}

	var total int
	for _, seg := range parsed.Segments {
		for _, frag := range seg.Fragments {
			samples, err := frag.GetFullSamples(nil)
			if err != nil {
				t.Fatalf("get samples: %v", err)
			}
			total += len(samples)
		}
	}
	if total != 55 {
		t.Errorf("expected 55 samples across fragments, got %d", total)
	}
}

func TestAppend_VideoWithoutImageFails(t *testing.T) {
	s := NewSink("out.mp4", mocks.NewFileSystem(), nil)
	vin, _ := s.AddInput(media.KindVideo, videoFormat())
	s.StartWriting()

	bad := videoSample(0)
	bad.Image = nil
	if vin.Append(bad) {
		t.Error("accepted video sample without image")
	}
	if s.Status() != ports.SinkFailed || s.Err() == nil {
		t.Error("sink not failed after encode error")
	}
}

func TestReady_HighWaterSealsPendingGroup(t *testing.T) {
	s := NewSink("out.mp4", mocks.NewFileSystem(), nil)
	ain, _ := s.AddInput(media.KindAudio, audioFormat())
	s.StartWriting()

	if !ain.Append(audioSample(0, make([]byte, highWaterBytes+1))) {
		t.Fatalf("append failed: %v", s.Err())
	}
	if ain.Ready() {
		t.Error("expected not ready above the high-water mark")
	}
	if !ain.Ready() {
		t.Error("expected ready again after the group was sealed")
	}
	if len(s.fragments) != 1 {
		t.Errorf("expected 1 sealed fragment, got %d", len(s.fragments))
	}
}

func TestAppend_AfterFinishRejected(t *testing.T) {
	s := NewSink("out.mp4", mocks.NewFileSystem(), nil)
	ain, _ := s.AddInput(media.KindAudio, audioFormat())
	s.StartWriting()
	ain.MarkFinished()

	if ain.Ready() {
		t.Error("input ready after finish")
	}
	if ain.Append(audioSample(0, []byte{1})) {
		t.Error("append succeeded after finish")
	}
}

func TestAbort_DiscardsPending(t *testing.T) {
	fs := mocks.NewFileSystem()
	s := NewSink("out.mp4", fs, nil)
	ain, _ := s.AddInput(media.KindAudio, audioFormat())
	s.StartWriting()
	ain.Append(audioSample(0, []byte{1, 2, 3}))

	s.Abort()
	s.Abort() // idempotent

	if ain.Append(audioSample(1, []byte{4})) {
		t.Error("append succeeded after abort")
	}
	var finalizeErr error
	s.Finalize(func(err error) { finalizeErr = err })
	if finalizeErr == nil {
		t.Error("finalize succeeded after abort")
	}
	if ok, _ := fs.Exists("out.mp4"); ok {
		t.Error("aborted sink wrote output")
	}
}

func TestFinalize_WriteFailure(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.WriteErr = errors.New("disk full")
	s := NewSink("out.mp4", fs, nil)
	ain, _ := s.AddInput(media.KindAudio, audioFormat())
	s.StartWriting()
	ain.Append(audioSample(0, []byte{1}))

	var finalizeErr error
	s.Finalize(func(err error) { finalizeErr = err })
	if !errors.Is(finalizeErr, fs.WriteErr) {
		t.Errorf("expected wrapped write error, got %v", finalizeErr)
	}
	if s.Status() != ports.SinkFailed {
		t.Errorf("expected failed status, got %v", s.Status())
	}
}

func TestJpegQualityForBitrate(t *testing.T) {
	cases := []struct {
		bitrate int
		want    int
	}{
		{0, 85},
		{-1, 85},
		{1_000_000, 64},
		{5_000_000, 80},
		{20_000_000, 95},
	}
	for _, tc := range cases {
		if got := jpegQualityForBitrate(tc.bitrate); got != tc.want {
			t.Errorf("jpegQualityForBitrate(%d) = %d, want %d", tc.bitrate, got, tc.want)
		}
	}
}
