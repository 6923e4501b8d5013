package nullsink

import (
	"testing"

	"github.com/user/vidpump/pkg/media"
)

func TestSink_DiscardsSamples(t *testing.T) {
	s := New()
	vin, ok := s.AddInput(media.KindVideo, media.EncodeFormat{Width: 64, Height: 48})
	if !ok {
		t.Fatal("video input rejected")
	}
	ain, ok := s.AddInput(media.KindAudio, media.EncodeFormat{AudioSampleRate: 44100})
	if !ok {
		t.Fatal("audio input rejected")
	}
	if !s.StartWriting() {
		t.Fatal("StartWriting failed")
	}

	for i := 0; i < 3; i++ {
		if !vin.Append(media.Sample{Kind: media.KindVideo}) {
			t.Fatal("video append failed")
		}
	}
	if !ain.Append(media.Sample{Kind: media.KindAudio}) {
		t.Fatal("audio append failed")
	}
	vin.MarkFinished()
	ain.MarkFinished()

	if s.Appended[media.KindVideo] != 3 || s.Appended[media.KindAudio] != 1 {
		t.Errorf("unexpected counts: %v", s.Appended)
	}

	var finalizeErr error
	s.Finalize(func(err error) { finalizeErr = err })
	if finalizeErr != nil {
		t.Errorf("finalize failed: %v", finalizeErr)
	}
	if vin.Append(media.Sample{}) {
		t.Error("append succeeded after finish")
	}
}

func TestSink_StartRequiresInputs(t *testing.T) {
	if New().StartWriting() {
		t.Error("started with no inputs")
	}
}
