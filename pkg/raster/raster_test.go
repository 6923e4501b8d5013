package raster

import (
	"image"
	"image/color"
	"testing"

	"github.com/user/vidpump/pkg/media"
)

func solidFrame(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestScratch_LazyAllocationAndReuse(t *testing.T) {
	s := NewScratch(nil)
	defer s.Release()

	if s.Size() != (media.Size{}) {
		t.Errorf("expected zero size before first rasterize, got %v", s.Size())
	}

	first, err := s.Rasterize(solidFrame(8, 6, color.NRGBA{R: 255, A: 255}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b := first.Bounds(); b.Dx() != 8 || b.Dy() != 6 {
		t.Errorf("expected 8x6 buffer, got %dx%d", b.Dx(), b.Dy())
	}

	second, err := s.Rasterize(solidFrame(8, 6, color.NRGBA{G: 255, A: 255}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Error("expected the same buffer allocation to be reused")
	}

	// Contents must reflect the latest frame, not the first.
	_, g, _, _ := second.At(4, 3).RGBA()
	if g < 0x8000 {
		t.Error("expected buffer contents to be overwritten by second frame")
	}
}

func TestScratch_TargetSizeScales(t *testing.T) {
	target := media.Size{Width: 4, Height: 3}
	s := NewScratch(&target)
	defer s.Release()

	buf, err := s.Rasterize(solidFrame(8, 6, color.NRGBA{B: 255, A: 255}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b := buf.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
		t.Errorf("expected 4x3 buffer, got %dx%d", b.Dx(), b.Dy())
	}
	_, _, b, _ := buf.At(2, 1).RGBA()
	if b < 0x8000 {
		t.Error("expected scaled content in the buffer")
	}
}

func TestScratch_NilFrame(t *testing.T) {
	s := NewScratch(nil)
	if _, err := s.Rasterize(nil); err == nil {
		t.Error("expected error for nil frame")
	}
}

func TestScratch_EmptyBounds(t *testing.T) {
	s := NewScratch(nil)
	if _, err := s.Rasterize(image.NewNRGBA(image.Rect(0, 0, 0, 0))); err == nil {
		t.Error("expected error for empty bounds")
	}
}

func TestScratch_InvalidTarget(t *testing.T) {
	target := media.Size{Width: 0, Height: 10}
	s := NewScratch(&target)
	if _, err := s.Rasterize(solidFrame(2, 2, color.NRGBA{A: 255})); err == nil {
		t.Error("expected error for invalid target size")
	}
}

func TestScratch_Release(t *testing.T) {
	s := NewScratch(nil)
	if _, err := s.Rasterize(solidFrame(2, 2, color.NRGBA{A: 255})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.Release()
	s.Release() // safe to call twice

	// A new allocation follows the next frame's dimensions.
	buf, err := s.Rasterize(solidFrame(3, 5, color.NRGBA{A: 255}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b := buf.Bounds(); b.Dx() != 3 || b.Dy() != 5 {
		t.Errorf("expected 3x5 buffer after release, got %dx%d", b.Dx(), b.Dy())
	}
}
