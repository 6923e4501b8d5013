// Package raster provides the reusable scratch pixel buffer that
// transformed video frames are drawn into before they are handed to the
// sink, avoiding a fresh allocation per frame.
package raster

import (
	"fmt"
	"image"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"github.com/user/vidpump/pkg/media"
)

// Scratch is a lazily-sized scratch buffer owned exclusively by the
// video pump of one transcode. The buffer and its drawing context are
// allocated on the first Rasterize call, sized to that frame's output
// dimensions (or the target size when one is configured), and reused
// for every subsequent frame. Source video dimensions are constant, so
// the allocation never changes mid-transcode. The caller must fully
// consume the returned buffer before the next Rasterize call; the
// single-threaded pump design enforces that, not the buffer itself.
type Scratch struct {
	target *media.Size // optional output size override
	rgba   *image.RGBA
	dc     *gg.Context
}

// NewScratch creates a scratch buffer. A non-nil target forces the
// output dimensions; otherwise the first frame decides them.
func NewScratch(target *media.Size) Scratch {
	return Scratch{target: target}
}

// Rasterize draws img into the scratch buffer and returns it. The
// returned image aliases internal storage and is overwritten by the
// next call. A frame that cannot be rasterized is a fatal error that
// aborts the transcode.
func (s *Scratch) Rasterize(img image.Image) (*image.RGBA, error) {
	if img == nil {
		return nil, fmt.Errorf("rasterize: nil frame")
	}
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, fmt.Errorf("rasterize: empty frame bounds %v", bounds)
	}

	if s.rgba == nil {
		w, h := bounds.Dx(), bounds.Dy()
		if s.target != nil {
			w, h = s.target.Width, s.target.Height
		}
		if w <= 0 || h <= 0 {
			return nil, fmt.Errorf("rasterize: invalid output size %dx%d", w, h)
		}
		s.rgba = image.NewRGBA(image.Rect(0, 0, w, h))
		s.dc = gg.NewContextForRGBA(s.rgba)
	}

	dst := s.rgba.Bounds()
	if bounds.Dx() == dst.Dx() && bounds.Dy() == dst.Dy() {
		s.dc.DrawImage(img, 0, 0)
	} else {
		// Target size differs from the frame size; scale into place.
		draw.CatmullRom.Scale(s.rgba, dst, img, bounds, draw.Src, nil)
	}
	return s.rgba, nil
}

// Size returns the output dimensions, or a zero Size before the first
// Rasterize call when no target is configured.
func (s *Scratch) Size() media.Size {
	if s.rgba != nil {
		b := s.rgba.Bounds()
		return media.Size{Width: b.Dx(), Height: b.Dy()}
	}
	if s.target != nil {
		return *s.target
	}
	return media.Size{}
}

// Release drops the buffer and drawing context. Called on every exit
// path of the transcode loop; safe to call more than once.
func (s *Scratch) Release() {
	s.rgba = nil
	s.dc = nil
}
