// Package transform applies orientation corrections to decoded video
// frames. Apply is a pure function: no I/O, no mutable state.
package transform

import (
	"image"

	"github.com/disintegration/imaging"

	"github.com/user/vidpump/pkg/media"
)

// Apply returns img re-oriented per the descriptor. The pixel format is
// preserved (imaging operates on NRGBA planes); output bounds swap axes
// for quarter-turn corrections. Invalid descriptors are rejected at
// transcode setup, never here, so unknown values fall through to the
// identity.
func Apply(img image.Image, o media.Orientation) image.Image {
	if img == nil {
		return nil
	}
	switch o {
	case media.OrientFrontCamera:
		// Portrait front camera: quarter turn plus horizontal mirror.
		return imaging.FlipH(imaging.Rotate90(img))
	case media.OrientBackCamera:
		return imaging.Rotate90(img)
	case media.OrientFlipH:
		return imaging.FlipH(img)
	case media.OrientRotate180:
		return imaging.Rotate180(img)
	case media.OrientFlipV:
		return imaging.FlipV(img)
	case media.OrientTranspose:
		return imaging.Transpose(img)
	case media.OrientRotate270:
		return imaging.Rotate270(img)
	case media.OrientTransverse:
		return imaging.Transverse(img)
	case media.OrientRotate90:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

// OutputSize returns the dimensions a frame of the given size will have
// after the orientation is applied.
func OutputSize(size media.Size, o media.Orientation) media.Size {
	if o.SwapsAxes() {
		return media.Size{Width: size.Height, Height: size.Width}
	}
	return size
}
