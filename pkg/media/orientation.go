package media

import "fmt"

// Orientation describes the rotation/mirror correction applied to video
// frames to compensate for camera capture orientation. It is derived
// once from source metadata (or a caller override) at transcode setup
// and is immutable for the duration of a transcode.
type Orientation int

const (
	// OrientIdentity applies no correction.
	OrientIdentity Orientation = iota
	// OrientFrontCamera rotates 90 degrees and mirrors horizontally,
	// the correction for portrait front-camera capture.
	OrientFrontCamera
	// OrientBackCamera rotates 90 degrees, the correction for portrait
	// back-camera capture.
	OrientBackCamera
	// OrientFlipH mirrors horizontally (EXIF 2).
	OrientFlipH
	// OrientRotate180 rotates 180 degrees (EXIF 3).
	OrientRotate180
	// OrientFlipV mirrors vertically (EXIF 4).
	OrientFlipV
	// OrientTranspose mirrors along the top-left diagonal (EXIF 5).
	OrientTranspose
	// OrientRotate270 rotates 270 degrees counter-clockwise (EXIF 6).
	OrientRotate270
	// OrientTransverse mirrors along the bottom-left diagonal (EXIF 7).
	OrientTransverse
	// OrientRotate90 rotates 90 degrees counter-clockwise (EXIF 8).
	OrientRotate90
)

// exifOrientations maps EXIF orientation codes 1-8 to corrections.
var exifOrientations = [...]Orientation{
	1: OrientIdentity,
	2: OrientFlipH,
	3: OrientRotate180,
	4: OrientFlipV,
	5: OrientTranspose,
	6: OrientRotate270,
	7: OrientTransverse,
	8: OrientRotate90,
}

// FromEXIF maps an EXIF-style orientation code (1-8) to an Orientation.
// Codes outside that range are rejected here, at setup time; the frame
// transform itself never sees an invalid descriptor.
func FromEXIF(code int) (Orientation, error) {
	if code < 1 || code > 8 {
		return OrientIdentity, fmt.Errorf("invalid EXIF orientation code %d (want 1-8)", code)
	}
	return exifOrientations[code], nil
}

// FromRotation derives an Orientation from a container rotation angle
// in degrees, applying the front-camera mirror correction when front
// is set. Angles are normalized modulo 360; only quarter turns carry
// a correction.
func FromRotation(degrees int, front bool) Orientation {
	degrees = ((degrees % 360) + 360) % 360
	switch degrees {
	case 90, 270:
		if front {
			return OrientFrontCamera
		}
		return OrientBackCamera
	case 180:
		return OrientRotate180
	default:
		return OrientIdentity
	}
}

// SwapsAxes reports whether applying the orientation swaps the output
// width and height (quarter-turn rotations and diagonal mirrors).
func (o Orientation) SwapsAxes() bool {
	switch o {
	case OrientFrontCamera, OrientBackCamera, OrientTranspose,
		OrientRotate270, OrientTransverse, OrientRotate90:
		return true
	default:
		return false
	}
}

// String returns the string representation of the orientation.
func (o Orientation) String() string {
	switch o {
	case OrientIdentity:
		return "identity"
	case OrientFrontCamera:
		return "front-camera"
	case OrientBackCamera:
		return "back-camera"
	case OrientFlipH:
		return "flip-h"
	case OrientRotate180:
		return "rotate-180"
	case OrientFlipV:
		return "flip-v"
	case OrientTranspose:
		return "transpose"
	case OrientRotate270:
		return "rotate-270"
	case OrientTransverse:
		return "transverse"
	case OrientRotate90:
		return "rotate-90"
	default:
		return "unknown"
	}
}

// ParseOrientation parses an orientation name or EXIF code as accepted
// on the command line: "identity", "front", "back", or "1".."8".
func ParseOrientation(s string) (Orientation, error) {
	switch s {
	case "identity":
		return OrientIdentity, nil
	case "front":
		return OrientFrontCamera, nil
	case "back":
		return OrientBackCamera, nil
	}
	var code int
	if _, err := fmt.Sscanf(s, "%d", &code); err != nil {
		return OrientIdentity, fmt.Errorf("invalid orientation %q", s)
	}
	return FromEXIF(code)
}
