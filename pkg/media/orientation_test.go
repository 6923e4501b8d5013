package media

import "testing"

func TestFromEXIF(t *testing.T) {
	cases := []struct {
		code int
		want Orientation
	}{
		{1, OrientIdentity},
		{2, OrientFlipH},
		{3, OrientRotate180},
		{4, OrientFlipV},
		{5, OrientTranspose},
		{6, OrientRotate270},
		{7, OrientTransverse},
		{8, OrientRotate90},
	}
	for _, tc := range cases {
		got, err := FromEXIF(tc.code)
		if err != nil {
			t.Fatalf("FromEXIF(%d): unexpected error: %v", tc.code, err)
		}
		if got != tc.want {
			t.Errorf("FromEXIF(%d) = %s, want %s", tc.code, got, tc.want)
		}
	}
}

func TestFromEXIF_InvalidCodes(t *testing.T) {
	for _, code := range []int{0, -1, 9, 100} {
		if _, err := FromEXIF(code); err == nil {
			t.Errorf("FromEXIF(%d): expected error", code)
		}
	}
}

func TestFromRotation(t *testing.T) {
	if got := FromRotation(90, false); got != OrientBackCamera {
		t.Errorf("FromRotation(90, back) = %s", got)
	}
	if got := FromRotation(90, true); got != OrientFrontCamera {
		t.Errorf("FromRotation(90, front) = %s", got)
	}
	if got := FromRotation(270, false); got != OrientBackCamera {
		t.Errorf("FromRotation(270, back) = %s", got)
	}
	if got := FromRotation(180, false); got != OrientRotate180 {
		t.Errorf("FromRotation(180) = %s", got)
	}
	if got := FromRotation(0, false); got != OrientIdentity {
		t.Errorf("FromRotation(0) = %s", got)
	}
	if got := FromRotation(-90, false); got != OrientBackCamera {
		t.Errorf("FromRotation(-90) = %s", got)
	}
	if got := FromRotation(450, false); got != OrientBackCamera {
		t.Errorf("FromRotation(450) = %s", got)
	}
}

func TestOrientation_SwapsAxes(t *testing.T) {
	swapping := []Orientation{
		OrientFrontCamera, OrientBackCamera, OrientTranspose,
		OrientRotate270, OrientTransverse, OrientRotate90,
	}
	for _, o := range swapping {
		if !o.SwapsAxes() {
			t.Errorf("%s: expected SwapsAxes", o)
		}
	}
	fixed := []Orientation{OrientIdentity, OrientFlipH, OrientRotate180, OrientFlipV}
	for _, o := range fixed {
		if o.SwapsAxes() {
			t.Errorf("%s: expected no axis swap", o)
		}
	}
}

func TestParseOrientation(t *testing.T) {
	if got, err := ParseOrientation("front"); err != nil || got != OrientFrontCamera {
		t.Errorf("ParseOrientation(front) = %s, %v", got, err)
	}
	if got, err := ParseOrientation("back"); err != nil || got != OrientBackCamera {
		t.Errorf("ParseOrientation(back) = %s, %v", got, err)
	}
	if got, err := ParseOrientation("identity"); err != nil || got != OrientIdentity {
		t.Errorf("ParseOrientation(identity) = %s, %v", got, err)
	}
	if got, err := ParseOrientation("6"); err != nil || got != OrientRotate270 {
		t.Errorf("ParseOrientation(6) = %s, %v", got, err)
	}
	if _, err := ParseOrientation("sideways"); err == nil {
		t.Error("ParseOrientation(sideways): expected error")
	}
	if _, err := ParseOrientation("9"); err == nil {
		t.Error("ParseOrientation(9): expected error")
	}
}
