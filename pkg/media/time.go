package media

// Time is a rational presentation time: Value ticks at Scale ticks per
// second. Containers carry per-track timescales, so times are kept
// rational end to end and only converted for display and progress math.
type Time struct {
	Value int64
	Scale uint32
}

// NewTime creates a Time from a tick value and timescale.
func NewTime(value int64, scale uint32) Time {
	return Time{Value: value, Scale: scale}
}

// Seconds returns the time as floating-point seconds.
func (t Time) Seconds() float64 {
	if t.Scale == 0 {
		return float64(t.Value)
	}
	return float64(t.Value) / float64(t.Scale)
}

// Millis returns the time in integer milliseconds.
func (t Time) Millis() int64 {
	if t.Scale == 0 {
		return t.Value * 1000
	}
	return t.Value * 1000 / int64(t.Scale)
}

// Rescale converts the time to another timescale, rounding down.
func (t Time) Rescale(scale uint32) Time {
	if t.Scale == 0 || scale == 0 || t.Scale == scale {
		return Time{Value: t.Value, Scale: scale}
	}
	return Time{Value: t.Value * int64(scale) / int64(t.Scale), Scale: scale}
}

// IsZero reports whether the time has no value set.
func (t Time) IsZero() bool {
	return t.Value == 0 && t.Scale == 0
}
