package transcode

import (
	"fmt"

	"github.com/user/vidpump/pkg/media"
	"github.com/user/vidpump/pkg/ports"
)

// stepResult reports what a pump step did.
type stepResult int

const (
	// stepConsumed means one sample moved from source to sink.
	stepConsumed stepResult = iota
	// stepEnded means the source track is exhausted and the sink input
	// has been told no more data is coming.
	stepEnded
)

// processFunc transforms a sample between source and sink. The video
// pump threads samples through the orientation transform and the
// scratch buffer; the audio pump has none and passes payloads through
// unmodified.
type processFunc func(media.Sample) (media.Sample, error)

// trackPump drains one source track output into one sink track input.
// States are Open and Finished; Finished is terminal and never reverts.
// The coordinator calls step only while the pump is open and the sink
// input reports ready.
type trackPump struct {
	kind     media.TrackKind
	out      ports.TrackOutput
	in       ports.TrackInput
	process  processFunc
	finished bool
}

func newTrackPump(kind media.TrackKind, out ports.TrackOutput, in ports.TrackInput, process processFunc) *trackPump {
	return &trackPump{kind: kind, out: out, in: in, process: process}
}

// step moves at most one sample. A processing or append failure is
// fatal to the transcode; it is surfaced to the coordinator and never
// retried.
func (p *trackPump) step() (stepResult, error) {
	sample, ok := p.out.NextSample()
	if !ok {
		p.finished = true
		p.in.MarkFinished()
		return stepEnded, nil
	}

	if p.process != nil {
		processed, err := p.process(sample)
		if err != nil {
			return stepConsumed, fmt.Errorf("%s pump: %w", p.kind, err)
		}
		processed.PTS = sample.PTS
		sample = processed
	}

	if !p.in.Append(sample) {
		return stepConsumed, fmt.Errorf("%s pump: sink rejected sample at %dms", p.kind, sample.PTS.Millis())
	}
	return stepConsumed, nil
}
