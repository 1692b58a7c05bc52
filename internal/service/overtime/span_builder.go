package overtime

import (
	"time"

	"github.com/cmlabs-hris/hris-overtime/internal/domain/punch"
)

// DaySpans is what one day of punches reduces to.
type DaySpans struct {
	Spans        []Span
	FirstPunchIn *time.Time
	LastPunchOut *time.Time
}

// BuildSpans reduces one day of time-ordered punches to at most one span,
// from the first IN to the last OUT after it. When no OUT follows the first
// IN, the last punch after it closes the span whatever its mode. Intermediate
// in/out pairs (breaks) are not split out.
//
// A day without any IN keeps no span; a lone punch is still recorded as the
// first punch in.
func BuildSpans(punches []InferredPunch) DaySpans {
	var result DaySpans
	if len(punches) == 0 {
		return result
	}

	firstIn := -1
	for i, p := range punches {
		if p.Mode == punch.ModeIn {
			firstIn = i
			break
		}
	}

	if firstIn < 0 {
		if len(punches) == 1 {
			ts := punches[0].Timestamp
			result.FirstPunchIn = &ts
		}
		return result
	}

	in := punches[firstIn].Timestamp
	result.FirstPunchIn = &in

	rest := punches[firstIn+1:]
	if len(rest) == 0 {
		return result
	}

	lastOut := -1
	for i := len(rest) - 1; i >= 0; i-- {
		if rest[i].Mode == punch.ModeOut {
			lastOut = i
			break
		}
	}
	if lastOut < 0 {
		lastOut = len(rest) - 1
	}

	out := rest[lastOut].Timestamp
	result.LastPunchOut = &out

	if out.After(in) {
		result.Spans = []Span{NewSpan(in, out)}
	}
	return result
}
