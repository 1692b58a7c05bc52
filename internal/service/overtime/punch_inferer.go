package overtime

import (
	"slices"
	"time"

	"github.com/cmlabs-hris/hris-overtime/internal/domain/punch"
)

// InferredPunch is a punch with its resolved direction.
type InferredPunch struct {
	Timestamp time.Time
	Mode      punch.Mode
}

// InferMode returns rawMode when it is already IN or OUT. Otherwise the
// direction is guessed from the hour of ts in its own location:
// [06,12) is IN, [14,20] is OUT, anything else is IN before noon and OUT after.
func InferMode(ts time.Time, rawMode string) punch.Mode {
	if mode, ok := punch.ParseMode(rawMode); ok {
		return mode
	}

	hour := ts.Hour()
	switch {
	case hour >= 6 && hour < 12:
		return punch.ModeIn
	case hour >= 14 && hour <= 20:
		return punch.ModeOut
	case hour < 12:
		return punch.ModeIn
	default:
		return punch.ModeOut
	}
}

// InferPunches resolves every record in loc and sorts the result by time.
func InferPunches(records []punch.PunchRecord, loc *time.Location) []InferredPunch {
	inferred := make([]InferredPunch, 0, len(records))
	for _, r := range records {
		ts := r.Timestamp.In(loc)
		inferred = append(inferred, InferredPunch{
			Timestamp: ts,
			Mode:      InferMode(ts, r.RawMode),
		})
	}
	slices.SortStableFunc(inferred, func(a, b InferredPunch) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return inferred
}
