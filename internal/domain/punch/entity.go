package punch

import (
	"strings"
	"time"
)

// Mode is the resolved direction of a punch.
type Mode string

const (
	ModeIn  Mode = "IN"
	ModeOut Mode = "OUT"
)

// PunchRecord is a raw clock event as synced from the device. RawMode may be
// "IN", "OUT" or a device-specific value that does not tell the direction.
type PunchRecord struct {
	ID         string
	EmployeeID string
	Timestamp  time.Time
	RawMode    string
}

// ParseMode returns the mode when raw is unambiguously IN or OUT.
func ParseMode(raw string) (Mode, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(ModeIn):
		return ModeIn, true
	case string(ModeOut):
		return ModeOut, true
	}
	return "", false
}
