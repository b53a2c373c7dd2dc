package surface

import (
	"strings"

	"github.com/soar/touchjoy/internal/stick"
)

// Region is an interactive area of the control surface.
type Region int

const (
	Left Region = iota
	Right
	Up
	Down
	A
	B
)

// Regions lists every region.
var Regions = []Region{Left, Right, Up, Down, A, B}

var regionNames = map[Region]string{
	Left:  "left",
	Right: "right",
	Up:    "up",
	Down:  "down",
	A:     "a",
	B:     "b",
}

func (r Region) String() string {
	if n, ok := regionNames[r]; ok {
		return n
	}
	return "unknown"
}

// IsJoystick is true for the two joystick regions.
func (r Region) IsJoystick() bool {
	return r == Left || r == Right
}

// ParseRegion is the inverse of Region.String. Case is ignored.
func ParseRegion(s string) (Region, bool) {
	s = strings.ToLower(s)
	for r, n := range regionNames {
		if n == s {
			return r, true
		}
	}
	return 0, false
}

// Kind is the phase of a pointer event.
type Kind int

const (
	Press Kind = iota
	Move
	Release
	Cancel
)

func (k Kind) String() string {
	switch k {
	case Press:
		return "press"
	case Move:
		return "move"
	case Release:
		return "release"
	case Cancel:
		return "cancel"
	}
	return "unknown"
}

// Event is a raw pointer event targeted at a region. Bounds is the region's
// geometry at the time of the event, or nil if the region is not laid out yet.
type Event struct {
	Region    Region
	Kind      Kind
	PointerID int
	Point     stick.Point
	Bounds    *stick.Bounds
}
