// Package touch receives pointer events from the on-screen control page over
// a WebSocket and runs a control surface for each connected page.
package touch

import (
	"encoding/json"

	"github.com/soar/touchjoy/internal/stick"
	"github.com/soar/touchjoy/internal/surface"
)

// Frame types sent by the page.
const (
	TypeDown   = "down"
	TypeMove   = "move"
	TypeUp     = "up"
	TypeCancel = "cancel"
	TypeScale  = "scale"
)

// Frame types sent to the page.
const (
	TypeLayout  = "layout"
	TypeCapture = "capture"
	TypeRelease = "release"
	TypeHandle  = "handle"
	TypeVisible = "visible"
	TypeError   = "error"
)

// Rect is the bounding box of a control element as reported by the page.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Message is a touch WebSocket payload in either direction.
type Message struct {
	T      string          `json:"t"`
	R      string          `json:"r,omitempty"`
	ID     int             `json:"id"`
	X      float64         `json:"x"`
	Y      float64         `json:"y"`
	Rect   *Rect           `json:"rect,omitempty"`
	S      float64         `json:"s,omitempty"`
	On     *bool           `json:"on,omitempty"`
	Msg    string          `json:"msg,omitempty"`
	Layout json.RawMessage `json:"layout,omitempty"`
}

var kinds = map[string]surface.Kind{
	TypeDown:   surface.Press,
	TypeMove:   surface.Move,
	TypeUp:     surface.Release,
	TypeCancel: surface.Cancel,
}

// Event converts a pointer frame to a surface event. It returns false for
// frames that are not pointer events or name an unknown region.
func (m *Message) Event() (surface.Event, bool) {
	kind, ok := kinds[m.T]
	if !ok {
		return surface.Event{}, false
	}
	region, ok := surface.ParseRegion(m.R)
	if !ok {
		return surface.Event{}, false
	}

	ev := surface.Event{
		Region:    region,
		Kind:      kind,
		PointerID: m.ID,
		Point:     stick.Point{X: m.X, Y: m.Y},
	}
	if m.Rect != nil {
		ev.Bounds = &stick.Bounds{
			Left:   m.Rect.Left,
			Top:    m.Rect.Top,
			Width:  m.Rect.Width,
			Height: m.Rect.Height,
		}
	}
	return ev, true
}
