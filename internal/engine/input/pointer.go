package input

import "github.com/veandco/go-sdl2/sdl"

// GestureType classifies a pointer gesture.
type GestureType int

const (
	GestureOrbit GestureType = iota + 1
	GestureZoom
	GestureClick
	GestureResize
)

// Gesture is a pointer or window event the viewer acts on.
type Gesture struct {
	Type   GestureType
	X, Y   int     // click position
	DX, DY float32 // orbit delta
	Zoom   float32
}

// Pointer turns raw mouse events into gestures. Orbiting follows a right
// button drag; a left press is a click.
type Pointer struct {
	dragging bool
}

// Dragging reports whether an orbit drag is in progress.
func (p *Pointer) Dragging() bool { return p.dragging }

// Gestures consumes one frame of events.
func (p *Pointer) Gestures(events []Event) []Gesture {
	var out []Gesture
	for _, e := range events {
		switch e.Type {
		case EventWindowResize:
			out = append(out, Gesture{Type: GestureResize})
		case EventMouseDown:
			switch e.Button {
			case sdl.BUTTON_RIGHT:
				p.dragging = true
			case sdl.BUTTON_LEFT:
				out = append(out, Gesture{Type: GestureClick, X: e.MouseX, Y: e.MouseY})
			}
		case EventMouseUp:
			if e.Button == sdl.BUTTON_RIGHT {
				p.dragging = false
			}
		case EventMouseMove:
			if p.dragging && (e.DeltaX != 0 || e.DeltaY != 0) {
				out = append(out, Gesture{Type: GestureOrbit, DX: float32(e.DeltaX), DY: float32(e.DeltaY)})
			}
		case EventMouseWheel:
			if e.Wheel != 0 {
				out = append(out, Gesture{Type: GestureZoom, Zoom: e.Wheel})
			}
		}
	}
	return out
}
