package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/partscope/internal/inspector"
)

// Bindings maps keys to inspector events.
type Bindings map[sdl.Scancode]inspector.EventKind

// DefaultBindings returns the standard key layout: Q/E change the
// explosion, Left/Right switch assets, Escape clears the selection and R
// reloads the active asset.
func DefaultBindings() Bindings {
	return Bindings{
		sdl.SCANCODE_Q:      inspector.EventIncrementExplosion,
		sdl.SCANCODE_E:      inspector.EventDecrementExplosion,
		sdl.SCANCODE_RIGHT:  inspector.EventNextAsset,
		sdl.SCANCODE_LEFT:   inspector.EventPrevAsset,
		sdl.SCANCODE_ESCAPE: inspector.EventCancel,
		sdl.SCANCODE_R:      inspector.EventReload,
	}
}

// Translate turns fresh key presses into inspector events, in input order.
// Held keys do not repeat.
func (b Bindings) Translate(events []Event) []inspector.Event {
	var out []inspector.Event
	for _, e := range events {
		if e.Type != EventKeyDown || e.Repeat {
			continue
		}
		if kind, ok := b[e.Key]; ok {
			out = append(out, inspector.Event{Kind: kind})
		}
	}
	return out
}
