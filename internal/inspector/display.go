package inspector

import "fmt"

// Slot names one of the values the inspector publishes for display.
type Slot int

const (
	SlotAssetName Slot = iota
	SlotExplosionFactor
	SlotMeshCount
	SlotSceneIndex
	slotCount
)

// Display receives the derived strings. It is owned by the frontend.
type Display interface {
	SetSlot(slot Slot, value string)
}

// Slots is a Display that keeps the last value of every slot.
type Slots [slotCount]string

// SetSlot implements Display.
func (s *Slots) SetSlot(slot Slot, value string) {
	if slot >= 0 && slot < slotCount {
		s[slot] = value
	}
}

// Get returns the value of one slot.
func (s *Slots) Get(slot Slot) string {
	if slot < 0 || slot >= slotCount {
		return ""
	}
	return s[slot]
}

func publish(d Display, view *ViewState, gen *Generation) {
	if d == nil {
		return
	}
	d.SetSlot(SlotExplosionFactor, fmt.Sprintf("Explosion factor: %.1f", view.ExplosionFactor()))
	asset, ok := view.Selected()
	if !ok {
		return
	}
	d.SetSlot(SlotAssetName, asset.Name)
	if gen == nil || !gen.Asset.Same(asset) {
		return
	}
	d.SetSlot(SlotMeshCount, fmt.Sprintf("Mesh count is: %d", gen.MeshCount))
	d.SetSlot(SlotSceneIndex, fmt.Sprintf("Scene #%d", gen.Asset.Scene))
}
