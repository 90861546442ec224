package viewer

import (
	"strings"

	"github.com/Faultbox/partscope/internal/inspector"
)

// HUD collects the inspector's display strings and shows them in the
// window title.
type HUD struct {
	inspector.Slots
	prefix string
}

// NewHUD returns a HUD whose title starts with prefix.
func NewHUD(prefix string) *HUD {
	return &HUD{prefix: prefix}
}

// Title joins the prefix and every non-empty slot.
func (h *HUD) Title() string {
	parts := []string{h.prefix}
	for _, slot := range []inspector.Slot{
		inspector.SlotAssetName,
		inspector.SlotSceneIndex,
		inspector.SlotMeshCount,
		inspector.SlotExplosionFactor,
	} {
		if v := h.Get(slot); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " | ")
}
