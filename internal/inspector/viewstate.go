package inspector

// ViewState is the selection and explosion factor the displayed tree must
// reflect. Every mutator sets a dirty bit; the reconciler consumes it once
// per tick, so several mutations in one tick produce one Dirty transition.
type ViewState struct {
	selected AssetRef
	hasAsset bool
	factor   float32
	dirty    bool
}

// NewViewState returns an empty view state with nothing selected.
func NewViewState() *ViewState {
	return &ViewState{}
}

// Selected returns the active asset.
func (v *ViewState) Selected() (AssetRef, bool) {
	return v.selected, v.hasAsset
}

// ExplosionFactor returns the current factor; it is never negative.
func (v *ViewState) ExplosionFactor() float32 {
	return v.factor
}

// Dirty reports whether a mutation is waiting to be reconciled.
func (v *ViewState) Dirty() bool {
	return v.dirty
}

// Select makes ref the active asset. Reselecting the same asset still
// counts as a change.
func (v *ViewState) Select(ref AssetRef) {
	v.selected = ref
	v.hasAsset = true
	v.dirty = true
}

// IncreaseExplosion adds step to the factor.
func (v *ViewState) IncreaseExplosion(step float32) {
	v.factor += step
	v.dirty = true
}

// DecreaseExplosion subtracts step from the factor. Nothing happens at
// zero. Results within half a step of zero snap to exactly zero so that
// repeated float steps cannot leave a residual offset.
func (v *ViewState) DecreaseExplosion(step float32) bool {
	if v.factor <= 0 {
		return false
	}
	v.factor -= step
	if v.factor < step/2 {
		v.factor = 0
	}
	v.dirty = true
	return true
}

// SetExplosionFactor sets the factor directly, clamped at zero.
func (v *ViewState) SetExplosionFactor(f float32) {
	if f < 0 {
		f = 0
	}
	v.factor = f
	v.dirty = true
}

// Invalidate marks the view dirty without changing it, forcing a rebuild of
// the active asset (used after the asset file changed on disk).
func (v *ViewState) Invalidate() {
	v.dirty = true
}

// consumeDirty clears the dirty bit and reports whether it was set.
func (v *ViewState) consumeDirty() bool {
	d := v.dirty
	v.dirty = false
	return d
}
