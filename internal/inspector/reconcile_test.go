package inspector

import (
	"errors"
	"testing"
)

func selectedView(asset AssetRef) *ViewState {
	v := NewViewState()
	v.Select(asset)
	return v
}

func TestReconcileBuildsOnFirstTick(t *testing.T) {
	src, _ := fixtureSource()
	r := NewReconciler(src, nil)
	view := selectedView(assetA)

	if err := r.Tick(view); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	if r.Status() != StatusClean {
		t.Fatalf("status = %v, want clean", r.Status())
	}
	if r.Current() == nil || r.Current().ID != 1 {
		t.Fatalf("current generation = %+v", r.Current())
	}
	if view.Dirty() {
		t.Error("dirty bit should be consumed")
	}

	// Clean stays clean without touching anything.
	for i := 0; i < 3; i++ {
		if err := r.Tick(view); err != nil {
			t.Fatalf("Tick() error = %v", err)
		}
	}
	if got := r.Stats().Attempts; got != 1 {
		t.Errorf("attempts = %d, want 1", got)
	}
}

func TestReconcileDefersWhileNotResident(t *testing.T) {
	src, g := fixtureSource()
	g.nodeMissing[nRoot] = true
	r := NewReconciler(src, nil)
	view := selectedView(assetA)

	for i := 0; i < 5; i++ {
		if err := r.Tick(view); err != nil {
			t.Fatalf("Tick() error = %v", err)
		}
		if r.Status() != StatusBuilding {
			t.Fatalf("tick %d: status = %v, want building", i, r.Status())
		}
	}
	st := r.Stats()
	if st.Spawned != 0 || st.Despawned != 0 || r.Current() != nil {
		t.Errorf("deferred builds mutated entities: %+v", st)
	}
	if st.Deferred != 5 {
		t.Errorf("deferred = %d, want 5", st.Deferred)
	}

	g.nodeMissing[nRoot] = false
	if err := r.Tick(view); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	if r.Status() != StatusClean {
		t.Errorf("status = %v, want clean", r.Status())
	}
}

func TestReconcileDefersWhileAssetUnloaded(t *testing.T) {
	src, _ := fixtureSource()
	src.unloaded[assetA.Path] = true
	r := NewReconciler(src, nil)
	view := selectedView(assetA)

	if err := r.Tick(view); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	if r.Status() != StatusBuilding {
		t.Fatalf("status = %v, want building", r.Status())
	}

	delete(src.unloaded, assetA.Path)
	if err := r.Tick(view); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	if r.Status() != StatusClean {
		t.Errorf("status = %v, want clean", r.Status())
	}
}

func TestReconcileRemovesStaleTreeExactlyOnce(t *testing.T) {
	src, g := fixtureSource()
	r := NewReconciler(src, nil)
	view := selectedView(assetA)
	if err := r.Tick(view); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	built := r.Current().Tree.Len()

	view.IncreaseExplosion(0.2)
	g.meshMissing[0] = true
	for i := 0; i < 10; i++ {
		if err := r.Tick(view); err != nil {
			t.Fatalf("Tick() error = %v", err)
		}
	}
	st := r.Stats()
	if st.Teardowns != 1 {
		t.Errorf("teardowns = %d, want 1", st.Teardowns)
	}
	if st.Despawned != built {
		t.Errorf("despawned = %d, want %d", st.Despawned, built)
	}
	if r.Current() != nil {
		t.Error("stale tree still live")
	}

	g.meshMissing[0] = false
	if err := r.Tick(view); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	if r.Status() != StatusClean {
		t.Fatalf("status = %v, want clean", r.Status())
	}
	if got := r.Stats().Teardowns; got != 1 {
		t.Errorf("teardowns after rebuild = %d, want 1", got)
	}
}

func TestReconcileCollapsesMutationsInOneTick(t *testing.T) {
	src, _ := fixtureSource()
	r := NewReconciler(src, nil)
	view := selectedView(assetA)
	if err := r.Tick(view); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}

	view.IncreaseExplosion(0.2)
	view.IncreaseExplosion(0.2)
	view.Select(assetB)
	if err := r.Tick(view); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}

	st := r.Stats()
	if st.Teardowns != 1 || st.Generations != 2 {
		t.Errorf("stats = %+v, want 1 teardown and 2 generations", st)
	}
	if !r.Current().Asset.Same(assetB) {
		t.Errorf("current asset = %q, want %q", r.Current().Asset.Path, assetB.Path)
	}
}

func TestReconcileDirtyOverridesBuilding(t *testing.T) {
	src, _ := fixtureSource()
	src.unloaded[assetA.Path] = true
	r := NewReconciler(src, nil)
	view := selectedView(assetA)
	if err := r.Tick(view); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}

	// Switching while assetA is still loading abandons the attempt.
	view.Select(assetB)
	if err := r.Tick(view); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	if r.Status() != StatusClean || !r.Current().Asset.Same(assetB) {
		t.Errorf("status = %v, asset = %+v", r.Status(), r.Current())
	}
	if r.Stats().Teardowns != 0 {
		t.Errorf("teardowns = %d, want 0 (nothing was built)", r.Stats().Teardowns)
	}
}

func TestReconcileNoActiveAsset(t *testing.T) {
	src, _ := fixtureSource()
	r := NewReconciler(src, nil)
	view := NewViewState()

	if err := r.Tick(view); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	if r.Status() != StatusDirty {
		t.Errorf("status = %v, want dirty", r.Status())
	}
	if r.Stats().Attempts != 0 {
		t.Errorf("attempts = %d, want 0", r.Stats().Attempts)
	}
}

func TestReconcileMissingMaterialIsFatal(t *testing.T) {
	src, g := fixtureSource()
	g.meshes[0] = []PrimitiveData{{Geometry: 0, Material: NoMaterial}}
	r := NewReconciler(src, nil)

	err := r.Tick(selectedView(assetA))
	var mm *MissingMaterialError
	if !errors.As(err, &mm) {
		t.Fatalf("Tick() error = %v, want MissingMaterialError", err)
	}
	if r.Status() == StatusClean || r.Current() != nil {
		t.Error("a failed build must not become live")
	}
}

// A factor change is a view mutation like any other, so the whole tree is
// rebuilt rather than patched in place.
func TestExplosionChangeRebuildsWholeTree(t *testing.T) {
	src, _ := fixtureSource()
	r := NewReconciler(src, nil)
	view := selectedView(assetA)
	if err := r.Tick(view); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	first := r.Current()

	view.IncreaseExplosion(0.2)
	if err := r.Tick(view); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	second := r.Current()

	if second == first || second.ID != first.ID+1 {
		t.Fatalf("expected a new generation, got %d after %d", second.ID, first.ID)
	}
	st := r.Stats()
	if st.Teardowns != 1 || st.Spawned != first.Tree.Len()+second.Tree.Len() {
		t.Errorf("stats = %+v", st)
	}
	if second.Factor != view.ExplosionFactor() {
		t.Errorf("factor = %v, want %v", second.Factor, view.ExplosionFactor())
	}
}

func TestStatusString(t *testing.T) {
	tests := map[Status]string{
		StatusDirty:    "dirty",
		StatusBuilding: "building",
		StatusClean:    "clean",
		Status(42):     "unknown",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("Status(%d).String() = %q, want %q", int(s), got, want)
		}
	}
}
