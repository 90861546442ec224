package inspector

import (
	"errors"

	"go.uber.org/zap"
)

// Status is the reconciliation state of the displayed tree.
type Status int

const (
	// StatusDirty means the view changed and the tree is stale.
	StatusDirty Status = iota
	// StatusBuilding means a rebuild is being attempted.
	StatusBuilding
	// StatusClean means the tree reflects the view.
	StatusClean
)

func (s Status) String() string {
	switch s {
	case StatusDirty:
		return "dirty"
	case StatusBuilding:
		return "building"
	case StatusClean:
		return "clean"
	default:
		return "unknown"
	}
}

// Stats counts what the reconciler did. Tests use it to check that stale
// trees are removed once and deferred builds touch nothing.
type Stats struct {
	Generations uint64 // successful builds
	Teardowns   int    // trees removed
	Despawned   int    // entities removed across all teardowns
	Spawned     int    // entities created across all successful builds
	Attempts    int    // build attempts, successful or not
	Deferred    int    // attempts that returned ErrNotReady
}

// Reconciler owns the live generation and drives Dirty -> Building -> Clean.
// At most one generation exists at any time.
type Reconciler struct {
	source         Source
	log            *zap.Logger
	status         Status
	removalPending bool
	current        *Generation
	nextID         uint64
	stats          Stats
	deferLogged    bool
}

// NewReconciler returns a reconciler that pulls asset graphs from source.
func NewReconciler(source Source, log *zap.Logger) *Reconciler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reconciler{
		source: source,
		log:    log,
		status: StatusDirty,
	}
}

// Status returns the current reconciliation state.
func (r *Reconciler) Status() Status { return r.status }

// Current returns the live generation, or nil.
func (r *Reconciler) Current() *Generation { return r.current }

// Stats returns a snapshot of the counters.
func (r *Reconciler) Stats() Stats { return r.stats }

// Tick runs one reconciliation step: detect a view change, remove the stale
// tree, attempt a build. Only content errors are returned; missing data just
// defers the build to the next tick.
func (r *Reconciler) Tick(view *ViewState) error {
	r.detectChange(view)
	r.removeStale()
	return r.build(view)
}

func (r *Reconciler) detectChange(view *ViewState) {
	if !view.consumeDirty() {
		return
	}
	if r.status != StatusDirty {
		r.log.Debug("view changed", zap.Stringer("was", r.status))
	}
	r.status = StatusDirty
	r.removalPending = true
	r.deferLogged = false
}

func (r *Reconciler) removeStale() {
	if !r.removalPending {
		return
	}
	r.removalPending = false
	if r.current == nil {
		return
	}
	n := r.current.Tree.Len()
	r.log.Debug("removing tree",
		zap.Uint64("generation", r.current.ID),
		zap.Int("entities", n),
	)
	r.stats.Teardowns++
	r.stats.Despawned += n
	r.current = nil
}

func (r *Reconciler) build(view *ViewState) error {
	if r.status == StatusClean {
		return nil
	}
	gen, err := r.attempt(view)
	switch {
	case errors.Is(err, ErrNoActiveAsset):
		return nil
	case errors.Is(err, ErrNotReady):
		r.stats.Deferred++
		if !r.deferLogged {
			r.deferLogged = true
			r.log.Debug("asset not resident yet, build deferred")
		}
		return nil
	case err != nil:
		var mm *MissingMaterialError
		if errors.As(err, &mm) {
			r.log.Error("primitive without material",
				zap.String("asset", mm.Asset),
				zap.Int("node", int(mm.Node)),
				zap.Int("mesh", int(mm.Primitive.Mesh)),
				zap.Int("primitive", mm.Primitive.Index),
			)
		}
		return err
	}

	r.current = gen
	r.status = StatusClean
	r.stats.Generations++
	r.stats.Spawned += gen.Tree.Len()
	r.log.Info("tree built",
		zap.String("asset", gen.Asset.Name),
		zap.Uint64("generation", gen.ID),
		zap.Float32("explosion", gen.Factor),
		zap.Int("entities", gen.Tree.Len()),
		zap.Int("rows", len(gen.Rows)),
	)
	return nil
}

func (r *Reconciler) attempt(view *ViewState) (*Generation, error) {
	asset, ok := view.Selected()
	if !ok {
		return nil, ErrNoActiveAsset
	}
	r.status = StatusBuilding
	r.stats.Attempts++

	graph, ok := r.source.Graph(asset)
	if !ok {
		return nil, ErrNotReady
	}
	gen, err := Build(graph, asset, view.ExplosionFactor(), r.nextID+1)
	if err != nil {
		return nil, err
	}
	r.nextID++
	return gen, nil
}
