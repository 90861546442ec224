package inspector

import (
	"go.uber.org/zap"
)

// DefaultExplosionStep is how much one increment changes the factor.
const DefaultExplosionStep float32 = 0.2

// EventKind identifies an input event.
type EventKind int

const (
	EventIncrementExplosion EventKind = iota + 1
	EventDecrementExplosion
	EventNextAsset
	EventPrevAsset
	EventPick
	EventCancel
	// EventReload rebuilds the active asset if Path is empty or matches it.
	EventReload
)

// Event is one input for a tick.
type Event struct {
	Kind EventKind
	Leaf LeafRef // EventPick
	Path string  // EventReload
}

// Pick returns a pick event for leaf.
func Pick(leaf LeafRef) Event { return Event{Kind: EventPick, Leaf: leaf} }

// Option configures an Inspector.
type Option func(*Inspector)

// WithLogger sets the logger; components get named children of it.
func WithLogger(log *zap.Logger) Option {
	return func(in *Inspector) { in.log = log }
}

// WithDisplay sets where display strings are written.
func WithDisplay(d Display) Option {
	return func(in *Inspector) { in.display = d }
}

// WithExplosionStep sets the increment used by explosion events.
func WithExplosionStep(step float32) Option {
	return func(in *Inspector) {
		if step > 0 {
			in.step = step
		}
	}
}

// WithInitialAsset starts at the given catalog entry instead of the first.
func WithInitialAsset(ref AssetRef) Option {
	return func(in *Inspector) { in.initial = &ref }
}

// Inspector wires the catalog, view state, reconciler and selector together
// and runs them in a fixed order once per tick.
type Inspector struct {
	catalog    *Catalog
	view       *ViewState
	reconciler *Reconciler
	selector   *Selector
	display    Display
	log        *zap.Logger
	step       float32
	initial    *AssetRef
	selection  Selection
}

// New returns an inspector with the first catalog entry (or the one given
// by WithInitialAsset) already selected, so the first tick starts a build.
func New(catalog *Catalog, source Source, opts ...Option) *Inspector {
	in := &Inspector{
		catalog: catalog,
		view:    NewViewState(),
		log:     zap.NewNop(),
		step:    DefaultExplosionStep,
	}
	for _, opt := range opts {
		opt(in)
	}
	in.reconciler = NewReconciler(source, in.log.Named("reconcile"))
	in.selector = NewSelector(in.log.Named("selection"))

	start := catalog.First()
	if in.initial != nil && catalog.Index(*in.initial) >= 0 {
		start = catalog.At(catalog.Index(*in.initial))
	}
	in.view.Select(start)
	in.log.Info("asset selected", zap.String("asset", start.Name), zap.String("path", start.Path))
	return in
}

// View returns the view state. Mutate it only between ticks.
func (in *Inspector) View() *ViewState { return in.view }

// Catalog returns the asset catalog.
func (in *Inspector) Catalog() *Catalog { return in.catalog }

// Status returns the reconciliation state.
func (in *Inspector) Status() Status { return in.reconciler.Status() }

// Stats returns the reconciler counters.
func (in *Inspector) Stats() Stats { return in.reconciler.Stats() }

// Generation returns the live generation, or nil while none is built.
func (in *Inspector) Generation() *Generation { return in.reconciler.Current() }

// Selection returns the result of the last pick.
func (in *Inspector) Selection() Selection { return in.selection }

// Tick applies view mutations from events, reconciles, then resolves pick
// and cancel events against the resulting tree and publishes the display
// strings. The returned error is a content error and is not retried.
func (in *Inspector) Tick(events []Event) error {
	for _, ev := range events {
		in.apply(ev)
	}

	before := in.reconciler.Current()
	if err := in.reconciler.Tick(in.view); err != nil {
		return err
	}
	if in.reconciler.Current() != before {
		in.selection = Selection{}
	}

	gen := in.reconciler.Current()
	for _, ev := range events {
		switch ev.Kind {
		case EventPick:
			in.selection = in.selector.Pick(gen, ev.Leaf)
		case EventCancel:
			in.selection = in.selector.Cancel(gen)
		}
	}

	publish(in.display, in.view, gen)
	return nil
}

func (in *Inspector) apply(ev Event) {
	current, hasAsset := in.view.Selected()
	switch ev.Kind {
	case EventIncrementExplosion:
		in.view.IncreaseExplosion(in.step)
	case EventDecrementExplosion:
		in.view.DecreaseExplosion(in.step)
	case EventNextAsset, EventPrevAsset:
		if !hasAsset {
			return
		}
		next := in.catalog.Next(current)
		if ev.Kind == EventPrevAsset {
			next = in.catalog.Prev(current)
		}
		in.view.Select(next)
		in.log.Info("asset selected", zap.String("asset", next.Name), zap.String("path", next.Path))
	case EventReload:
		if hasAsset && (ev.Path == "" || ev.Path == current.Path) {
			in.view.Invalidate()
		}
	}
}
