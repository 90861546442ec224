package inspector

import (
	"go.uber.org/zap"
)

// LeafRef identifies a picked entity. Refs from an older generation never
// resolve.
type LeafRef struct {
	Generation uint64
	Entity     EntityID
}

// Selection is the outcome of the last pick.
type Selection struct {
	Valid     bool
	Leaf      LeafRef
	Primitive PrimitiveID
	Owner     NodeID
	Chain     []NodeID // root first, Owner last
}

// Selector turns pick and cancel events into row highlights.
type Selector struct {
	log *zap.Logger
}

// NewSelector returns a selector logging to log.
func NewSelector(log *zap.Logger) *Selector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Selector{log: log}
}

// Cancel clears every highlight.
func (s *Selector) Cancel(gen *Generation) Selection {
	if gen != nil {
		gen.clearHighlights()
	}
	return Selection{}
}

// Pick clears every highlight and then highlights the ancestor chain and
// mesh of the picked primitive. A ref that does not resolve to a primitive
// leaves the list cleared.
func (s *Selector) Pick(gen *Generation, ref LeafRef) Selection {
	if gen == nil {
		return Selection{}
	}
	gen.clearHighlights()

	sel, ok := resolve(gen, ref)
	if !ok {
		s.log.Debug("pick did not resolve to a primitive",
			zap.Uint64("generation", ref.Generation),
			zap.Int("entity", int(ref.Entity)),
		)
		return Selection{}
	}

	inChain := make(map[NodeID]bool, len(sel.Chain))
	for _, id := range sel.Chain {
		inChain[id] = true
	}
	for i := range gen.Rows {
		row := &gen.Rows[i]
		switch row.Kind {
		case RowNode:
			row.Highlighted = inChain[row.Node]
		case RowMesh:
			row.Highlighted = row.Mesh == sel.Primitive.Mesh &&
				row.Parent >= 0 && gen.Rows[row.Parent].Node == sel.Owner
		}
	}
	s.log.Debug("pick resolved",
		zap.Stringer("primitive", sel.Primitive),
		zap.Int("owner", int(sel.Owner)),
		zap.Int("depth", len(sel.Chain)),
	)
	return sel
}

func resolve(gen *Generation, ref LeafRef) (Selection, bool) {
	if ref.Generation != gen.ID {
		return Selection{}, false
	}
	leaf, ok := gen.Tree.Entity(ref.Entity)
	if !ok || leaf.Kind != EntityPrimitive {
		return Selection{}, false
	}
	owner, ok := gen.Tree.Entity(leaf.Parent)
	if !ok || owner.Kind != EntityNode {
		return Selection{}, false
	}
	return Selection{
		Valid:     true,
		Leaf:      ref,
		Primitive: leaf.Primitive,
		Owner:     owner.Node,
		Chain:     gen.Tree.NodeChain(leaf.Parent),
	}, true
}
