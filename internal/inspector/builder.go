package inspector

import (
	"errors"
	"fmt"
)

// Generation is the render tree and list built for one view state.
// Both presentations draw their tags from the same traversal.
type Generation struct {
	ID        uint64
	Asset     AssetRef
	Factor    float32
	Tree      *RenderTree
	Rows      []Row
	MeshCount int

	nodeEntity map[NodeID]EntityID
	nodeRow    map[NodeID]int
}

// EntityOf returns the entity mirroring node id.
func (g *Generation) EntityOf(id NodeID) (EntityID, bool) {
	e, ok := g.nodeEntity[id]
	return e, ok
}

// RowOf returns the list row of node id.
func (g *Generation) RowOf(id NodeID) (int, bool) {
	r, ok := g.nodeRow[id]
	return r, ok
}

// Highlighted returns the indices of highlighted rows.
func (g *Generation) Highlighted() []int {
	var out []int
	for i := range g.Rows {
		if g.Rows[i].Highlighted {
			out = append(out, i)
		}
	}
	return out
}

// PrimitiveLeaf returns a pick reference for the index-th primitive drawn
// under node id.
func (g *Generation) PrimitiveLeaf(id NodeID, index int) (LeafRef, bool) {
	e, ok := g.nodeEntity[id]
	if !ok {
		return LeafRef{}, false
	}
	for _, c := range g.Tree.entities[e].Children {
		child := g.Tree.entities[c]
		if child.Kind == EntityPrimitive && child.Primitive.Index == index {
			return LeafRef{Generation: g.ID, Entity: c}, true
		}
	}
	return LeafRef{}, false
}

func (g *Generation) clearHighlights() {
	for i := range g.Rows {
		g.Rows[i].Highlighted = false
	}
}

// Build mirrors the asset's scene into a new generation. It only reads from
// graph and returns ErrNotReady, without side effects, when the scene or its
// first root node is not resident yet. Later nodes that are not resident are
// left out of this generation.
func Build(graph Graph, asset AssetRef, factor float32, id uint64) (*Generation, error) {
	roots, err := graph.SceneRoots(asset.Scene)
	if errors.Is(err, ErrNotResident) {
		return nil, ErrNotReady
	}
	if err != nil {
		return nil, fmt.Errorf("%s: scene %d: %w", asset.Path, asset.Scene, err)
	}
	if len(roots) > 0 {
		if _, err := graph.Node(roots[0]); errors.Is(err, ErrNotResident) {
			return nil, ErrNotReady
		}
	}

	b := &builder{
		graph:   graph,
		asset:   asset,
		factor:  factor,
		visited: make(map[NodeID]bool),
		gen: &Generation{
			ID:         id,
			Asset:      asset,
			Factor:     factor,
			Tree:       newRenderTree(),
			nodeEntity: make(map[NodeID]EntityID),
			nodeRow:    make(map[NodeID]int),
		},
	}
	anchor := b.gen.Tree.Anchor()
	for i, root := range roots {
		label := fmt.Sprintf("Scene %d references node %d", asset.Scene, root)
		if err := b.node(anchor, -1, root, i, label, true); err != nil {
			return nil, err
		}
	}
	return b.gen, nil
}

type builder struct {
	graph   Graph
	asset   AssetRef
	factor  float32
	visited map[NodeID]bool
	gen     *Generation
}

func (b *builder) addRow(r Row) int {
	if r.Parent >= 0 {
		r.Depth = b.gen.Rows[r.Parent].Depth + 1
	}
	b.gen.Rows = append(b.gen.Rows, r)
	return len(b.gen.Rows) - 1
}

// node mirrors one node and its subtree. listed is false below camera nodes.
func (b *builder) node(parent EntityID, parentRow int, id NodeID, sibling int, label string, listed bool) error {
	data, err := b.graph.Node(id)
	if errors.Is(err, ErrNotResident) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: node %d: %w", b.asset.Path, id, err)
	}
	if b.visited[id] {
		return fmt.Errorf("%s: node %d reached twice: %w", b.asset.Path, id, ErrMalformedGraph)
	}
	b.visited[id] = true

	local := data.Transform.WithTranslation(
		ExplodedTranslation(data.Transform.Translation, sibling, b.factor, b.asset.ExplosionScale))
	tree := b.gen.Tree
	entity := tree.add(parent, Entity{Kind: EntityNode, Node: id, Local: local})
	b.gen.nodeEntity[id] = entity

	listed = listed && !data.Camera
	row := -1
	if listed {
		row = b.addRow(Row{Kind: RowNode, Node: id, Mesh: NoMesh, Parent: parentRow, Label: label})
		b.gen.nodeRow[id] = row
	}

	if data.Mesh != NoMesh {
		prims, err := b.graph.Mesh(data.Mesh)
		if errors.Is(err, ErrNotResident) {
			return ErrNotReady
		}
		if err != nil {
			return fmt.Errorf("%s: mesh %d: %w", b.asset.Path, data.Mesh, err)
		}
		b.gen.MeshCount++
		if listed {
			b.addRow(Row{
				Kind:   RowMesh,
				Node:   -1,
				Mesh:   data.Mesh,
				Parent: row,
				Label:  fmt.Sprintf("Node %d references mesh %d", id, data.Mesh),
			})
		}
		for i, p := range prims {
			pid := PrimitiveID{Mesh: data.Mesh, Index: i}
			if p.Material == NoMaterial {
				return &MissingMaterialError{Asset: b.asset.Path, Node: id, Primitive: pid}
			}
			tree.add(entity, Entity{
				Kind:      EntityPrimitive,
				Local:     IdentityTransform(),
				Primitive: pid,
				Geometry:  p.Geometry,
				Material:  p.Material,
			})
		}
	}

	for i, child := range data.Children {
		childLabel := fmt.Sprintf("Node %d references node %d", id, child)
		if err := b.node(entity, row, child, i, childLabel, listed); err != nil {
			return err
		}
	}
	return nil
}
