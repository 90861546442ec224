package inspector

import "github.com/go-gl/mathgl/mgl32"

// EntityID addresses an entity inside one RenderTree.
type EntityID int

// NoEntity is the parent of the anchor entity.
const NoEntity EntityID = -1

// EntityKind distinguishes the entities of a render tree.
type EntityKind uint8

const (
	// EntityAnchor is the single top-level entity owning the whole asset.
	EntityAnchor EntityKind = iota
	// EntityNode mirrors one asset node.
	EntityNode
	// EntityPrimitive is a drawable, pickable leaf.
	EntityPrimitive
)

// Entity is one slot of the render arena.
type Entity struct {
	Kind     EntityKind
	Parent   EntityID
	Children []EntityID
	Local    Transform

	Node      NodeID      // EntityNode
	Primitive PrimitiveID // EntityPrimitive
	Geometry  GeometryID  // EntityPrimitive
	Material  MaterialID  // EntityPrimitive
}

// RenderTree is a flat arena of entities linked by parent/child indices.
// Entity 0 is the anchor; dropping the arena removes every entity at once.
type RenderTree struct {
	entities []Entity
}

func newRenderTree() *RenderTree {
	t := &RenderTree{}
	t.add(NoEntity, Entity{Kind: EntityAnchor, Local: IdentityTransform()})
	return t
}

func (t *RenderTree) add(parent EntityID, e Entity) EntityID {
	id := EntityID(len(t.entities))
	e.Parent = parent
	t.entities = append(t.entities, e)
	if parent != NoEntity {
		t.entities[parent].Children = append(t.entities[parent].Children, id)
	}
	return id
}

// Anchor returns the root entity.
func (t *RenderTree) Anchor() EntityID { return 0 }

// Len returns the number of entities including the anchor.
func (t *RenderTree) Len() int { return len(t.entities) }

// Entity returns a copy of the entity with the given id.
func (t *RenderTree) Entity(id EntityID) (Entity, bool) {
	if id < 0 || int(id) >= len(t.entities) {
		return Entity{}, false
	}
	return t.entities[id], true
}

// Primitives returns every primitive leaf in arena order.
func (t *RenderTree) Primitives() []EntityID {
	var out []EntityID
	for i := range t.entities {
		if t.entities[i].Kind == EntityPrimitive {
			out = append(out, EntityID(i))
		}
	}
	return out
}

// WorldMatrix composes the local transforms from the anchor down to id.
func (t *RenderTree) WorldMatrix(id EntityID) mgl32.Mat4 {
	m := mgl32.Ident4()
	for cur := id; cur != NoEntity; cur = t.entities[cur].Parent {
		m = t.entities[cur].Local.Matrix().Mul4(m)
	}
	return m
}

// NodeChain returns the node ids from the root down to the node owning id
// (id itself included when it is a node).
func (t *RenderTree) NodeChain(id EntityID) []NodeID {
	var chain []NodeID
	for cur := id; cur != NoEntity; cur = t.entities[cur].Parent {
		if t.entities[cur].Kind == EntityNode {
			chain = append(chain, t.entities[cur].Node)
		}
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// RowKind distinguishes list rows.
type RowKind uint8

const (
	// RowNode lists a node.
	RowNode RowKind = iota
	// RowMesh lists the mesh referenced by its parent row's node.
	RowMesh
)

// Row is one line of the flattened hierarchy list. The list is pre-order;
// Parent links recover the hierarchy.
type Row struct {
	Kind        RowKind
	Node        NodeID // RowNode only
	Mesh        MeshID // RowMesh only
	Parent      int    // index of the parent row, -1 for scene roots
	Depth       int
	Label       string
	Highlighted bool
}
