package assets

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/partscope/internal/inspector"
	"github.com/Faultbox/partscope/pkg/gltf"
)

// docGraph adapts a loaded document to inspector.Graph. Scenes and nodes
// are resident as soon as the document is; meshes become resident once
// their buffers have been checked.
type docGraph struct {
	store *Store
	entry *entry
}

func (g *docGraph) SceneRoots(scene int) ([]inspector.NodeID, error) {
	doc := g.entry.doc
	if scene < 0 || scene >= len(doc.Scenes) {
		return nil, fmt.Errorf("scene %d out of range (%d scenes)", scene, len(doc.Scenes))
	}
	return nodeIDs(doc.Scenes[scene].Nodes), nil
}

func (g *docGraph) Node(id inspector.NodeID) (inspector.NodeData, error) {
	doc := g.entry.doc
	if id < 0 || int(id) >= len(doc.Nodes) {
		return inspector.NodeData{}, fmt.Errorf("node %d out of range", id)
	}
	n := doc.Nodes[id]
	data := inspector.NodeData{
		Transform: nodeTransform(n),
		Mesh:      inspector.NoMesh,
		Children:  nodeIDs(n.Children),
		Camera:    n.Camera != nil,
	}
	if n.Mesh != nil {
		data.Mesh = inspector.MeshID(*n.Mesh)
	}
	return data, nil
}

func (g *docGraph) Mesh(id inspector.MeshID) ([]inspector.PrimitiveData, error) {
	doc := g.entry.doc
	if id < 0 || int(id) >= len(doc.Meshes) {
		return nil, fmt.Errorf("mesh %d out of range", id)
	}
	state, err := g.store.mesh(g.entry, int(id))
	if state != resident {
		return nil, inspector.ErrNotResident
	}
	if err != nil {
		return nil, err
	}

	prims := doc.Meshes[id].Primitives
	out := make([]inspector.PrimitiveData, len(prims))
	for i, p := range prims {
		out[i] = inspector.PrimitiveData{
			Geometry: -1,
			Material: inspector.NoMaterial,
		}
		if pos, ok := p.Position(); ok {
			out[i].Geometry = inspector.GeometryID(pos)
		}
		if p.Material != nil {
			out[i].Material = inspector.MaterialID(*p.Material)
		}
	}
	return out, nil
}

// failedGraph stands in for an asset that could not be loaded.
type failedGraph struct{ err error }

func (f failedGraph) SceneRoots(int) ([]inspector.NodeID, error) { return nil, f.err }

func (f failedGraph) Node(inspector.NodeID) (inspector.NodeData, error) {
	return inspector.NodeData{}, f.err
}

func (f failedGraph) Mesh(inspector.MeshID) ([]inspector.PrimitiveData, error) { return nil, f.err }

func nodeIDs(in []int) []inspector.NodeID {
	out := make([]inspector.NodeID, len(in))
	for i, n := range in {
		out[i] = inspector.NodeID(n)
	}
	return out
}

// nodeTransform reads the local transform of a node. A matrix is split into
// translation, rotation and scale; shear is dropped.
func nodeTransform(n gltf.Node) inspector.Transform {
	t := inspector.IdentityTransform()
	if n.Matrix != nil {
		m := mgl32.Mat4(*n.Matrix)
		t.Translation = m.Col(3).Vec3()

		var cols [3]mgl32.Vec4
		for i := range cols {
			c := m.Col(i)
			s := c.Vec3().Len()
			t.Scale[i] = s
			if s != 0 {
				c = c.Mul(1 / s)
			}
			cols[i] = c
		}
		t.Rotation = mgl32.Mat4ToQuat(mgl32.Mat4FromCols(cols[0], cols[1], cols[2], mgl32.Vec4{0, 0, 0, 1})).Normalize()
		return t
	}
	if n.Translation != nil {
		t.Translation = mgl32.Vec3(*n.Translation)
	}
	if n.Rotation != nil {
		r := *n.Rotation
		t.Rotation = mgl32.Quat{W: r[3], V: mgl32.Vec3{r[0], r[1], r[2]}}
	}
	if n.Scale != nil {
		t.Scale = mgl32.Vec3(*n.Scale)
	}
	return t
}
