package inspector

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
)

// memGraph is an in-memory Graph whose residency can be toggled per node
// and per mesh.
type memGraph struct {
	scenes       map[int][]NodeID
	nodes        map[NodeID]NodeData
	meshes       map[MeshID][]PrimitiveData
	sceneMissing bool
	nodeMissing  map[NodeID]bool
	meshMissing  map[MeshID]bool
}

var errUnknown = errors.New("unknown index")

func (g *memGraph) SceneRoots(scene int) ([]NodeID, error) {
	if g.sceneMissing {
		return nil, ErrNotResident
	}
	roots, ok := g.scenes[scene]
	if !ok {
		return nil, errUnknown
	}
	return roots, nil
}

func (g *memGraph) Node(id NodeID) (NodeData, error) {
	if g.nodeMissing[id] {
		return NodeData{}, ErrNotResident
	}
	n, ok := g.nodes[id]
	if !ok {
		return NodeData{}, errUnknown
	}
	return n, nil
}

func (g *memGraph) Mesh(id MeshID) ([]PrimitiveData, error) {
	if g.meshMissing[id] {
		return nil, ErrNotResident
	}
	m, ok := g.meshes[id]
	if !ok {
		return nil, errUnknown
	}
	return m, nil
}

// memSource serves memGraphs by asset path.
type memSource struct {
	graphs   map[string]*memGraph
	unloaded map[string]bool
}

func (s *memSource) Graph(asset AssetRef) (Graph, bool) {
	if s.unloaded[asset.Path] {
		return nil, false
	}
	g, ok := s.graphs[asset.Path]
	if !ok {
		return nil, false
	}
	return g, true
}

func node(tx float32, mesh MeshID, children ...NodeID) NodeData {
	t := IdentityTransform()
	t.Translation = mgl32.Vec3{tx, 0, 0}
	return NodeData{Transform: t, Mesh: mesh, Children: children}
}

// Node ids of the fixture returned by fixtureGraph.
const (
	nRoot NodeID = iota
	nX
	nY
	nZ
	nRoot2
	nCamera
	nHidden
)

// fixtureGraph builds:
//
//	scene 0: root(0) -> X(1) -> Y(2, mesh 0)
//	                 -> Z(3, mesh 1)
//	         root2(4, mesh 1) -> camera(5) -> hidden(6, mesh 0)
func fixtureGraph() *memGraph {
	camera := node(0, NoMesh, nHidden)
	camera.Camera = true
	return &memGraph{
		scenes: map[int][]NodeID{0: {nRoot, nRoot2}},
		nodes: map[NodeID]NodeData{
			nRoot:   node(0, NoMesh, nX, nZ),
			nX:      node(0, NoMesh, nY),
			nY:      node(0, 0),
			nZ:      node(1, 1),
			nRoot2:  node(0, 1, nCamera),
			nCamera: camera,
			nHidden: node(0, 0),
		},
		meshes: map[MeshID][]PrimitiveData{
			0: {{Geometry: 0, Material: 0}, {Geometry: 1, Material: 1}},
			1: {{Geometry: 2, Material: 2}},
		},
		nodeMissing: map[NodeID]bool{},
		meshMissing: map[MeshID]bool{},
	}
}

var (
	assetA = AssetRef{Path: "a.gltf", Name: "A", ExplosionScale: mgl32.Vec3{1, 1, 1}}
	assetB = AssetRef{Path: "b.gltf", Name: "B", ExplosionScale: mgl32.Vec3{2, 2, 2}}
	assetC = AssetRef{Path: "c.gltf", Name: "C", ExplosionScale: mgl32.Vec3{1, 1, 1}}
)

func fixtureSource() (*memSource, *memGraph) {
	g := fixtureGraph()
	return &memSource{
		graphs: map[string]*memGraph{
			assetA.Path: g,
			assetB.Path: fixtureGraph(),
			assetC.Path: fixtureGraph(),
		},
		unloaded: map[string]bool{},
	}, g
}
