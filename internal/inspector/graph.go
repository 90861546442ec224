package inspector

// NodeData is one node of the asset graph.
type NodeData struct {
	Transform Transform
	Mesh      MeshID // NoMesh if the node has none
	Children  []NodeID
	Camera    bool // node carries a camera; such nodes are left out of the list
}

// PrimitiveData is one drawable part of a mesh.
type PrimitiveData struct {
	Geometry GeometryID
	Material MaterialID // NoMaterial if unassigned
}

// Graph exposes one loaded asset. Every method is non-blocking: data that is
// still loading is reported with ErrNotResident and should be asked for
// again on a later tick.
type Graph interface {
	// SceneRoots returns the ordered root nodes of a scene.
	SceneRoots(scene int) ([]NodeID, error)
	// Node returns the data of one node.
	Node(id NodeID) (NodeData, error)
	// Mesh returns the ordered primitives of one mesh.
	Mesh(id MeshID) ([]PrimitiveData, error)
}

// Source hands out the graph for a catalog entry. The second return value
// is false while the asset itself is not loaded yet; implementations start
// loading on the first request.
type Source interface {
	Graph(asset AssetRef) (Graph, bool)
}
