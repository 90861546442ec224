package inspector

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestBuildMirrorsHierarchy(t *testing.T) {
	gen, err := Build(fixtureGraph(), assetA, 0, 1)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	// anchor + 7 nodes + 6 primitives
	if got := gen.Tree.Len(); got != 14 {
		t.Errorf("entities = %d, want 14", got)
	}
	if got := len(gen.Tree.Primitives()); got != 6 {
		t.Errorf("primitives = %d, want 6", got)
	}
	if gen.MeshCount != 4 {
		t.Errorf("MeshCount = %d, want 4", gen.MeshCount)
	}

	wantLabels := []string{
		"Scene 0 references node 0",
		"Node 0 references node 1",
		"Node 1 references node 2",
		"Node 2 references mesh 0",
		"Node 0 references node 3",
		"Node 3 references mesh 1",
		"Scene 0 references node 4",
		"Node 4 references mesh 1",
	}
	if len(gen.Rows) != len(wantLabels) {
		t.Fatalf("rows = %d, want %d", len(gen.Rows), len(wantLabels))
	}
	for i, want := range wantLabels {
		if gen.Rows[i].Label != want {
			t.Errorf("row %d label = %q, want %q", i, gen.Rows[i].Label, want)
		}
	}

	wantParents := []int{-1, 0, 1, 2, 0, 4, -1, 6}
	for i, want := range wantParents {
		if gen.Rows[i].Parent != want {
			t.Errorf("row %d parent = %d, want %d", i, gen.Rows[i].Parent, want)
		}
	}
	if gen.Rows[3].Depth != 3 {
		t.Errorf("mesh row depth = %d, want 3", gen.Rows[3].Depth)
	}
}

func TestBuildCameraNodesStayInTreeButNotInList(t *testing.T) {
	gen, err := Build(fixtureGraph(), assetA, 0, 1)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	for _, id := range []NodeID{nCamera, nHidden} {
		if _, ok := gen.EntityOf(id); !ok {
			t.Errorf("node %d missing from render tree", id)
		}
		if _, ok := gen.RowOf(id); ok {
			t.Errorf("node %d should not be listed", id)
		}
	}
}

func TestBuildIdentifiersMapToNodes(t *testing.T) {
	gen, err := Build(fixtureGraph(), assetA, 0, 1)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	for id := nRoot; id <= nHidden; id++ {
		e, ok := gen.EntityOf(id)
		if !ok {
			t.Fatalf("node %d not mirrored", id)
		}
		ent, _ := gen.Tree.Entity(e)
		if ent.Kind != EntityNode || ent.Node != id {
			t.Errorf("entity %d = %+v, want node %d", e, ent, id)
		}
	}
}

func TestBuildAppliesExplosionPerLevel(t *testing.T) {
	gen, err := Build(fixtureGraph(), assetA, 0.2, 1)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	tests := []struct {
		node NodeID
		want mgl32.Vec3
	}{
		{nRoot, mgl32.Vec3{0, 0, 0}},        // first root
		{nX, mgl32.Vec3{0, 0, 0}},           // first child
		{nZ, mgl32.Vec3{1.2, 0.2, 0.2}},     // second child, original x=1
		{nRoot2, mgl32.Vec3{0.2, 0.2, 0.2}}, // second root
		{nCamera, mgl32.Vec3{0, 0, 0}},      // only child
	}
	for _, tt := range tests {
		e, _ := gen.EntityOf(tt.node)
		ent, _ := gen.Tree.Entity(e)
		if !ent.Local.Translation.ApproxEqual(tt.want) {
			t.Errorf("node %d translation = %v, want %v", tt.node, ent.Local.Translation, tt.want)
		}
	}

	// Offsets compose along the chain: root2 -> camera -> hidden.
	e, _ := gen.EntityOf(nHidden)
	world := gen.Tree.WorldMatrix(e).Col(3).Vec3()
	if !world.ApproxEqual(mgl32.Vec3{0.2, 0.2, 0.2}) {
		t.Errorf("hidden world position = %v, want (0.2, 0.2, 0.2)", world)
	}
}

func TestBuildFirstRootNotResident(t *testing.T) {
	g := fixtureGraph()
	g.nodeMissing[nRoot] = true

	gen, err := Build(g, assetA, 0, 1)
	if !errors.Is(err, ErrNotReady) {
		t.Fatalf("Build() error = %v, want ErrNotReady", err)
	}
	if gen != nil {
		t.Error("expected no generation")
	}
}

func TestBuildSceneNotResident(t *testing.T) {
	g := fixtureGraph()
	g.sceneMissing = true
	if _, err := Build(g, assetA, 0, 1); !errors.Is(err, ErrNotReady) {
		t.Fatalf("Build() error = %v, want ErrNotReady", err)
	}
}

func TestBuildPartialResidency(t *testing.T) {
	g := fixtureGraph()
	g.nodeMissing[nRoot2] = true
	g.nodeMissing[nZ] = true

	gen, err := Build(g, assetA, 0, 1)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	for _, id := range []NodeID{nRoot2, nZ, nCamera, nHidden} {
		if _, ok := gen.EntityOf(id); ok {
			t.Errorf("node %d should be absent", id)
		}
	}
	for _, id := range []NodeID{nRoot, nX, nY} {
		if _, ok := gen.EntityOf(id); !ok {
			t.Errorf("node %d should be present", id)
		}
	}
	if len(gen.Rows) != 4 {
		t.Errorf("rows = %d, want 4", len(gen.Rows))
	}
}

func TestBuildMeshNotResidentDefers(t *testing.T) {
	g := fixtureGraph()
	g.meshMissing[1] = true
	if _, err := Build(g, assetA, 0, 1); !errors.Is(err, ErrNotReady) {
		t.Fatalf("Build() error = %v, want ErrNotReady", err)
	}
}

func TestBuildMissingMaterial(t *testing.T) {
	g := fixtureGraph()
	g.meshes[1] = []PrimitiveData{{Geometry: 2, Material: NoMaterial}}

	_, err := Build(g, assetA, 0, 1)
	var mm *MissingMaterialError
	if !errors.As(err, &mm) {
		t.Fatalf("Build() error = %v, want MissingMaterialError", err)
	}
	if mm.Node != nZ || mm.Primitive != (PrimitiveID{Mesh: 1, Index: 0}) {
		t.Errorf("MissingMaterialError = %+v", mm)
	}
}

func TestBuildRejectsSharedNodes(t *testing.T) {
	g := fixtureGraph()
	g.nodes[nZ] = node(0, NoMesh, nX)
	if _, err := Build(g, assetA, 0, 1); !errors.Is(err, ErrMalformedGraph) {
		t.Fatalf("Build() error = %v, want ErrMalformedGraph", err)
	}
}

func TestBuildEmptyScene(t *testing.T) {
	g := fixtureGraph()
	g.scenes[0] = nil
	gen, err := Build(g, assetA, 0, 1)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if gen.Tree.Len() != 1 || len(gen.Rows) != 0 {
		t.Errorf("empty scene built %d entities, %d rows", gen.Tree.Len(), len(gen.Rows))
	}
}

func TestPrimitiveLeaf(t *testing.T) {
	gen, err := Build(fixtureGraph(), assetA, 0, 7)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	ref, ok := gen.PrimitiveLeaf(nY, 1)
	if !ok {
		t.Fatal("PrimitiveLeaf() not found")
	}
	if ref.Generation != 7 {
		t.Errorf("generation = %d, want 7", ref.Generation)
	}
	ent, _ := gen.Tree.Entity(ref.Entity)
	if ent.Primitive != (PrimitiveID{Mesh: 0, Index: 1}) {
		t.Errorf("primitive = %v", ent.Primitive)
	}
	if _, ok := gen.PrimitiveLeaf(nX, 0); ok {
		t.Error("node without mesh should have no leaf")
	}
}
