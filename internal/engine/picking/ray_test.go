package picking

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/partscope/internal/inspector"
)

func TestIntersectAABB(t *testing.T) {
	box := NewAABB(mgl32.Vec3{1, 1, 1}, mgl32.Vec3{-1, -1, -1})
	tests := []struct {
		name  string
		ray   Ray
		hit   bool
		wantT float32
	}{
		{"front", Ray{mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, -1}}, true, 4},
		{"inside", Ray{mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}}, true, 1},
		{"miss", Ray{mgl32.Vec3{3, 0, 5}, mgl32.Vec3{0, 0, -1}}, false, 0},
		{"behind", Ray{mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, 1}}, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, hit := tt.ray.IntersectAABB(box)
			if hit != tt.hit {
				t.Fatalf("hit = %v, want %v", hit, tt.hit)
			}
			if hit && mgl32.Abs(got-tt.wantT) > 1e-5 {
				t.Errorf("t = %v, want %v", got, tt.wantT)
			}
		})
	}
}

func TestAABBTransform(t *testing.T) {
	box := NewAABB(mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1})
	m := mgl32.Translate3D(10, 0, 0).Mul4(mgl32.Scale3D(2, 1, 1))
	got := box.Transform(m)
	if !got.Min.ApproxEqual(mgl32.Vec3{8, -1, -1}) || !got.Max.ApproxEqual(mgl32.Vec3{12, 1, 1}) {
		t.Errorf("Transform() = %+v", got)
	}
}

func TestScreenToRayCenter(t *testing.T) {
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	proj := mgl32.Perspective(mgl32.DegToRad(45), 1, 0.1, 100)
	r := ScreenToRay(50, 50, 100, 100, proj.Mul4(view).Inv())

	if !r.Direction.ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, 1e-4) {
		t.Errorf("direction = %v", r.Direction)
	}
	if mgl32.Abs(r.Origin.X()) > 1e-4 || mgl32.Abs(r.Origin.Y()) > 1e-4 {
		t.Errorf("origin = %v, want on the z axis", r.Origin)
	}
}

// twoParts has two root nodes drawing the same one-primitive mesh, the
// second one 5 units further down -z.
type twoParts struct{}

func (twoParts) SceneRoots(int) ([]inspector.NodeID, error) {
	return []inspector.NodeID{0, 1}, nil
}

func (twoParts) Node(id inspector.NodeID) (inspector.NodeData, error) {
	tr := inspector.IdentityTransform()
	if id == 1 {
		tr.Translation = mgl32.Vec3{0, 0, -5}
	}
	return inspector.NodeData{Transform: tr, Mesh: 0}, nil
}

func (twoParts) Mesh(id inspector.MeshID) ([]inspector.PrimitiveData, error) {
	if id != 0 {
		return nil, errors.New("no such mesh")
	}
	return []inspector.PrimitiveData{{Geometry: 0, Material: 0}}, nil
}

type unitBounds map[inspector.GeometryID]bool

func (u unitBounds) Bounds(_ string, geom inspector.GeometryID) (mgl32.Vec3, mgl32.Vec3, bool) {
	if !u[geom] {
		return mgl32.Vec3{}, mgl32.Vec3{}, false
	}
	return mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1}, true
}

func TestLeafPicksNearest(t *testing.T) {
	gen, err := inspector.Build(twoParts{}, inspector.AssetRef{Path: "two.gltf"}, 0, 7)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	r := Ray{Origin: mgl32.Vec3{0, 0, 10}, Direction: mgl32.Vec3{0, 0, -1}}

	leaf, ok := Leaf(gen, unitBounds{0: true}, r)
	if !ok {
		t.Fatal("nothing picked")
	}
	want, _ := gen.PrimitiveLeaf(0, 0)
	if leaf != want {
		t.Errorf("picked %+v, want %+v", leaf, want)
	}
	if leaf.Generation != 7 {
		t.Errorf("generation = %d, want 7", leaf.Generation)
	}

	// From the other side the second node is nearer.
	r = Ray{Origin: mgl32.Vec3{0, 0, -20}, Direction: mgl32.Vec3{0, 0, 1}}
	leaf, _ = Leaf(gen, unitBounds{0: true}, r)
	if want, _ := gen.PrimitiveLeaf(1, 0); leaf != want {
		t.Errorf("picked %+v, want %+v", leaf, want)
	}
}

func TestLeafWithoutBounds(t *testing.T) {
	gen, err := inspector.Build(twoParts{}, inspector.AssetRef{Path: "two.gltf"}, 0, 1)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	r := Ray{Origin: mgl32.Vec3{0, 0, 10}, Direction: mgl32.Vec3{0, 0, -1}}
	if _, ok := Leaf(gen, unitBounds{}, r); ok {
		t.Error("picked a leaf without bounds")
	}
	if _, ok := Leaf(nil, unitBounds{0: true}, r); ok {
		t.Error("picked from a nil generation")
	}
}
