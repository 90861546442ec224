// Package picking casts rays from the cursor into the rendered tree.
package picking

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/partscope/internal/inspector"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3 // normalized
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// NewAABB creates an AABB from two corners in any order.
func NewAABB(a, b mgl32.Vec3) AABB {
	var box AABB
	for i := 0; i < 3; i++ {
		box.Min[i] = math32.Min(a[i], b[i])
		box.Max[i] = math32.Max(a[i], b[i])
	}
	return box
}

// Transform returns the box enclosing b after applying m.
func (b AABB) Transform(m mgl32.Mat4) AABB {
	out := AABB{
		Min: mgl32.Vec3{math32.MaxFloat32, math32.MaxFloat32, math32.MaxFloat32},
		Max: mgl32.Vec3{-math32.MaxFloat32, -math32.MaxFloat32, -math32.MaxFloat32},
	}
	for i := 0; i < 8; i++ {
		corner := b.Min
		if i&1 != 0 {
			corner[0] = b.Max[0]
		}
		if i&2 != 0 {
			corner[1] = b.Max[1]
		}
		if i&4 != 0 {
			corner[2] = b.Max[2]
		}
		p := mgl32.TransformCoordinate(corner, m)
		for k := 0; k < 3; k++ {
			out.Min[k] = math32.Min(out.Min[k], p[k])
			out.Max[k] = math32.Max(out.Max[k], p[k])
		}
	}
	return out
}

// ScreenToRay converts screen coordinates to a world-space ray.
// screenX, screenY are pixel coordinates, viewportW/H are viewport dimensions.
// invViewProj is the inverse of the view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj mgl32.Mat4) Ray {
	ndcX := 2*screenX/viewportW - 1
	ndcY := 1 - 2*screenY/viewportH // flip Y

	near := invViewProj.Mul4x1(mgl32.Vec4{ndcX, ndcY, -1, 1})
	far := invViewProj.Mul4x1(mgl32.Vec4{ndcX, ndcY, 1, 1})
	if near[3] != 0 {
		near = near.Mul(1 / near[3])
	}
	if far[3] != 0 {
		far = far.Mul(1 / far[3])
	}

	dir := far.Vec3().Sub(near.Vec3())
	if dir.Len() > 0 {
		dir = dir.Normalize()
	}
	return Ray{Origin: near.Vec3(), Direction: dir}
}

// IntersectAABB tests ray intersection with an axis-aligned bounding box.
// Returns the distance to intersection (t) and whether intersection occurred.
// If the ray starts inside the box, returns the exit distance.
func (r Ray) IntersectAABB(box AABB) (t float32, hit bool) {
	tmin := float32(-math32.MaxFloat32)
	tmax := float32(math32.MaxFloat32)

	for axis := 0; axis < 3; axis++ {
		o, d := r.Origin[axis], r.Direction[axis]
		if d == 0 {
			if o < box.Min[axis] || o > box.Max[axis] {
				return 0, false
			}
			continue
		}
		t1 := (box.Min[axis] - o) / d
		t2 := (box.Max[axis] - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math32.Max(tmin, t1)
		tmax = math32.Min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// Bounds looks up the object-space box of a primitive's geometry.
type Bounds interface {
	Bounds(asset string, geom inspector.GeometryID) (lo, hi mgl32.Vec3, ok bool)
}

// Leaf returns the nearest primitive leaf of gen hit by the ray. Leaves
// without known bounds cannot be picked.
func Leaf(gen *inspector.Generation, bounds Bounds, r Ray) (inspector.LeafRef, bool) {
	if gen == nil {
		return inspector.LeafRef{}, false
	}
	best := float32(math32.MaxFloat32)
	var found inspector.LeafRef
	hit := false
	for _, id := range gen.Tree.Primitives() {
		e, _ := gen.Tree.Entity(id)
		lo, hi, ok := bounds.Bounds(gen.Asset.Path, e.Geometry)
		if !ok {
			continue
		}
		box := NewAABB(lo, hi).Transform(gen.Tree.WorldMatrix(id))
		if t, ok := r.IntersectAABB(box); ok && t < best {
			best = t
			found = inspector.LeafRef{Generation: gen.ID, Entity: id}
			hit = true
		}
	}
	return found, hit
}
