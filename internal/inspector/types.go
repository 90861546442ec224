// Package inspector keeps an exploded view of a hierarchical asset in sync
// with the viewer's state and maps picked parts back to the asset hierarchy.
//
// Each tick runs the same fixed sequence: view state mutations are folded
// into a single Dirty transition, the stale generation is torn down once,
// a rebuild is attempted against whatever asset data is resident, and
// finally pick/cancel events are resolved against the live generation.
package inspector

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// NodeID is the position of a node in the loaded asset's node array.
// It is only meaningful for the asset it was read from.
type NodeID int

// MeshID is the position of a mesh in the loaded asset's mesh array.
type MeshID int

// NoMesh marks a node without a mesh.
const NoMesh MeshID = -1

// PrimitiveID addresses one primitive of one mesh.
type PrimitiveID struct {
	Mesh  MeshID
	Index int
}

func (p PrimitiveID) String() string {
	return fmt.Sprintf("mesh %d primitive %d", p.Mesh, p.Index)
}

// MaterialID references a material of the loaded asset.
type MaterialID int

// NoMaterial marks a primitive without an assigned material.
const NoMaterial MaterialID = -1

// GeometryID references the geometry (vertex positions) of a primitive.
type GeometryID int

// Transform is a node's local translation/rotation/scale.
type Transform struct {
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3
}

// IdentityTransform returns a transform that leaves points unchanged.
func IdentityTransform() Transform {
	return Transform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// WithTranslation returns a copy of t with its translation replaced.
func (t Transform) WithTranslation(v mgl32.Vec3) Transform {
	t.Translation = v
	return t
}

// Matrix composes translation * rotation * scale.
func (t Transform) Matrix() mgl32.Mat4 {
	return mgl32.Translate3D(t.Translation.Elem()).
		Mul4(t.Rotation.Normalize().Mat4()).
		Mul4(mgl32.Scale3D(t.Scale.Elem()))
}
