// Package debug builds the wireframe boxes the viewer draws in place of
// shaded geometry.
package debug

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/partscope/internal/engine/picking"
	"github.com/Faultbox/partscope/internal/inspector"
)

// BBoxWireframeVertexCount is the number of vertices for a bbox wireframe (12 edges × 2).
const BBoxWireframeVertexCount = 24

// GenerateBBoxWireframeVertices creates line vertices for a wireframe bounding box.
// Format: [x, y, z] per vertex.
func GenerateBBoxWireframeVertices(lo, hi mgl32.Vec3) []float32 {
	minX, minY, minZ := lo.Elem()
	maxX, maxY, maxZ := hi.Elem()
	return []float32{
		// Bottom face
		minX, minY, minZ, maxX, minY, minZ,
		maxX, minY, minZ, maxX, minY, maxZ,
		maxX, minY, maxZ, minX, minY, maxZ,
		minX, minY, maxZ, minX, minY, minZ,
		// Top face
		minX, maxY, minZ, maxX, maxY, minZ,
		maxX, maxY, minZ, maxX, maxY, maxZ,
		maxX, maxY, maxZ, minX, maxY, maxZ,
		minX, maxY, maxZ, minX, maxY, minZ,
		// Vertical edges
		minX, minY, minZ, minX, maxY, minZ,
		maxX, minY, minZ, maxX, maxY, minZ,
		maxX, minY, maxZ, maxX, maxY, maxZ,
		minX, minY, maxZ, minX, maxY, maxZ,
	}
}

// UnitCube returns the wireframe of the [0,1]³ cube. Each drawn box is this
// cube under its own model matrix.
func UnitCube() []float32 {
	return GenerateBBoxWireframeVertices(mgl32.Vec3{}, mgl32.Vec3{1, 1, 1})
}

// Box colors.
var (
	ColorIdle     = mgl32.Vec4{0.55, 0.58, 0.65, 1}
	ColorOwner    = mgl32.Vec4{0.55, 0.85, 0.45, 1}
	ColorSelected = mgl32.Vec4{0.2, 1, 0.2, 1}
)

// Box is one wireframe to draw.
type Box struct {
	Leaf  inspector.EntityID
	Model mgl32.Mat4 // maps the unit cube onto the leaf's bounds in world space
	Color mgl32.Vec4
}

// LeafBoxes returns a box for every primitive leaf with known bounds. The
// picked leaf and the other leaves of its owning node are colored.
func LeafBoxes(gen *inspector.Generation, bounds picking.Bounds, sel inspector.Selection) []Box {
	if gen == nil {
		return nil
	}
	ownerEntity := inspector.NoEntity
	if sel.Valid && sel.Leaf.Generation == gen.ID {
		if e, ok := gen.EntityOf(sel.Owner); ok {
			ownerEntity = e
		}
	}

	leaves := gen.Tree.Primitives()
	out := make([]Box, 0, len(leaves))
	for _, id := range leaves {
		e, _ := gen.Tree.Entity(id)
		lo, hi, ok := bounds.Bounds(gen.Asset.Path, e.Geometry)
		if !ok {
			continue
		}
		color := ColorIdle
		switch {
		case ownerEntity != inspector.NoEntity && id == sel.Leaf.Entity:
			color = ColorSelected
		case ownerEntity != inspector.NoEntity && e.Parent == ownerEntity:
			color = ColorOwner
		}
		fit := mgl32.Translate3D(lo.Elem()).Mul4(mgl32.Scale3D(hi.Sub(lo).Elem()))
		out = append(out, Box{
			Leaf:  id,
			Model: gen.Tree.WorldMatrix(id).Mul4(fit),
			Color: color,
		})
	}
	return out
}
