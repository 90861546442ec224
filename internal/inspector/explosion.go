package inspector

import "github.com/go-gl/mathgl/mgl32"

// ExplosionOffset is the displacement applied to the sibling-th child of a
// parent: factor * sibling * scale. Offsets of every ancestor level are
// already baked into the ancestors' transforms, so along a chain they add up.
func ExplosionOffset(sibling int, factor float32, scale mgl32.Vec3) mgl32.Vec3 {
	if factor == 0 || sibling == 0 {
		return mgl32.Vec3{}
	}
	return scale.Mul(factor * float32(sibling))
}

// ExplodedTranslation returns original moved by ExplosionOffset.
func ExplodedTranslation(original mgl32.Vec3, sibling int, factor float32, scale mgl32.Vec3) mgl32.Vec3 {
	return original.Add(ExplosionOffset(sibling, factor, scale))
}
