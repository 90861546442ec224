// Package camera provides the orbit camera of the viewer.
package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/partscope/internal/inspector"
)

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	Center mgl32.Vec3

	// Spherical coordinates
	Distance  float32
	RotationX float32 // pitch, radians
	RotationY float32 // yaw, radians

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32

	FOV float32 // vertical field of view, radians
}

// NewOrbitCamera creates an orbit camera with default settings.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        3,
		RotationX:       0.3,
		MinDistance:     0.01,
		MaxDistance:     1000,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		FOV:             mgl32.DegToRad(45),
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() mgl32.Vec3 {
	cx := math32.Cos(c.RotationX)
	offset := mgl32.Vec3{
		cx * math32.Sin(c.RotationY),
		math32.Sin(c.RotationX),
		cx * math32.Cos(c.RotationY),
	}
	return c.Center.Add(offset.Mul(c.Distance))
}

// LookFrom places the camera at pos looking at target. Zoom limits are
// scaled to the new distance so that assets of any size stay reachable.
func (c *OrbitCamera) LookFrom(pos, target mgl32.Vec3) {
	d := pos.Sub(target)
	dist := d.Len()
	if dist < 1e-6 {
		d, dist = mgl32.Vec3{0, 0, 1}, 1
	}
	c.Center = target
	c.Distance = dist
	c.RotationX = math32.Asin(mgl32.Clamp(d.Y()/dist, -1, 1))
	c.RotationY = math32.Atan2(d.X(), d.Z())
	c.MinDistance = dist * 0.02
	c.MaxDistance = dist * 50
	c.clampPitch()
}

// SetPose applies an asset's camera pose.
func (c *OrbitCamera) SetPose(p inspector.CameraPose) {
	c.LookFrom(p.Position, p.Target)
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Center, mgl32.Vec3{0, 1, 0})
}

// ProjectionMatrix returns a perspective projection for the given aspect.
// Clip planes follow the orbit distance.
func (c *OrbitCamera) ProjectionMatrix(aspect float32) mgl32.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	near := c.Distance * 0.01
	far := c.Distance * 100
	return mgl32.Perspective(c.FOV, aspect, near, far)
}

// ViewProjection returns projection * view.
func (c *OrbitCamera) ViewProjection(aspect float32) mgl32.Mat4 {
	return c.ProjectionMatrix(aspect).Mul4(c.ViewMatrix())
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX += deltaY * c.DragSensitivity
	c.clampPitch()
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	c.Distance = mgl32.Clamp(c.Distance, c.MinDistance, c.MaxDistance)
}

func (c *OrbitCamera) clampPitch() {
	c.RotationX = mgl32.Clamp(c.RotationX, c.MinPitch, c.MaxPitch)
}
