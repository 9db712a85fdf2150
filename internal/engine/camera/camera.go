// Package camera provides the orbit camera looking at the map.
package camera

import (
	"github.com/Faultbox/wondermap/internal/config"
	"github.com/Faultbox/wondermap/internal/engine/picking"
	"github.com/Faultbox/wondermap/pkg/math"
)

// OrbitCamera orbits the world origin with y up. Pitch tilts around the X
// axis and yaw turns around the Y axis; both are bounded so the map plane
// never leaves the view.
type OrbitCamera struct {
	// Spherical coordinates
	Distance float32 // Distance from the origin
	Pitch    float32 // Radians, negative looks up from below the map center
	Yaw      float32 // Radians

	// Constraints
	MinDistance float32
	MaxDistance float32
	MaxPitch    float32
	MaxYaw      float32

	// Projection
	FOV    float32 // Vertical field of view, radians
	Near   float32
	Far    float32
	Aspect float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitCamera creates a camera from configuration.
func NewOrbitCamera(cfg config.CameraConfig, aspect float32) *OrbitCamera {
	c := &OrbitCamera{
		Distance:        cfg.Distance,
		Pitch:           cfg.Pitch,
		MinDistance:     cfg.MinDistance,
		MaxDistance:     cfg.MaxDistance,
		MaxPitch:        cfg.MaxPitch,
		MaxYaw:          cfg.MaxYaw,
		FOV:             math.DegToRad(cfg.FOVDegrees),
		Near:            cfg.Near,
		Far:             cfg.Far,
		Aspect:          aspect,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
	c.clamp()
	return c
}

// Orientation returns the rotation applied to the rest position (0,0,D).
func (c *OrbitCamera) Orientation() math.Quat {
	yaw := math.QuatFromAxisAngle(math.Vec3{Y: 1}, c.Yaw)
	pitch := math.QuatFromAxisAngle(math.Vec3{X: 1}, -c.Pitch)
	return yaw.Mul(pitch)
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	return c.Orientation().Rotate(math.Vec3{Z: c.Distance})
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	up := c.Orientation().Rotate(math.Vec3{Y: 1})
	return math.LookAt(c.Position(), math.Vec3{}, up)
}

// ProjectionMatrix returns the perspective projection.
func (c *OrbitCamera) ProjectionMatrix() math.Mat4 {
	aspect := c.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	return math.Perspective(c.FOV, aspect, c.Near, c.Far)
}

// ViewProjection returns projection * view.
func (c *OrbitCamera) ViewProjection() math.Mat4 {
	return c.ProjectionMatrix().Mul(c.ViewMatrix())
}

// RayFromNDC casts a world-space ray through a normalized device coordinate.
func (c *OrbitCamera) RayFromNDC(ndcX, ndcY float32) picking.Ray {
	return picking.NDCToRay(ndcX, ndcY, c.ViewProjection().Inverse())
}

// SetAspect updates the aspect ratio from viewport dimensions.
func (c *OrbitCamera) SetAspect(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.Yaw -= deltaX * c.DragSensitivity
	c.Pitch -= deltaY * c.DragSensitivity
	c.clamp()
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	c.clamp()
}

func (c *OrbitCamera) clamp() {
	c.Distance = math.Clamp(c.Distance, c.MinDistance, c.MaxDistance)
	c.Pitch = math.Clamp(c.Pitch, -c.MaxPitch, c.MaxPitch)
	c.Yaw = math.Clamp(c.Yaw, -c.MaxYaw, c.MaxYaw)
}
