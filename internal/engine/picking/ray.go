// Package picking provides ray casting and hit-testing utilities.
package picking

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/wondermap/pkg/math"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized direction
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math.Vec3
	Max math.Vec3
}

// ScreenToNDC converts pixel coordinates to normalized device coordinates.
// Y is flipped so the top of the viewport maps to +1.
func ScreenToNDC(screenX, screenY, viewportW, viewportH float32) (ndcX, ndcY float32) {
	if viewportW <= 0 || viewportH <= 0 {
		return 0, 0
	}
	ndcX = (screenX/viewportW)*2 - 1
	ndcY = -(screenY/viewportH)*2 + 1
	return ndcX, ndcY
}

// ScreenToRay converts screen coordinates to a world-space ray.
// invViewProj is the inverse of the view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj math.Mat4) Ray {
	ndcX, ndcY := ScreenToNDC(screenX, screenY, viewportW, viewportH)
	return NDCToRay(ndcX, ndcY, invViewProj)
}

// NDCToRay unprojects an NDC point on the near and far planes and returns
// the ray between them.
func NDCToRay(ndcX, ndcY float32, invViewProj math.Mat4) Ray {
	nearWorld := unproject(invViewProj, math.Vec4{ndcX, ndcY, -1, 1})
	farWorld := unproject(invViewProj, math.Vec4{ndcX, ndcY, 1, 1})
	return Ray{Origin: nearWorld, Direction: farWorld.Sub(nearWorld).Normalize()}
}

func unproject(inv math.Mat4, p math.Vec4) math.Vec3 {
	w := inv.MulVec4(p)
	// Perspective divide
	if w[3] != 0 {
		w[0] /= w[3]
		w[1] /= w[3]
		w[2] /= w[3]
	}
	return math.Vec3{X: w[0], Y: w[1], Z: w[2]}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// IntersectPlaneZ intersects the ray with the plane Z = planeZ.
// Returns the distance along the ray and whether the hit lies in front of it.
func (r Ray) IntersectPlaneZ(planeZ float32) (t float32, ok bool) {
	if math.Abs(r.Direction.Z) < 0.001 {
		return 0, false // Ray parallel to plane
	}
	t = (planeZ - r.Origin.Z) / r.Direction.Z
	if t < 0 {
		return 0, false // Intersection behind ray origin
	}
	return t, true
}

// IntersectTriangle tests the ray against triangle (a, b, c) using the
// Möller–Trumbore algorithm. Both faces are hittable.
func (r Ray) IntersectTriangle(a, b, c math.Vec3) (t float32, hit bool) {
	const eps = 1e-7
	edge1 := b.Sub(a)
	edge2 := c.Sub(a)
	p := r.Direction.Cross(edge2)
	det := edge1.Dot(p)
	if det > -eps && det < eps {
		return 0, false
	}
	inv := 1 / det
	s := r.Origin.Sub(a)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(edge1)
	v := r.Direction.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t = edge2.Dot(q) * inv
	if t < 0 {
		return 0, false
	}
	return t, true
}

// IntersectAABB tests ray intersection with an axis-aligned bounding box.
// Returns the distance to intersection (t) and whether intersection occurred.
// If the ray starts inside the box, returns the exit distance.
func (r Ray) IntersectAABB(box AABB) (t float32, hit bool) {
	tmin := float32(-math32.MaxFloat32)
	tmax := float32(math32.MaxFloat32)

	origin := [3]float32{r.Origin.X, r.Origin.Y, r.Origin.Z}
	dir := [3]float32{r.Direction.X, r.Direction.Y, r.Direction.Z}
	lo := [3]float32{box.Min.X, box.Min.Y, box.Min.Z}
	hi := [3]float32{box.Max.X, box.Max.Y, box.Max.Z}

	for axis := 0; axis < 3; axis++ {
		if dir[axis] == 0 {
			if origin[axis] < lo[axis] || origin[axis] > hi[axis] {
				return 0, false
			}
			continue
		}
		t1 := (lo[axis] - origin[axis]) / dir[axis]
		t2 := (hi[axis] - origin[axis]) / dir[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
	}

	// Check if intersection is valid
	if tmax < tmin || tmax < 0 {
		return 0, false
	}

	// Return entry point, or exit point if starting inside
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// NewAABB creates an AABB from two corners, ordering each axis.
func NewAABB(a, b math.Vec3) AABB {
	return AABB{
		Min: math.Vec3{X: math32.Min(a.X, b.X), Y: math32.Min(a.Y, b.Y), Z: math32.Min(a.Z, b.Z)},
		Max: math.Vec3{X: math32.Max(a.X, b.X), Y: math32.Max(a.Y, b.Y), Z: math32.Max(a.Z, b.Z)},
	}
}

// Center returns the box midpoint.
func (b AABB) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Empty reports whether the box has collapsed on any axis.
func (b AABB) Empty() bool {
	return b.Max.X-b.Min.X <= 0 || b.Max.Y-b.Min.Y <= 0 || b.Max.Z-b.Min.Z <= 0
}

// TransformAABB transforms a local box by a world matrix and returns the
// axis-aligned bounds of the eight transformed corners.
func TransformAABB(local AABB, world math.Mat4) AABB {
	first := true
	var out AABB
	for i := 0; i < 8; i++ {
		corner := math.Vec3{X: local.Min.X, Y: local.Min.Y, Z: local.Min.Z}
		if i&1 != 0 {
			corner.X = local.Max.X
		}
		if i&2 != 0 {
			corner.Y = local.Max.Y
		}
		if i&4 != 0 {
			corner.Z = local.Max.Z
		}
		p := world.TransformVec3(corner)
		if first {
			out = AABB{Min: p, Max: p}
			first = false
			continue
		}
		out = NewAABB(
			math.Vec3{X: math32.Min(out.Min.X, p.X), Y: math32.Min(out.Min.Y, p.Y), Z: math32.Min(out.Min.Z, p.Z)},
			math.Vec3{X: math32.Max(out.Max.X, p.X), Y: math32.Max(out.Max.Y, p.Y), Z: math32.Max(out.Max.Z, p.Z)},
		)
	}
	return out
}
