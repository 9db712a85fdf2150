// Package terrain builds the deformed map surface mesh and raycasts it.
package terrain

import (
	"github.com/Faultbox/wondermap/internal/engine/picking"
	"github.com/Faultbox/wondermap/pkg/math"
)

// Vertex represents a surface mesh vertex.
type Vertex struct {
	Position math.Vec3
	Normal   math.Vec3
	TexCoord math.Vec2 // Mesh UV before the texture transform
}

// Mesh holds the surface grid ready for picking and GPU upload.
type Mesh struct {
	Vertices  []Vertex
	Indices   []uint32
	Bounds    picking.AABB
	SegmentsX int
	SegmentsY int
}

// HeightFunc returns the world-space height of the surface at mesh UV (u, v).
type HeightFunc func(u, v float32) float32

// SurfaceParams describes the plane to tessellate.
type SurfaceParams struct {
	Width     float32
	Height    float32
	SegmentsX int
	SegmentsY int
	HeightAt  HeightFunc // nil means flat
}
