package surface

import (
	"github.com/Faultbox/wondermap/internal/engine/picking"
	"github.com/Faultbox/wondermap/internal/engine/terrain"
	"github.com/Faultbox/wondermap/pkg/math"
)

// UVToTexture maps a mesh UV to the texture coordinate shown there, pivoting
// the transform on the texture center.
func (s *Surface) UVToTexture(uv math.Vec2) math.Vec2 {
	return math.Vec2{
		X: (uv.X-0.5)*s.repeat.X + 0.5 + s.offset.X,
		Y: (uv.Y-0.5)*s.repeat.Y + 0.5 + s.offset.Y,
	}
}

// TextureToUV inverts UVToTexture.
func (s *Surface) TextureToUV(tex math.Vec2) math.Vec2 {
	return math.Vec2{
		X: (tex.X-0.5-s.offset.X)/s.repeat.X + 0.5,
		Y: (tex.Y-0.5-s.offset.Y)/s.repeat.Y + 0.5,
	}
}

// HeightAt returns the displaced world height of the mesh at uv.
func (s *Surface) HeightAt(u, v float32) float32 {
	tex := s.UVToTexture(math.Vec2{X: u, Y: v})
	return s.field.Sample(tex.X, tex.Y)*s.displacement.Scale + s.displacement.Bias
}

// NormalizedToWorld returns the world position where texture point n is
// currently drawn, on the displaced surface.
func (s *Surface) NormalizedToWorld(n math.Vec2) math.Vec3 {
	uv := s.TextureToUV(n)
	return math.Vec3{
		X: (uv.X - 0.5) * s.width,
		Y: (uv.Y - 0.5) * s.height,
		Z: s.field.Sample(n.X, n.Y)*s.displacement.Scale + s.displacement.Bias,
	}
}

// WorldToNormalized returns the texture point drawn at world (x, y).
func (s *Surface) WorldToNormalized(p math.Vec3) math.Vec2 {
	return s.UVToTexture(math.Vec2{X: p.X/s.width + 0.5, Y: p.Y/s.height + 0.5})
}

// Mesh returns the deformed surface mesh, rebuilding it when the texture
// transform or displacement changed since the last call.
func (s *Surface) Mesh() *terrain.Mesh {
	key := meshKey{offset: s.offset, repeat: s.repeat, displacement: s.displacement}
	if s.mesh != nil && key == s.meshFor {
		return s.mesh
	}
	s.mesh = terrain.BuildSurface(terrain.SurfaceParams{
		Width:     s.width,
		Height:    s.height,
		SegmentsX: s.cfg.SegmentsX,
		SegmentsY: s.cfg.SegmentsY,
		HeightAt:  s.HeightAt,
	})
	s.meshFor = key
	return s.mesh
}

// Intersect raycasts the deformed mesh.
func (s *Surface) Intersect(r picking.Ray) (point math.Vec3, dist float32, ok bool) {
	return s.Mesh().Intersect(r)
}
