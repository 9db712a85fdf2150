package terrain

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/wondermap/internal/engine/picking"
	"github.com/Faultbox/wondermap/pkg/math"
)

// BuildSurface tessellates a Width x Height plane centered on the origin in
// the XY plane, displacing each vertex along +Z by HeightAt.
func BuildSurface(p SurfaceParams) *Mesh {
	sx, sy := p.SegmentsX, p.SegmentsY
	if sx < 1 {
		sx = 1
	}
	if sy < 1 {
		sy = 1
	}
	cols, rows := sx+1, sy+1

	mesh := &Mesh{
		Vertices:  make([]Vertex, 0, cols*rows),
		Indices:   make([]uint32, 0, sx*sy*6),
		SegmentsX: sx,
		SegmentsY: sy,
	}

	bounds := picking.AABB{
		Min: math.Splat(math32.MaxFloat32),
		Max: math.Splat(-math32.MaxFloat32),
	}

	for iy := 0; iy < rows; iy++ {
		v := float32(iy) / float32(sy)
		for ix := 0; ix < cols; ix++ {
			u := float32(ix) / float32(sx)
			var h float32
			if p.HeightAt != nil {
				h = p.HeightAt(u, v)
			}
			pos := math.Vec3{X: (u - 0.5) * p.Width, Y: (v - 0.5) * p.Height, Z: h}
			updateBounds(&bounds, pos)
			mesh.Vertices = append(mesh.Vertices, Vertex{
				Position: pos,
				Normal:   math.Vec3{Z: 1},
				TexCoord: math.Vec2{X: u, Y: v},
			})
		}
	}

	for iy := 0; iy < sy; iy++ {
		for ix := 0; ix < sx; ix++ {
			a := uint32(iy*cols + ix)
			b := a + 1
			c := a + uint32(cols)
			d := c + 1
			mesh.Indices = append(mesh.Indices, a, b, d, a, d, c)
		}
	}

	computeNormals(mesh)
	mesh.Bounds = bounds
	return mesh
}

// Intersect returns the nearest hit of r on the mesh.
func (m *Mesh) Intersect(r picking.Ray) (point math.Vec3, dist float32, ok bool) {
	if m == nil || len(m.Indices) == 0 {
		return math.Vec3{}, 0, false
	}
	if _, hit := r.IntersectAABB(padded(m.Bounds)); !hit {
		return math.Vec3{}, 0, false
	}

	best := float32(math32.MaxFloat32)
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a := m.Vertices[m.Indices[i]].Position
		b := m.Vertices[m.Indices[i+1]].Position
		c := m.Vertices[m.Indices[i+2]].Position
		if t, hit := r.IntersectTriangle(a, b, c); hit && t < best {
			best = t
			ok = true
		}
	}
	if !ok {
		return math.Vec3{}, 0, false
	}
	return r.At(best), best, true
}

// GridLines returns wireframe segments along every stride-th row and column.
func (m *Mesh) GridLines(stride int) []math.Vec3 {
	if stride < 1 {
		stride = 1
	}
	cols := m.SegmentsX + 1
	var lines []math.Vec3
	for iy := 0; iy <= m.SegmentsY; iy += stride {
		for ix := 0; ix < m.SegmentsX; ix++ {
			i := iy*cols + ix
			lines = append(lines, m.Vertices[i].Position, m.Vertices[i+1].Position)
		}
	}
	for ix := 0; ix <= m.SegmentsX; ix += stride {
		for iy := 0; iy < m.SegmentsY; iy++ {
			i := iy*cols + ix
			lines = append(lines, m.Vertices[i].Position, m.Vertices[i+cols].Position)
		}
	}
	return lines
}

// computeNormals accumulates face normals onto shared vertices.
func computeNormals(mesh *Mesh) {
	acc := make([]math.Vec3, len(mesh.Vertices))
	for i := 0; i+2 < len(mesh.Indices); i += 3 {
		ia, ib, ic := mesh.Indices[i], mesh.Indices[i+1], mesh.Indices[i+2]
		a := mesh.Vertices[ia].Position
		edge1 := mesh.Vertices[ib].Position.Sub(a)
		edge2 := mesh.Vertices[ic].Position.Sub(a)
		n := edge1.Cross(edge2)
		acc[ia] = acc[ia].Add(n)
		acc[ib] = acc[ib].Add(n)
		acc[ic] = acc[ic].Add(n)
	}
	for i := range mesh.Vertices {
		if acc[i].Length() > 0 {
			mesh.Vertices[i].Normal = acc[i].Normalize()
		}
	}
}

// padded grows flat bounds so the slab test still accepts grazing rays.
func padded(b picking.AABB) picking.AABB {
	const pad = 1e-3
	return picking.AABB{Min: b.Min.Sub(math.Splat(pad)), Max: b.Max.Add(math.Splat(pad))}
}

func updateBounds(b *picking.AABB, p math.Vec3) {
	if p.X < b.Min.X {
		b.Min.X = p.X
	}
	if p.Y < b.Min.Y {
		b.Min.Y = p.Y
	}
	if p.Z < b.Min.Z {
		b.Min.Z = p.Z
	}
	if p.X > b.Max.X {
		b.Max.X = p.X
	}
	if p.Y > b.Max.Y {
		b.Max.Y = p.Y
	}
	if p.Z > b.Max.Z {
		b.Max.Z = p.Z
	}
}
