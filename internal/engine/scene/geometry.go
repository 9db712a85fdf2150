package scene

import (
	"math/rand"

	"github.com/chewxy/math32"

	"github.com/Faultbox/wondermap/internal/engine/picking"
	"github.com/Faultbox/wondermap/pkg/math"
)

// Octahedron returns an octahedron of the given radius: twelve edges for
// drawing and eight faces for hit-testing.
func Octahedron(radius float32) *Geometry {
	v := [6]math.Vec3{
		{X: radius}, {X: -radius},
		{Y: radius}, {Y: -radius},
		{Z: radius}, {Z: -radius},
	}
	edges := [12][2]int{
		{0, 2}, {2, 1}, {1, 3}, {3, 0},
		{0, 4}, {2, 4}, {1, 4}, {3, 4},
		{0, 5}, {2, 5}, {1, 5}, {3, 5},
	}
	faces := [8][3]int{
		{0, 2, 4}, {2, 1, 4}, {1, 3, 4}, {3, 0, 4},
		{2, 0, 5}, {1, 2, 5}, {3, 1, 5}, {0, 3, 5},
	}
	g := &Geometry{
		Lines:     make([]math.Vec3, 0, len(edges)*2),
		Triangles: make([]math.Vec3, 0, len(faces)*3),
		Bounds:    picking.NewAABB(math.Splat(-radius), math.Splat(radius)),
	}
	for _, e := range edges {
		g.Lines = append(g.Lines, v[e[0]], v[e[1]])
	}
	for _, f := range faces {
		g.Triangles = append(g.Triangles, v[f[0]], v[f[1]], v[f[2]])
	}
	return g
}

// Ring returns a flat annulus in the XY plane outlined by its inner and outer
// polygons and joined by radial spokes. Segments rounds to at least 3.
func Ring(inner, outer, segments float32) *Geometry {
	n := int(segments + 0.5)
	if n < 3 {
		n = 3
	}
	g := &Geometry{
		Lines:  make([]math.Vec3, 0, n*6),
		Bounds: picking.NewAABB(math.Vec3{X: -outer, Y: -outer}, math.Vec3{X: outer, Y: outer}),
	}
	step := 2 * math.Pi / float32(n)
	for i := 0; i < n; i++ {
		s0, c0 := math32.Sincos(step * float32(i))
		s1, c1 := math32.Sincos(step * float32(i+1))
		g.Lines = append(g.Lines,
			math.Vec3{X: c0 * outer, Y: s0 * outer}, math.Vec3{X: c1 * outer, Y: s1 * outer},
			math.Vec3{X: c0 * inner, Y: s0 * inner}, math.Vec3{X: c1 * inner, Y: s1 * inner},
			math.Vec3{X: c0 * inner, Y: s0 * inner}, math.Vec3{X: c0 * outer, Y: s0 * outer},
		)
	}
	return g
}

// Segment returns a single line from a to b.
func Segment(a, b math.Vec3) *Geometry {
	return &Geometry{Lines: []math.Vec3{a, b}, Bounds: picking.NewAABB(a, b)}
}

// StarField scatters count points uniformly in a cube of half-extent spread,
// keeping only those farther than minRadius from the origin.
func StarField(rng *rand.Rand, count int, spread, minRadius float32) *Geometry {
	g := &Geometry{Points: make([]math.Vec3, 0, count)}
	for i := 0; i < count; i++ {
		p := math.Vec3{
			X: (rng.Float32()*2 - 1) * spread,
			Y: (rng.Float32()*2 - 1) * spread,
			Z: (rng.Float32()*2 - 1) * spread,
		}
		if p.Length() > minRadius {
			g.Points = append(g.Points, p)
		}
	}
	g.Bounds = picking.NewAABB(math.Splat(-spread), math.Splat(spread))
	return g
}
