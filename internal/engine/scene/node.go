// Package scene provides the retained scene graph: nodes with explicit
// parent/child links, local transforms and line geometry.
package scene

import (
	"github.com/Faultbox/wondermap/internal/engine/picking"
	"github.com/Faultbox/wondermap/pkg/math"
)

// Material holds the per-node values the renderer and tweens drive.
type Material struct {
	Color    math.Vec3
	Opacity  float32
	Assemble float32 // 0 scattered, 1 fully assembled
}

// Geometry is line, point and triangle data in node-local space.
type Geometry struct {
	Lines     []math.Vec3 // Pairs of endpoints
	Points    []math.Vec3
	Triangles []math.Vec3 // Triplets, used for picking
	Bounds    picking.AABB
}

// Intersect tests r against the geometry under the world transform. The
// transformed bounds reject early; triangles refine the hit when present.
func (g *Geometry) Intersect(r picking.Ray, world math.Mat4) (float32, bool) {
	if g == nil {
		return 0, false
	}
	t, hit := r.IntersectAABB(picking.TransformAABB(g.Bounds, world))
	if !hit || len(g.Triangles) == 0 {
		return t, hit
	}
	best, found := float32(0), false
	for i := 0; i+2 < len(g.Triangles); i += 3 {
		a := world.TransformVec3(g.Triangles[i])
		b := world.TransformVec3(g.Triangles[i+1])
		c := world.TransformVec3(g.Triangles[i+2])
		if d, ok := r.IntersectTriangle(a, b, c); ok && (!found || d < best) {
			best, found = d, true
		}
	}
	return best, found
}

// Node is one element of the scene graph.
type Node struct {
	Name     string
	Position math.Vec3
	Rotation math.Vec3 // Euler XYZ, radians
	Scale    math.Vec3
	Visible  bool
	Material Material
	Geometry *Geometry

	parent   *Node
	children []*Node
}

// NewNode creates a visible node with unit scale and an opaque white material.
func NewNode(name string) *Node {
	return &Node{
		Name:     name,
		Scale:    math.Splat(1),
		Visible:  true,
		Material: Material{Color: math.Splat(1), Opacity: 1, Assemble: 1},
	}
}

// Add attaches child, detaching it from any previous parent first.
func (n *Node) Add(child *Node) {
	if child == nil || child == n {
		return
	}
	if child.parent != nil {
		child.parent.Remove(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

// Remove detaches child if it belongs to n.
func (n *Node) Remove(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

// Parent returns the owning node, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the attached nodes in insertion order.
func (n *Node) Children() []*Node {
	return n.children
}

// Local returns the node's local transform.
func (n *Node) Local() math.Mat4 {
	return math.Compose(n.Position, n.Rotation, n.Scale)
}

// World composes local transforms from the root down to n.
func (n *Node) World() math.Mat4 {
	if n.parent == nil {
		return n.Local()
	}
	return Compose(n.parent.World(), n.Local())
}

// WorldPosition returns the origin of n in world space.
func (n *Node) WorldPosition() math.Vec3 {
	return n.World().Translation()
}

// VisibleInTree reports whether n and all its ancestors are visible.
func (n *Node) VisibleInTree() bool {
	for p := n; p != nil; p = p.parent {
		if !p.Visible {
			return false
		}
	}
	return true
}

// Walk visits n and its visible descendants depth-first with their world
// transforms. Returning false from fn skips a node's children.
func (n *Node) Walk(fn func(node *Node, world math.Mat4) bool) {
	var parentWorld math.Mat4
	if n.parent != nil {
		parentWorld = n.parent.World()
	} else {
		parentWorld = math.Identity()
	}
	n.walk(parentWorld, fn)
}

func (n *Node) walk(parentWorld math.Mat4, fn func(*Node, math.Mat4) bool) {
	if !n.Visible {
		return
	}
	world := Compose(parentWorld, n.Local())
	if !fn(n, world) {
		return
	}
	for _, c := range n.children {
		c.walk(world, fn)
	}
}

// Compose returns the world transform of a child with the given local
// transform under a parent world transform.
func Compose(parentWorld, local math.Mat4) math.Mat4 {
	return parentWorld.Mul(local)
}
