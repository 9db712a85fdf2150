package cursor

import (
	"time"

	"github.com/Faultbox/wondermap/internal/config"
	"github.com/Faultbox/wondermap/internal/engine/lighting"
	"github.com/Faultbox/wondermap/internal/engine/scene"
	"github.com/Faultbox/wondermap/internal/engine/tween"
	"github.com/Faultbox/wondermap/pkg/math"
)

const (
	ringColorDuration   = 250 * time.Millisecond
	ringFocusDuration   = 250 * time.Millisecond
	ringReleaseDuration = 500 * time.Millisecond

	lightIntensity = 3
	lightRange     = 0.5
	lightHeight    = 0.15
)

type ringShape struct {
	Inner    float32
	Outer    float32
	Segments float32
}

func defaultRing(cfg config.CursorConfig) ringShape {
	return ringShape{Inner: cfg.RingInner, Outer: cfg.RingOuter, Segments: cfg.RingSegments}
}

func focusedRing(cfg config.CursorConfig) ringShape {
	return ringShape{Inner: cfg.FocusedRingInner, Outer: cfg.FocusedRingOuter, Segments: cfg.FocusedRingSegments}
}

func (c *Controller) startRingTween(to ringShape, d time.Duration) {
	c.hover.Start(tween.New(d).
		To(&c.ring.Inner, to.Inner).
		To(&c.ring.Outer, to.Outer).
		To(&c.ring.Segments, to.Segments))
}

func (c *Controller) buildNodes() {
	c.root = scene.NewNode("cursor")
	c.ringNode = scene.NewNode("ring")
	c.horizontal = scene.NewNode("guide/horizontal")
	c.vertical = scene.NewNode("guide/vertical")
	c.horizontal.Geometry = &scene.Geometry{}
	c.vertical.Geometry = &scene.Geometry{}
	c.root.Add(c.ringNode)
	c.root.Add(c.horizontal)
	c.root.Add(c.vertical)
	c.refreshRing()
}

// Root returns the node holding the ring and guide lines.
func (c *Controller) Root() *scene.Node { return c.root }

// Light returns the point light that follows the raw pointer hit.
func (c *Controller) Light() lighting.PointLight { return c.light }

// Ring returns the current ring inner radius, outer radius and segment count.
func (c *Controller) Ring() (inner, outer, segments float32) {
	return c.ring.Inner, c.ring.Outer, c.ring.Segments
}

// RingColor returns the ring gray level, 1 white and 0 black.
func (c *Controller) RingColor() float32 { return c.ringColor }

// Update advances the hover tweens and moves the cursor, its guides and its
// light. It runs once per frame after the scheduler.
func (c *Controller) Update(dt time.Duration) {
	c.hover.Update(dt)

	target := c.lastHoveredPos
	if c.hovered != nil {
		target = c.hovered.WorldPosition()
	}
	pulled := c.rawHit.Lerp(target, c.magnetization)
	follow := c.cfg.FollowFactor
	c.position = c.position.Lerp(pulled, follow)
	c.guide = c.guide.Lerp(pulled.XY(), follow)

	c.ringNode.Position = c.position
	c.ringNode.Material.Color = math.Splat(c.ringColor)
	c.refreshRing()
	c.refreshGuides()

	c.light.Position = math.Vec3{X: c.rawHit.X, Y: c.rawHit.Y, Z: lightHeight}
}

func (c *Controller) refreshRing() {
	if c.ringNode.Geometry != nil && c.built == c.ring {
		return
	}
	c.ringNode.Geometry = scene.Ring(c.ring.Inner, c.ring.Outer, c.ring.Segments)
	c.built = c.ring
}

// refreshGuides spans the map with one horizontal and one vertical line
// through the guide point, broken around the ring.
func (c *Controller) refreshGuides() {
	gap := c.ring.Outer + c.cfg.GuideMargin
	z := c.position.Z

	h := c.horizontal.Geometry
	h.Lines = h.Lines[:0]
	h.Lines = appendSpan(h.Lines, -c.halfWidth, c.position.X-gap, func(v float32) math.Vec3 {
		return math.Vec3{X: v, Y: c.guide.Y, Z: z}
	})
	h.Lines = appendSpan(h.Lines, c.position.X+gap, c.halfWidth, func(v float32) math.Vec3 {
		return math.Vec3{X: v, Y: c.guide.Y, Z: z}
	})

	v := c.vertical.Geometry
	v.Lines = v.Lines[:0]
	v.Lines = appendSpan(v.Lines, -c.halfHeight, c.position.Y-gap, func(u float32) math.Vec3 {
		return math.Vec3{X: c.guide.X, Y: u, Z: z}
	})
	v.Lines = appendSpan(v.Lines, c.position.Y+gap, c.halfHeight, func(u float32) math.Vec3 {
		return math.Vec3{X: c.guide.X, Y: u, Z: z}
	})
}

func appendSpan(lines []math.Vec3, from, to float32, at func(float32) math.Vec3) []math.Vec3 {
	if to <= from {
		return lines
	}
	return append(lines, at(from), at(to))
}
