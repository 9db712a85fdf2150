// Package cursor implements the magnetic 3D cursor: it raycasts the pointer
// against the map and the markers, drives hover transitions and gates
// selection while the surface zooms.
package cursor

import (
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/wondermap/internal/config"
	"github.com/Faultbox/wondermap/internal/engine/lighting"
	"github.com/Faultbox/wondermap/internal/engine/picking"
	"github.com/Faultbox/wondermap/internal/engine/scene"
	"github.com/Faultbox/wondermap/internal/engine/tween"
	"github.com/Faultbox/wondermap/internal/globe/marker"
	"github.com/Faultbox/wondermap/internal/logger"
	"github.com/Faultbox/wondermap/pkg/math"
)

// PointerStyle is the system pointer shape.
type PointerStyle int

const (
	PointerDefault PointerStyle = iota
	PointerHand
)

// String returns the style name.
func (p PointerStyle) String() string {
	if p == PointerHand {
		return "pointer"
	}
	return "default"
}

// Raycaster builds a world ray through a point in normalized device space.
type Raycaster interface {
	RayFromNDC(ndcX, ndcY float32) picking.Ray
}

// PointerStyler switches the system pointer.
type PointerStyler interface {
	SetPointer(style PointerStyle)
}

// Surface is the map the cursor rides on and zooms.
type Surface interface {
	Intersect(r picking.Ray) (point math.Vec3, dist float32, ok bool)
	ZoomTo(nx, ny, targetScale float32) *tween.Task
	ZoomOut() *tween.Task
}

// Markers is the set of hittable markers.
type Markers interface {
	Intersect(r picking.Ray) (*marker.Marker, float32, bool)
}

// Deps are the controller's collaborators. None of them is owned.
type Deps struct {
	Camera    Raycaster
	Surface   Surface
	Markers   Markers
	Pointer   PointerStyler
	Scheduler *tween.Scheduler

	Cursor      config.CursorConfig
	Map         config.MapConfig
	Interaction config.InteractionConfig
}

type noPointer struct{}

func (noPointer) SetPointer(PointerStyle) {}

// Controller owns hover, magnetization and the selection lock.
type Controller struct {
	cfg          config.CursorConfig
	suppressed   bool
	zoomedScale  float32
	zoomDuration time.Duration
	halfWidth    float32
	halfHeight   float32

	camera  Raycaster
	surface Surface
	markers Markers
	pointer PointerStyler
	sched   *tween.Scheduler
	hover   *tween.Group

	viewport math.Vec2
	screen   math.Vec2

	hovered  *marker.Marker
	selected *marker.Marker
	locked   bool
	unlock   *tween.Task

	magnetization  float32
	rawHit         math.Vec3
	lastHoveredPos math.Vec3
	position       math.Vec3
	guide          math.Vec2 // Vertical line x, horizontal line y

	ring      ringShape
	ringColor float32 // 1 white, 0 black
	built     ringShape

	root       *scene.Node
	ringNode   *scene.Node
	horizontal *scene.Node
	vertical   *scene.Node
	light      lighting.PointLight

	log *zap.Logger
}

// New creates a controller at rest: nothing hovered or selected, default
// ring, white, unmagnetized.
func New(deps Deps) *Controller {
	pointer := deps.Pointer
	if pointer == nil {
		pointer = noPointer{}
	}
	c := &Controller{
		cfg:          deps.Cursor,
		suppressed:   deps.Interaction.SelectedHover == config.HoverSuppressed,
		zoomedScale:  deps.Map.ZoomedScale,
		zoomDuration: deps.Map.ZoomDuration,
		halfWidth:    deps.Map.Width * 0.5,
		halfHeight:   deps.Map.Height * 0.5,
		camera:       deps.Camera,
		surface:      deps.Surface,
		markers:      deps.Markers,
		pointer:      pointer,
		sched:        deps.Scheduler,
		hover:        tween.NewGroup("cursor/hover"),
		viewport:     math.Vec2{X: 1, Y: 1},
		ring:         defaultRing(deps.Cursor),
		ringColor:    1,
		light:        lighting.NewPointLight(lightIntensity, lightRange),
		log:          logger.Named("cursor"),
	}
	c.buildNodes()
	return c
}

// SetViewport records the drawable size used for NDC conversion.
func (c *Controller) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.viewport = math.Vec2{X: float32(width), Y: float32(height)}
}

// Hovered returns the hovered marker, or nil.
func (c *Controller) Hovered() *marker.Marker { return c.hovered }

// Selected returns the selected marker, or nil.
func (c *Controller) Selected() *marker.Marker { return c.selected }

// Locked reports whether selection is gated by a running zoom.
func (c *Controller) Locked() bool { return c.locked }

// Magnetization returns the pull toward the hovered marker in [0,1].
func (c *Controller) Magnetization() float32 { return c.magnetization }

// RawHit returns the last point the pointer ray hit on the map.
func (c *Controller) RawHit() math.Vec3 { return c.rawHit }

// Position returns the smoothed cursor position.
func (c *Controller) Position() math.Vec3 { return c.position }

// Positioning raycasts the pointer at screen pixel coordinates and updates
// the hover state. Misses are silent.
func (c *Controller) Positioning(screen math.Vec2) {
	c.screen = screen
	ndcX, ndcY := picking.ScreenToNDC(screen.X, screen.Y, c.viewport.X, c.viewport.Y)
	ray := c.camera.RayFromNDC(ndcX, ndcY)

	if p, _, ok := c.surface.Intersect(ray); ok {
		c.rawHit = p
	}

	var hit *marker.Marker
	if m, _, ok := c.markers.Intersect(ray); ok && c.hoverable() {
		hit = m
	}

	switch {
	case hit == nil:
		if c.hovered != nil {
			c.exit(c.hovered)
		}
	case c.hovered == nil:
		c.tryEnter(hit)
	case hit != c.hovered:
		c.exit(c.hovered)
		c.tryEnter(hit)
	}
}

func (c *Controller) hoverable() bool {
	return !(c.suppressed && c.selected != nil)
}

func (c *Controller) tryEnter(m *marker.Marker) {
	if c.locked {
		return
	}
	c.enter(m)
}

func (c *Controller) enter(m *marker.Marker) {
	c.hovered = m
	c.pointer.SetPointer(PointerHand)
	m.SetHoverStyle(true, c.screen)

	c.hover.RemoveAll()
	c.hover.Start(tween.New(c.cfg.MagnetizeDuration).To(&c.magnetization, c.cfg.Magnetization))
	c.hover.Start(tween.New(ringColorDuration).To(&c.ringColor, 0))
	c.startRingTween(focusedRing(c.cfg), ringFocusDuration)

	c.log.Debug("hover enter", zap.String("marker", m.Title()))
}

func (c *Controller) exit(m *marker.Marker) {
	c.lastHoveredPos = m.WorldPosition()
	c.hovered = nil
	c.pointer.SetPointer(PointerDefault)
	m.SetHoverStyle(false, c.screen)

	c.hover.RemoveAll()
	c.hover.Start(tween.New(c.cfg.MagnetizeDuration).To(&c.magnetization, 0))
	c.hover.Start(tween.New(ringColorDuration).To(&c.ringColor, 1))
	c.startRingTween(defaultRing(c.cfg), ringReleaseDuration)

	c.log.Debug("hover exit", zap.String("marker", m.Title()))
}

// TrySelect toggles the hovered marker's selection and zooms the surface to
// it or back out. It reports whether the click was taken.
func (c *Controller) TrySelect() bool {
	m := c.hovered
	if m == nil {
		return false
	}
	if c.locked {
		c.log.Debug("selection ignored while zooming", zap.String("marker", m.Title()))
		return false
	}

	selecting := !m.Selected()
	if selecting {
		if prev := c.selected; prev != nil && prev != m {
			prev.SetSelected(false)
		}
		c.selected = m
		n := m.Normalized()
		c.surface.ZoomTo(n.X, n.Y, c.zoomedScale)
	} else {
		c.selected = nil
		c.surface.ZoomOut()
	}
	m.SetSelected(selecting)
	c.exit(m)
	c.lock()

	c.log.Info("selection", zap.String("marker", m.Title()), zap.Bool("selected", selecting))
	return true
}

// Deselect clears the current selection and zooms out.
func (c *Controller) Deselect() bool {
	m := c.selected
	if m == nil || c.locked {
		return false
	}
	c.selected = nil
	c.surface.ZoomOut()
	m.SetSelected(false)
	if c.hovered == m {
		c.exit(m)
	}
	c.lock()

	c.log.Info("selection", zap.String("marker", m.Title()), zap.Bool("selected", false))
	return true
}

// Click handles a primary click. With hover suppressed on selection, a click
// away from any marker clears the selection.
func (c *Controller) Click() {
	if c.TrySelect() {
		return
	}
	if c.suppressed && c.hovered == nil {
		c.Deselect()
	}
}

// lock gates selection for one zoom. A new lock restarts the release timer.
func (c *Controller) lock() {
	c.locked = true
	c.unlock.Cancel()
	c.unlock = c.sched.After(c.zoomDuration, func() {
		c.locked = false
		c.unlock = nil
	})
}
