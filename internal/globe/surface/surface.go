// Package surface implements the map plane: a displaced, wireframe mesh whose
// draped texture is panned and zoomed through its offset and repeat rather
// than by moving the camera.
package surface

import (
	"go.uber.org/zap"

	"github.com/Faultbox/wondermap/internal/config"
	"github.com/Faultbox/wondermap/internal/engine/heightfield"
	"github.com/Faultbox/wondermap/internal/engine/terrain"
	"github.com/Faultbox/wondermap/internal/engine/tween"
	"github.com/Faultbox/wondermap/internal/logger"
	"github.com/Faultbox/wondermap/pkg/math"
)

// GroupName is the scheduler group that drives zoom transitions.
const GroupName = "surface"

// Displacement holds the height-field parameters applied to the mesh.
type Displacement struct {
	Scale float32
	Bias  float32
}

// View is a snapshot of the surface state handed to listeners each tick.
type View struct {
	Scale        float32
	InverseScale float32
	Offset       math.Vec2
	Displacement Displacement
	Width        float32
	Height       float32
	MaxZoom      float32
}

// Listener receives the surface view after every scheduler advance.
type Listener func(View)

// Surface owns the map mesh and its texture transform.
type Surface struct {
	cfg    config.MapConfig
	width  float32
	height float32

	offset       math.Vec2
	repeat       math.Vec2
	displacement Displacement

	group     *tween.Group
	zoom      *tween.Task
	listeners []Listener

	field   *heightfield.Field
	mesh    *terrain.Mesh
	meshFor meshKey

	log *zap.Logger
}

type meshKey struct {
	offset       math.Vec2
	repeat       math.Vec2
	displacement Displacement
}

// New creates the surface at its default unzoomed view and registers it with
// the scheduler. A nil field renders a flat plane.
func New(cfg config.MapConfig, sched *tween.Scheduler, field *heightfield.Field) *Surface {
	s := &Surface{
		cfg:          cfg,
		width:        cfg.Width,
		height:       cfg.Height,
		repeat:       math.Vec2{X: 1, Y: 1},
		displacement: Displacement{Scale: cfg.DisplacementScale, Bias: cfg.DisplacementBias},
		group:        sched.Group(GroupName),
		field:        field,
		log:          logger.Named("surface"),
	}
	sched.OnAdvanced(s.tick)
	return s
}

// ZoomTo starts a transition that centers the texture on normalized (nx, ny)
// at targetScale, replacing any zoom already in flight. Displacement eases
// toward the zoomed relief in proportion to the target zoom.
func (s *Surface) ZoomTo(nx, ny, targetScale float32) *tween.Task {
	targetScale = s.sanitizeScale(targetScale)
	nx = sanitizeCoord(nx)
	ny = sanitizeCoord(ny)

	disp := s.DisplacementFor(targetScale)
	inv := 1 / targetScale

	s.group.RemoveAll()
	s.zoom = s.group.Start(tween.New(s.cfg.ZoomDuration).
		To(&s.offset.X, nx-0.5).
		To(&s.offset.Y, ny-0.5).
		To(&s.repeat.X, inv).
		To(&s.repeat.Y, inv).
		To(&s.displacement.Scale, disp.Scale).
		To(&s.displacement.Bias, disp.Bias).
		Ease(tween.QuadraticInOut))

	s.log.Debug("zoom",
		zap.Float32("x", nx),
		zap.Float32("y", ny),
		zap.Float32("scale", targetScale),
		zap.Duration("duration", s.cfg.ZoomDuration))
	return s.zoom
}

// ZoomOut restores the centered, unzoomed view.
func (s *Surface) ZoomOut() *tween.Task {
	return s.ZoomTo(0.5, 0.5, 1)
}

// Zooming reports whether a zoom transition is in flight.
func (s *Surface) Zooming() bool {
	return s.zoom != nil && !s.zoom.Done()
}

// CurrentScale returns 1/repeat.x.
func (s *Surface) CurrentScale() float32 {
	return 1 / s.repeat.X
}

// OffsetLimit returns the pan limit at the current scale.
func (s *Surface) OffsetLimit() float32 {
	return OffsetLimit(s.CurrentScale())
}

// OffsetLimit returns the largest texture offset that keeps the visible
// window inside the texture at scale. Scales at or below 1 allow no pan.
func OffsetLimit(scale float32) float32 {
	if scale <= 0 || !math.IsFinite(scale) {
		return 0
	}
	limit := (scale*0.5 - 0.5) / scale
	if limit < 0 {
		return 0
	}
	return limit
}

// DisplacementFor interpolates the relief between the base and zoomed
// parameters at scale.
func (s *Surface) DisplacementFor(scale float32) Displacement {
	var k float32
	if s.cfg.MaxZoom > 1 {
		k = math.Clamp01((scale - 1) / (s.cfg.MaxZoom - 1))
	}
	return Displacement{
		Scale: math.Lerp(s.cfg.DisplacementScale, s.cfg.ZoomedDisplacementScale, k),
		Bias:  math.Lerp(s.cfg.DisplacementBias, s.cfg.ZoomedDisplacementBias, k),
	}
}

// Offset returns the texture offset.
func (s *Surface) Offset() math.Vec2 {
	return s.offset
}

// Repeat returns the texture repeat.
func (s *Surface) Repeat() math.Vec2 {
	return s.repeat
}

// Displacement returns the current height-field parameters.
func (s *Surface) Displacement() Displacement {
	return s.displacement
}

// Size returns the fixed plane dimensions.
func (s *Surface) Size() (width, height float32) {
	return s.width, s.height
}

// View returns a snapshot of the current transform.
func (s *Surface) View() View {
	scale := s.CurrentScale()
	return View{
		Scale:        scale,
		InverseScale: s.repeat.X,
		Offset:       s.offset,
		Displacement: s.displacement,
		Width:        s.width,
		Height:       s.height,
		MaxZoom:      s.cfg.MaxZoom,
	}
}

// OnChange registers a listener notified after every scheduler advance.
func (s *Surface) OnChange(l Listener) {
	s.listeners = append(s.listeners, l)
}

// tick runs after the scheduler has advanced every group.
func (s *Surface) tick() {
	limit := s.OffsetLimit()
	s.offset = s.offset.ClampScalar(-limit, limit)

	view := s.View()
	for _, l := range s.listeners {
		l(view)
	}
}

func (s *Surface) sanitizeScale(scale float32) float32 {
	if scale > 0 && math.IsFinite(scale) {
		return scale
	}
	floor := s.cfg.MinScale
	if floor <= 0 {
		floor = 0.1
	}
	s.log.Warn("invalid zoom scale, clamping", zap.Float32("scale", scale), zap.Float32("min", floor))
	return floor
}

func sanitizeCoord(v float32) float32 {
	if !math.IsFinite(v) {
		return 0.5
	}
	return math.Clamp01(v)
}
