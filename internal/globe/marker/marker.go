// Package marker implements the points of interest placed on the map: their
// hit proxies, hover and selection styling, content reveal sequence and the
// registry that keeps them aligned with the surface's pan and zoom.
package marker

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/wondermap/internal/config"
	"github.com/Faultbox/wondermap/internal/engine/picking"
	"github.com/Faultbox/wondermap/internal/engine/scene"
	"github.com/Faultbox/wondermap/internal/engine/tween"
	"github.com/Faultbox/wondermap/internal/globe/surface"
	"github.com/Faultbox/wondermap/internal/globe/ui"
	"github.com/Faultbox/wondermap/internal/logger"
	"github.com/Faultbox/wondermap/pkg/math"
)

// Decoration octahedra radii.
const (
	wireRadius  = 0.025
	solidRadius = 0.035
)

// Deps are the collaborators shared by every marker.
type Deps struct {
	Scheduler *tween.Scheduler
	Text      ui.TextSurface
	Markers   config.MarkersConfig
	Map       config.MapConfig
	Heading   string // Page title restyled on selection
}

// Marker is one point of interest.
type Marker struct {
	index  int
	record Record
	cfg    config.MarkersConfig

	zoomDuration time.Duration
	heading      string

	anchor     *scene.Node // Placement and zoom scale
	proxy      *scene.Node // Invisible hit target, spins on selection
	decoration *scene.Node // Visible octahedra, grows on hover
	content    *scene.Node // Nil until the asset arrives

	multiplier float32
	selected   bool
	hovered    bool

	state      ContentState
	load       LoadState
	retry      bool
	selectedAt time.Duration
	revealTask *tween.Task
	hideTask   *tween.Task

	sched        *tween.Scheduler
	hoverGroup   *tween.Group
	spinGroup    *tween.Group
	contentGroup *tween.Group
	text         ui.TextSurface
	log          *zap.Logger
}

func newMarker(index int, record Record, deps Deps) *Marker {
	text := deps.Text
	if text == nil {
		text = ui.Discard{}
	}

	m := &Marker{
		index:        index,
		record:       record,
		cfg:          deps.Markers,
		zoomDuration: deps.Map.ZoomDuration,
		heading:      deps.Heading,
		multiplier:   1,
		sched:        deps.Scheduler,
		hoverGroup:   deps.Scheduler.Group(fmt.Sprintf("marker/%d/hover", index)),
		spinGroup:    deps.Scheduler.Group(fmt.Sprintf("marker/%d/spin", index)),
		contentGroup: deps.Scheduler.Group(fmt.Sprintf("marker/%d/content", index)),
		text:         text,
		log:          logger.Named("marker").With(zap.String("title", record.Title)),
	}
	if record.ContentURL == "" {
		m.load = LoadFailed
	}

	m.anchor = scene.NewNode(record.Title)

	m.proxy = scene.NewNode("proxy")
	m.proxy.Geometry = scene.Octahedron(deps.Markers.ProxyRadius)
	m.proxy.Material.Opacity = 0

	m.decoration = scene.NewNode("decoration")
	wire := scene.NewNode("wire")
	wire.Geometry = scene.Octahedron(wireRadius)
	solid := scene.NewNode("solid")
	solid.Geometry = scene.Octahedron(solidRadius)
	solid.Material.Color = math.Vec3{}
	m.decoration.Add(solid)
	m.decoration.Add(wire)

	m.anchor.Add(m.proxy)
	m.proxy.Add(m.decoration)
	return m
}

// Index returns the marker's position in the feed.
func (m *Marker) Index() int { return m.index }

// Title returns the wonder's name.
func (m *Marker) Title() string { return m.record.Title }

// Record returns the feed entry.
func (m *Marker) Record() Record { return m.record }

// Normalized returns the fixed normalized position.
func (m *Marker) Normalized() math.Vec3 { return m.record.MapNormalizedPosition.Vec3() }

// Selected reports whether the marker is selected.
func (m *Marker) Selected() bool { return m.selected }

// Hovered reports whether the marker shows its hover style.
func (m *Marker) Hovered() bool { return m.hovered }

// Multiplier returns the zoom falloff applied at the last rescale.
func (m *Marker) Multiplier() float32 { return m.multiplier }

// Anchor returns the node carrying placement and zoom scale.
func (m *Marker) Anchor() *scene.Node { return m.anchor }

// Proxy returns the hit-test node.
func (m *Marker) Proxy() *scene.Node { return m.proxy }

// Decoration returns the hover-styled node.
func (m *Marker) Decoration() *scene.Node { return m.decoration }

// Content returns the content node, or nil before it loaded.
func (m *Marker) Content() *scene.Node { return m.content }

// WorldPosition derives the marker's current world position from the scene
// graph. It is never cached across ticks.
func (m *Marker) WorldPosition() math.Vec3 {
	return m.anchor.WorldPosition()
}

// PlaceOnSurface sets the marker's local position on an unzoomed map.
func (m *Marker) PlaceOnSurface(mapWidth, mapHeight, displacementScale, displacementBias float32) {
	n := m.Normalized()
	m.anchor.Position = math.Vec3{
		X: mapWidth * (n.X - 0.5),
		Y: mapHeight * (n.Y - 0.5),
		Z: m.surfaceZ(displacementScale, displacementBias),
	}
}

// RescaleForZoom counteracts the registry root's zoom scale and applies the
// falloff that shrinks unselected markers as zoom deepens.
func (m *Marker) RescaleForZoom(view surface.View, isSelected bool) {
	mult := float32(1)
	if !isSelected {
		mult = ZoomMultiplier(view.Scale, view.MaxZoom, m.cfg.FalloffExponent)
	}
	m.multiplier = mult

	inv := view.InverseScale
	m.anchor.Scale = math.Vec3{X: inv, Y: inv, Z: inv * m.cfg.ZFactor}.Scale(mult)
	m.anchor.Position.Z = m.surfaceZ(view.Displacement.Scale, view.Displacement.Bias) * inv
}

// ZoomMultiplier returns pow(1-(scale-1)/(maxZoom-1), falloff) with the base
// clamped to [0,1]. A map that cannot zoom keeps every marker at full size.
func ZoomMultiplier(scale, maxZoom, falloff float32) float32 {
	if maxZoom <= 1 {
		return 1
	}
	base := math.Clamp01(1 - (scale-1)/(maxZoom-1))
	return math.Pow(base, falloff)
}

func (m *Marker) surfaceZ(displacementScale, displacementBias float32) float32 {
	return m.record.MapNormalizedPosition.Z*displacementScale + displacementBias + m.cfg.ZOffset
}

// SetHoverStyle grows or restores the decoration and shows or clears the hint.
func (m *Marker) SetHoverStyle(isEntering bool, screenPos math.Vec2) {
	m.hovered = isEntering

	target := float32(1)
	if isEntering {
		target = m.cfg.HoverScale
	}
	m.hoverGroup.RemoveAll()
	m.hoverGroup.Start(tween.New(m.cfg.HoverDuration).
		To(&m.decoration.Scale.X, target).
		To(&m.decoration.Scale.Y, target).
		To(&m.decoration.Scale.Z, target))

	m.text.SetHint(m.record.Title, screenPos, isEntering)
}

// SetSelected spins the proxy, runs the content reveal or hide sequence and
// updates the title and wonder label.
func (m *Marker) SetSelected(isSelected bool) {
	if isSelected == m.selected {
		return
	}
	m.selected = isSelected

	var turns float32
	if isSelected {
		turns = m.cfg.SpinTurns
	}
	m.spinGroup.RemoveAll()
	m.spinGroup.Start(tween.New(m.cfg.SpinDuration).
		To(&m.proxy.Rotation.Z, turns*2*math.Pi).
		Ease(tween.ExponentialIn))

	if isSelected {
		m.selectedAt = m.sched.Now()
		m.reveal(m.zoomDuration)
		m.text.SetWonderName(m.record.Title, m.record.URL)
	} else {
		m.hide()
		m.text.SetWonderName("", "")
	}
	m.text.SetTitle(m.heading, isSelected)

	m.log.Debug("selection changed", zap.Bool("selected", isSelected), zap.Stringer("content", m.state))
}

// Hittable reports whether the proxy can currently be picked.
func (m *Marker) Hittable() bool {
	return m.multiplier > math.Epsilon && m.proxy.VisibleInTree()
}

// Intersect tests r against the marker's hit proxy.
func (m *Marker) Intersect(r picking.Ray) (float32, bool) {
	if !m.Hittable() {
		return 0, false
	}
	return m.proxy.Geometry.Intersect(r, m.proxy.World())
}
