package cursor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/wondermap/internal/config"
	"github.com/Faultbox/wondermap/internal/engine/picking"
	"github.com/Faultbox/wondermap/internal/engine/tween"
	"github.com/Faultbox/wondermap/internal/globe/marker"
	"github.com/Faultbox/wondermap/internal/globe/surface"
	"github.com/Faultbox/wondermap/pkg/math"
)

const frame = 16 * time.Millisecond

// topDown casts straight down onto the map, NDC spanning the whole plane.
type topDown struct {
	halfWidth, halfHeight float32
}

func (c topDown) RayFromNDC(ndcX, ndcY float32) picking.Ray {
	return picking.Ray{
		Origin:    math.Vec3{X: ndcX * c.halfWidth, Y: ndcY * c.halfHeight, Z: 5},
		Direction: math.Vec3{Z: -1},
	}
}

type zoomCall struct {
	x, y, scale float32
}

type countingSurface struct {
	*surface.Surface
	zooms    []zoomCall
	zoomOuts int
}

func (s *countingSurface) ZoomTo(nx, ny, scale float32) *tween.Task {
	s.zooms = append(s.zooms, zoomCall{nx, ny, scale})
	return s.Surface.ZoomTo(nx, ny, scale)
}

func (s *countingSurface) ZoomOut() *tween.Task {
	s.zoomOuts++
	return s.Surface.ZoomOut()
}

type recordingPointer struct {
	styles []PointerStyle
}

func (p *recordingPointer) SetPointer(style PointerStyle) {
	p.styles = append(p.styles, style)
}

func (p *recordingPointer) current() PointerStyle {
	if len(p.styles) == 0 {
		return PointerDefault
	}
	return p.styles[len(p.styles)-1]
}

type hintCall struct {
	text    string
	visible bool
}

type recordingText struct {
	hints []hintCall
}

func (r *recordingText) SetHint(text string, _ math.Vec2, visible bool) {
	r.hints = append(r.hints, hintCall{text, visible})
}

func (r *recordingText) SetTitle(string, bool)        {}
func (r *recordingText) SetWonderName(string, string) {}

// scriptedMarkers returns whatever marker the test points at.
type scriptedMarkers struct {
	next *marker.Marker
}

func (s *scriptedMarkers) Intersect(picking.Ray) (*marker.Marker, float32, bool) {
	return s.next, 1, s.next != nil
}

type fixture struct {
	cfg     *config.Config
	sched   *tween.Scheduler
	surf    *countingSurface
	reg     *marker.Registry
	text    *recordingText
	pointer *recordingPointer
	ctrl    *Controller
}

// Screen points on an 800x400 viewport.
var (
	overA = math.Vec2{X: 401, Y: 201} // Alexandria, map center
	overB = math.Vec2{X: 481, Y: 201} // Babylon
	empty = math.Vec2{X: 40, Y: 40}
)

func newFixture(t *testing.T, policy string, markers Markers) *fixture {
	t.Helper()
	records, err := marker.ParseFeed([]byte(`[
		{"title": "Alexandria", "mapNormalizedPosition": {"x": 0.5, "y": 0.5, "z": 0}, "contentUrl": "a.glb"},
		{"title": "Babylon", "mapNormalizedPosition": {"x": 0.6, "y": 0.5, "z": 0}, "contentUrl": "b.glb"}
	]`))
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Interaction.SelectedHover = policy
	f := &fixture{
		cfg:     cfg,
		sched:   tween.NewScheduler(),
		text:    &recordingText{},
		pointer: &recordingPointer{},
	}
	f.surf = &countingSurface{Surface: surface.New(cfg.Map, f.sched, nil)}
	f.reg = marker.NewRegistry(records, marker.Deps{
		Scheduler: f.sched,
		Text:      f.text,
		Markers:   cfg.Markers,
		Map:       cfg.Map,
	})
	f.reg.PlaceOnSurface(f.surf.View())
	f.reg.Place(f.surf.View())
	f.surf.OnChange(f.reg.Place)

	if markers == nil {
		markers = f.reg
	}
	f.ctrl = New(Deps{
		Camera:      topDown{halfWidth: cfg.Map.Width / 2, halfHeight: cfg.Map.Height / 2},
		Surface:     f.surf,
		Markers:     markers,
		Pointer:     f.pointer,
		Scheduler:   f.sched,
		Cursor:      cfg.Cursor,
		Map:         cfg.Map,
		Interaction: cfg.Interaction,
	})
	f.ctrl.SetViewport(800, 400)
	return f
}

// run steps whole frames the way the app loop does.
func (f *fixture) run(d time.Duration) {
	for elapsed := time.Duration(0); elapsed < d; elapsed += frame {
		f.sched.Advance(frame)
		f.ctrl.Update(frame)
	}
}

func (f *fixture) marker(title string) *marker.Marker {
	return f.reg.Find(title)
}

func TestPointerOverNothing(t *testing.T) {
	f := newFixture(t, config.HoverInteractive, nil)

	f.ctrl.Positioning(empty)

	assert.Nil(t, f.ctrl.Hovered())
	assert.Empty(t, f.pointer.styles)
	assert.Equal(t, 0, f.ctrl.hover.Len())
	assert.Empty(t, f.text.hints)

	hit := f.ctrl.RawHit()
	assert.InDelta(t, -0.9*1.8, hit.X, 1e-3)
	assert.InDelta(t, 0.8*0.9, hit.Y, 1e-3)
	assert.InDelta(t, f.cfg.Map.DisplacementBias, hit.Z, 1e-3)
}

func TestHoverEnterAndExit(t *testing.T) {
	f := newFixture(t, config.HoverInteractive, nil)
	a := f.marker("Alexandria")

	f.ctrl.Positioning(overA)
	assert.Same(t, a, f.ctrl.Hovered())
	assert.True(t, a.Hovered())
	assert.Equal(t, PointerHand, f.pointer.current())

	f.ctrl.Positioning(overA)
	assert.Len(t, f.text.hints, 1, "same marker is a no-op")

	f.run(time.Second)
	assert.InDelta(t, f.cfg.Cursor.Magnetization, f.ctrl.Magnetization(), 1e-6)
	assert.Equal(t, float32(0), f.ctrl.RingColor())
	inner, outer, segments := f.ctrl.Ring()
	assert.Equal(t, f.cfg.Cursor.FocusedRingInner, inner)
	assert.Equal(t, f.cfg.Cursor.FocusedRingOuter, outer)
	assert.Equal(t, f.cfg.Cursor.FocusedRingSegments, segments)

	f.ctrl.Positioning(empty)
	assert.Nil(t, f.ctrl.Hovered())
	assert.False(t, a.Hovered())
	assert.Equal(t, PointerDefault, f.pointer.current())

	f.run(time.Second)
	assert.Equal(t, float32(0), f.ctrl.Magnetization())
	assert.Equal(t, float32(1), f.ctrl.RingColor())
	inner, outer, segments = f.ctrl.Ring()
	assert.Equal(t, f.cfg.Cursor.RingInner, inner)
	assert.Equal(t, f.cfg.Cursor.RingOuter, outer)
	assert.Equal(t, f.cfg.Cursor.RingSegments, segments)
}

func TestSwitchingMarkersExitsFirst(t *testing.T) {
	f := newFixture(t, config.HoverInteractive, nil)

	f.ctrl.Positioning(overA)
	f.ctrl.Positioning(overB)

	assert.Equal(t, []hintCall{
		{"Alexandria", true},
		{"Alexandria", false},
		{"Babylon", true},
	}, f.text.hints)
	assert.Same(t, f.marker("Babylon"), f.ctrl.Hovered())
	assert.False(t, f.marker("Alexandria").Hovered())
}

func TestClickSelectsAndLocks(t *testing.T) {
	f := newFixture(t, config.HoverInteractive, nil)
	a := f.marker("Alexandria")

	f.ctrl.Positioning(overA)
	f.ctrl.Click()

	assert.True(t, a.Selected())
	assert.Same(t, a, f.ctrl.Selected())
	assert.Equal(t, []zoomCall{{0.5, 0.5, f.cfg.Map.ZoomedScale}}, f.surf.zooms)
	assert.Nil(t, f.ctrl.Hovered(), "selection forces an exit")
	assert.True(t, f.ctrl.Locked())

	f.sched.Advance(f.cfg.Map.ZoomDuration - frame)
	assert.True(t, f.ctrl.Locked())
	f.sched.Advance(frame)
	assert.False(t, f.ctrl.Locked())
	assert.Len(t, f.surf.zooms, 1)
}

func TestClickIgnoredWhileLocked(t *testing.T) {
	f := newFixture(t, config.HoverInteractive, nil)

	f.ctrl.Positioning(overA)
	f.ctrl.Click()
	f.ctrl.Positioning(overA)
	assert.Nil(t, f.ctrl.Hovered(), "enter is suppressed while locked")

	f.ctrl.Click()
	assert.Len(t, f.surf.zooms, 1)
	assert.Equal(t, 0, f.surf.zoomOuts)
	assert.True(t, f.marker("Alexandria").Selected())
}

func TestClickSelectedMarkerDeselects(t *testing.T) {
	f := newFixture(t, config.HoverInteractive, nil)
	a := f.marker("Alexandria")

	f.ctrl.Positioning(overA)
	f.ctrl.Click()
	f.run(f.cfg.Map.ZoomDuration + frame)
	require.False(t, f.ctrl.Locked())
	assert.InDelta(t, f.cfg.Map.ZoomedScale, f.surf.CurrentScale(), 1e-3)

	f.ctrl.Positioning(overA)
	require.Same(t, a, f.ctrl.Hovered(), "selected marker stays hoverable")
	f.ctrl.Click()

	assert.False(t, a.Selected())
	assert.Nil(t, f.ctrl.Selected())
	assert.Equal(t, 1, f.surf.zoomOuts)
	assert.True(t, f.ctrl.Locked())

	f.run(f.cfg.Map.ZoomDuration + frame)
	assert.Equal(t, math.Vec2{X: 1, Y: 1}, f.surf.Repeat())
	assert.Equal(t, math.Vec2{}, f.surf.Offset())
}

func TestSelectingAnotherMarkerDeselectsFirst(t *testing.T) {
	scripted := &scriptedMarkers{}
	f := newFixture(t, config.HoverInteractive, scripted)
	a, b := f.marker("Alexandria"), f.marker("Babylon")

	scripted.next = a
	f.ctrl.Positioning(overA)
	f.ctrl.Click()
	f.run(f.cfg.Map.ZoomDuration + frame)

	scripted.next = b
	f.ctrl.Positioning(overB)
	require.Same(t, b, f.ctrl.Hovered())
	f.ctrl.Click()

	assert.False(t, a.Selected())
	assert.True(t, b.Selected())
	assert.Same(t, b, f.ctrl.Selected())

	selected := 0
	for _, m := range f.reg.Markers() {
		if m.Selected() {
			selected++
		}
	}
	assert.Equal(t, 1, selected)
	assert.Equal(t, []zoomCall{{0.5, 0.5, 10}, {0.6, 0.5, 10}}, f.surf.zooms)
}

func TestSuppressedPolicy(t *testing.T) {
	f := newFixture(t, config.HoverSuppressed, nil)
	a := f.marker("Alexandria")

	f.ctrl.Positioning(overA)
	f.ctrl.Click()
	f.run(f.cfg.Map.ZoomDuration + frame)

	f.ctrl.Positioning(overA)
	assert.Nil(t, f.ctrl.Hovered(), "markers ignored while a selection exists")

	f.ctrl.Positioning(empty)
	f.ctrl.Click()
	assert.False(t, a.Selected())
	assert.Nil(t, f.ctrl.Selected())
	assert.Equal(t, 1, f.surf.zoomOuts)

	f.run(f.cfg.Map.ZoomDuration + frame)
	f.ctrl.Positioning(overA)
	assert.Same(t, a, f.ctrl.Hovered())
}

func TestInteractiveClickOnEmptyKeepsSelection(t *testing.T) {
	f := newFixture(t, config.HoverInteractive, nil)

	f.ctrl.Positioning(overA)
	f.ctrl.Click()
	f.run(f.cfg.Map.ZoomDuration + frame)

	f.ctrl.Positioning(empty)
	f.ctrl.Click()
	assert.NotNil(t, f.ctrl.Selected())
	assert.Equal(t, 0, f.surf.zoomOuts)
}

func TestDeselect(t *testing.T) {
	f := newFixture(t, config.HoverInteractive, nil)
	assert.False(t, f.ctrl.Deselect(), "nothing selected")

	f.ctrl.Positioning(overA)
	f.ctrl.Click()
	assert.False(t, f.ctrl.Deselect(), "locked")

	f.run(f.cfg.Map.ZoomDuration + frame)
	assert.True(t, f.ctrl.Deselect())
	assert.Nil(t, f.ctrl.Selected())
	assert.False(t, f.marker("Alexandria").Selected())
}

func TestLockRestarts(t *testing.T) {
	f := newFixture(t, config.HoverInteractive, nil)
	timers := f.sched.Group(tween.TimersGroup)

	f.ctrl.lock()
	f.sched.Advance(time.Second)
	f.ctrl.lock()
	assert.Equal(t, 1, timers.Len(), "one pending release")

	f.sched.Advance(f.cfg.Map.ZoomDuration - frame)
	assert.True(t, f.ctrl.Locked())
	f.sched.Advance(frame)
	assert.False(t, f.ctrl.Locked())
}

func TestCursorMagnetizes(t *testing.T) {
	f := newFixture(t, config.HoverInteractive, nil)
	a := f.marker("Alexandria")

	f.ctrl.Positioning(overA)
	f.run(5 * time.Second)

	want := f.ctrl.RawHit().Lerp(a.WorldPosition(), f.cfg.Cursor.Magnetization)
	assert.True(t, f.ctrl.Position().ApproxEqual(want, 1e-3), "got %v want %v", f.ctrl.Position(), want)

	light := f.ctrl.Light()
	assert.InDelta(t, f.ctrl.RawHit().X, light.Position.X, 1e-6)
	assert.InDelta(t, lightHeight, light.Position.Z, 1e-6)
}

func TestReleasedMagnetDecaysFromLastMarker(t *testing.T) {
	f := newFixture(t, config.HoverInteractive, nil)
	a := f.marker("Alexandria")

	f.ctrl.Positioning(overA)
	f.run(time.Second)
	f.ctrl.Positioning(empty)
	assert.Equal(t, a.WorldPosition(), f.ctrl.lastHoveredPos)

	f.run(5 * time.Second)
	assert.True(t, f.ctrl.Position().ApproxEqual(f.ctrl.RawHit(), 1e-3))
}

func TestGuidesStopShortOfRing(t *testing.T) {
	f := newFixture(t, config.HoverInteractive, nil)

	f.ctrl.Positioning(empty)
	f.run(5 * time.Second)

	pos := f.ctrl.Position()
	_, outer, _ := f.ctrl.Ring()
	gap := outer + f.cfg.Cursor.GuideMargin

	lines := f.ctrl.horizontal.Geometry.Lines
	require.NotEmpty(t, lines)
	for _, p := range lines {
		assert.False(t, p.X > pos.X-gap+1e-4 && p.X < pos.X+gap-1e-4, "horizontal endpoint %v inside ring", p)
	}
	for _, p := range f.ctrl.vertical.Geometry.Lines {
		assert.False(t, p.Y > pos.Y-gap+1e-4 && p.Y < pos.Y+gap-1e-4, "vertical endpoint %v inside ring", p)
	}
}

func TestSetViewportIgnoresEmpty(t *testing.T) {
	f := newFixture(t, config.HoverInteractive, nil)
	f.ctrl.SetViewport(0, 0)
	assert.Equal(t, math.Vec2{X: 800, Y: 400}, f.ctrl.viewport)
}
