// Package globe wires the map surface, the markers and the magnetic cursor
// into the interactive wonder map and drives them frame by frame.
package globe

import (
	"context"
	"math/rand"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/wondermap/internal/assets"
	"github.com/Faultbox/wondermap/internal/config"
	"github.com/Faultbox/wondermap/internal/engine/camera"
	"github.com/Faultbox/wondermap/internal/engine/heightfield"
	"github.com/Faultbox/wondermap/internal/engine/lighting"
	"github.com/Faultbox/wondermap/internal/engine/scene"
	"github.com/Faultbox/wondermap/internal/engine/terrain"
	"github.com/Faultbox/wondermap/internal/engine/tween"
	"github.com/Faultbox/wondermap/internal/globe/cursor"
	"github.com/Faultbox/wondermap/internal/globe/marker"
	"github.com/Faultbox/wondermap/internal/globe/surface"
	"github.com/Faultbox/wondermap/internal/globe/ui"
	"github.com/Faultbox/wondermap/internal/logger"
	"github.com/Faultbox/wondermap/pkg/math"
)

// Heading is the page title restyled when a wonder is selected.
const Heading = "Wonders of the World"

// Scene constants.
const (
	starSpread     = 25
	starMinRadius  = 5
	mapOpacity     = 0.6
	keyLightPower  = 1.5
	heightfieldRes = 256
)

var (
	starColor     = math.Splat(float32(0x50) / 255)
	keyLightPlace = math.Vec3{X: 0, Y: 5, Z: 10}
)

// WorldDeps are the world's outside collaborators. All are optional.
type WorldDeps struct {
	Pointer cursor.PointerStyler
	Client  *http.Client
	Sink    ui.Sink
	Field   *heightfield.Field
	// FeedSource is where the marker feed came from; relative content URLs
	// resolve against it.
	FeedSource string
}

// World is the viewer without a window: everything the frame loop updates.
type World struct {
	cfg *config.Config

	sched   *tween.Scheduler
	surface *surface.Surface
	markers *marker.Registry
	cursor  *cursor.Controller
	text    *ui.Typewriter
	loader  *assets.Loader
	camera  *camera.OrbitCamera

	root     *scene.Node
	mapNode  *scene.Node
	stars    *scene.Node
	mapMesh  *terrain.Mesh
	keyLight lighting.PointLight

	feedSource string
	pointer    math.Vec2
	log        *zap.Logger
}

// NewWorld builds the scene for the given markers.
func NewWorld(cfg *config.Config, records []marker.Record, deps WorldDeps) *World {
	w := &World{
		cfg:        cfg,
		sched:      tween.NewScheduler(),
		loader:     assets.NewLoader(deps.Client),
		camera:     camera.NewOrbitCamera(cfg.Camera, float32(cfg.Graphics.Width)/float32(cfg.Graphics.Height)),
		feedSource: deps.FeedSource,
		log:        logger.Named("globe"),
	}

	field := deps.Field
	if field == nil {
		field = heightfield.Perlin(cfg.Data.NoiseSeed, heightfieldRes, heightfieldRes/2, 4)
	}
	w.text = ui.NewTypewriter(w.sched, deps.Sink, cfg.Data.NoiseSeed)
	w.surface = surface.New(cfg.Map, w.sched, field)
	w.markers = marker.NewRegistry(records, marker.Deps{
		Scheduler: w.sched,
		Text:      w.text,
		Markers:   cfg.Markers,
		Map:       cfg.Map,
		Heading:   Heading,
	})
	view := w.surface.View()
	w.markers.PlaceOnSurface(view)
	w.markers.Place(view)
	w.surface.OnChange(w.markers.Place)

	w.cursor = cursor.New(cursor.Deps{
		Camera:      w.camera,
		Surface:     w.surface,
		Markers:     w.markers,
		Pointer:     deps.Pointer,
		Scheduler:   w.sched,
		Cursor:      cfg.Cursor,
		Map:         cfg.Map,
		Interaction: cfg.Interaction,
	})

	w.keyLight = lighting.NewPointLight(keyLightPower, 0)
	w.keyLight.Position = keyLightPlace

	w.buildScene()
	w.Resize(cfg.Graphics.Width, cfg.Graphics.Height)
	return w
}

func (w *World) buildScene() {
	w.root = scene.NewNode("world")

	w.stars = scene.NewNode("stars")
	rng := rand.New(rand.NewSource(w.cfg.Data.NoiseSeed))
	w.stars.Geometry = scene.StarField(rng, w.cfg.Graphics.Stars, starSpread, starMinRadius)
	w.stars.Material.Color = starColor

	w.mapNode = scene.NewNode("map")
	w.mapNode.Geometry = &scene.Geometry{}
	w.mapNode.Material.Opacity = mapOpacity
	w.refreshMap()

	w.root.Add(w.stars)
	w.root.Add(w.mapNode)
	w.root.Add(w.markers.Root())
	w.root.Add(w.cursor.Root())
}

// Frame runs one frame: asynchronous completions, then every animation,
// then the cursor, then derived geometry.
func (w *World) Frame(dt time.Duration) {
	w.loader.Pump()
	w.sched.Advance(dt)
	w.cursor.Update(dt)
	w.refreshMap()
}

// refreshMap regenerates the wireframe when the surface mesh was rebuilt.
func (w *World) refreshMap() {
	mesh := w.surface.Mesh()
	if mesh == w.mapMesh {
		return
	}
	w.mapMesh = mesh
	w.mapNode.Geometry.Lines = mesh.GridLines(1)
	w.mapNode.Geometry.Bounds = mesh.Bounds
}

// LoadContent starts fetching every marker's content asset.
func (w *World) LoadContent(ctx context.Context) {
	for _, m := range w.markers.Markers() {
		src := m.Record().ContentURL
		if src == "" {
			continue
		}
		src = resolveSource(w.feedSource, src)
		w.loader.Load(ctx, src,
			func(fraction float32) {
				w.log.Debug("content progress", zap.String("marker", m.Title()), zap.Float32("fraction", fraction))
			},
			func(asset *assets.Asset, err error) {
				if err != nil {
					w.markers.FailContent(m, err)
					return
				}
				node, err := ContentNode(asset)
				if err != nil {
					w.markers.FailContent(m, err)
					return
				}
				w.markers.AttachContent(m, node)
			})
	}
}

// PointerMoved raycasts the pointer at window coordinates.
func (w *World) PointerMoved(x, y int) {
	w.pointer = math.Vec2{X: float32(x), Y: float32(y)}
	w.cursor.Positioning(w.pointer)
}

// Click forwards a primary click to the cursor.
func (w *World) Click() {
	w.cursor.Click()
}

// Orbit rotates the camera by a drag in pixels and re-aims the cursor.
func (w *World) Orbit(dx, dy int) {
	w.camera.HandleDrag(float32(dx), float32(dy))
	w.cursor.Positioning(w.pointer)
}

// Dolly moves the camera by wheel steps and re-aims the cursor.
func (w *World) Dolly(steps int) {
	w.camera.HandleZoom(float32(steps))
	w.cursor.Positioning(w.pointer)
}

// Resize updates everything that depends on the window size in screen
// coordinates.
func (w *World) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	w.camera.SetAspect(width, height)
	w.cursor.SetViewport(width, height)
	w.text.SetViewport(float32(width), float32(height))
}

// Root returns the scene root.
func (w *World) Root() *scene.Node { return w.root }

// Camera returns the orbit camera.
func (w *World) Camera() *camera.OrbitCamera { return w.camera }

// Lights returns the key light and the cursor light.
func (w *World) Lights() []lighting.PointLight {
	return []lighting.PointLight{w.keyLight, w.cursor.Light()}
}

// Surface returns the map surface.
func (w *World) Surface() *surface.Surface { return w.surface }

// Markers returns the marker registry.
func (w *World) Markers() *marker.Registry { return w.markers }

// Cursor returns the cursor controller.
func (w *World) Cursor() *cursor.Controller { return w.cursor }

// Text returns the typewriter.
func (w *World) Text() *ui.Typewriter { return w.text }

// Loader returns the content loader.
func (w *World) Loader() *assets.Loader { return w.loader }

// Scheduler returns the animation scheduler.
func (w *World) Scheduler() *tween.Scheduler { return w.sched }
