package globe

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/wondermap/internal/config"
	"github.com/Faultbox/wondermap/internal/engine/heightfield"
	"github.com/Faultbox/wondermap/internal/engine/input"
	"github.com/Faultbox/wondermap/internal/engine/renderer"
	"github.com/Faultbox/wondermap/internal/engine/window"
	"github.com/Faultbox/wondermap/internal/globe/cursor"
	"github.com/Faultbox/wondermap/internal/globe/marker"
	"github.com/Faultbox/wondermap/internal/globe/ui"
	"github.com/Faultbox/wondermap/internal/logger"
	"github.com/Faultbox/wondermap/pkg/math"
)

const (
	windowTitle = "Wonder Map"
	pointSize   = 2
	maxFrame    = 100 * time.Millisecond
)

var background = math.Splat(float32(0x10) / 255)

// App is the windowed viewer.
type App struct {
	cfg      *config.Config
	running  bool
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	world    *World

	cancel context.CancelFunc

	title  string
	wonder string
	log    *zap.Logger
}

type windowPointer struct {
	w *window.Window
}

func (p windowPointer) SetPointer(style cursor.PointerStyle) {
	p.w.SetHandPointer(style == cursor.PointerHand)
}

// New opens the window, loads the marker feed and the relief and builds the
// world. A feed that cannot be loaded leaves the map without markers.
func New(cfg *config.Config) (*App, error) {
	a := &App{
		cfg: cfg,
		log: logger.Named("app"),
	}

	var err error
	a.window, err = window.New(window.FromGraphics(windowTitle, cfg.Graphics))
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	fbWidth, fbHeight := a.window.DrawableSize()
	a.renderer, err = renderer.New(renderer.Config{
		Width:      fbWidth,
		Height:     fbHeight,
		Background: background,
		PointSize:  pointSize,
	})
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	a.input = input.New(cfg.Cursor.ClickSlop)

	client := &http.Client{Timeout: cfg.Data.FetchTimeout}
	records := a.loadFeed(client)

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.world = NewWorld(cfg, records, WorldDeps{
		Pointer:    windowPointer{a.window},
		Client:     client,
		Sink:       a.onText,
		Field:      a.loadRelief(),
		FeedSource: cfg.Data.MarkersFeed,
	})
	width, height := a.window.GetSize()
	a.world.Resize(width, height)
	a.world.LoadContent(ctx)

	a.log.Info("viewer initialized", zap.Int("markers", a.world.Markers().Len()))
	return a, nil
}

func (a *App) loadFeed(client *http.Client) []marker.Record {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Data.FetchTimeout)
	defer cancel()

	records, err := marker.LoadFeed(ctx, a.cfg.Data.MarkersFeed, client)
	if err != nil {
		a.log.Error("marker feed unavailable, continuing without markers",
			zap.String("source", a.cfg.Data.MarkersFeed),
			zap.Error(err))
		return nil
	}
	return records
}

func (a *App) loadRelief() *heightfield.Field {
	path := a.cfg.Data.Heightmap
	if path == "" {
		return nil
	}
	field, err := heightfield.Load(path, heightfieldRes, heightfieldRes/2)
	if err != nil {
		a.log.Warn("height map unavailable, using procedural relief", zap.String("path", path), zap.Error(err))
		return nil
	}
	return field
}

// onText mirrors the typewriter into the window title and the log.
func (a *App) onText(field ui.Field, text string) {
	switch field {
	case ui.FieldTitle:
		a.title = text
	case ui.FieldWonderName:
		a.wonder = text
	case ui.FieldHint:
		if text != "" {
			a.log.Debug("hint", zap.String("text", text))
		}
		return
	}
	title := a.title
	if a.wonder != "" {
		title += " | " + a.wonder
	}
	if title == "" {
		title = windowTitle
	}
	a.window.SetTitle(title)
}

// Run starts the main loop.
func (a *App) Run() error {
	a.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	a.log.Info("starting main loop")

	for a.running {
		now := time.Now()
		dt := now.Sub(lastTime)
		lastTime = now
		if dt > maxFrame {
			dt = maxFrame
		}

		// 1. Pointer and window events
		if a.input.Update() {
			a.running = false
			break
		}
		a.handleEvents()

		// 2. Animations, cursor, derived geometry
		a.world.Frame(dt)

		// 3. Render
		a.render()
		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			calls, verts := a.renderer.Stats()
			a.log.Debug("fps",
				zap.Int("count", frameCount),
				zap.Duration("dt", dt),
				zap.Int("draw_calls", calls),
				zap.Int("vertices", verts))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (a *App) handleEvents() {
	for _, event := range a.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			a.world.Resize(event.Width, event.Height)
			a.renderer.Resize(a.window.DrawableSize())
		case input.EventKeyDown:
			if event.Key == sdl.SCANCODE_ESCAPE {
				a.running = false
			}
		case input.EventMouseMove:
			a.world.PointerMoved(event.MouseX, event.MouseY)
		case input.EventDrag:
			a.world.Orbit(event.DeltaX, event.DeltaY)
		case input.EventMouseWheel:
			a.world.Dolly(event.DeltaY)
		case input.EventClick:
			a.world.Click()
		}
	}
}

func (a *App) render() {
	a.renderer.Begin(a.world.Camera().ViewProjection(), a.world.Lights()...)
	a.renderer.DrawNode(a.world.Root())
	a.renderer.End()
}

// Close stops pending loads and releases the window.
func (a *App) Close() {
	a.log.Info("closing viewer")

	if a.cancel != nil {
		a.cancel()
	}
	if a.world != nil {
		a.world.Loader().Drain()
	}
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}
