// Package input handles SDL2 input events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType identifies a processed event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
	EventClick
	EventDrag
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int
	Height int
	MouseX int
	MouseY int
	DeltaX int // Drag motion, or wheel steps
	DeltaY int
	Button uint8
}

// Input handles all input processing.
type Input struct {
	events []Event
	clicks *ClickTracker
}

// New creates a new input handler. Presses that travel farther than slop
// pixels become drags instead of clicks.
func New(slop int) *Input {
	return &Input{
		events: make([]Event, 0, 16),
		clicks: NewClickTracker(slop),
	}
}

// Update polls SDL events and converts them to viewer events.
// Returns true if the viewer should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			return true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			if e.Type == sdl.KEYDOWN && e.Repeat == 0 {
				i.events = append(i.events, Event{
					Type: EventKeyDown,
					Key:  e.Keysym.Scancode,
				})
			}

		case *sdl.MouseMotionEvent:
			x, y := int(e.X), int(e.Y)
			i.events = append(i.events, Event{Type: EventMouseMove, MouseX: x, MouseY: y})
			if dx, dy, ok := i.clicks.Move(x, y); ok {
				i.events = append(i.events, Event{Type: EventDrag, MouseX: x, MouseY: y, DeltaX: dx, DeltaY: dy})
			}

		case *sdl.MouseButtonEvent:
			x, y := int(e.X), int(e.Y)
			if e.Type == sdl.MOUSEBUTTONDOWN {
				i.events = append(i.events, Event{Type: EventMouseDown, MouseX: x, MouseY: y, Button: e.Button})
				if e.Button == sdl.BUTTON_LEFT {
					i.clicks.Down(x, y)
				}
			} else if e.Type == sdl.MOUSEBUTTONUP {
				i.events = append(i.events, Event{Type: EventMouseUp, MouseX: x, MouseY: y, Button: e.Button})
				if e.Button == sdl.BUTTON_LEFT && i.clicks.Up(x, y) {
					i.events = append(i.events, Event{Type: EventClick, MouseX: x, MouseY: y, Button: e.Button})
				}
			}

		case *sdl.MouseWheelEvent:
			i.events = append(i.events, Event{Type: EventMouseWheel, DeltaX: int(e.X), DeltaY: int(e.Y)})
		}
	}

	return false
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed checks if a specific key was pressed this frame.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode {
			return true
		}
	}
	return false
}
