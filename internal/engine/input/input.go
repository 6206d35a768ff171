// Package input handles SDL2 input events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/flyview/internal/engine/controls"
)

// EventType classifies a processed event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int
	Height int
	XRel   int
	YRel   int
}

// DefaultBindings maps each action to its key.
func DefaultBindings() map[controls.Action]sdl.Scancode {
	return map[controls.Action]sdl.Scancode{
		controls.MoveForward:  sdl.SCANCODE_W,
		controls.MoveBackward: sdl.SCANCODE_S,
		controls.MoveLeft:     sdl.SCANCODE_A,
		controls.MoveRight:    sdl.SCANCODE_D,
		controls.MoveUp:       sdl.SCANCODE_SPACE,
		controls.ZoomIn:       sdl.SCANCODE_Q,
		controls.ZoomOut:      sdl.SCANCODE_E,
		controls.Quit:         sdl.SCANCODE_ESCAPE,
	}
}

// Input handles all input processing.
type Input struct {
	events   []Event
	keys     []uint8
	bindings map[controls.Action]sdl.Scancode

	// Virtual cursor, accumulated from relative motion so it keeps moving
	// while the pointer is captured.
	cursorX float64
	cursorY float64
}

// New creates a new input handler with the default bindings.
func New() *Input {
	return &Input{
		events:   make([]Event, 0, 16),
		bindings: DefaultBindings(),
	}
}

// Bind maps action to scancode, replacing any previous key.
func (i *Input) Bind(action controls.Action, scancode sdl.Scancode) {
	i.bindings[action] = scancode
}

// Update polls SDL events and refreshes the keyboard state.
// Returns true if the window was asked to close.
func (i *Input) Update() bool {
	i.events = i.events[:0]
	quit := false

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			quit = true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED {
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			if e.Repeat != 0 {
				continue
			}
			if e.Type == sdl.KEYDOWN {
				i.events = append(i.events, Event{Type: EventKeyDown, Key: e.Keysym.Scancode})
			} else if e.Type == sdl.KEYUP {
				i.events = append(i.events, Event{Type: EventKeyUp, Key: e.Keysym.Scancode})
			}

		case *sdl.MouseMotionEvent:
			i.cursorX += float64(e.XRel)
			i.cursorY += float64(e.YRel)
			i.events = append(i.events, Event{
				Type: EventMouseMove,
				XRel: int(e.XRel),
				YRel: int(e.YRel),
			})
		}
	}

	i.keys = sdl.GetKeyboardState()
	return quit
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// Held reports whether the key bound to action is down.
func (i *Input) Held(action controls.Action) bool {
	sc, ok := i.bindings[action]
	if !ok || int(sc) >= len(i.keys) {
		return false
	}
	return i.keys[sc] != 0
}

// Cursor returns the virtual cursor position.
func (i *Input) Cursor() (x, y float64) {
	return i.cursorX, i.cursorY
}

// IsKeyPressed checks if a specific key went down this frame.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode {
			return true
		}
	}
	return false
}
