// Package controls maps held input actions to camera movement each frame.
package controls

// Action is a logical input the viewer reacts to.
type Action int

const (
	MoveForward Action = iota
	MoveBackward
	MoveLeft
	MoveRight
	MoveUp
	ZoomIn
	ZoomOut
	Quit
	actionCount
)

var actionNames = [actionCount]string{
	MoveForward:  "move_forward",
	MoveBackward: "move_backward",
	MoveLeft:     "move_left",
	MoveRight:    "move_right",
	MoveUp:       "move_up",
	ZoomIn:       "zoom_in",
	ZoomOut:      "zoom_out",
	Quit:         "quit",
}

func (a Action) String() string {
	if a < 0 || a >= actionCount {
		return "unknown"
	}
	return actionNames[a]
}

// Actions returns every action in declaration order.
func Actions() []Action {
	out := make([]Action, actionCount)
	for i := range out {
		out[i] = Action(i)
	}
	return out
}

// Camera is the subset of camera operations driven by controls.
type Camera interface {
	MoveForward(speed float32)
	MoveBackward(speed float32)
	MoveLeft(speed float32)
	MoveRight(speed float32)
	MoveUp(speed float32)
	ZoomIn(speed float32)
	ZoomOut(speed float32)
}

// Controls holds per-second speeds.
type Controls struct {
	MoveSpeed float32 // world units per second
	ZoomSpeed float32 // degrees of field of view per second
}

// Default returns the stock speeds: 10 units/s and 100 degrees/s.
func Default() Controls {
	return Controls{MoveSpeed: 10, ZoomSpeed: 100}
}

// Apply moves cam for every held action, scaled by the frame time dt in
// seconds. It reports whether Quit is held.
func (c Controls) Apply(cam Camera, held func(Action) bool, dt float32) (quit bool) {
	if held(Quit) {
		return true
	}

	move := c.MoveSpeed * dt
	if held(MoveForward) {
		cam.MoveForward(move)
	}
	if held(MoveBackward) {
		cam.MoveBackward(move)
	}
	if held(MoveRight) {
		cam.MoveRight(move)
	}
	if held(MoveLeft) {
		cam.MoveLeft(move)
	}
	if held(MoveUp) {
		cam.MoveUp(move)
	}

	zoom := c.ZoomSpeed * dt
	if held(ZoomIn) {
		cam.ZoomIn(zoom)
	}
	if held(ZoomOut) {
		cam.ZoomOut(zoom)
	}
	return false
}
