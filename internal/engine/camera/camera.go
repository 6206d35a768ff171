// Package camera provides a free-flying perspective camera with quaternion orientation.
package camera

import (
	"errors"
	"fmt"

	"github.com/Faultbox/flyview/pkg/math"
)

var (
	ErrZeroAspect            = errors.New("viewport width and height must be positive")
	ErrInvalidClip           = errors.New("clip planes must satisfy 0 < near < far")
	ErrDegenerateOrientation = errors.New("look direction is zero or parallel to world up")
)

// Lens and control defaults.
const (
	DefaultFOV  = 60.0
	DefaultNear = 0.1
	DefaultFar  = 1000.0

	MinFOV = 0.1
	MaxFOV = 180.0
)

var (
	// localForward is the direction the camera looks along in its own space.
	localForward = math.Vec3{X: 0, Y: 0, Z: -1}

	// mouseSensitivity scales cursor deltas to degrees: X drives yaw, Y drives pitch.
	mouseSensitivity = math.Vec2{X: 0.05, Y: 0.08}
)

// parallelEpsilon bounds |forward x up| below which a look direction counts as vertical.
const parallelEpsilon = 1e-6

// Camera is a 6-DOF viewpoint. Orientation rotates world space into camera
// space. Every mutator leaves View, Projection and ViewProjection consistent
// with the latest pose and lens values.
//
// A Camera is not safe for concurrent use.
type Camera struct {
	position    math.Vec3
	orientation math.Quat

	fov       float32 // vertical, degrees
	near, far float32

	width, height uint32 // viewport; zero until SetPerspective succeeds

	cursorLast math.Vec2

	projection     math.Mat4
	view           math.Mat4
	viewProjection math.Mat4
}

// New creates a camera at the origin looking down -Z. cursorX and cursorY seed
// the last-seen cursor position so the first UpdateCursor only reacts to
// actual motion.
func New(cursorX, cursorY float64) *Camera {
	c := &Camera{
		orientation: math.QuatIdentity(),
		fov:         DefaultFOV,
		near:        DefaultNear,
		far:         DefaultFar,
		cursorLast:  math.Vec2{X: float32(cursorX), Y: float32(cursorY)},
		projection:  math.Identity(),
	}
	c.update()
	return c
}

// SetPerspective sets the viewport size and clip planes and rebuilds the
// projection from the current field of view.
func (c *Camera) SetPerspective(width, height uint32, near, far float32) error {
	if width == 0 || height == 0 {
		return fmt.Errorf("%w: got %dx%d", ErrZeroAspect, width, height)
	}
	if near <= 0 || far <= near {
		return fmt.Errorf("%w: near=%g far=%g", ErrInvalidClip, near, far)
	}

	c.width, c.height = width, height
	c.near, c.far = near, far
	c.updateProjection()
	c.update()
	return nil
}

// LookAt orients the camera toward target, keeping world up as the up hint.
// On ErrDegenerateOrientation the camera is left unchanged.
func (c *Camera) LookAt(target math.Vec3) error {
	q, err := lookRotation(c.position, target)
	if err != nil {
		return err
	}
	c.orientation = q
	c.update()
	return nil
}

// MoveAndLookAt places the camera at position and orients it toward target.
// On ErrDegenerateOrientation the camera is left unchanged.
func (c *Camera) MoveAndLookAt(position, target math.Vec3) error {
	q, err := lookRotation(position, target)
	if err != nil {
		return err
	}
	c.position = position
	c.orientation = q
	c.update()
	return nil
}

// LookAround applies an incremental pitch (about local X) and yaw (about world Y),
// in degrees. The composition is pitch * orientation * yaw: yaw accumulates in
// world space and pitch in camera space, so repeated mouse-look never rolls.
func (c *Camera) LookAround(pitch, yaw float32) {
	qPitch := math.QuatFromAxisAngle(math.Vec3{X: 1}, math.Radians(pitch))
	qYaw := math.QuatFromAxisAngle(math.Vec3{Y: 1}, math.Radians(yaw))

	c.orientation = qPitch.Mul(c.orientation).Mul(qYaw).Normalize()
	c.update()
}

// UpdateCursor turns the camera by the cursor motion since the last call.
// The delta is last minus new, scaled per axis by mouseSensitivity; X feeds
// yaw and Y feeds pitch. Calling it again with the same coordinates is a no-op
// rotation.
func (c *Camera) UpdateCursor(x, y float64) {
	cursor := math.Vec2{X: float32(x), Y: float32(y)}
	if cursor == c.cursorLast {
		return
	}
	delta := c.cursorLast.Sub(cursor).Mul(mouseSensitivity)

	c.LookAround(delta.Y, delta.X)

	c.cursorLast = cursor
}

// SetPosition moves the camera without changing its orientation.
func (c *Camera) SetPosition(p math.Vec3) {
	c.position = p
	c.update()
}

// MoveForward moves along the viewing direction.
func (c *Camera) MoveForward(speed float32) {
	c.position = c.position.Add(c.Forward().Scale(speed))
	c.update()
}

// MoveBackward moves against the viewing direction.
func (c *Camera) MoveBackward(speed float32) {
	c.position = c.position.Sub(c.Forward().Scale(speed))
	c.update()
}

// MoveLeft strafes left.
func (c *Camera) MoveLeft(speed float32) {
	c.position = c.position.Sub(c.Right().Scale(speed))
	c.update()
}

// MoveRight strafes right.
func (c *Camera) MoveRight(speed float32) {
	c.position = c.position.Add(c.Right().Scale(speed))
	c.update()
}

// MoveUp moves along world up regardless of orientation.
func (c *Camera) MoveUp(speed float32) {
	c.position = c.position.Add(math.Up.Scale(speed))
	c.update()
}

// MoveDown moves against world up regardless of orientation.
func (c *Camera) MoveDown(speed float32) {
	c.position = c.position.Sub(math.Up.Scale(speed))
	c.update()
}

// ZoomIn widens the field of view by speed degrees, up to MaxFOV.
func (c *Camera) ZoomIn(speed float32) {
	c.SetFOV(c.fov + speed)
}

// ZoomOut narrows the field of view by speed degrees, down to MinFOV.
func (c *Camera) ZoomOut(speed float32) {
	c.SetFOV(c.fov - speed)
}

// SetFOV sets the vertical field of view in degrees, clamped to [MinFOV, MaxFOV].
func (c *Camera) SetFOV(fov float32) {
	switch {
	case fov > MaxFOV:
		fov = MaxFOV
	case fov < MinFOV:
		fov = MinFOV
	}
	c.fov = fov
	c.updateProjection()
	c.update()
}

// Forward returns the world-space viewing direction.
func (c *Camera) Forward() math.Vec3 {
	return c.orientation.Conjugate().Rotate(localForward)
}

// Right returns forward x world up. Its length shrinks as the view approaches vertical.
func (c *Camera) Right() math.Vec3 {
	return c.Forward().Cross(math.Up)
}

// Projection returns the projection matrix (column-major).
func (c *Camera) Projection() math.Mat4 { return c.projection }

// View returns the view matrix (column-major).
func (c *Camera) View() math.Mat4 { return c.view }

// ViewProjection returns Projection * View.
func (c *Camera) ViewProjection() math.Mat4 { return c.viewProjection }

// Position returns the world-space position.
func (c *Camera) Position() math.Vec3 { return c.position }

// Orientation returns the world-to-camera rotation.
func (c *Camera) Orientation() math.Quat { return c.orientation }

// FOV returns the vertical field of view in degrees.
func (c *Camera) FOV() float32 { return c.fov }

// Near returns the near clip distance.
func (c *Camera) Near() float32 { return c.near }

// Far returns the far clip distance.
func (c *Camera) Far() float32 { return c.far }

// Viewport returns the size passed to the last successful SetPerspective.
func (c *Camera) Viewport() (width, height uint32) { return c.width, c.height }

// updateProjection rebuilds the projection. Before a viewport is known the
// projection stays at identity.
func (c *Camera) updateProjection() {
	if c.width == 0 || c.height == 0 {
		return
	}
	aspect := float32(c.width) / float32(c.height)
	c.projection = math.Perspective(math.Radians(c.fov), aspect, c.near, c.far)
}

// update derives the view matrices. Translation applies first, moving the
// world so the camera sits at the origin, then the rotation.
func (c *Camera) update() {
	translation := math.TranslateVec(c.position.Negate())
	rotation := c.orientation.ToMat4()

	c.view = rotation.Mul(translation)
	c.viewProjection = c.projection.Mul(c.view)
}

// lookRotation returns the world-to-camera rotation of a view from eye to target.
func lookRotation(eye, target math.Vec3) (math.Quat, error) {
	dir := target.Sub(eye)
	if dir.Length() == 0 {
		return math.Quat{}, fmt.Errorf("%w: target equals position %v", ErrDegenerateOrientation, eye)
	}
	if dir.Normalize().Cross(math.Up).Length() < parallelEpsilon {
		return math.Quat{}, fmt.Errorf("%w: direction %v", ErrDegenerateOrientation, dir)
	}

	view := math.LookAt(eye, target, math.Up)
	return math.QuatFromMat4(view).Normalize(), nil
}
