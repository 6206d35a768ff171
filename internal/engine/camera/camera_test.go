package camera

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/flyview/pkg/math"
)

const eps = 1e-4

func requireMat4InDelta(t *testing.T, want [16]float32, got math.Mat4, delta float64) {
	t.Helper()
	for i := 0; i < 16; i++ {
		require.InDelta(t, want[i], got[i], delta, "element %d: want %v, got %v", i, want, got)
	}
}

func requireUnit(t *testing.T, c *Camera) {
	t.Helper()
	require.InDelta(t, 1.0, c.Orientation().Length(), 1e-5)
}

func newViewportCamera(t *testing.T) *Camera {
	t.Helper()
	c := New(0, 0)
	require.NoError(t, c.SetPerspective(1280, 1024, 0.1, 1000))
	return c
}

func TestNewDefaults(t *testing.T) {
	c := New(10, 20)

	assert.Equal(t, math.Vec3{}, c.Position())
	assert.Equal(t, math.QuatIdentity(), c.Orientation())
	assert.Equal(t, float32(DefaultFOV), c.FOV())
	assert.Equal(t, float32(DefaultNear), c.Near())
	assert.Equal(t, float32(DefaultFar), c.Far())
	assert.Equal(t, math.Identity(), c.Projection(), "projection stays identity until a viewport is set")
	assert.True(t, c.View().ApproxEqual(math.Identity(), 1e-6))
	assert.True(t, c.Forward().ApproxEqual(math.Vec3{Z: -1}, 1e-6))
}

func TestSetPerspectiveMatchesMathgl(t *testing.T) {
	c := New(0, 0)
	require.NoError(t, c.SetPerspective(1280, 720, 0.5, 200))

	want := mgl32.Perspective(mgl32.DegToRad(DefaultFOV), 1280.0/720.0, 0.5, 200)
	requireMat4InDelta(t, want, c.Projection(), eps)

	w, h := c.Viewport()
	assert.Equal(t, uint32(1280), w)
	assert.Equal(t, uint32(720), h)
	assert.Equal(t, float32(0.5), c.Near())
	assert.Equal(t, float32(200), c.Far())
}

func TestSetPerspectiveZeroAspect(t *testing.T) {
	c := newViewportCamera(t)
	before := c.Projection()

	err := c.SetPerspective(800, 0, 0.1, 100)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrZeroAspect))

	err = c.SetPerspective(0, 600, 0.1, 100)
	assert.ErrorIs(t, err, ErrZeroAspect)

	assert.Equal(t, before, c.Projection(), "failed call must not touch the projection")
}

func TestSetPerspectiveInvalidClip(t *testing.T) {
	c := New(0, 0)
	assert.ErrorIs(t, c.SetPerspective(800, 600, 0, 100), ErrInvalidClip)
	assert.ErrorIs(t, c.SetPerspective(800, 600, 10, 10), ErrInvalidClip)
	assert.ErrorIs(t, c.SetPerspective(800, 600, 10, 1), ErrInvalidClip)
}

func TestMoveAndLookAtMatchesMathgl(t *testing.T) {
	c := newViewportCamera(t)
	eye := math.Vec3{X: 12, Y: 18, Z: 12}
	require.NoError(t, c.MoveAndLookAt(eye, math.Vec3{}))

	want := mgl32.LookAtV(mgl32.Vec3{12, 18, 12}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})
	requireMat4InDelta(t, want, c.View(), eps)

	assert.Equal(t, eye, c.Position())
	assert.True(t, c.Forward().ApproxEqual(eye.Negate().Normalize(), eps), "forward %v", c.Forward())
	requireUnit(t, c)

	// The target sits straight ahead on -Z in view space.
	dist := eye.Length()
	got := c.View().TransformVec3(math.Vec3{})
	assert.True(t, got.ApproxEqual(math.Vec3{Z: -dist}, 1e-3), "target in view space %v", got)
}

func TestLookAtKeepsPosition(t *testing.T) {
	c := newViewportCamera(t)
	c.SetPosition(math.Vec3{X: 0, Y: 0, Z: 5})
	require.NoError(t, c.LookAt(math.Vec3{X: 5, Y: 0, Z: 5}))

	assert.Equal(t, math.Vec3{Z: 5}, c.Position())
	assert.True(t, c.Forward().ApproxEqual(math.Vec3{X: 1}, eps), "forward %v", c.Forward())
}

func TestLookAtDegenerate(t *testing.T) {
	c := newViewportCamera(t)
	require.NoError(t, c.MoveAndLookAt(math.Vec3{X: 1, Y: 2, Z: 3}, math.Vec3{}))
	orientation := c.Orientation()
	view := c.View()

	assert.ErrorIs(t, c.LookAt(c.Position()), ErrDegenerateOrientation)
	assert.ErrorIs(t, c.LookAt(c.Position().Add(math.Vec3{Y: 10})), ErrDegenerateOrientation)
	assert.ErrorIs(t, c.MoveAndLookAt(math.Vec3{Y: 5}, math.Vec3{}), ErrDegenerateOrientation)

	assert.Equal(t, orientation, c.Orientation())
	assert.Equal(t, view, c.View())
	assert.Equal(t, math.Vec3{X: 1, Y: 2, Z: 3}, c.Position(), "failed MoveAndLookAt must not move the camera")
}

func TestLookAroundCompositionOrder(t *testing.T) {
	c := newViewportCamera(t)
	require.NoError(t, c.MoveAndLookAt(math.Vec3{X: 3, Y: 4, Z: 5}, math.Vec3{}))
	start := c.Orientation()

	c.LookAround(10, 25)

	pitch := math.QuatFromAxisAngle(math.Vec3{X: 1}, math.Radians(10))
	yaw := math.QuatFromAxisAngle(math.Vec3{Y: 1}, math.Radians(25))
	want := pitch.Mul(start).Mul(yaw).Normalize()
	commuted := yaw.Mul(start).Mul(pitch).Normalize()

	got := c.Orientation()
	assert.InDelta(t, 1.0, got.Dot(want), 1e-6)
	assert.Less(t, float64(got.Dot(commuted)), 0.9999, "swapping operands must give a different rotation")
}

func TestLookAroundYawStaysLevel(t *testing.T) {
	c := newViewportCamera(t)
	for i := 0; i < 36; i++ {
		c.LookAround(0, 10)
	}
	// Pure yaw about world Y never tilts the forward axis.
	assert.InDelta(t, 0.0, c.Forward().Y, 1e-4)
	assert.True(t, c.Forward().ApproxEqual(math.Vec3{Z: -1}, 1e-3), "full turn, forward %v", c.Forward())
}

func TestUpdateCursor(t *testing.T) {
	c := newViewportCamera(t)
	c.UpdateCursor(0, 0)
	assert.Equal(t, math.QuatIdentity(), c.Orientation(), "zero delta must not rotate")

	// last - new = (-100, -50); yaw = -5 degrees, pitch = -4 degrees.
	c.UpdateCursor(100, 50)
	pitch := math.QuatFromAxisAngle(math.Vec3{X: 1}, math.Radians(-4))
	yaw := math.QuatFromAxisAngle(math.Vec3{Y: 1}, math.Radians(-5))
	want := pitch.Mul(math.QuatIdentity()).Mul(yaw).Normalize()
	assert.InDelta(t, 1.0, c.Orientation().Dot(want), 1e-6)

	// Same coordinates again: no change.
	before := c.Orientation()
	c.UpdateCursor(100, 50)
	assert.Equal(t, before, c.Orientation())
}

func TestOrientationStaysUnit(t *testing.T) {
	c := newViewportCamera(t)
	require.NoError(t, c.MoveAndLookAt(math.Vec3{X: 12, Y: 18, Z: 12}, math.Vec3{}))
	requireUnit(t, c)

	x, y := 0.0, 0.0
	for i := 0; i < 2000; i++ {
		x += float64(i%7) - 3
		y += float64(i%5) - 2
		c.UpdateCursor(x, y)
		requireUnit(t, c)

		c.LookAround(float32(i%11)-5, float32(i%13)-6)
		requireUnit(t, c)

		c.MoveForward(0.1)
		c.MoveRight(0.05)
		c.ZoomIn(0.5)
		c.ZoomOut(0.5)
		requireUnit(t, c)
	}
}

func TestMoveForwardBackwardRoundTrip(t *testing.T) {
	c := newViewportCamera(t)
	require.NoError(t, c.MoveAndLookAt(math.Vec3{X: 12, Y: 18, Z: 12}, math.Vec3{}))
	start := c.Position()

	c.MoveForward(3.7)
	assert.False(t, c.Position().ApproxEqual(start, eps))
	c.MoveBackward(3.7)
	assert.True(t, c.Position().ApproxEqual(start, eps), "got %v, want %v", c.Position(), start)
}

func TestMoveForwardFollowsView(t *testing.T) {
	c := newViewportCamera(t)
	c.MoveForward(2)
	assert.True(t, c.Position().ApproxEqual(math.Vec3{Z: -2}, 1e-6))
}

func TestStrafe(t *testing.T) {
	c := newViewportCamera(t)

	// Looking down -Z, right is +X.
	c.MoveRight(1)
	assert.True(t, c.Position().ApproxEqual(math.Vec3{X: 1}, 1e-6), "got %v", c.Position())
	c.MoveLeft(1)
	assert.True(t, c.Position().ApproxEqual(math.Vec3{}, 1e-6), "got %v", c.Position())

	require.NoError(t, c.LookAt(math.Vec3{X: 1, Y: 1, Z: 1}))
	assert.InDelta(t, 0.0, c.Right().Dot(c.Forward()), 1e-5, "right must be perpendicular to forward")
	assert.InDelta(t, 0.0, c.Right().Y, 1e-6, "right stays horizontal")
}

func TestMoveUpIgnoresOrientation(t *testing.T) {
	c := newViewportCamera(t)
	require.NoError(t, c.MoveAndLookAt(math.Vec3{X: 4, Y: 1, Z: -2}, math.Vec3{X: 0, Y: -3, Z: 1}))

	c.MoveUp(2.5)
	assert.True(t, c.Position().ApproxEqual(math.Vec3{X: 4, Y: 3.5, Z: -2}, 1e-6))
	c.MoveDown(2.5)
	assert.True(t, c.Position().ApproxEqual(math.Vec3{X: 4, Y: 1, Z: -2}, 1e-6))
}

func TestZoomClamp(t *testing.T) {
	c := newViewportCamera(t)

	c.ZoomIn(10)
	assert.Equal(t, float32(70), c.FOV())
	want := mgl32.Perspective(mgl32.DegToRad(70), 1280.0/1024.0, 0.1, 1000)
	requireMat4InDelta(t, want, c.Projection(), eps)

	c.ZoomIn(500)
	assert.Equal(t, float32(MaxFOV), c.FOV())

	c.ZoomOut(1000)
	assert.Equal(t, float32(MinFOV), c.FOV())

	c.ZoomOut(1)
	assert.Equal(t, float32(MinFOV), c.FOV())
}

func TestSetFOV(t *testing.T) {
	c := newViewportCamera(t)

	c.SetFOV(45)
	assert.Equal(t, float32(45), c.FOV())
	want := mgl32.Perspective(mgl32.DegToRad(45), 1280.0/1024.0, 0.1, 1000)
	requireMat4InDelta(t, want, c.Projection(), eps)

	c.SetFOV(-5)
	assert.Equal(t, float32(MinFOV), c.FOV())
}

func TestViewProjectionIsProjectionTimesView(t *testing.T) {
	c := newViewportCamera(t)
	require.NoError(t, c.MoveAndLookAt(math.Vec3{X: -3, Y: 2, Z: 8}, math.Vec3{X: 1}))
	c.LookAround(3, -7)

	want := c.Projection().Mul(c.View())
	assert.True(t, c.ViewProjection().ApproxEqual(want, 1e-6))
}

func TestViewTranslatesThenRotates(t *testing.T) {
	c := newViewportCamera(t)
	c.LookAround(0, 90)
	c.SetPosition(math.Vec3{X: 1, Y: 2, Z: 3})

	want := c.Orientation().ToMat4().Mul(math.Translate(-1, -2, -3))
	assert.True(t, c.View().ApproxEqual(want, 1e-6))

	// The camera position lands on the view-space origin.
	assert.True(t, c.View().TransformVec3(c.Position()).ApproxEqual(math.Vec3{}, 1e-5))
}
