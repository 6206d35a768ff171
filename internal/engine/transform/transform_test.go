package transform

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/flyview/pkg/math"
)

func TestNewIsIdentity(t *testing.T) {
	tr := New()

	assert.Equal(t, math.Vec3{}, tr.Position())
	assert.Equal(t, math.QuatIdentity(), tr.Rotation())
	assert.Equal(t, math.Vec3{X: 1, Y: 1, Z: 1}, tr.Scale())
	assert.False(t, tr.Dirty())
	assert.True(t, tr.Matrix().ApproxEqual(math.Identity(), 1e-6))
}

func TestSettersMarkDirty(t *testing.T) {
	tr := New()

	tr.SetPosition(math.Vec3{X: 2})
	assert.True(t, tr.Dirty())

	m := tr.Matrix()
	assert.False(t, tr.Dirty(), "Matrix should clear the dirty flag")
	assert.Equal(t, float32(2), m.At(3, 0))

	tr.SetScale(math.Vec3{X: 3, Y: 3, Z: 3})
	assert.True(t, tr.Dirty())
	tr.UpdateMatrix()
	assert.False(t, tr.Dirty())
}

func TestBatchedMutationsSingleRecompute(t *testing.T) {
	tr := New()
	tr.SetPosition(math.Vec3{X: 1, Y: 2, Z: 3})
	tr.SetRotation(math.QuatFromAxisAngle(math.Vec3{Y: 1}, math.Radians(90)))
	tr.SetScale(math.Vec3{X: 2, Y: 2, Z: 2})

	// (1,0,0) scaled to (2,0,0), rotated about Y to (0,0,-2), translated.
	got := tr.Matrix().TransformVec3(math.Vec3{X: 1})
	assert.True(t, got.ApproxEqual(math.Vec3{X: 1, Y: 2, Z: 1}, 1e-5), "got %v", got)
}

func TestMatrixMatchesMathgl(t *testing.T) {
	axis := math.Vec3{X: 1, Y: 1, Z: 0}.Normalize()
	angle := float32(0.9)

	tr := New()
	tr.SetPosition(math.Vec3{X: -4, Y: 0.5, Z: 7})
	tr.SetRotation(math.QuatFromAxisAngle(axis, angle))
	tr.SetScale(math.Vec3{X: 1, Y: 2, Z: 3})
	got := tr.Matrix()

	want := mgl32.Translate3D(-4, 0.5, 7).
		Mul4(mgl32.QuatRotate(angle, mgl32.Vec3{axis.X, axis.Y, axis.Z}).Mat4()).
		Mul4(mgl32.Scale3D(1, 2, 3))

	for i := 0; i < 16; i++ {
		require.InDelta(t, want[i], got[i], 1e-5, "element %d", i)
	}
}

func TestSetRotationNormalizes(t *testing.T) {
	tr := New()
	tr.SetRotation(math.Quat{X: 0, Y: 2, Z: 0, W: 2})
	assert.InDelta(t, 1.0, tr.Rotation().Length(), 1e-6)
}

func TestTranslateAndRotateAccumulate(t *testing.T) {
	tr := New()
	tr.Translate(math.Vec3{X: 1})
	tr.Translate(math.Vec3{X: 1, Z: -1})
	assert.Equal(t, math.Vec3{X: 2, Z: -1}, tr.Position())

	quarter := math.QuatFromAxisAngle(math.Vec3{Y: 1}, math.Radians(45))
	tr.Rotate(quarter)
	tr.Rotate(quarter)
	want := math.QuatFromAxisAngle(math.Vec3{Y: 1}, math.Radians(90))
	assert.InDelta(t, 1.0, tr.Rotation().Dot(want), 1e-5)
}
