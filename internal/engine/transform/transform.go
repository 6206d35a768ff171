// Package transform composes an object's model matrix from position,
// orientation and scale.
package transform

import "github.com/Faultbox/flyview/pkg/math"

// Transform places one object in the world.
// Setters mark the cached matrix dirty; Matrix recomputes it on demand,
// so several fields can be changed before paying for one recompute.
type Transform struct {
	position math.Vec3
	rotation math.Quat
	scale    math.Vec3

	matrix math.Mat4
	dirty  bool
}

// New returns an identity transform: origin, no rotation, unit scale.
func New() *Transform {
	t := &Transform{
		rotation: math.QuatIdentity(),
		scale:    math.Vec3{X: 1, Y: 1, Z: 1},
	}
	t.UpdateMatrix()
	return t
}

// Position returns the translation.
func (t *Transform) Position() math.Vec3 { return t.position }

// Rotation returns the orientation quaternion.
func (t *Transform) Rotation() math.Quat { return t.rotation }

// Scale returns the per-axis scale.
func (t *Transform) Scale() math.Vec3 { return t.scale }

// SetPosition sets the translation.
func (t *Transform) SetPosition(p math.Vec3) {
	t.position = p
	t.dirty = true
}

// SetRotation sets the orientation. q is renormalized.
func (t *Transform) SetRotation(q math.Quat) {
	t.rotation = q.Normalize()
	t.dirty = true
}

// SetScale sets the per-axis scale.
func (t *Transform) SetScale(s math.Vec3) {
	t.scale = s
	t.dirty = true
}

// Translate moves the transform by delta in world space.
func (t *Transform) Translate(delta math.Vec3) {
	t.SetPosition(t.position.Add(delta))
}

// Rotate applies q on top of the current orientation (q * rotation).
func (t *Transform) Rotate(q math.Quat) {
	t.SetRotation(q.Mul(t.rotation))
}

// Dirty reports whether the cached matrix is stale.
func (t *Transform) Dirty() bool { return t.dirty }

// UpdateMatrix recomputes the model matrix as T * R * S,
// so scale applies first and translation last.
func (t *Transform) UpdateMatrix() {
	translation := math.TranslateVec(t.position)
	rotation := t.rotation.ToMat4()
	scale := math.ScaleVec(t.scale)

	t.matrix = translation.Mul(rotation).Mul(scale)
	t.dirty = false
}

// Matrix returns the model matrix, recomputing it first if any field changed.
func (t *Transform) Matrix() math.Mat4 {
	if t.dirty {
		t.UpdateMatrix()
	}
	return t.matrix
}
