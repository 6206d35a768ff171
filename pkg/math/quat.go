package math

import "math"

// Quat represents a quaternion for 3D rotations.
// Components are stored as X, Y, Z, W where W is the scalar part.
type Quat struct {
	X, Y, Z, W float32
}

// QuatIdentity returns an identity quaternion (no rotation).
func QuatIdentity() Quat {
	return Quat{X: 0, Y: 0, Z: 0, W: 1}
}

// QuatFromAxisAngle creates a quaternion from axis-angle rotation.
// axis should be normalized, angle is in radians.
func QuatFromAxisAngle(axis Vec3, angle float32) Quat {
	halfAngle := angle / 2
	s := float32(math.Sin(float64(halfAngle)))
	return Quat{
		X: axis.X * s,
		Y: axis.Y * s,
		Z: axis.Z * s,
		W: float32(math.Cos(float64(halfAngle))),
	}
}

// QuatFromEuler returns the rotation that turns about X first, then Y, then Z
// (qz * qy * qx). Angles are in radians.
func QuatFromEuler(x, y, z float32) Quat {
	qx := QuatFromAxisAngle(Vec3{1, 0, 0}, x)
	qy := QuatFromAxisAngle(Vec3{0, 1, 0}, y)
	qz := QuatFromAxisAngle(Vec3{0, 0, 1}, z)
	return qz.Mul(qy).Mul(qx)
}

// QuatFromMat4 extracts the rotation stored in the upper-left 3x3 block of m.
// Branches on the largest diagonal term.
func QuatFromMat4(m Mat4) Quat {
	fourX := m.At(0, 0) - m.At(1, 1) - m.At(2, 2)
	fourY := m.At(1, 1) - m.At(0, 0) - m.At(2, 2)
	fourZ := m.At(2, 2) - m.At(0, 0) - m.At(1, 1)
	fourW := m.At(0, 0) + m.At(1, 1) + m.At(2, 2)

	biggest := 0
	biggestVal := fourW
	if fourX > biggestVal {
		biggestVal, biggest = fourX, 1
	}
	if fourY > biggestVal {
		biggestVal, biggest = fourY, 2
	}
	if fourZ > biggestVal {
		biggestVal, biggest = fourZ, 3
	}

	big := float32(math.Sqrt(float64(biggestVal+1))) * 0.5
	mult := 0.25 / big

	switch biggest {
	case 1:
		return Quat{
			X: big,
			Y: (m.At(0, 1) + m.At(1, 0)) * mult,
			Z: (m.At(2, 0) + m.At(0, 2)) * mult,
			W: (m.At(1, 2) - m.At(2, 1)) * mult,
		}
	case 2:
		return Quat{
			X: (m.At(0, 1) + m.At(1, 0)) * mult,
			Y: big,
			Z: (m.At(1, 2) + m.At(2, 1)) * mult,
			W: (m.At(2, 0) - m.At(0, 2)) * mult,
		}
	case 3:
		return Quat{
			X: (m.At(2, 0) + m.At(0, 2)) * mult,
			Y: (m.At(1, 2) + m.At(2, 1)) * mult,
			Z: big,
			W: (m.At(0, 1) - m.At(1, 0)) * mult,
		}
	default:
		return Quat{
			X: (m.At(1, 2) - m.At(2, 1)) * mult,
			Y: (m.At(2, 0) - m.At(0, 2)) * mult,
			Z: (m.At(0, 1) - m.At(1, 0)) * mult,
			W: big,
		}
	}
}

// Length returns the magnitude of the quaternion.
func (q Quat) Length() float32 {
	return float32(math.Sqrt(float64(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)))
}

// Normalize returns a normalized quaternion.
func (q Quat) Normalize() Quat {
	length := q.Length()
	if length < 0.0001 {
		return QuatIdentity()
	}
	invLen := 1.0 / length
	return Quat{
		X: q.X * invLen,
		Y: q.Y * invLen,
		Z: q.Z * invLen,
		W: q.W * invLen,
	}
}

// Conjugate returns the conjugate, which is the inverse for unit quaternions.
func (q Quat) Conjugate() Quat {
	return Quat{X: -q.X, Y: -q.Y, Z: -q.Z, W: q.W}
}

// Dot returns the dot product of two quaternions.
func (q Quat) Dot(other Quat) float32 {
	return q.X*other.X + q.Y*other.Y + q.Z*other.Z + q.W*other.W
}

// Mul multiplies two quaternions (q * other). The result applies other first.
func (q Quat) Mul(other Quat) Quat {
	return Quat{
		X: q.W*other.X + q.X*other.W + q.Y*other.Z - q.Z*other.Y,
		Y: q.W*other.Y - q.X*other.Z + q.Y*other.W + q.Z*other.X,
		Z: q.W*other.Z + q.X*other.Y - q.Y*other.X + q.Z*other.W,
		W: q.W*other.W - q.X*other.X - q.Y*other.Y - q.Z*other.Z,
	}
}

// Rotate rotates v by q (q * v * q^-1). q must be a unit quaternion.
func (q Quat) Rotate(v Vec3) Vec3 {
	u := Vec3{q.X, q.Y, q.Z}
	uv := u.Cross(v)
	uuv := u.Cross(uv)
	return v.Add(uv.Scale(2 * q.W)).Add(uuv.Scale(2))
}

// ToMat4 converts the quaternion to a 4x4 rotation matrix.
func (q Quat) ToMat4() Mat4 {
	q = q.Normalize()

	xx := q.X * q.X
	xy := q.X * q.Y
	xz := q.X * q.Z
	xw := q.X * q.W
	yy := q.Y * q.Y
	yz := q.Y * q.Z
	yw := q.Y * q.W
	zz := q.Z * q.Z
	zw := q.Z * q.W

	return Mat4{
		1 - 2*(yy+zz), 2 * (xy + zw), 2 * (xz - yw), 0,
		2 * (xy - zw), 1 - 2*(xx+zz), 2 * (yz + xw), 0,
		2 * (xz + yw), 2 * (yz - xw), 1 - 2*(xx+yy), 0,
		0, 0, 0, 1,
	}
}
