package geom

import "math"

// Quaternion is a rotation of angle degrees around an axis.
type Quaternion struct {
	W, X, Y, Z float64
}

// NewQuaternion builds a unit quaternion rotating angle degrees around axis.
// The axis does not need to be normalized.
func NewQuaternion(angleDeg float64, axis Vec3) Quaternion {
	a := axis.Normalize()
	half := angleDeg * math.Pi / 360.0
	s := math.Sin(half)
	return Quaternion{
		W: math.Cos(half),
		X: a.X * s,
		Y: a.Y * s,
		Z: a.Z * s,
	}
}

// Mul is the Hamilton product; q.Mul(p) applies p first, then q.
func (q Quaternion) Mul(p Quaternion) Quaternion {
	return Quaternion{
		W: q.W*p.W - q.X*p.X - q.Y*p.Y - q.Z*p.Z,
		X: q.W*p.X + q.X*p.W + q.Y*p.Z - q.Z*p.Y,
		Y: q.W*p.Y - q.X*p.Z + q.Y*p.W + q.Z*p.X,
		Z: q.W*p.Z + q.X*p.Y - q.Y*p.X + q.Z*p.W,
	}
}

// Rotate applies the rotation to v.
func (q Quaternion) Rotate(v Vec3) Vec3 {
	// v' = q * (0,v) * q^-1, expanded without building the pure quaternion
	tx := 2 * (q.Y*v.Z - q.Z*v.Y)
	ty := 2 * (q.Z*v.X - q.X*v.Z)
	tz := 2 * (q.X*v.Y - q.Y*v.X)
	return Vec3{
		X: v.X + q.W*tx + q.Y*tz - q.Z*ty,
		Y: v.Y + q.W*ty + q.Z*tx - q.X*tz,
		Z: v.Z + q.W*tz + q.X*ty - q.Y*tx,
	}
}
