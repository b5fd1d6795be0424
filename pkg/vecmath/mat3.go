package vecmath

import "math"

// Mat3 is a row-major 3x3 matrix.
type Mat3 [9]float64

// Identity3 returns the 3x3 identity matrix.
func Identity3() Mat3 {
	return Mat3{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// At returns the element in row r, column c.
func (m Mat3) At(r, c int) float64 {
	return m[r*3+c]
}

// MulVec returns m * v.
func (m Mat3) MulVec(v Vec3) Vec3 {
	return Vec3{
		X: m[0]*v.X + m[1]*v.Y + m[2]*v.Z,
		Y: m[3]*v.X + m[4]*v.Y + m[5]*v.Z,
		Z: m[6]*v.X + m[7]*v.Y + m[8]*v.Z,
	}
}

// Mul returns m * n.
func (m Mat3) Mul(n Mat3) Mat3 {
	var out Mat3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			out[r*3+c] = m[r*3]*n[c] + m[r*3+1]*n[3+c] + m[r*3+2]*n[6+c]
		}
	}
	return out
}

// Transpose returns the transpose of m.
func (m Mat3) Transpose() Mat3 {
	return Mat3{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}
}

// Det returns the determinant of m.
func (m Mat3) Det() float64 {
	return m[0]*(m[4]*m[8]-m[5]*m[7]) -
		m[1]*(m[3]*m[8]-m[5]*m[6]) +
		m[2]*(m[3]*m[7]-m[4]*m[6])
}

// ApproxEqual reports whether every element of m and n differs by at most tol.
func (m Mat3) ApproxEqual(n Mat3, tol float64) bool {
	for i := range m {
		if math.Abs(m[i]-n[i]) > tol {
			return false
		}
	}
	return true
}

// RotateUnitVector returns the rotation R with R*from == to. Both arguments
// must be unit vectors.
//
// The matrix is built from Rodrigues' formula using the cross product and
// the cosine directly, so no angle is ever extracted. When from and to point
// into opposite hemispheres the rotation is composed from a half turn and
// the well-conditioned rotation from -> -to; this also covers the exactly
// anti-parallel case, where the cross product vanishes.
func RotateUnitVector(from, to Vec3) Mat3 {
	if from == to {
		return Identity3()
	}
	if from.Dot(to) >= 0 {
		return rodrigues(from, to)
	}
	// H maps -to onto to, so H * (from -> -to) maps from onto to.
	return halfTurn(perpendicular(to)).Mul(rodrigues(from, to.Neg()))
}

// rodrigues is R = cI + [v]x + v*vᵀ/(1+c) with v = from × to, c = from · to.
// Only valid for c > -1.
func rodrigues(from, to Vec3) Mat3 {
	v := from.Cross(to)
	c := from.Dot(to)
	k := 1 / (1 + c)
	return Mat3{
		v.X*v.X*k + c, v.X*v.Y*k - v.Z, v.X*v.Z*k + v.Y,
		v.Y*v.X*k + v.Z, v.Y*v.Y*k + c, v.Y*v.Z*k - v.X,
		v.Z*v.X*k - v.Y, v.Z*v.Y*k + v.X, v.Z*v.Z*k + c,
	}
}

// halfTurn returns the 180° rotation 2uuᵀ - I about the unit axis u.
func halfTurn(u Vec3) Mat3 {
	return Mat3{
		2*u.X*u.X - 1, 2 * u.X * u.Y, 2 * u.X * u.Z,
		2 * u.Y * u.X, 2*u.Y*u.Y - 1, 2 * u.Y * u.Z,
		2 * u.Z * u.X, 2 * u.Z * u.Y, 2*u.Z*u.Z - 1,
	}
}

// perpendicular returns a unit vector orthogonal to v, built from the
// canonical axis least aligned with v.
func perpendicular(v Vec3) Vec3 {
	ax, ay, az := math.Abs(v.X), math.Abs(v.Y), math.Abs(v.Z)
	axis := UnitZ
	switch {
	case ax <= ay && ax <= az:
		axis = UnitX
	case ay <= az:
		axis = UnitY
	}
	return v.Cross(axis).Normalize()
}

// RotationAxis returns the rotation by angle radians about the unit axis.
func RotationAxis(axis Vec3, angle float64) Mat3 {
	s, c := math.Sincos(angle)
	t := 1 - c
	x, y, z := axis.X, axis.Y, axis.Z
	return Mat3{
		t*x*x + c, t*x*y - s*z, t*x*z + s*y,
		t*x*y + s*z, t*y*y + c, t*y*z - s*x,
		t*x*z - s*y, t*y*z + s*x, t*z*z + c,
	}
}

// RotationEuler returns the rotation by the given angles in degrees about X,
// then Y, then Z, the order the geometry kernel uses for solids.
func RotationEuler(degrees Vec3) Mat3 {
	rad := degrees.Scale(math.Pi / 180)
	return RotationAxis(UnitZ, rad.Z).Mul(RotationAxis(UnitY, rad.Y)).Mul(RotationAxis(UnitX, rad.X))
}
