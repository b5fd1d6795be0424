package vecmath

// Mat4 is a row-major 4x4 affine transform. The translation lives in the
// last column.
type Mat4 [16]float64

// Identity4 returns the 4x4 identity matrix.
func Identity4() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translation4 returns a transform that moves points by t.
func Translation4(t Vec3) Mat4 {
	m := Identity4()
	m[3], m[7], m[11] = t.X, t.Y, t.Z
	return m
}

// Scaling4 returns a transform that scales points by s per axis.
func Scaling4(s Vec3) Mat4 {
	m := Identity4()
	m[0], m[5], m[10] = s.X, s.Y, s.Z
	return m
}

// FromMat3 embeds a linear transform into an affine one.
func FromMat3(r Mat3) Mat4 {
	return Mat4{
		r[0], r[1], r[2], 0,
		r[3], r[4], r[5], 0,
		r[6], r[7], r[8], 0,
		0, 0, 0, 1,
	}
}

// Mul returns m * n.
func (m Mat4) Mul(n Mat4) Mat4 {
	var out Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += m[r*4+k] * n[k*4+c]
			}
			out[r*4+c] = sum
		}
	}
	return out
}

// MulPosition transforms the point p, including translation.
func (m Mat4) MulPosition(p Vec3) Vec3 {
	return Vec3{
		X: m[0]*p.X + m[1]*p.Y + m[2]*p.Z + m[3],
		Y: m[4]*p.X + m[5]*p.Y + m[6]*p.Z + m[7],
		Z: m[8]*p.X + m[9]*p.Y + m[10]*p.Z + m[11],
	}
}

// MulDirection transforms the direction d, ignoring translation.
func (m Mat4) MulDirection(d Vec3) Vec3 {
	return m.Linear().MulVec(d)
}

// Linear returns the upper-left 3x3 block.
func (m Mat4) Linear() Mat3 {
	return Mat3{
		m[0], m[1], m[2],
		m[4], m[5], m[6],
		m[8], m[9], m[10],
	}
}

// Translation returns the translation column.
func (m Mat4) Translation() Vec3 {
	return Vec3{X: m[3], Y: m[7], Z: m[11]}
}
