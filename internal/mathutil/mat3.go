package mathutil

// Mat3i is an integer 3×3 matrix stored row-major: [r0c0, r0c1, r0c2,
// r1c0, ...]. The scene rotation group consists of signed axis
// permutations, so integer entries compose and invert exactly.
type Mat3i [9]int

func Mat3Identity() Mat3i {
	return Mat3i{1, 0, 0, 0, 1, 0, 0, 0, 1}
}

// Mul returns m × b.
func (m Mat3i) Mul(b Mat3i) Mat3i {
	var out Mat3i
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			out[r*3+c] = m[r*3+0]*b[0*3+c] + m[r*3+1]*b[1*3+c] + m[r*3+2]*b[2*3+c]
		}
	}
	return out
}

// MulVec returns m × v.
func (m Mat3i) MulVec(v Vec3i) Vec3i {
	return Vec3i{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2],
		m[3]*v[0] + m[4]*v[1] + m[5]*v[2],
		m[6]*v[0] + m[7]*v[1] + m[8]*v[2],
	}
}

func (m Mat3i) Det() int {
	return m[0]*(m[4]*m[8]-m[5]*m[7]) -
		m[1]*(m[3]*m[8]-m[5]*m[6]) +
		m[2]*(m[3]*m[7]-m[4]*m[6])
}

func (m Mat3i) Transpose() Mat3i {
	return Mat3i{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}
}

// IsIdentity reports whether m is the identity matrix.
func (m Mat3i) IsIdentity() bool {
	return m == Mat3Identity()
}
