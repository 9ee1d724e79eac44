package scene

import (
	"errors"
	"fmt"

	"vox-mesher/internal/mathutil"
)

// ErrInvalidRotation is returned for a rotation byte outside the 24 valid
// encodings.
var ErrInvalidRotation = errors.New("scene: invalid rotation byte")

// DecodeRotation expands the compact rotation byte into a 3×3 matrix. The
// low 2 bits index the column of row 0, the next 2 bits the column of row
// 1 (row 2 takes the remaining column), and bits 4–6 carry one sign per
// row. Exactly 24 byte values decode to an orthogonal matrix with
// determinant +1; everything else fails.
func DecodeRotation(b byte) (mathutil.Mat3i, error) {
	var m mathutil.Mat3i
	if b >= 1<<7 {
		return m, fmt.Errorf("scene: rotation byte %#02x: %w", b, ErrInvalidRotation)
	}
	c0 := int(b & 3)
	c1 := int(b >> 2 & 3)
	if c0 > 2 || c1 > 2 || c0 == c1 {
		return m, fmt.Errorf("scene: rotation byte %#02x: %w", b, ErrInvalidRotation)
	}
	c2 := 3 - c0 - c1

	signs := [3]int{1, 1, 1}
	for row := 0; row < 3; row++ {
		if b>>(4+row)&1 == 1 {
			signs[row] = -1
		}
	}
	m[0*3+c0] = signs[0]
	m[1*3+c1] = signs[1]
	m[2*3+c2] = signs[2]

	if m.Det() != 1 {
		return mathutil.Mat3i{}, fmt.Errorf("scene: rotation byte %#02x is a reflection: %w", b, ErrInvalidRotation)
	}
	return m, nil
}
