package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vox-mesher/internal/mathutil"
)

func TestDecodeRotationIdentity(t *testing.T) {
	// Row 0 picks column 0, row 1 picks column 1, no signs: 0b0000100.
	m, err := DecodeRotation(0x04)
	require.NoError(t, err)
	assert.True(t, m.IsIdentity())
}

func TestDecodeRotationKnownValue(t *testing.T) {
	// Row 0 column 1 negated, row 1 column 0: a 90° turn around Z.
	m, err := DecodeRotation(0x11)
	require.NoError(t, err)
	assert.Equal(t, mathutil.Mat3i{0, -1, 0, 1, 0, 0, 0, 0, 1}, m)
	assert.Equal(t, mathutil.Vec3i{-2, 1, 3}, m.MulVec(mathutil.Vec3i{1, 2, 3}))
}

func TestDecodeRotationRejectsHighBit(t *testing.T) {
	_, err := DecodeRotation(0x84)
	assert.ErrorIs(t, err, ErrInvalidRotation)
}

func TestDecodeRotationRejectsBadIndices(t *testing.T) {
	// Equal row indices.
	_, err := DecodeRotation(0x00)
	assert.ErrorIs(t, err, ErrInvalidRotation)
	// Index 3 is outside the three columns.
	_, err = DecodeRotation(0x03)
	assert.ErrorIs(t, err, ErrInvalidRotation)
	_, err = DecodeRotation(0x0c)
	assert.ErrorIs(t, err, ErrInvalidRotation)
}

func TestDecodeRotationRejectsReflections(t *testing.T) {
	// Identity permutation with a single flipped sign mirrors one axis.
	_, err := DecodeRotation(0x04 | 1<<4)
	assert.ErrorIs(t, err, ErrInvalidRotation)
	// Two flipped signs restore determinant +1.
	m, err := DecodeRotation(0x04 | 1<<4 | 1<<5)
	require.NoError(t, err)
	assert.Equal(t, mathutil.Mat3i{-1, 0, 0, 0, -1, 0, 0, 0, 1}, m)
}

func TestDecodeRotationGroup(t *testing.T) {
	// Exactly 24 of the 256 byte values decode, and every decoded matrix
	// is orthogonal with determinant +1.
	seen := map[mathutil.Mat3i]byte{}
	valid := 0
	for b := 0; b < 256; b++ {
		m, err := DecodeRotation(byte(b))
		if err != nil {
			continue
		}
		valid++
		assert.Equal(t, 1, m.Det(), "byte %#02x", b)
		assert.True(t, m.Mul(m.Transpose()).IsIdentity(), "byte %#02x", b)
		prev, dup := seen[m]
		assert.False(t, dup, "bytes %#02x and %#02x decode alike", prev, b)
		seen[m] = byte(b)
	}
	assert.Equal(t, 24, valid)
}
