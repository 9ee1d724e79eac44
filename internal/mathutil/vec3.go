package mathutil

// Vec3i is an integer 3-component vector (value type, stack-allocated).
// Voxel coordinates and scene translations are exact integers; float math
// only enters when geometry is scaled for output.
type Vec3i [3]int

func (a Vec3i) Add(b Vec3i) Vec3i {
	return Vec3i{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func (a Vec3i) Sub(b Vec3i) Vec3i {
	return Vec3i{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

// Min returns the component-wise minimum.
func (a Vec3i) Min(b Vec3i) Vec3i {
	return Vec3i{min(a[0], b[0]), min(a[1], b[1]), min(a[2], b[2])}
}

// Max returns the component-wise maximum.
func (a Vec3i) Max(b Vec3i) Vec3i {
	return Vec3i{max(a[0], b[0]), max(a[1], b[1]), max(a[2], b[2])}
}
