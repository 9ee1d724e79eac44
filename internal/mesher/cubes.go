package mesher

import "vox-mesher/internal/octree"

// cubeFaces returns the six faces of the unit cube at (x,y,z).
func cubeFaces(x, y, z int, c uint8) [6]Quad {
	return [6]Quad{
		{ // left
			P1: [3]int{x, y, z}, P2: [3]int{x, y + 1, z},
			P3: [3]int{x, y + 1, z + 1}, P4: [3]int{x, y, z + 1},
			Normal: [3]int{-1, 0, 0}, Color: c,
		},
		{ // right
			P1: [3]int{x + 1, y, z}, P2: [3]int{x + 1, y, z + 1},
			P3: [3]int{x + 1, y + 1, z + 1}, P4: [3]int{x + 1, y + 1, z},
			Normal: [3]int{1, 0, 0}, Color: c,
		},
		{ // back
			P1: [3]int{x, y, z}, P2: [3]int{x, y, z + 1},
			P3: [3]int{x + 1, y, z + 1}, P4: [3]int{x + 1, y, z},
			Normal: [3]int{0, -1, 0}, Color: c,
		},
		{ // front
			P1: [3]int{x, y + 1, z}, P2: [3]int{x + 1, y + 1, z},
			P3: [3]int{x + 1, y + 1, z + 1}, P4: [3]int{x, y + 1, z + 1},
			Normal: [3]int{0, 1, 0}, Color: c,
		},
		{ // bottom
			P1: [3]int{x, y, z}, P2: [3]int{x + 1, y, z},
			P3: [3]int{x + 1, y + 1, z}, P4: [3]int{x, y + 1, z},
			Normal: [3]int{0, 0, -1}, Color: c,
		},
		{ // top
			P1: [3]int{x, y, z + 1}, P2: [3]int{x, y + 1, z + 1},
			P3: [3]int{x + 1, y + 1, z + 1}, P4: [3]int{x + 1, y, z + 1},
			Normal: [3]int{0, 0, 1}, Color: c,
		},
	}
}

// CubeQuads emits all six faces of every occupied voxel, in ascending
// x, y, z order.
func CubeQuads(v *octree.Volume) []Quad {
	dx, dy, dz := v.Dims()
	quads := make([]Quad, 0, v.Count()*6)
	for x := 0; x < dx; x++ {
		for y := 0; y < dy; y++ {
			for z := 0; z < dz; z++ {
				if c := v.Get(x, y, z); c != 0 {
					faces := cubeFaces(x, y, z, c)
					quads = append(quads, faces[:]...)
				}
			}
		}
	}
	return quads
}

// SurfaceQuads emits one quad per occupied voxel face whose neighbor in
// that direction is empty or out of bounds. No merging.
func SurfaceQuads(v *octree.Volume) []Quad {
	dx, dy, dz := v.Dims()
	var quads []Quad
	for x := 0; x < dx; x++ {
		for y := 0; y < dy; y++ {
			for z := 0; z < dz; z++ {
				c := v.Get(x, y, z)
				if c == 0 {
					continue
				}
				faces := cubeFaces(x, y, z, c)
				if v.Get(x-1, y, z) == 0 {
					quads = append(quads, faces[0])
				}
				if v.Get(x+1, y, z) == 0 {
					quads = append(quads, faces[1])
				}
				if v.Get(x, y-1, z) == 0 {
					quads = append(quads, faces[2])
				}
				if v.Get(x, y+1, z) == 0 {
					quads = append(quads, faces[3])
				}
				if v.Get(x, y, z-1) == 0 {
					quads = append(quads, faces[4])
				}
				if v.Get(x, y, z+1) == 0 {
					quads = append(quads, faces[5])
				}
			}
		}
	}
	return quads
}
