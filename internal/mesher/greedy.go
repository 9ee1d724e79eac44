package mesher

import "vox-mesher/internal/octree"

// greedyAxes maps a sweep axis to the two in-slice axes. axis1 runs along
// mask rows, axis2 along mask columns.
var greedyAxes = [3]struct{ axis1, axis2 int }{
	{1, 2},
	{2, 0},
	{0, 1},
}

// vecFor places slice coordinates (a = sweep axis, b = axis1, c = axis2)
// back into x,y,z order.
func vecFor(axis, a, b, c int) [3]int {
	var p [3]int
	p[axis] = a
	p[greedyAxes[axis].axis1] = b
	p[greedyAxes[axis].axis2] = c
	return p
}

// Greedy sweeps the volume slice-by-slice along each of the six face
// directions and merges exposed same-colored faces into maximal
// rectangles: grow along axis2 while columns match, then along axis1
// while whole rows match. Cells separated by empty space never share a
// mask entry, so disjoint islands in one slice stay separate. Face count
// is at most the SurfaceQuads count and covers the same area.
func Greedy(v *octree.Volume) []Quad {
	var quads []Quad
	dims := [3]int{}
	dims[0], dims[1], dims[2] = v.Dims()

	for axis := 0; axis < 3; axis++ {
		d0 := dims[axis]
		d1 := dims[greedyAxes[axis].axis1]
		d2 := dims[greedyAxes[axis].axis2]
		mask := make([]uint8, d1*d2)

		for _, offset := range [2]int{-1, 1} {
			for a := 0; a < d0; a++ {
				// Mark exposed faces of this slice and orientation.
				any := false
				for b := 0; b < d1; b++ {
					for c := 0; c < d2; c++ {
						p := vecFor(axis, a, b, c)
						n := vecFor(axis, a+offset, b, c)
						col := v.Get(p[0], p[1], p[2])
						if col != 0 && v.Get(n[0], n[1], n[2]) != 0 {
							col = 0
						}
						mask[b*d2+c] = col
						any = any || col != 0
					}
				}
				if !any {
					continue
				}
				quads = consumeMask(quads, mask, axis, offset, a, d1, d2)
			}
		}
	}
	return quads
}

// consumeMask grows each unconsumed mask cell into the largest rectangle
// of identical color, zeroing cells as they are emitted.
func consumeMask(quads []Quad, mask []uint8, axis, offset, a, d1, d2 int) []Quad {
	for b := 0; b < d1; b++ {
		for c := 0; c < d2; {
			col := mask[b*d2+c]
			if col == 0 {
				c++
				continue
			}
			width := 1
			for c+width < d2 && mask[b*d2+c+width] == col {
				width++
			}
			height := 1
		grow:
			for b+height < d1 {
				for i := 0; i < width; i++ {
					if mask[(b+height)*d2+c+i] != col {
						break grow
					}
				}
				height++
			}
			for i := 0; i < height; i++ {
				for j := 0; j < width; j++ {
					mask[(b+i)*d2+c+j] = 0
				}
			}
			quads = append(quads, rectQuad(axis, offset, a, b, c, b+height-1, c+width-1, col))
			c += width
		}
	}
	return quads
}

// rectQuad emits the merged face covering axis1 range [b0,b1] and axis2
// range [c0,c1] at slice a, facing the given side of the sweep axis.
func rectQuad(axis, offset, a, b0, c0, b1, c1 int, col uint8) Quad {
	var q Quad
	q.Color = col
	q.Normal[axis] = offset
	if offset < 0 {
		q.P1 = vecFor(axis, a, b0, c0)
		q.P2 = vecFor(axis, a, b1+1, c0)
		q.P3 = vecFor(axis, a, b1+1, c1+1)
		q.P4 = vecFor(axis, a, b0, c1+1)
	} else {
		q.P1 = vecFor(axis, a+1, b0, c0)
		q.P2 = vecFor(axis, a+1, b0, c1+1)
		q.P3 = vecFor(axis, a+1, b1+1, c1+1)
		q.P4 = vecFor(axis, a+1, b1+1, c0)
	}
	return q
}
