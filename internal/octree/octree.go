// Package octree provides a sparse 3-D occupancy store for voxel color
// indices. Nodes live in flat arenas addressed by index, so a volume is a
// couple of slices rather than a pointer graph.
package octree

import (
	"errors"
	"fmt"
)

// MaxDim bounds a volume edge. File models are limited to 256 per axis;
// merged unions may grow beyond that.
const MaxDim = 4096

var ErrOutOfBounds = errors.New("octree: coordinate outside volume dimensions")

// child reference encoding: 0 is the empty sentinel, positive refs point
// into the inner-node arena (ref-1), negative refs into the leaf arena
// (-ref-1). Leaves hold a 2x2x2 block of color indices.
type ref int32

type node struct {
	children [8]ref
}

type leaf struct {
	colors [8]uint8
}

// Volume is a sparse mapping from in-bounds integer coordinates to palette
// indices in [1,255]. Absent coordinates read as 0. Out-of-bounds reads
// also return 0, which makes boundary-neighbor queries uniform.
type Volume struct {
	dx, dy, dz int
	span       int // power-of-two cube edge covered by the root, >= 2
	root       ref
	nodes      []node
	leaves     []leaf
	count      int
}

// New allocates an empty volume with the given dimensions.
func New(dx, dy, dz int) (*Volume, error) {
	if dx < 1 || dy < 1 || dz < 1 || dx > MaxDim || dy > MaxDim || dz > MaxDim {
		return nil, fmt.Errorf("octree: invalid dimensions %dx%dx%d", dx, dy, dz)
	}
	span := 2
	for span < dx || span < dy || span < dz {
		span <<= 1
	}
	return &Volume{dx: dx, dy: dy, dz: dz, span: span}, nil
}

// Dims returns the declared dimensions.
func (v *Volume) Dims() (dx, dy, dz int) { return v.dx, v.dy, v.dz }

// Count returns the number of occupied voxels.
func (v *Volume) Count() int { return v.count }

func (v *Volume) inBounds(x, y, z int) bool {
	return x >= 0 && y >= 0 && z >= 0 && x < v.dx && y < v.dy && z < v.dz
}

func octant(x, y, z, half int) (int, int, int, int) {
	i := 0
	if x >= half {
		i |= 1
		x -= half
	}
	if y >= half {
		i |= 2
		y -= half
	}
	if z >= half {
		i |= 4
		z -= half
	}
	return i, x, y, z
}

// Get returns the palette index at (x,y,z), or 0 when the coordinate was
// never written or lies outside the volume.
func (v *Volume) Get(x, y, z int) uint8 {
	if !v.inBounds(x, y, z) {
		return 0
	}
	r := v.root
	span := v.span
	for {
		if r == 0 {
			return 0
		}
		if span == 2 {
			return v.leaves[-r-1].colors[x|y<<1|z<<2]
		}
		half := span >> 1
		var i int
		i, x, y, z = octant(x, y, z, half)
		r = v.nodes[r-1].children[i]
		span = half
	}
}

// Set writes a palette index at (x,y,z). Writing 0 clears the voxel.
// The last written value wins.
func (v *Volume) Set(x, y, z int, c uint8) error {
	if !v.inBounds(x, y, z) {
		return fmt.Errorf("octree: set (%d,%d,%d) in %dx%dx%d volume: %w",
			x, y, z, v.dx, v.dy, v.dz, ErrOutOfBounds)
	}
	if c == 0 {
		v.clear(x, y, z)
		return nil
	}
	r := &v.root
	span := v.span
	for span > 2 {
		if *r == 0 {
			v.nodes = append(v.nodes, node{})
			*r = ref(len(v.nodes))
		}
		half := span >> 1
		var i int
		i, x, y, z = octant(x, y, z, half)
		r = &v.nodes[*r-1].children[i]
		span = half
	}
	if *r == 0 {
		v.leaves = append(v.leaves, leaf{})
		*r = -ref(len(v.leaves))
	}
	slot := &v.leaves[-*r-1].colors[x|y<<1|z<<2]
	if *slot == 0 {
		v.count++
	}
	*slot = c
	return nil
}

// clear removes a voxel without compacting emptied subtrees; volumes are
// write-once during decode and merge, so stale interior nodes stay cheap.
func (v *Volume) clear(x, y, z int) {
	r := v.root
	span := v.span
	for span > 2 {
		if r == 0 {
			return
		}
		half := span >> 1
		var i int
		i, x, y, z = octant(x, y, z, half)
		r = v.nodes[r-1].children[i]
		span = half
	}
	if r == 0 {
		return
	}
	slot := &v.leaves[-r-1].colors[x|y<<1|z<<2]
	if *slot != 0 {
		v.count--
	}
	*slot = 0
}

// ForEach calls fn for every occupied voxel. Order follows the tree
// layout, not ascending coordinates.
func (v *Volume) ForEach(fn func(x, y, z int, c uint8)) {
	v.walk(v.root, v.span, 0, 0, 0, fn)
}

func (v *Volume) walk(r ref, span, ox, oy, oz int, fn func(x, y, z int, c uint8)) {
	if r == 0 {
		return
	}
	if span == 2 {
		l := &v.leaves[-r-1]
		for i, c := range l.colors {
			if c != 0 {
				fn(ox+(i&1), oy+(i>>1&1), oz+(i>>2&1), c)
			}
		}
		return
	}
	half := span >> 1
	n := &v.nodes[r-1]
	for i, child := range n.children {
		v.walk(child, half,
			ox+(i&1)*half, oy+(i>>1&1)*half, oz+(i>>2&1)*half, fn)
	}
}
