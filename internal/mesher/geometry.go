package mesher

import (
	"github.com/go-gl/mathgl/mgl32"

	"vox-mesher/internal/octree"
)

// UVMode selects what texture addressing, if any, faces carry.
type UVMode uint8

const (
	// UVNone emits no texture coordinates.
	UVNone UVMode = iota
	// UVPalette addresses the 256x1 palette texture: the face UV points
	// at the center of its color's pixel.
	UVPalette
	// UVUnwrap assigns every face its own rectangle id for an external
	// texture baker.
	UVUnwrap
)

// Face is one polygon of a geometry: four vertex indices, the outward
// normal axis, the palette index and optional texture addressing.
type Face struct {
	Verts  [4]int
	Normal [3]int
	Color  uint8
	UV     mgl32.Vec2
	UVRect int // rectangle id in UVUnwrap mode, -1 otherwise
}

// Geometry holds shared-vertex mesh data in model-local space: vertices
// are centered on the model (floor of half the dimensions) and scaled by
// the voxel size. Discarded by the core once handed to the collaborator.
type Geometry struct {
	Positions []mgl32.Vec3
	Faces     []Face
}

// BuildGeometry assembles quads into one geometry, collapsing corners at
// identical grid coordinates into shared vertices via coordinate-keyed
// lookup.
func BuildGeometry(quads []Quad, dims [3]int, voxelSize float64, uv UVMode) *Geometry {
	g := &Geometry{
		Positions: make([]mgl32.Vec3, 0, len(quads)*2),
		Faces:     make([]Face, 0, len(quads)),
	}
	half := [3]int{dims[0] / 2, dims[1] / 2, dims[2] / 2}
	lookup := make(map[[3]int]int, len(quads)*2)
	vertex := func(p [3]int) int {
		if i, ok := lookup[p]; ok {
			return i
		}
		i := len(g.Positions)
		g.Positions = append(g.Positions, mgl32.Vec3{
			float32(float64(p[0]-half[0]) * voxelSize),
			float32(float64(p[1]-half[1]) * voxelSize),
			float32(float64(p[2]-half[2]) * voxelSize),
		})
		lookup[p] = i
		return i
	}

	for i, q := range quads {
		f := Face{
			Verts:  [4]int{vertex(q.P1), vertex(q.P4), vertex(q.P3), vertex(q.P2)},
			Normal: q.Normal,
			Color:  q.Color,
			UVRect: -1,
		}
		switch uv {
		case UVPalette:
			f.UV = mgl32.Vec2{(float32(q.Color) + 0.5) / 256, 0.5}
		case UVUnwrap:
			f.UVRect = i
		}
		g.Faces = append(g.Faces, f)
	}
	return g
}

// VoxelGeometries emits one independent six-face cube geometry per
// occupied voxel, for hosts that keep every voxel a separate object.
func VoxelGeometries(v *octree.Volume, voxelSize float64, uv UVMode) []*Geometry {
	dx, dy, dz := v.Dims()
	dims := [3]int{dx, dy, dz}
	geos := make([]*Geometry, 0, v.Count())
	for x := 0; x < dx; x++ {
		for y := 0; y < dy; y++ {
			for z := 0; z < dz; z++ {
				if c := v.Get(x, y, z); c != 0 {
					faces := cubeFaces(x, y, z, c)
					geos = append(geos, BuildGeometry(faces[:], dims, voxelSize, uv))
				}
			}
		}
	}
	return geos
}
