package mesher

import "vox-mesher/internal/octree"

// Hull reduces a volume to its visible shell: every occupied voxel with
// at least one of its six face neighbors empty or out of bounds. Voxels
// fully enclosed by other voxels are dropped, whether or not the
// surrounding space is reachable from outside. Idempotent.
func Hull(v *octree.Volume) *octree.Volume {
	dx, dy, dz := v.Dims()
	out, err := octree.New(dx, dy, dz)
	if err != nil {
		// Dims come from an existing volume, so this cannot happen.
		panic(err)
	}
	for z := 0; z < dz; z++ {
		for y := 0; y < dy; y++ {
			for x := 0; x < dx; x++ {
				c := v.Get(x, y, z)
				if c == 0 {
					continue
				}
				if v.Get(x-1, y, z) == 0 || v.Get(x+1, y, z) == 0 ||
					v.Get(x, y-1, z) == 0 || v.Get(x, y+1, z) == 0 ||
					v.Get(x, y, z-1) == 0 || v.Get(x, y, z+1) == 0 {
					_ = out.Set(x, y, z, c)
				}
			}
		}
	}
	return out
}
