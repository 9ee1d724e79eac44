package mesher

import (
	"fmt"

	"vox-mesher/internal/mathutil"
	"vox-mesher/internal/octree"
	"vox-mesher/internal/scene"
)

// Merge unions the placed instances into one volume. Every voxel is
// mapped through its instance's world transform (the 24-element rotation
// group keeps coordinates integral); where two instances write the same
// target coordinate the later instance wins. Merging runs before hull
// extraction and meshing so faces hidden inside the union are dropped
// correctly.
//
// The returned placement positions the merged volume so that its meshed
// geometry lands where the instances did: identity rotation, translation
// at the union's center.
func Merge(placements []scene.Placement, models []*octree.Volume) (*octree.Volume, scene.Placement, error) {
	identity := scene.Placement{
		NodeID:   -1,
		ModelID:  0,
		Rotation: mathutil.Mat3Identity(),
	}
	if len(placements) == 0 {
		vol, err := octree.New(1, 1, 1)
		return vol, identity, err
	}

	// Pass 1: bounds of the transformed union.
	first := true
	var lo, hi mathutil.Vec3i
	transform := func(pl scene.Placement, vol *octree.Volume) func(p mathutil.Vec3i) mathutil.Vec3i {
		dx, dy, dz := vol.Dims()
		center := mathutil.Vec3i{dx / 2, dy / 2, dz / 2}
		return func(p mathutil.Vec3i) mathutil.Vec3i {
			return pl.Rotation.MulVec(p.Sub(center)).Add(pl.Translation)
		}
	}
	for _, pl := range placements {
		if pl.ModelID < 0 || pl.ModelID >= len(models) {
			return nil, identity, fmt.Errorf("mesher: merge placement references missing model %d", pl.ModelID)
		}
		vol := models[pl.ModelID]
		tf := transform(pl, vol)
		vol.ForEach(func(x, y, z int, c uint8) {
			q := tf(mathutil.Vec3i{x, y, z})
			if first {
				lo, hi = q, q
				first = false
			} else {
				lo = lo.Min(q)
				hi = hi.Max(q)
			}
		})
	}
	if first {
		vol, err := octree.New(1, 1, 1)
		return vol, identity, err
	}

	size := hi.Sub(lo).Add(mathutil.Vec3i{1, 1, 1})
	out, err := octree.New(size[0], size[1], size[2])
	if err != nil {
		return nil, identity, fmt.Errorf("mesher: merged volume: %w", err)
	}

	// Pass 2: write instances in traversal order, last write wins.
	var setErr error
	for _, pl := range placements {
		vol := models[pl.ModelID]
		tf := transform(pl, vol)
		vol.ForEach(func(x, y, z int, c uint8) {
			if setErr != nil {
				return
			}
			q := tf(mathutil.Vec3i{x, y, z}).Sub(lo)
			setErr = out.Set(q[0], q[1], q[2], c)
		})
		if setErr != nil {
			return nil, identity, setErr
		}
	}

	merged := identity
	merged.Translation = lo.Add(mathutil.Vec3i{size[0] / 2, size[1] / 2, size[2] / 2})
	return out, merged, nil
}
