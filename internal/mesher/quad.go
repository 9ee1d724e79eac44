// Package mesher turns sparse voxel volumes into quad geometry. Four
// strategies are available, from one cube per voxel up to greedy
// face-merging.
package mesher

import "fmt"

// Quad is one emitted unit or merged face. Corner order follows the
// importer convention: geometry faces are wound P1, P4, P3, P2 so the
// normal points out of the volume.
type Quad struct {
	P1, P2, P3, P4 [3]int
	Normal         [3]int
	Color          uint8
}

// Strategy selects the geometry-generation algorithm.
type Strategy uint8

const (
	// StrategyVoxelModels emits one independent cube geometry per voxel.
	StrategyVoxelModels Strategy = iota
	// StrategyCubes emits a cube per voxel accumulated into one geometry
	// with shared vertices.
	StrategyCubes
	// StrategyQuads emits one quad per exposed voxel face.
	StrategyQuads
	// StrategyGreedy merges adjacent same-colored exposed faces into
	// maximal rectangles.
	StrategyGreedy
)

func (s Strategy) String() string {
	switch s {
	case StrategyVoxelModels:
		return "per-voxel-models"
	case StrategyCubes:
		return "combined-cubes"
	case StrategyQuads:
		return "surface-quads"
	case StrategyGreedy:
		return "greedy"
	default:
		return fmt.Sprintf("Strategy(%d)", uint8(s))
	}
}

// ParseStrategy maps a configuration string onto a strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "per-voxel-models", "voxels":
		return StrategyVoxelModels, nil
	case "combined-cubes", "cubes":
		return StrategyCubes, nil
	case "surface-quads", "quads":
		return StrategyQuads, nil
	case "greedy":
		return StrategyGreedy, nil
	}
	return 0, fmt.Errorf("mesher: unknown meshing type %q", s)
}

// ForcesHull reports whether the strategy always runs on the hull-reduced
// volume regardless of the hull option.
func (s Strategy) ForcesHull() bool {
	return s == StrategyQuads || s == StrategyGreedy
}
