// Package importer wires the full pipeline together: parse, decode,
// resolve transforms, optionally merge, hull-reduce and mesh. One call,
// no retained state; everything the caller needs comes back as a Result.
package importer

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sort"
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"vox-mesher/internal/mesher"
	"vox-mesher/internal/octree"
	"vox-mesher/internal/scene"
	"vox-mesher/internal/vox"
)

// Options is the host-supplied configuration for one import call.
type Options struct {
	Meshing      mesher.Strategy
	VoxelHull    bool    // forced on for surface-quads and greedy
	VoxelSize    float64 // positive scale factor, default 0.1
	Hierarchy    bool    // expose group ancestry instead of flattening
	JoinModels   bool    // union all instances into one volume first
	MaterialMode MaterialMode
	Workers      int // parallel per-model meshing, default NumCPU
}

func (o *Options) normalize() {
	if o.VoxelSize <= 0 {
		o.VoxelSize = 0.1
	}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
}

// Instance is one resolved, meshed model placement handed to the
// collaborator together with the shared palette.
type Instance struct {
	NodeID  int32
	Name    string
	ModelID int

	// Geometries holds a single entry except with per-voxel-models,
	// where every voxel is its own geometry.
	Geometries []*mesher.Geometry

	// Transform is the world placement (rotation and scaled translation).
	Transform mgl32.Mat4

	// Path is the group ancestry in hierarchical mode, nil otherwise.
	Path []scene.PathStep
}

// Result is everything one import produces.
type Result struct {
	Instances []Instance
	Palette   vox.Palette
	Materials [256]vox.Material
	Warnings  []string
}

// ImportFile reads and imports the named .vox file.
func ImportFile(ctx context.Context, path string, opts Options) (*Result, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("importer: read %s: %w", path, err)
	}
	return Import(ctx, raw, opts)
}

// Import runs the pipeline on a .vox byte buffer. Cancellation is polled
// between models; a single model's meshing pass is not interrupted.
func Import(ctx context.Context, data []byte, opts Options) (*Result, error) {
	opts.normalize()

	f, err := vox.Decode(data)
	if err != nil {
		return nil, err
	}
	res := &Result{Palette: f.Palette, Materials: f.Materials}
	if f.Version > vox.Version {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("file version %d is newer than %d, proceeding anyway", f.Version, vox.Version))
	}
	for _, tag := range f.UnknownTags {
		res.Warnings = append(res.Warnings, fmt.Sprintf("skipped unknown chunk tag %q", tag))
	}

	graph, err := scene.Build(f)
	if err != nil {
		return nil, err
	}
	placements, err := scene.Resolve(graph, len(f.Models), opts.Hierarchy)
	if err != nil {
		return nil, err
	}

	models := f.Models
	if opts.JoinModels && len(placements) > 1 {
		// The merge is the ordering barrier: it must finish before any
		// dependent hull extraction or meshing starts.
		merged, placement, err := mesher.Merge(placements, models)
		if err != nil {
			return nil, err
		}
		models = []*octree.Volume{merged}
		placements = []scene.Placement{placement}
	}

	geos, err := meshModels(ctx, models, placements, opts)
	if err != nil {
		return nil, err
	}

	for _, pl := range placements {
		res.Instances = append(res.Instances, Instance{
			NodeID:     pl.NodeID,
			Name:       pl.Name,
			ModelID:    pl.ModelID,
			Geometries: geos[pl.ModelID],
			Transform:  worldMatrix(pl, opts.VoxelSize),
			Path:       pl.Path,
		})
	}
	return res, nil
}

// meshModels meshes every distinct referenced model once. Models are
// independent (volumes and palette are immutable), so the work is spread
// over a worker pool.
func meshModels(ctx context.Context, models []*octree.Volume, placements []scene.Placement, opts Options) (map[int][]*mesher.Geometry, error) {
	seen := make(map[int]bool, len(placements))
	var ids []int
	for _, pl := range placements {
		if !seen[pl.ModelID] {
			seen[pl.ModelID] = true
			ids = append(ids, pl.ModelID)
		}
	}
	sort.Ints(ids)

	out := make(map[int][]*mesher.Geometry, len(ids))
	workers := opts.Workers
	if workers > len(ids) {
		workers = len(ids)
	}
	if workers <= 1 {
		for _, id := range ids {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			out[id] = meshOne(models[id], opts)
		}
		return out, nil
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	idChan := make(chan int, workers*2)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range idChan {
				if ctx.Err() != nil {
					continue
				}
				geos := meshOne(models[id], opts)
				mu.Lock()
				out[id] = geos
				mu.Unlock()
			}
		}()
	}
	for _, id := range ids {
		idChan <- id
	}
	close(idChan)
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func meshOne(vol *octree.Volume, opts Options) []*mesher.Geometry {
	if opts.VoxelHull || opts.Meshing.ForcesHull() {
		vol = mesher.Hull(vol)
	}
	dx, dy, dz := vol.Dims()
	dims := [3]int{dx, dy, dz}
	uv := opts.MaterialMode.UVMode()

	switch opts.Meshing {
	case mesher.StrategyVoxelModels:
		return mesher.VoxelGeometries(vol, opts.VoxelSize, uv)
	case mesher.StrategyCubes:
		return []*mesher.Geometry{mesher.BuildGeometry(mesher.CubeQuads(vol), dims, opts.VoxelSize, uv)}
	case mesher.StrategyGreedy:
		return []*mesher.Geometry{mesher.BuildGeometry(mesher.Greedy(vol), dims, opts.VoxelSize, uv)}
	default:
		return []*mesher.Geometry{mesher.BuildGeometry(mesher.SurfaceQuads(vol), dims, opts.VoxelSize, uv)}
	}
}

// worldMatrix expands an integer placement into a float world transform,
// scaling the translation by the voxel size.
func worldMatrix(pl scene.Placement, voxelSize float64) mgl32.Mat4 {
	r := pl.Rotation
	t := pl.Translation
	return mgl32.Mat4{
		float32(r[0]), float32(r[3]), float32(r[6]), 0,
		float32(r[1]), float32(r[4]), float32(r[7]), 0,
		float32(r[2]), float32(r[5]), float32(r[8]), 0,
		float32(float64(t[0]) * voxelSize),
		float32(float64(t[1]) * voxelSize),
		float32(float64(t[2]) * voxelSize),
		1,
	}
}
