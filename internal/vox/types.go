package vox

import "vox-mesher/internal/octree"

// NodeKind discriminates the closed set of scene node variants.
type NodeKind uint8

const (
	NodeTransform NodeKind = iota + 1
	NodeGroup
	NodeShape
)

func (k NodeKind) String() string {
	switch k {
	case NodeTransform:
		return "transform"
	case NodeGroup:
		return "group"
	case NodeShape:
		return "shape"
	default:
		return "unknown"
	}
}

// ShapeModel is one model reference of a shape node. Attrs may carry a
// frame selector under "_f".
type ShapeModel struct {
	ModelID int32
	Attrs   Dict
}

// NodeRecord is the raw decoded form of an nTRN/nGRP/nSHP chunk. Records
// reference each other by id only; the scene package links them into a
// tree.
type NodeRecord struct {
	Kind  NodeKind
	ID    int32
	Attrs Dict

	// NodeTransform
	ChildID int32
	LayerID int32
	Frames  []Dict

	// NodeGroup
	ChildIDs []int32

	// NodeShape
	Models []ShapeModel
}

// File is a fully decoded .vox file: models, palette, materials and the
// raw scene records. All fields are immutable after Decode returns.
type File struct {
	Version int32

	Models    []*octree.Volume
	Palette   Palette
	Materials [256]Material

	Nodes  map[int32]NodeRecord
	Layers map[int32]Dict

	// Metadata retained for collaborators; the core does not depend on it.
	Cameras        map[int32]Dict
	RenderSettings []Dict

	// UnknownTags lists tags that were skipped, deduplicated, in order of
	// first appearance.
	UnknownTags []string
}

// HiddenLayer reports whether the given layer id is marked hidden.
func (f *File) HiddenLayer(id int32) bool {
	if d, ok := f.Layers[id]; ok {
		return d.Bool("_hidden", false)
	}
	return false
}
