package scene

import (
	"errors"
	"fmt"

	"vox-mesher/internal/vox"
)

// ErrBadGraph is returned when the node records do not form a single
// rooted tree (dangling references, cycles, multiple roots).
var ErrBadGraph = errors.New("scene: malformed scene graph")

// ShapeRef is one model placed by a shape node, with its frame selector.
type ShapeRef struct {
	ModelID int
	Frame   int
}

// Node is a linked scene-graph node. The kind decides which of the
// variant fields is populated; traversal is a single recursive function,
// so a tagged union beats an interface hierarchy here.
type Node struct {
	Kind   vox.NodeKind
	ID     int32
	Name   string
	Hidden bool

	// transform
	Frames []vox.Dict
	Child  *Node

	// group
	Children []*Node

	// shape
	Shapes []ShapeRef
}

// Graph is the linked scene tree of one file. Root is nil for files
// without scene chunks (single flat model list).
type Graph struct {
	Root *Node
}

// Build links the file's node records into a tree, validating that every
// referenced id exists, that exactly one root exists, and that the graph
// is acyclic with all nodes reachable.
func Build(f *vox.File) (*Graph, error) {
	if len(f.Nodes) == 0 {
		return &Graph{}, nil
	}

	nodes := make(map[int32]*Node, len(f.Nodes))
	for id, rec := range f.Nodes {
		n := &Node{
			Kind:   rec.Kind,
			ID:     id,
			Name:   rec.Attrs.String("_name", ""),
			Hidden: rec.Attrs.Bool("_hidden", false),
			Frames: rec.Frames,
		}
		if rec.Kind == vox.NodeTransform && f.HiddenLayer(rec.LayerID) {
			n.Hidden = true
		}
		nodes[id] = n
	}

	referenced := make(map[int32]bool, len(nodes))
	for id, rec := range f.Nodes {
		n := nodes[id]
		switch rec.Kind {
		case vox.NodeTransform:
			child, ok := nodes[rec.ChildID]
			if !ok {
				return nil, fmt.Errorf("scene: transform %d references missing node %d: %w",
					id, rec.ChildID, ErrBadGraph)
			}
			n.Child = child
			referenced[rec.ChildID] = true
		case vox.NodeGroup:
			for _, cid := range rec.ChildIDs {
				child, ok := nodes[cid]
				if !ok {
					return nil, fmt.Errorf("scene: group %d references missing node %d: %w",
						id, cid, ErrBadGraph)
				}
				n.Children = append(n.Children, child)
				referenced[cid] = true
			}
		case vox.NodeShape:
			for _, sm := range rec.Models {
				if sm.ModelID < 0 || int(sm.ModelID) >= len(f.Models) {
					return nil, fmt.Errorf("scene: shape %d references missing model %d: %w",
						id, sm.ModelID, ErrBadGraph)
				}
				n.Shapes = append(n.Shapes, ShapeRef{
					ModelID: int(sm.ModelID),
					Frame:   sm.Attrs.Int("_f", 0),
				})
			}
		}
	}

	var root *Node
	for id, n := range nodes {
		if referenced[id] {
			continue
		}
		if root != nil {
			return nil, fmt.Errorf("scene: multiple root nodes (%d and %d): %w",
				root.ID, id, ErrBadGraph)
		}
		root = n
	}
	if root == nil {
		// Every node is referenced, which is only possible with a cycle.
		return nil, fmt.Errorf("scene: no root node, graph is cyclic: %w", ErrBadGraph)
	}

	visited := make(map[int32]bool, len(nodes))
	if err := checkTree(root, visited); err != nil {
		return nil, err
	}
	if len(visited) != len(nodes) {
		return nil, fmt.Errorf("scene: %d of %d nodes unreachable from root %d: %w",
			len(nodes)-len(visited), len(nodes), root.ID, ErrBadGraph)
	}
	return &Graph{Root: root}, nil
}

func checkTree(n *Node, visited map[int32]bool) error {
	if visited[n.ID] {
		return fmt.Errorf("scene: node %d appears twice in the tree: %w", n.ID, ErrBadGraph)
	}
	visited[n.ID] = true
	if n.Child != nil {
		if err := checkTree(n.Child, visited); err != nil {
			return err
		}
	}
	for _, c := range n.Children {
		if err := checkTree(c, visited); err != nil {
			return err
		}
	}
	return nil
}
