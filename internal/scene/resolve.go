package scene

import (
	"vox-mesher/internal/mathutil"
	"vox-mesher/internal/vox"
)

// PathStep is one hierarchy level above a placement: a group with the
// local transform of its governing transform node. Collaborators use the
// path to rebuild parent/child scene objects in hierarchical mode.
type PathStep struct {
	NodeID      int32
	Name        string
	Rotation    mathutil.Mat3i
	Translation mathutil.Vec3i
}

// Placement is one resolved model instance: which model to mesh and where
// it sits in the world. Rotation and Translation are the composition of
// every ancestor transform, outermost first, rotation applied before
// translation within each node. Translation is in voxel units; scaling is
// a pure multiplicative factor applied on output.
type Placement struct {
	NodeID      int32
	Name        string
	ModelID     int
	Rotation    mathutil.Mat3i
	Translation mathutil.Vec3i

	// Path is the group ancestry, outermost first. Nil in flattened mode.
	Path []PathStep
}

// Resolve walks the scene tree depth-first and produces one placement per
// visible shape/model pair. With hierarchy set, each placement carries
// its group ancestry; otherwise only the net world transform. A nil-root
// graph yields one identity placement per model.
func Resolve(g *Graph, modelCount int, hierarchy bool) ([]Placement, error) {
	if g == nil || g.Root == nil {
		placements := make([]Placement, 0, modelCount)
		for i := 0; i < modelCount; i++ {
			placements = append(placements, Placement{
				NodeID:   -1,
				ModelID:  i,
				Rotation: mathutil.Mat3Identity(),
			})
		}
		return placements, nil
	}
	w := walker{hierarchy: hierarchy}
	if err := w.visit(g.Root, nil); err != nil {
		return nil, err
	}
	return w.out, nil
}

type walker struct {
	hierarchy bool
	out       []Placement
}

func (w *walker) visit(n *Node, path []*Node) error {
	if n.Hidden {
		return nil
	}
	switch n.Kind {
	case vox.NodeTransform:
		return w.visit(n.Child, append(path, n))
	case vox.NodeGroup:
		for _, c := range n.Children {
			if err := w.visit(c, append(path, n)); err != nil {
				return err
			}
		}
		return nil
	case vox.NodeShape:
		for _, ref := range n.Shapes {
			p, err := w.place(n, path, ref)
			if err != nil {
				return err
			}
			w.out = append(w.out, p)
		}
	}
	return nil
}

// place composes the ancestor transforms of one shape reference. For a
// point p the world position is R1*(R2*(...Rn*p + tn) + t2) + t1 with
// transform 1 outermost, so accumulation runs outermost-first:
// R' = R_acc × R_k, t' = R_acc × t_k + t_acc.
func (w *walker) place(n *Node, path []*Node, ref ShapeRef) (Placement, error) {
	p := Placement{
		NodeID:   n.ID,
		Name:     n.Name,
		ModelID:  ref.ModelID,
		Rotation: mathutil.Mat3Identity(),
	}
	for i, anc := range path {
		if anc.Kind != vox.NodeTransform {
			if anc.Kind == vox.NodeGroup && w.hierarchy {
				step := PathStep{NodeID: anc.ID, Name: anc.Name, Rotation: mathutil.Mat3Identity()}
				if i > 0 && path[i-1].Kind == vox.NodeTransform {
					r, t, err := frameTransform(path[i-1], ref.Frame)
					if err != nil {
						return Placement{}, err
					}
					step.Rotation, step.Translation = r, t
					step.Name = firstNonEmpty(anc.Name, path[i-1].Name)
				}
				p.Path = append(p.Path, step)
			}
			continue
		}
		r, t, err := frameTransform(anc, ref.Frame)
		if err != nil {
			return Placement{}, err
		}
		if p.Name == "" {
			p.Name = anc.Name
		}
		p.Translation = p.Rotation.MulVec(t).Add(p.Translation)
		p.Rotation = p.Rotation.Mul(r)
	}
	return p, nil
}

// frameTransform picks the node's frame attributes for the requested
// frame (an explicit "_f" match, else the first frame) and decodes the
// rotation byte and translation triple.
func frameTransform(n *Node, frame int) (mathutil.Mat3i, mathutil.Vec3i, error) {
	var attrs vox.Dict
	for _, d := range n.Frames {
		if d.Has("_f") && d.Int("_f", -1) == frame {
			attrs = d
			break
		}
	}
	if attrs == nil && len(n.Frames) > 0 {
		attrs = n.Frames[0]
	}

	rot := mathutil.Mat3Identity()
	var trans mathutil.Vec3i
	if attrs == nil {
		return rot, trans, nil
	}
	if attrs.Has("_r") {
		b := attrs.Int("_r", 0)
		if b < 0 || b > 255 {
			return rot, trans, ErrInvalidRotation
		}
		var err error
		rot, err = DecodeRotation(byte(b))
		if err != nil {
			return rot, trans, err
		}
	}
	t := attrs.Vec3("_t", [3]int{})
	return rot, mathutil.Vec3i{t[0], t[1], t[2]}, nil
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
