// Package export writes imported scenes as Wavefront OBJ/MTL, the lowest
// common denominator for feeding the meshes into other tools.
package export

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"vox-mesher/internal/importer"
	"vox-mesher/internal/mesher"
	"vox-mesher/internal/vox"
)

// OBJOptions controls what the OBJ carries alongside plain geometry.
type OBJOptions struct {
	MaterialMode importer.MaterialMode
	MTLName      string // written as mtllib when non-empty
	TextureName  string // map_Kd target for the texture modes
}

// WriteOBJ writes every instance of a result as one OBJ object, with
// world transforms baked into the vertices. Vertex-color modes emit the
// common "v x y z r g b" extension; per-color and texture modes reference
// materials from the companion MTL.
func WriteOBJ(w io.Writer, res *importer.Result, opts OBJOptions) error {
	bw := bufio.NewWriter(w)

	if opts.MTLName != "" && usesMTL(opts.MaterialMode) {
		fmt.Fprintf(bw, "mtllib %s\n", opts.MTLName)
	}

	vertBase := 1
	uvBase := 1
	for i, inst := range res.Instances {
		name := inst.Name
		if name == "" {
			name = fmt.Sprintf("model_%d", inst.ModelID)
		}
		fmt.Fprintf(bw, "o %s_%d\n", name, i)
		for _, g := range inst.Geometries {
			vertBase, uvBase = writeGeometry(bw, g, inst.Transform, &res.Palette, opts, vertBase, uvBase)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("export: write obj: %w", err)
	}
	return nil
}

func usesMTL(m importer.MaterialMode) bool {
	switch m {
	case importer.MaterialIgnore, importer.MaterialVertexColor, importer.MaterialVertexColorProps:
		return false
	}
	return true
}

func writeGeometry(bw *bufio.Writer, g *mesher.Geometry, tf mgl32.Mat4, pal *vox.Palette, opts OBJOptions, vertBase, uvBase int) (int, int) {
	switch opts.MaterialMode {
	case importer.MaterialVertexColor, importer.MaterialVertexColorProps:
		return writeColoredVerts(bw, g, tf, pal, vertBase, uvBase)
	default:
		return writeSharedVerts(bw, g, tf, opts, vertBase, uvBase)
	}
}

// writeColoredVerts duplicates the four corners of every face so each
// vertex carries its face's palette color as the "v x y z r g b"
// extension. OBJ has no per-face color, and sharing vertices across
// differently colored faces would bleed colors at seams.
func writeColoredVerts(bw *bufio.Writer, g *mesher.Geometry, tf mgl32.Mat4, pal *vox.Palette, vertBase, uvBase int) (int, int) {
	for _, f := range g.Faces {
		c := pal[f.Color]
		for _, vi := range f.Verts {
			p := transformPoint(tf, g.Positions[vi])
			fmt.Fprintf(bw, "v %g %g %g %g %g %g\n", p[0], p[1], p[2],
				float64(c.R)/255, float64(c.G)/255, float64(c.B)/255)
		}
		fmt.Fprintf(bw, "f %d %d %d %d\n", vertBase, vertBase+1, vertBase+2, vertBase+3)
		vertBase += 4
	}
	return vertBase, uvBase
}

func writeSharedVerts(bw *bufio.Writer, g *mesher.Geometry, tf mgl32.Mat4, opts OBJOptions, vertBase, uvBase int) (int, int) {
	for _, pos := range g.Positions {
		p := transformPoint(tf, pos)
		fmt.Fprintf(bw, "v %g %g %g\n", p[0], p[1], p[2])
	}

	texture := opts.MaterialMode.UVMode() != mesher.UVNone
	if texture {
		for _, f := range g.Faces {
			uv := faceUV(&f, len(g.Faces))
			for _, p := range uv {
				fmt.Fprintf(bw, "vt %g %g\n", p[0], p[1])
			}
		}
		fmt.Fprintf(bw, "usemtl palette\n")
	}

	switch {
	case texture:
		for i, f := range g.Faces {
			t := uvBase + i*4
			fmt.Fprintf(bw, "f %d/%d %d/%d %d/%d %d/%d\n",
				vertBase+f.Verts[0], t,
				vertBase+f.Verts[1], t+1,
				vertBase+f.Verts[2], t+2,
				vertBase+f.Verts[3], t+3)
		}
		uvBase += len(g.Faces) * 4
	case usesMTL(opts.MaterialMode):
		// Group faces by color so usemtl switches stay rare.
		order := make([]int, len(g.Faces))
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(a, b int) bool {
			return g.Faces[order[a]].Color < g.Faces[order[b]].Color
		})
		current := -1
		for _, fi := range order {
			f := g.Faces[fi]
			if int(f.Color) != current {
				current = int(f.Color)
				fmt.Fprintf(bw, "usemtl vox_%d\n", current)
			}
			fmt.Fprintf(bw, "f %d %d %d %d\n",
				vertBase+f.Verts[0], vertBase+f.Verts[1],
				vertBase+f.Verts[2], vertBase+f.Verts[3])
		}
	default:
		for _, f := range g.Faces {
			fmt.Fprintf(bw, "f %d %d %d %d\n",
				vertBase+f.Verts[0], vertBase+f.Verts[1],
				vertBase+f.Verts[2], vertBase+f.Verts[3])
		}
	}
	return vertBase + len(g.Positions), uvBase
}

// faceUV returns the four corner UVs of a face. Palette mode points all
// corners at the color's pixel center; unwrap mode lays rectangles out on
// a square grid so an external baker can fill each cell.
func faceUV(f *mesher.Face, total int) [4]mgl32.Vec2 {
	if f.UVRect < 0 {
		return [4]mgl32.Vec2{f.UV, f.UV, f.UV, f.UV}
	}
	side := int(math.Ceil(math.Sqrt(float64(total))))
	cell := 1 / float32(side)
	u0 := float32(f.UVRect%side) * cell
	v0 := float32(f.UVRect/side) * cell
	return [4]mgl32.Vec2{
		{u0, v0},
		{u0 + cell, v0},
		{u0 + cell, v0 + cell},
		{u0, v0 + cell},
	}
}

func transformPoint(tf mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	q := tf.Mul4x1(p.Vec4(1))
	return q.Vec3()
}

// WriteMTL writes the companion material library. Per-color modes get one
// material per palette slot used anywhere in the result; texture modes a
// single material mapping the palette strip.
func WriteMTL(w io.Writer, res *importer.Result, opts OBJOptions) error {
	bw := bufio.NewWriter(w)

	if opts.MaterialMode.UVMode() != mesher.UVNone {
		fmt.Fprintf(bw, "newmtl palette\n")
		if opts.TextureName != "" {
			fmt.Fprintf(bw, "map_Kd %s\n", opts.TextureName)
		}
		if err := bw.Flush(); err != nil {
			return fmt.Errorf("export: write mtl: %w", err)
		}
		return nil
	}

	for _, c := range usedColors(res) {
		col := res.Palette[c]
		fmt.Fprintf(bw, "newmtl vox_%d\n", c)
		fmt.Fprintf(bw, "Kd %g %g %g\n", float64(col.R)/255, float64(col.G)/255, float64(col.B)/255)
		if opts.MaterialMode.WithProperties() {
			writeMaterialProps(bw, &res.Materials[c], col)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("export: write mtl: %w", err)
	}
	return nil
}

func writeMaterialProps(bw *bufio.Writer, m *vox.Material, col vox.RGBA) {
	rough := m.PropOr(vox.PropRoughness, 1)
	fmt.Fprintf(bw, "Ns %g\n", float64(1-rough)*1000)
	switch m.Kind {
	case vox.MaterialMetal:
		fmt.Fprintf(bw, "Ks %g %g %g\n", float64(col.R)/255, float64(col.G)/255, float64(col.B)/255)
	case vox.MaterialGlass:
		alpha := 1 - m.Weight
		if v, ok := m.Prop(vox.PropAlpha); ok {
			alpha = v
		}
		fmt.Fprintf(bw, "d %g\n", float64(alpha))
		fmt.Fprintf(bw, "Ni %g\n", float64(m.PropOr(vox.PropIOR, 1.3)))
	case vox.MaterialEmit:
		e := float64(m.Weight)
		fmt.Fprintf(bw, "Ke %g %g %g\n",
			float64(col.R)/255*e, float64(col.G)/255*e, float64(col.B)/255*e)
	}
}

func usedColors(res *importer.Result) []int {
	seen := [256]bool{}
	for _, inst := range res.Instances {
		for _, g := range inst.Geometries {
			for _, f := range g.Faces {
				seen[f.Color] = true
			}
		}
	}
	var out []int
	for c := 1; c < 256; c++ {
		if seen[c] {
			out = append(out, c)
		}
	}
	return out
}
