package export

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vox-mesher/internal/importer"
	"vox-mesher/internal/mesher"
	"vox-mesher/internal/octree"
	"vox-mesher/internal/vox"
)

func singleVoxelResult(t *testing.T, uv mesher.UVMode) *importer.Result {
	t.Helper()
	v, err := octree.New(1, 1, 1)
	require.NoError(t, err)
	require.NoError(t, v.Set(0, 0, 0, 5))

	g := mesher.BuildGeometry(mesher.SurfaceQuads(v), [3]int{1, 1, 1}, 1, uv)
	res := &importer.Result{
		Palette: vox.DefaultPalette(),
		Instances: []importer.Instance{{
			NodeID:     -1,
			Name:       "cube",
			Geometries: []*mesher.Geometry{g},
			Transform:  mgl32.Ident4(),
		}},
	}
	res.Palette[5] = vox.RGBA{R: 255, G: 0, B: 0, A: 255}
	return res
}

func countLines(s, prefix string) int {
	n := 0
	for _, line := range strings.Split(s, "\n") {
		if strings.HasPrefix(line, prefix) {
			n++
		}
	}
	return n
}

func TestWriteOBJIgnoreMode(t *testing.T) {
	var sb strings.Builder
	res := singleVoxelResult(t, mesher.UVNone)
	require.NoError(t, WriteOBJ(&sb, res, OBJOptions{MaterialMode: importer.MaterialIgnore}))

	out := sb.String()
	assert.Contains(t, out, "o cube_0")
	assert.Equal(t, 8, countLines(out, "v "), "shared cube corners")
	assert.Equal(t, 6, countLines(out, "f "))
	assert.NotContains(t, out, "mtllib")
	assert.NotContains(t, out, "usemtl")
}

func TestWriteOBJVertexColors(t *testing.T) {
	var sb strings.Builder
	res := singleVoxelResult(t, mesher.UVNone)
	require.NoError(t, WriteOBJ(&sb, res, OBJOptions{MaterialMode: importer.MaterialVertexColor}))

	out := sb.String()
	assert.Equal(t, 24, countLines(out, "v "), "corners duplicate per face to carry color")
	assert.Equal(t, 6, countLines(out, "f "))
	assert.Contains(t, out, " 1 0 0\n", "palette slot 5 is pure red")
}

func TestWriteOBJPerColorMaterials(t *testing.T) {
	var sb strings.Builder
	res := singleVoxelResult(t, mesher.UVNone)
	opts := OBJOptions{MaterialMode: importer.MaterialPerColor, MTLName: "cube.mtl"}
	require.NoError(t, WriteOBJ(&sb, res, opts))

	out := sb.String()
	assert.Contains(t, out, "mtllib cube.mtl")
	assert.Equal(t, 1, countLines(out, "usemtl vox_5"), "one switch for one color")
}

func TestWriteOBJPaletteTexture(t *testing.T) {
	var sb strings.Builder
	res := singleVoxelResult(t, mesher.UVPalette)
	opts := OBJOptions{MaterialMode: importer.MaterialTexture, MTLName: "cube.mtl"}
	require.NoError(t, WriteOBJ(&sb, res, opts))

	out := sb.String()
	assert.Equal(t, 24, countLines(out, "vt "), "four texture corners per face")
	assert.Contains(t, out, "usemtl palette")
	assert.Contains(t, out, "f ")
	assert.Contains(t, out, "/", "faces reference texture coordinates")
}

func TestWriteOBJAppliesTransform(t *testing.T) {
	res := singleVoxelResult(t, mesher.UVNone)
	res.Instances[0].Transform = mgl32.Translate3D(10, 0, 0)

	var sb strings.Builder
	require.NoError(t, WriteOBJ(&sb, res, OBJOptions{MaterialMode: importer.MaterialIgnore}))
	assert.Contains(t, sb.String(), "v 10 0 0")
}

func TestWriteMTLPerColor(t *testing.T) {
	var sb strings.Builder
	res := singleVoxelResult(t, mesher.UVNone)
	require.NoError(t, WriteMTL(&sb, res, OBJOptions{MaterialMode: importer.MaterialPerColor}))

	out := sb.String()
	assert.Contains(t, out, "newmtl vox_5")
	assert.Contains(t, out, "Kd 1 0 0")
	assert.NotContains(t, out, "Ke", "properties are off in plain per-color mode")
}

func TestWriteMTLWithProperties(t *testing.T) {
	var sb strings.Builder
	res := singleVoxelResult(t, mesher.UVNone)
	res.Materials[5] = emissiveMaterial(t)
	require.NoError(t, WriteMTL(&sb, res, OBJOptions{MaterialMode: importer.MaterialPerColorProps}))
	assert.Contains(t, sb.String(), "Ke ")
}

func TestWriteMTLTextureMode(t *testing.T) {
	var sb strings.Builder
	res := singleVoxelResult(t, mesher.UVPalette)
	opts := OBJOptions{MaterialMode: importer.MaterialTexture, TextureName: "cube_palette.webp"}
	require.NoError(t, WriteMTL(&sb, res, opts))

	out := sb.String()
	assert.Contains(t, out, "newmtl palette")
	assert.Contains(t, out, "map_Kd cube_palette.webp")
	assert.NotContains(t, out, "vox_5")
}

// emissiveMaterial decodes an emissive slot through the vox decoder, the
// only way to populate material property records from outside the package.
func emissiveMaterial(t *testing.T) vox.Material {
	t.Helper()

	var matl []byte
	matl = le32(matl, 5)
	matl = le32(matl, 2) // dict entries
	for _, s := range []string{"_type", "_emit", "_weight", "1"} {
		matl = le32(matl, int32(len(s)))
		matl = append(matl, s...)
	}

	var size []byte
	size = le32(size, 1)
	size = le32(size, 1)
	size = le32(size, 1)

	main := wrapChunk("SIZE", size)
	main = append(main, wrapChunk("MATL", matl)...)

	data := []byte("VOX ")
	data = le32(data, vox.Version)
	data = append(data, wrapChunk("MAIN", nil, main...)...)

	f, err := vox.Decode(data)
	require.NoError(t, err)
	return f.Materials[5]
}

func le32(b []byte, v int32) []byte {
	return append(b, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

func wrapChunk(tag string, payload []byte, children ...byte) []byte {
	out := append([]byte(nil), tag...)
	out = le32(out, int32(len(payload)))
	out = le32(out, int32(len(children)))
	out = append(out, payload...)
	return append(out, children...)
}
