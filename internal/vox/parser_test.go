package vox

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chunk builds one protocol chunk: tag, payload length, children length,
// payload bytes, child chunks.
func chunk(tag string, payload []byte, children ...[]byte) []byte {
	var kids []byte
	for _, c := range children {
		kids = append(kids, c...)
	}
	out := make([]byte, 0, 12+len(payload)+len(kids))
	out = append(out, tag...)
	out = le32(out, int32(len(payload)))
	out = le32(out, int32(len(kids)))
	out = append(out, payload...)
	out = append(out, kids...)
	return out
}

func le32(b []byte, v int32) []byte {
	return binary.LittleEndian.AppendUint32(b, uint32(v))
}

func lef32(b []byte, v float32) []byte {
	return binary.LittleEndian.AppendUint32(b, math.Float32bits(v))
}

func lestr(b []byte, s string) []byte {
	b = le32(b, int32(len(s)))
	return append(b, s...)
}

func ledict(b []byte, pairs ...string) []byte {
	b = le32(b, int32(len(pairs)/2))
	for _, s := range pairs {
		b = lestr(b, s)
	}
	return b
}

// voxFile wraps chunks in the magic, version and MAIN container.
func voxFile(children ...[]byte) []byte {
	return voxFileVersion(Version, children...)
}

func voxFileVersion(version int32, children ...[]byte) []byte {
	out := []byte("VOX ")
	out = le32(out, version)
	return append(out, chunk("MAIN", nil, children...)...)
}

func sizeChunk(x, y, z int32) []byte {
	var p []byte
	p = le32(p, x)
	p = le32(p, y)
	p = le32(p, z)
	return chunk("SIZE", p)
}

func xyziChunk(voxels ...[4]byte) []byte {
	var p []byte
	p = le32(p, int32(len(voxels)))
	for _, v := range voxels {
		p = append(p, v[:]...)
	}
	return chunk("XYZI", p)
}

func TestDecodeBadMagic(t *testing.T) {
	_, err := Decode([]byte("GLTFimpostor"))
	assert.ErrorIs(t, err, ErrBadMagic)

	_, err = Decode([]byte("VO"))
	assert.ErrorIs(t, err, ErrBadMagic)
}

func TestDecodeBadVersion(t *testing.T) {
	_, err := Decode(voxFileVersion(0))
	assert.ErrorIs(t, err, ErrBadVersion)

	_, err = Decode(voxFileVersion(-3))
	assert.ErrorIs(t, err, ErrBadVersion)
}

func TestDecodeFutureVersionAccepted(t *testing.T) {
	f, err := Decode(voxFileVersion(200, sizeChunk(1, 1, 1)))
	require.NoError(t, err)
	assert.Equal(t, int32(200), f.Version)
}

func TestDecodeTruncated(t *testing.T) {
	data := voxFile(sizeChunk(2, 2, 2), xyziChunk([4]byte{0, 0, 0, 1}))
	for _, cut := range []int{6, 10, len(data) - 3} {
		_, err := Decode(data[:cut])
		assert.Error(t, err, "cut at %d", cut)
	}
}

func TestDecodeOverlongChunk(t *testing.T) {
	data := []byte("VOX ")
	data = le32(data, Version)
	data = append(data, "MAIN"...)
	data = le32(data, 1000) // declares more payload than the buffer holds
	data = le32(data, 0)
	_, err := Decode(data)
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestDecodeHugeDeclaredCounts(t *testing.T) {
	// Element counts a tiny payload can never hold must fail as a
	// truncation; the declared count must not size any allocation.
	var trn []byte
	trn = le32(trn, 1) // node id
	trn = ledict(trn)
	trn = le32(trn, 2)  // child id
	trn = le32(trn, -1) // reserved
	trn = le32(trn, -1) // layer id
	trn = le32(trn, 1<<28)
	_, err := Decode(voxFile(chunk("nTRN", trn)))
	assert.ErrorIs(t, err, ErrTruncated, "nTRN frame count")

	var grp []byte
	grp = le32(grp, 1)
	grp = ledict(grp)
	grp = le32(grp, 1<<28)
	_, err = Decode(voxFile(chunk("nGRP", grp)))
	assert.ErrorIs(t, err, ErrTruncated, "nGRP child count")

	var shp []byte
	shp = le32(shp, 1)
	shp = ledict(shp)
	shp = le32(shp, 1<<28)
	_, err = Decode(voxFile(chunk("nSHP", shp)))
	assert.ErrorIs(t, err, ErrTruncated, "nSHP model count")

	var matl []byte
	matl = le32(matl, 1)
	matl = le32(matl, 1<<28)
	_, err = Decode(voxFile(chunk("MATL", matl)))
	assert.ErrorIs(t, err, ErrTruncated, "MATL dict entry count")

	var xyzi []byte
	xyzi = le32(xyzi, 1<<28)
	_, err = Decode(voxFile(sizeChunk(1, 1, 1), chunk("XYZI", xyzi)))
	assert.ErrorIs(t, err, ErrTruncated, "XYZI voxel count")
}

func TestDecodeMissingMain(t *testing.T) {
	data := []byte("VOX ")
	data = le32(data, Version)
	data = append(data, sizeChunk(1, 1, 1)...)
	_, err := Decode(data)
	assert.ErrorContains(t, err, "MAIN")
}

func TestDecodeModel(t *testing.T) {
	f, err := Decode(voxFile(
		sizeChunk(3, 2, 2),
		xyziChunk(
			[4]byte{0, 0, 0, 7},
			[4]byte{2, 1, 1, 9},
			[4]byte{1, 0, 0, 0}, // color 0 voxels are dropped
		),
	))
	require.NoError(t, err)
	require.Len(t, f.Models, 1)

	m := f.Models[0]
	dx, dy, dz := m.Dims()
	assert.Equal(t, [3]int{3, 2, 2}, [3]int{dx, dy, dz})
	assert.Equal(t, 2, m.Count())
	assert.Equal(t, uint8(7), m.Get(0, 0, 0))
	assert.Equal(t, uint8(9), m.Get(2, 1, 1))
	assert.Equal(t, uint8(0), m.Get(1, 0, 0))
}

func TestDecodeMultipleModels(t *testing.T) {
	f, err := Decode(voxFile(
		chunk("PACK", le32(nil, 2)),
		sizeChunk(1, 1, 1),
		xyziChunk([4]byte{0, 0, 0, 1}),
		sizeChunk(2, 2, 2),
		xyziChunk([4]byte{1, 1, 1, 2}),
	))
	require.NoError(t, err)
	require.Len(t, f.Models, 2)
	assert.Equal(t, 1, f.Models[0].Count())
	assert.Equal(t, uint8(2), f.Models[1].Get(1, 1, 1))
}

func TestDecodeXYZIWithoutSize(t *testing.T) {
	_, err := Decode(voxFile(xyziChunk([4]byte{0, 0, 0, 1})))
	assert.ErrorContains(t, err, "SIZE")
}

func TestDecodeSizeWithoutVoxelsIsEmptyModel(t *testing.T) {
	f, err := Decode(voxFile(
		sizeChunk(4, 4, 4),
		sizeChunk(2, 2, 2),
		xyziChunk([4]byte{0, 0, 0, 1}),
		sizeChunk(8, 8, 8), // trailing SIZE also counts
	))
	require.NoError(t, err)
	require.Len(t, f.Models, 3)
	assert.Equal(t, 0, f.Models[0].Count())
	assert.Equal(t, 1, f.Models[1].Count())
	assert.Equal(t, 0, f.Models[2].Count())
}

func TestDecodeInvalidDimensions(t *testing.T) {
	_, err := Decode(voxFile(sizeChunk(0, 1, 1)))
	assert.ErrorContains(t, err, "invalid dimensions")

	_, err = Decode(voxFile(sizeChunk(1, 257, 1)))
	assert.ErrorContains(t, err, "invalid dimensions")
}

func TestDecodePaletteRotation(t *testing.T) {
	// File entry i maps to palette slot i+1; entry 255 wraps to slot 0.
	var p []byte
	for i := 0; i < 256; i++ {
		p = append(p, byte(i), 10, 20, 255)
	}
	f, err := Decode(voxFile(sizeChunk(1, 1, 1), chunk("RGBA", p)))
	require.NoError(t, err)

	assert.Equal(t, RGBA{R: 0, G: 10, B: 20, A: 255}, f.Palette[1])
	assert.Equal(t, RGBA{R: 254, G: 10, B: 20, A: 255}, f.Palette[255])
	assert.Equal(t, RGBA{R: 255, G: 10, B: 20, A: 255}, f.Palette[0])
}

func TestDecodeDefaultPalette(t *testing.T) {
	f, err := Decode(voxFile(sizeChunk(1, 1, 1)))
	require.NoError(t, err)
	// Stock palette slot 1 is opaque white, slot 0 is the empty sentinel.
	assert.Equal(t, RGBA{R: 255, G: 255, B: 255, A: 255}, f.Palette[1])
	assert.Equal(t, RGBA{}, f.Palette[0])
}

func TestDecodeUnknownTagsSkippedOnce(t *testing.T) {
	f, err := Decode(voxFile(
		sizeChunk(1, 1, 1),
		chunk("ZZZZ", []byte{1, 2, 3}),
		chunk("ZZZZ", nil),
		chunk("QQQQ", nil),
	))
	require.NoError(t, err)
	assert.Equal(t, []string{"ZZZZ", "QQQQ"}, f.UnknownTags)
	require.Len(t, f.Models, 1)
}

func TestDecodeMaterial(t *testing.T) {
	var p []byte
	p = le32(p, 5)
	p = ledict(p, "_type", "_metal", "_weight", "0.75", "_rough", "0.3")
	f, err := Decode(voxFile(sizeChunk(1, 1, 1), chunk("MATL", p)))
	require.NoError(t, err)

	m := f.Materials[5]
	assert.Equal(t, MaterialMetal, m.Kind)
	assert.InDelta(t, 0.75, m.Weight, 1e-6)
	rough, ok := m.Prop(PropRoughness)
	require.True(t, ok)
	assert.InDelta(t, 0.3, rough, 1e-6)
	_, ok = m.Prop(PropIOR)
	assert.False(t, ok)
}

func TestDecodeLegacyMaterial(t *testing.T) {
	var p []byte
	p = le32(p, 9)        // id
	p = le32(p, 2)        // glass
	p = lef32(p, 0.5)     // weight
	p = le32(p, 0b001010) // roughness + IOR present
	p = lef32(p, 0.25)    // roughness
	p = lef32(p, 1.4)     // IOR
	f, err := Decode(voxFile(sizeChunk(1, 1, 1), chunk("MATT", p)))
	require.NoError(t, err)

	m := f.Materials[9]
	assert.Equal(t, MaterialGlass, m.Kind)
	assert.InDelta(t, 0.5, m.Weight, 1e-6)
	rough, ok := m.Prop(PropRoughness)
	require.True(t, ok)
	assert.InDelta(t, 0.25, rough, 1e-6)
	ior, ok := m.Prop(PropIOR)
	require.True(t, ok)
	assert.InDelta(t, 1.4, ior, 1e-6)
}

func TestDecodeSceneChunks(t *testing.T) {
	var trn []byte
	trn = le32(trn, 0)                 // node id
	trn = ledict(trn, "_name", "root") // attrs
	trn = le32(trn, 1)                 // child
	trn = le32(trn, -1)                // reserved
	trn = le32(trn, 4)                 // layer
	trn = le32(trn, 1)                 // frames
	trn = ledict(trn, "_t", "1 2 3")

	var shp []byte
	shp = le32(shp, 1)
	shp = ledict(shp)
	shp = le32(shp, 1) // one model
	shp = le32(shp, 0)
	shp = ledict(shp, "_f", "0")

	var layr []byte
	layr = le32(layr, 4)
	layr = ledict(layr, "_hidden", "1")

	f, err := Decode(voxFile(
		sizeChunk(1, 1, 1),
		xyziChunk([4]byte{0, 0, 0, 1}),
		chunk("nTRN", trn),
		chunk("nSHP", shp),
		chunk("LAYR", layr),
	))
	require.NoError(t, err)

	require.Len(t, f.Nodes, 2)
	root := f.Nodes[0]
	assert.Equal(t, NodeTransform, root.Kind)
	assert.Equal(t, "root", root.Attrs.String("_name", ""))
	assert.Equal(t, int32(1), root.ChildID)
	assert.Equal(t, int32(4), root.LayerID)
	require.Len(t, root.Frames, 1)
	assert.Equal(t, [3]int{1, 2, 3}, root.Frames[0].Vec3("_t", [3]int{}))

	shape := f.Nodes[1]
	assert.Equal(t, NodeShape, shape.Kind)
	require.Len(t, shape.Models, 1)
	assert.Equal(t, int32(0), shape.Models[0].ModelID)

	assert.True(t, f.HiddenLayer(4))
	assert.False(t, f.HiddenLayer(3))
}

func TestDecodeCameraAndRenderSettings(t *testing.T) {
	var cam []byte
	cam = le32(cam, 0)
	cam = ledict(cam, "_mode", "pers")

	f, err := Decode(voxFile(
		sizeChunk(1, 1, 1),
		chunk("rCAM", cam),
		chunk("rOBJ", ledict(nil, "_type", "_inf")),
		chunk("IMAP", make([]byte, 256)),
		chunk("NOTE", le32(nil, 0)),
	))
	require.NoError(t, err)
	assert.Equal(t, "pers", f.Cameras[0].String("_mode", ""))
	require.Len(t, f.RenderSettings, 1)
	assert.Empty(t, f.UnknownTags)
}

func TestDictGetters(t *testing.T) {
	d := Dict{"_t": " 4 -2 10 ", "_hidden": "1", "_weight": "0.5", "_f": "2", "_name": "leg"}
	assert.Equal(t, [3]int{4, -2, 10}, d.Vec3("_t", [3]int{}))
	assert.True(t, d.Bool("_hidden", false))
	assert.InDelta(t, 0.5, d.Float("_weight", 0), 1e-9)
	assert.Equal(t, 2, d.Int("_f", -1))
	assert.Equal(t, "leg", d.String("_name", ""))
	assert.Equal(t, 7, d.Int("missing", 7))
	assert.Equal(t, [3]int{1, 1, 1}, Dict{"_t": "junk"}.Vec3("_t", [3]int{1, 1, 1}))
}
