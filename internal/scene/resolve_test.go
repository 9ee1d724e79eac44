package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vox-mesher/internal/mathutil"
	"vox-mesher/internal/vox"
)

func mustBuild(t *testing.T, f *vox.File) *Graph {
	t.Helper()
	g, err := Build(f)
	require.NoError(t, err)
	return g
}

func TestResolveWithoutSceneGraph(t *testing.T) {
	g := mustBuild(t, testFile(t, 3))
	placements, err := Resolve(g, 3, false)
	require.NoError(t, err)
	require.Len(t, placements, 3)
	for i, pl := range placements {
		assert.Equal(t, int32(-1), pl.NodeID)
		assert.Equal(t, i, pl.ModelID)
		assert.True(t, pl.Rotation.IsIdentity())
		assert.Equal(t, mathutil.Vec3i{}, pl.Translation)
	}
}

func TestResolveComposesOutermostFirst(t *testing.T) {
	// Outer transform rotates 90° around Z and moves by (2,3,4); the inner
	// one moves by (1,0,0). The inner translation must pass through the
	// outer rotation: (2,3,4) + R*(1,0,0) = (2,4,4).
	f := testFile(t, 1,
		trn(0, 1, vox.Dict{"_name": "root"}, vox.Dict{"_r": "17", "_t": "2 3 4"}),
		grp(1, 2),
		trn(2, 3, nil, vox.Dict{"_t": "1 0 0"}),
		shp(3, vox.ShapeModel{ModelID: 0}),
	)
	placements, err := Resolve(mustBuild(t, f), 1, false)
	require.NoError(t, err)
	require.Len(t, placements, 1)

	pl := placements[0]
	assert.Equal(t, int32(3), pl.NodeID)
	assert.Equal(t, "root", pl.Name)
	assert.Equal(t, 0, pl.ModelID)
	assert.Equal(t, mathutil.Mat3i{0, -1, 0, 1, 0, 0, 0, 0, 1}, pl.Rotation)
	assert.Equal(t, mathutil.Vec3i{2, 4, 4}, pl.Translation)
	assert.Nil(t, pl.Path, "flattened mode has no ancestry")
}

func TestResolveHierarchyPath(t *testing.T) {
	f := testFile(t, 1,
		trn(0, 1, vox.Dict{"_name": "outer"}, vox.Dict{"_t": "5 0 0"}),
		grp(1, 2),
		trn(2, 3, nil, vox.Dict{"_t": "0 1 0"}),
		shp(3, vox.ShapeModel{ModelID: 0}),
	)
	placements, err := Resolve(mustBuild(t, f), 1, true)
	require.NoError(t, err)
	require.Len(t, placements, 1)

	require.Len(t, placements[0].Path, 1)
	step := placements[0].Path[0]
	assert.Equal(t, int32(1), step.NodeID)
	assert.Equal(t, "outer", step.Name)
	assert.Equal(t, mathutil.Vec3i{5, 0, 0}, step.Translation)
	assert.True(t, step.Rotation.IsIdentity())
}

func TestResolveSkipsHiddenSubtrees(t *testing.T) {
	f := testFile(t, 2,
		trn(0, 1, nil),
		grp(1, 2, 4),
		trn(2, 3, vox.Dict{"_hidden": "1"}),
		shp(3, vox.ShapeModel{ModelID: 0}),
		trn(4, 5, nil),
		shp(5, vox.ShapeModel{ModelID: 1}),
	)
	placements, err := Resolve(mustBuild(t, f), 2, false)
	require.NoError(t, err)
	require.Len(t, placements, 1)
	assert.Equal(t, 1, placements[0].ModelID)
}

func TestResolveFrameSelection(t *testing.T) {
	f := testFile(t, 1,
		trn(0, 1, nil,
			vox.Dict{"_f": "0", "_t": "1 0 0"},
			vox.Dict{"_f": "2", "_t": "0 9 0"},
		),
		shp(1, vox.ShapeModel{ModelID: 0, Attrs: vox.Dict{"_f": "2"}}),
	)
	placements, err := Resolve(mustBuild(t, f), 1, false)
	require.NoError(t, err)
	require.Len(t, placements, 1)
	assert.Equal(t, mathutil.Vec3i{0, 9, 0}, placements[0].Translation)
}

func TestResolveFrameFallback(t *testing.T) {
	// No frame matches the selector, so the first frame applies.
	f := testFile(t, 1,
		trn(0, 1, nil, vox.Dict{"_f": "0", "_t": "7 0 0"}),
		shp(1, vox.ShapeModel{ModelID: 0, Attrs: vox.Dict{"_f": "5"}}),
	)
	placements, err := Resolve(mustBuild(t, f), 1, false)
	require.NoError(t, err)
	require.Len(t, placements, 1)
	assert.Equal(t, mathutil.Vec3i{7, 0, 0}, placements[0].Translation)
}

func TestResolveInvalidRotation(t *testing.T) {
	f := testFile(t, 1,
		trn(0, 1, nil, vox.Dict{"_r": "3"}),
		shp(1, vox.ShapeModel{ModelID: 0}),
	)
	_, err := Resolve(mustBuild(t, f), 1, false)
	assert.ErrorIs(t, err, ErrInvalidRotation)
}

func TestResolveMultipleShapeModels(t *testing.T) {
	f := testFile(t, 2,
		trn(0, 1, nil, vox.Dict{"_t": "1 2 3"}),
		shp(1, vox.ShapeModel{ModelID: 0}, vox.ShapeModel{ModelID: 1}),
	)
	placements, err := Resolve(mustBuild(t, f), 2, false)
	require.NoError(t, err)
	require.Len(t, placements, 2)
	assert.Equal(t, 0, placements[0].ModelID)
	assert.Equal(t, 1, placements[1].ModelID)
	assert.Equal(t, placements[0].Translation, placements[1].Translation)
}
