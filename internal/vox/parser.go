package vox

import (
	"encoding/binary"
	"fmt"
	"os"

	"vox-mesher/internal/octree"
)

const magic = "VOX "

// Version is the format version current MagicaVoxel builds write. Newer
// versions are accepted; callers may warn.
const Version = 150

// maxModelDim bounds per-model dimensions; XYZI coordinates are single
// bytes so models never exceed 256 per axis.
const maxModelDim = 256

// ParseFile reads and decodes the named .vox file.
func ParseFile(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("vox: read %s: %w", path, err)
	}
	return Decode(raw)
}

// Decode parses a .vox byte buffer into a File. Unknown chunk tags are
// skipped and recorded; a future format version is accepted.
func Decode(data []byte) (*File, error) {
	if len(data) < 4 || string(data[:4]) != magic {
		return nil, ErrBadMagic
	}
	if len(data) < 8 {
		return nil, fmt.Errorf("vox: missing version field: %w", ErrTruncated)
	}
	version := int32(binary.LittleEndian.Uint32(data[4:8]))
	if version <= 0 {
		return nil, fmt.Errorf("vox: version %d: %w", version, ErrBadVersion)
	}

	root, err := readChunk(&reader{data: data, off: 8})
	if err != nil {
		return nil, err
	}
	if root.Tag != "MAIN" {
		return nil, fmt.Errorf("vox: expected MAIN root chunk, got %q", root.Tag)
	}

	f := &File{
		Version: version,
		Palette: DefaultPalette(),
		Nodes:   make(map[int32]NodeRecord),
		Layers:  make(map[int32]Dict),
		Cameras: make(map[int32]Dict),
	}
	d := decoder{file: f}
	for _, c := range root.Children {
		if err := d.chunk(c); err != nil {
			return nil, err
		}
	}
	if d.pendingDims != nil {
		// Trailing SIZE without voxel data: an empty model.
		if err := d.appendModel(nil); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// decoder dispatches chunk records into the File being built.
type decoder struct {
	file        *File
	pendingDims *[3]int32
	unknownSeen map[string]bool
}

func (d *decoder) chunk(c Chunk) error {
	var err error
	switch c.Tag {
	case "PACK":
		// Declared model count; models are counted from SIZE/XYZI pairs.
	case "SIZE":
		err = d.sizeChunk(c.Payload)
	case "XYZI":
		err = d.voxelChunk(c.Payload)
	case "RGBA":
		r := &reader{data: c.Payload}
		d.file.Palette, err = decodePalette(r)
	case "MATL":
		err = d.materialChunk(c.Payload)
	case "MATT":
		r := &reader{data: c.Payload}
		var id int
		var m Material
		id, m, err = decodeLegacyMaterial(r)
		if err == nil && id >= 0 && id < 256 {
			d.file.Materials[id] = m
		}
	case "nTRN":
		err = d.transformChunk(c.Payload)
	case "nGRP":
		err = d.groupChunk(c.Payload)
	case "nSHP":
		err = d.shapeChunk(c.Payload)
	case "LAYR":
		err = d.layerChunk(c.Payload)
	case "rCAM":
		r := &reader{data: c.Payload}
		id := r.readInt32()
		d.file.Cameras[id] = r.readDict()
		err = r.Err()
	case "rOBJ":
		r := &reader{data: c.Payload}
		d.file.RenderSettings = append(d.file.RenderSettings, r.readDict())
		err = r.Err()
	case "IMAP", "NOTE":
		// Palette display order and color names; irrelevant to geometry.
	default:
		if d.unknownSeen == nil {
			d.unknownSeen = make(map[string]bool)
		}
		if !d.unknownSeen[c.Tag] {
			d.unknownSeen[c.Tag] = true
			d.file.UnknownTags = append(d.file.UnknownTags, c.Tag)
		}
	}
	if err != nil {
		return err
	}
	for _, child := range c.Children {
		if err := d.chunk(child); err != nil {
			return err
		}
	}
	return nil
}

func (d *decoder) sizeChunk(payload []byte) error {
	// A SIZE not followed by XYZI still declares an (empty) model.
	if d.pendingDims != nil {
		if err := d.appendModel(nil); err != nil {
			return err
		}
	}
	r := &reader{data: payload}
	dims := [3]int32{r.readInt32(), r.readInt32(), r.readInt32()}
	if err := r.Err(); err != nil {
		return err
	}
	for _, v := range dims {
		if v < 1 || v > maxModelDim {
			return fmt.Errorf("vox: model %d has invalid dimensions %dx%dx%d",
				len(d.file.Models), dims[0], dims[1], dims[2])
		}
	}
	d.pendingDims = &dims
	return nil
}

func (d *decoder) voxelChunk(payload []byte) error {
	if d.pendingDims == nil {
		return fmt.Errorf("vox: XYZI chunk without a preceding SIZE chunk")
	}
	return d.appendModel(payload)
}

func (d *decoder) appendModel(voxels []byte) error {
	dims := *d.pendingDims
	d.pendingDims = nil
	vol, err := octree.New(int(dims[0]), int(dims[1]), int(dims[2]))
	if err != nil {
		return err
	}
	if voxels != nil {
		r := &reader{data: voxels}
		n := r.readCount(4)
		if err := r.Err(); err != nil {
			return err
		}
		for i := int32(0); i < n; i++ {
			x := r.readUint8()
			y := r.readUint8()
			z := r.readUint8()
			c := r.readUint8()
			if err := r.Err(); err != nil {
				return err
			}
			if c == 0 {
				continue
			}
			if err := vol.Set(int(x), int(y), int(z), c); err != nil {
				return fmt.Errorf("vox: model %d voxel %d: %w", len(d.file.Models), i, err)
			}
		}
	}
	d.file.Models = append(d.file.Models, vol)
	return nil
}

func (d *decoder) materialChunk(payload []byte) error {
	r := &reader{data: payload}
	id := r.readInt32()
	dict := r.readDict()
	if err := r.Err(); err != nil {
		return err
	}
	if id >= 0 && id < 256 {
		d.file.Materials[id] = materialFromDict(dict)
	}
	return nil
}

func (d *decoder) transformChunk(payload []byte) error {
	r := &reader{data: payload}
	rec := NodeRecord{Kind: NodeTransform}
	rec.ID = r.readInt32()
	rec.Attrs = r.readDict()
	rec.ChildID = r.readInt32()
	_ = r.readInt32() // reserved, -1
	rec.LayerID = r.readInt32()
	numFrames := r.readCount(4)
	for i := int32(0); i < numFrames; i++ {
		rec.Frames = append(rec.Frames, r.readDict())
	}
	if err := r.Err(); err != nil {
		return err
	}
	d.file.Nodes[rec.ID] = rec
	return nil
}

func (d *decoder) groupChunk(payload []byte) error {
	r := &reader{data: payload}
	rec := NodeRecord{Kind: NodeGroup}
	rec.ID = r.readInt32()
	rec.Attrs = r.readDict()
	numChildren := r.readCount(4)
	for i := int32(0); i < numChildren; i++ {
		rec.ChildIDs = append(rec.ChildIDs, r.readInt32())
	}
	if err := r.Err(); err != nil {
		return err
	}
	d.file.Nodes[rec.ID] = rec
	return nil
}

func (d *decoder) shapeChunk(payload []byte) error {
	r := &reader{data: payload}
	rec := NodeRecord{Kind: NodeShape}
	rec.ID = r.readInt32()
	rec.Attrs = r.readDict()
	numModels := r.readCount(8)
	for i := int32(0); i < numModels; i++ {
		rec.Models = append(rec.Models, ShapeModel{
			ModelID: r.readInt32(),
			Attrs:   r.readDict(),
		})
	}
	if err := r.Err(); err != nil {
		return err
	}
	d.file.Nodes[rec.ID] = rec
	return nil
}

func (d *decoder) layerChunk(payload []byte) error {
	r := &reader{data: payload}
	id := r.readInt32()
	dict := r.readDict()
	if err := r.Err(); err != nil {
		return err
	}
	d.file.Layers[id] = dict
	return nil
}
