package vox

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

var (
	// ErrBadMagic is returned when the file does not start with "VOX ".
	ErrBadMagic = errors.New("vox: not a VOX file")
	// ErrBadVersion is returned for a zero or negative format version.
	// Future versions are accepted (the format is forward-extensible).
	ErrBadVersion = errors.New("vox: invalid format version")
	// ErrTruncated is returned when a declared chunk or payload length
	// exceeds the remaining bytes.
	ErrTruncated = errors.New("vox: truncated file")
)

// reader is a cursor over a byte buffer with a sticky error. Once a read
// overruns the buffer all further reads return zero values and Err()
// reports the first failure.
type reader struct {
	data []byte
	off  int
	err  error
}

func (r *reader) fail(what string) {
	if r.err == nil {
		r.err = fmt.Errorf("vox: %s at offset %d: %w", what, r.off, ErrTruncated)
	}
}

func (r *reader) Err() error { return r.err }

func (r *reader) remaining() int { return len(r.data) - r.off }

func (r *reader) readBytes(n int) []byte {
	if n < 0 || r.off+n > len(r.data) {
		r.fail(fmt.Sprintf("reading %d bytes", n))
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

func (r *reader) readUint8() byte {
	if r.off >= len(r.data) {
		r.fail("reading byte")
		return 0
	}
	b := r.data[r.off]
	r.off++
	return b
}

func (r *reader) readInt32() int32 {
	if r.off+4 > len(r.data) {
		r.fail("reading int32")
		return 0
	}
	v := int32(binary.LittleEndian.Uint32(r.data[r.off:]))
	r.off += 4
	return v
}

func (r *reader) readFloat32() float32 {
	if r.off+4 > len(r.data) {
		r.fail("reading float32")
		return 0
	}
	v := math.Float32frombits(binary.LittleEndian.Uint32(r.data[r.off:]))
	r.off += 4
	return v
}

// readString reads an int32 length-prefixed string.
func (r *reader) readString() string {
	n := r.readInt32()
	if r.err != nil {
		return ""
	}
	if n < 0 || int(n) > r.remaining() {
		r.fail(fmt.Sprintf("reading string of length %d", n))
		return ""
	}
	return string(r.readBytes(int(n)))
}

// readCount reads an int32 element count for a repeated structure whose
// elements encode to at least minElemSize bytes each. A count the
// remaining payload cannot hold fails as a truncation before the count
// can size any allocation or loop.
func (r *reader) readCount(minElemSize int) int32 {
	n := r.readInt32()
	if r.err != nil || n <= 0 {
		return 0
	}
	if int(n) > r.remaining()/minElemSize {
		r.fail(fmt.Sprintf("element count %d exceeds %d remaining bytes", n, r.remaining()))
		return 0
	}
	return n
}

// readDict reads an int32 entry count followed by length-prefixed
// key/value string pairs.
func (r *reader) readDict() Dict {
	n := r.readCount(8) // two length prefixes per entry at minimum
	if n == 0 {
		return Dict{}
	}
	d := make(Dict, n)
	for i := int32(0); i < n; i++ {
		key := r.readString()
		value := r.readString()
		if r.err != nil {
			return d
		}
		d[key] = value
	}
	return d
}

// Chunk is one tagged, length-prefixed record of the container protocol.
// Unknown tags are preserved as opaque chunks so files from newer
// producers still parse.
type Chunk struct {
	Tag      string
	Payload  []byte
	Children []Chunk
}

// readChunk decodes one chunk header plus its payload and child chunks.
func readChunk(r *reader) (Chunk, error) {
	tag := r.readBytes(4)
	contentLen := r.readInt32()
	childrenLen := r.readInt32()
	if err := r.Err(); err != nil {
		return Chunk{}, err
	}
	if contentLen < 0 || childrenLen < 0 ||
		int(contentLen)+int(childrenLen) > r.remaining() {
		return Chunk{}, fmt.Errorf("vox: chunk %q declares %d+%d bytes with %d remaining: %w",
			tag, contentLen, childrenLen, r.remaining(), ErrTruncated)
	}
	c := Chunk{
		Tag:     string(tag),
		Payload: r.readBytes(int(contentLen)),
	}
	child := &reader{data: r.readBytes(int(childrenLen))}
	for child.remaining() > 0 {
		cc, err := readChunk(child)
		if err != nil {
			return Chunk{}, fmt.Errorf("vox: in children of %q: %w", c.Tag, err)
		}
		c.Children = append(c.Children, cc)
	}
	return c, nil
}
