// Package stl reads and writes STL triangle meshes.
//
// Both encodings are supported on input. A file whose size matches the
// binary layout exactly is read as binary even when its header begins with
// "solid"; otherwise a leading "solid" selects the ASCII reader.
package stl

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chazu/meshslice/pkg/mesh"
	"github.com/chazu/meshslice/pkg/vecmath"
)

// Remap selects the axis convention applied while reading.
type Remap int

const (
	// RemapNone keeps file coordinates as they are.
	RemapNone Remap = iota
	// RemapYZX reads a file point (x, y, z) as (y, z, x), turning a Z-up
	// model into a Y-up one.
	RemapYZX
)

func (r Remap) String() string {
	switch r {
	case RemapNone:
		return "none"
	case RemapYZX:
		return "yzx"
	}
	return fmt.Sprintf("Remap(%d)", int(r))
}

// ParseRemap converts a configuration string into a Remap.
func ParseRemap(s string) (Remap, error) {
	switch s {
	case "", "none":
		return RemapNone, nil
	case "yzx":
		return RemapYZX, nil
	}
	return RemapNone, fmt.Errorf("stl: unknown remap %q", s)
}

func (r Remap) apply(v vecmath.Vec3) vecmath.Vec3 {
	if r == RemapYZX {
		return vecmath.Vec3{X: v.Y, Y: v.Z, Z: v.X}
	}
	return v
}

// Options controls decoding.
type Options struct {
	Remap Remap
}

// Format identifies an STL encoding.
type Format int

const (
	Binary Format = iota
	ASCII
)

func (f Format) String() string {
	if f == ASCII {
		return "ascii"
	}
	return "binary"
}

const (
	headerSize = 80
	facetSize  = 50
)

// ErrTruncated is returned when a binary file ends before its declared
// facet count.
var ErrTruncated = errors.New("stl: truncated binary data")

// SyntaxError describes a malformed ASCII file.
type SyntaxError struct {
	Line int
	Want string
	Got  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("stl: line %d: expected %s, got %q", e.Line, e.Want, e.Got)
}

// Detect reports which encoding data uses.
func Detect(data []byte) Format {
	if len(data) >= headerSize+4 {
		n := binary.LittleEndian.Uint32(data[headerSize:])
		if uint64(len(data)) == headerSize+4+facetSize*uint64(n) {
			return Binary
		}
	}
	if bytes.HasPrefix(data, []byte("solid")) {
		return ASCII
	}
	return Binary
}

// Decode reads a whole STL stream into a mesh. Every vertex carries the
// normal of its facet.
func Decode(r io.Reader, opts Options) (*mesh.Mesh, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("stl: read: %w", err)
	}
	var vs []mesh.Vertex
	if Detect(data) == ASCII {
		vs, err = decodeASCII(data, opts.Remap)
	} else {
		vs, err = decodeBinary(data, opts.Remap)
	}
	if err != nil {
		return nil, err
	}
	return mesh.New(vs)
}

// Load opens and decodes the STL file at path.
func Load(path string, opts Options) (*mesh.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("stl: %w", err)
	}
	defer f.Close()

	m, err := Decode(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
