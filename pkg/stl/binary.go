package stl

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/chazu/meshslice/pkg/mesh"
	"github.com/chazu/meshslice/pkg/vecmath"
)

// facet is the on-disk layout of one binary record.
type facet struct {
	Normal    [3]float32
	Vertices  [3][3]float32
	Attribute uint16
}

func decodeBinary(data []byte, remap Remap) ([]mesh.Vertex, error) {
	if len(data) < headerSize+4 {
		return nil, fmt.Errorf("%w: %d byte header", ErrTruncated, len(data))
	}
	n := binary.LittleEndian.Uint32(data[headerSize:])
	body := data[headerSize+4:]
	if uint64(len(body)) < facetSize*uint64(n) {
		return nil, fmt.Errorf("%w: %d facets declared, room for %d", ErrTruncated, n, len(body)/facetSize)
	}

	vs := make([]mesh.Vertex, 0, 3*int(n))
	for i := 0; i < int(n); i++ {
		rec := body[i*facetSize:]
		normal := remap.apply(readVec(rec))
		for k := 0; k < 3; k++ {
			vs = append(vs, mesh.Vertex{
				Position: remap.apply(readVec(rec[12*(k+1):])),
				Normal:   normal,
			})
		}
	}
	return vs, nil
}

func readVec(b []byte) vecmath.Vec3 {
	return vecmath.Vec3{
		X: float64(math.Float32frombits(binary.LittleEndian.Uint32(b[0:]))),
		Y: float64(math.Float32frombits(binary.LittleEndian.Uint32(b[4:]))),
		Z: float64(math.Float32frombits(binary.LittleEndian.Uint32(b[8:]))),
	}
}

func toF32(v vecmath.Vec3) [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}

// Encode writes m as binary STL. name fills the 80-byte header and is
// truncated to fit. Facet normals are recomputed from the winding of each
// triangle.
func Encode(w io.Writer, m *mesh.Mesh, name string) error {
	bw := bufio.NewWriter(w)

	var header [headerSize]byte
	copy(header[:], name)
	if _, err := bw.Write(header[:]); err != nil {
		return fmt.Errorf("stl: write header: %w", err)
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(m.TriangleCount())); err != nil {
		return fmt.Errorf("stl: write count: %w", err)
	}
	for t := 0; t < m.TriangleCount(); t++ {
		tri := m.Triangle(t)
		a, b, c := tri[0].Position, tri[1].Position, tri[2].Position
		f := facet{
			Normal:   toF32(b.Sub(a).Cross(c.Sub(a)).Normalize()),
			Vertices: [3][3]float32{toF32(a), toF32(b), toF32(c)},
		}
		if err := binary.Write(bw, binary.LittleEndian, &f); err != nil {
			return fmt.Errorf("stl: write facet %d: %w", t, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("stl: flush: %w", err)
	}
	return nil
}
