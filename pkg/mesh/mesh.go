// Package mesh defines the triangle-soup mesh handed to the slicer.
// Every consecutive triple of vertices is one triangle; there is no
// shared-vertex index table, so a vertex used by two triangles is stored
// twice. A Mesh is immutable once built and safe for concurrent reads.
package mesh

import (
	"errors"
	"fmt"

	"github.com/chazu/meshslice/pkg/vecmath"
)

// ErrNotTriangles is returned when a vertex list does not split into triangles.
var ErrNotTriangles = errors.New("mesh: vertex count is not a multiple of 3")

// Vertex is a position with the normal of the facet it belongs to.
type Vertex struct {
	Position vecmath.Vec3 `json:"position"`
	Normal   vecmath.Vec3 `json:"normal"`
}

// Mesh is an immutable triangle soup.
type Mesh struct {
	vertices []Vertex
}

// New copies vertices into a new Mesh.
func New(vertices []Vertex) (*Mesh, error) {
	if len(vertices)%3 != 0 {
		return nil, fmt.Errorf("%w (got %d)", ErrNotTriangles, len(vertices))
	}
	return &Mesh{vertices: append([]Vertex(nil), vertices...)}, nil
}

// wrap adopts vertices without copying. Callers must not retain the slice.
func wrap(vertices []Vertex) *Mesh {
	return &Mesh{vertices: vertices}
}

// Len returns the number of vertices.
func (m *Mesh) Len() int {
	if m == nil {
		return 0
	}
	return len(m.vertices)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return m.Len() / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return m.Len() == 0
}

// Vertex returns the i-th vertex.
func (m *Mesh) Vertex(i int) Vertex {
	return m.vertices[i]
}

// Position returns the position of the i-th vertex.
func (m *Mesh) Position(i int) vecmath.Vec3 {
	return m.vertices[i].Position
}

// Triangle returns the three vertices of triangle t.
func (m *Mesh) Triangle(t int) [3]Vertex {
	return [3]Vertex{m.vertices[3*t], m.vertices[3*t+1], m.vertices[3*t+2]}
}

// Vertices returns a copy of the vertex list.
func (m *Mesh) Vertices() []Vertex {
	if m == nil {
		return nil
	}
	return append([]Vertex(nil), m.vertices...)
}

// Bounds returns the axis-aligned bounding box. ok is false for an empty mesh.
func (m *Mesh) Bounds() (min, max vecmath.Vec3, ok bool) {
	if m.IsEmpty() {
		return min, max, false
	}
	min = m.vertices[0].Position
	max = min
	for _, v := range m.vertices[1:] {
		min = min.Min(v.Position)
		max = max.Max(v.Position)
	}
	return min, max, true
}

// ViewFit returns the bounding box center and diagonal length, the values
// needed to fit the mesh into a unit view. An empty mesh yields the origin
// and 1 so that callers can divide by extent unconditionally.
func (m *Mesh) ViewFit() (center vecmath.Vec3, extent float64) {
	min, max, ok := m.Bounds()
	if !ok {
		return vecmath.Vec3{}, 1
	}
	diag := max.Sub(min)
	extent = diag.Length()
	if extent == 0 {
		extent = 1
	}
	return min.Add(diag.Scale(0.5)), extent
}

// Transform returns a new mesh with positions mapped through t and normals
// through its linear part.
func (m *Mesh) Transform(t vecmath.Mat4) *Mesh {
	out := make([]Vertex, m.Len())
	lin := t.Linear()
	for i, v := range m.vertices {
		out[i] = Vertex{
			Position: t.MulPosition(v.Position),
			Normal:   lin.MulVec(v.Normal).Normalize(),
		}
	}
	return wrap(out)
}

// Normalized returns the mesh translated and scaled so that its bounding box
// is centered on the origin with a unit diagonal, plus the scale applied.
func (m *Mesh) Normalized() (*Mesh, float64) {
	center, extent := m.ViewFit()
	s := 1 / extent
	t := vecmath.Scaling4(vecmath.Vec3{X: s, Y: s, Z: s}).Mul(vecmath.Translation4(center.Neg()))
	return m.Transform(t), s
}

// Concat joins meshes into one, preserving order.
func Concat(meshes ...*Mesh) *Mesh {
	n := 0
	for _, m := range meshes {
		n += m.Len()
	}
	out := make([]Vertex, 0, n)
	for _, m := range meshes {
		if m != nil {
			out = append(out, m.vertices...)
		}
	}
	return wrap(out)
}
