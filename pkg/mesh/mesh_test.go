package mesh

import (
	"errors"
	"math"
	"testing"

	"github.com/chazu/meshslice/pkg/vecmath"
)

func verts(n int) []Vertex {
	out := make([]Vertex, n)
	for i := range out {
		out[i].Position = vecmath.Vec3{X: float64(i)}
	}
	return out
}

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		n         int
		wantErr   bool
		triangles int
	}{
		{"empty", 0, false, 0},
		{"one triangle", 3, false, 1},
		{"two triangles", 6, false, 2},
		{"dangling vertex", 4, true, 0},
		{"dangling edge", 5, true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New(verts(tt.n))
			if tt.wantErr {
				if !errors.Is(err, ErrNotTriangles) {
					t.Fatalf("New() error = %v, want ErrNotTriangles", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if got := m.TriangleCount(); got != tt.triangles {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.triangles)
			}
			if got := m.Len(); got != tt.n {
				t.Errorf("Len() = %d, want %d", got, tt.n)
			}
		})
	}
}

func TestNewCopiesInput(t *testing.T) {
	in := verts(3)
	m, err := New(in)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	in[0].Position.X = 99
	if m.Position(0).X != 0 {
		t.Error("mesh shares storage with the caller's slice")
	}

	out := m.Vertices()
	out[1].Position.X = 99
	if m.Position(1).X != 1 {
		t.Error("Vertices() exposes internal storage")
	}
}

func TestNilMeshIsEmpty(t *testing.T) {
	var m *Mesh
	if !m.IsEmpty() {
		t.Error("IsEmpty() = false for nil mesh")
	}
	if m.TriangleCount() != 0 {
		t.Error("nil mesh has triangles")
	}
}

func TestCube(t *testing.T) {
	c := Cube()
	if c.Len() != 36 {
		t.Fatalf("Len() = %d, want 36", c.Len())
	}
	if c.TriangleCount() != 12 {
		t.Fatalf("TriangleCount() = %d, want 12", c.TriangleCount())
	}

	min, max, ok := c.Bounds()
	if !ok {
		t.Fatal("Bounds() not ok for cube")
	}
	if min != (vecmath.Vec3{X: -1, Y: -1, Z: -1}) || max != (vecmath.Vec3{X: 1, Y: 1, Z: 1}) {
		t.Errorf("Bounds() = %v..%v, want ±1", min, max)
	}

	// Each triangle's winding must agree with its stored face normal.
	for i := 0; i < c.TriangleCount(); i++ {
		tri := c.Triangle(i)
		e1 := tri[1].Position.Sub(tri[0].Position)
		e2 := tri[2].Position.Sub(tri[0].Position)
		n := e1.Cross(e2)
		if d := n.Dot(tri[0].Normal); d == 0 {
			t.Errorf("triangle %d is degenerate or perpendicular to its normal", i)
		}
	}
}

func TestViewFit(t *testing.T) {
	center, extent := Cube().ViewFit()
	if center != (vecmath.Vec3{}) {
		t.Errorf("center = %v, want origin", center)
	}
	if want := math.Sqrt(12); math.Abs(extent-want) > 1e-12 {
		t.Errorf("extent = %v, want %v", extent, want)
	}

	var empty Mesh
	center, extent = empty.ViewFit()
	if center != (vecmath.Vec3{}) || extent != 1 {
		t.Errorf("empty ViewFit() = %v, %v; want origin, 1", center, extent)
	}
}

func TestTransformAndNormalized(t *testing.T) {
	moved := Cube().Transform(vecmath.Translation4(vecmath.Vec3{X: 10}))
	min, _, _ := moved.Bounds()
	if min.X != 9 {
		t.Errorf("translated min.X = %v, want 9", min.X)
	}

	norm, scale := moved.Normalized()
	center, extent := norm.ViewFit()
	if !center.ApproxEqual(vecmath.Vec3{}, 1e-12) {
		t.Errorf("normalized center = %v, want origin", center)
	}
	if math.Abs(extent-1) > 1e-12 {
		t.Errorf("normalized extent = %v, want 1", extent)
	}
	if want := 1 / math.Sqrt(12); math.Abs(scale-want) > 1e-12 {
		t.Errorf("scale = %v, want %v", scale, want)
	}
}

func TestConcat(t *testing.T) {
	m := Concat(Cube(), nil, Cube())
	if m.TriangleCount() != 24 {
		t.Errorf("TriangleCount() = %d, want 24", m.TriangleCount())
	}
}
