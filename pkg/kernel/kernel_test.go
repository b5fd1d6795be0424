package kernel

import (
	"testing"

	"github.com/chazu/meshslice/pkg/mesh"
	"github.com/chazu/meshslice/pkg/vecmath"
)

// stubSolid is a minimal Solid implementation for testing.
type stubSolid struct {
	minBB, maxBB vecmath.Vec3
}

func (s *stubSolid) BoundingBox() (min, max vecmath.Vec3) {
	return s.minBB, s.maxBB
}

// stubKernel is a minimal Kernel implementation that proves the interface
// is satisfiable. Meshes come out as the unit cube scaled to the bounds.
type stubKernel struct{}

func (k *stubKernel) Box(x, y, z float64) Solid {
	half := vecmath.Vec3{X: x / 2, Y: y / 2, Z: z / 2}
	return &stubSolid{minBB: half.Neg(), maxBB: half}
}

func (k *stubKernel) Cylinder(height, radius float64) Solid {
	return k.Box(2*radius, 2*radius, height)
}

func (k *stubKernel) Sphere(radius float64) Solid {
	return k.Box(2*radius, 2*radius, 2*radius)
}

func (k *stubKernel) Union(a, _ Solid) Solid       { return a }
func (k *stubKernel) Difference(a, _ Solid) Solid   { return a }
func (k *stubKernel) Intersection(a, _ Solid) Solid { return a }

func (k *stubKernel) Translate(s Solid, x, y, z float64) Solid {
	lo, hi := s.BoundingBox()
	d := vecmath.Vec3{X: x, Y: y, Z: z}
	return &stubSolid{minBB: lo.Add(d), maxBB: hi.Add(d)}
}

func (k *stubKernel) Rotate(s Solid, _, _, _ float64) Solid { return s }

func (k *stubKernel) ToMesh(s Solid) (*mesh.Mesh, error) {
	lo, hi := s.BoundingBox()
	center := lo.Add(hi).Scale(0.5)
	half := hi.Sub(lo).Scale(0.5)
	t := vecmath.Translation4(center).Mul(vecmath.Scaling4(half))
	return mesh.Cube().Transform(t), nil
}

// Compile-time checks that the stubs implement the interfaces.
var _ Solid = (*stubSolid)(nil)
var _ Kernel = (*stubKernel)(nil)

func TestStubKernelBoxBoundingBox(t *testing.T) {
	var k Kernel = &stubKernel{}
	s := k.Box(10, 20, 30)
	min, max := s.BoundingBox()
	if min != (vecmath.Vec3{X: -5, Y: -10, Z: -15}) {
		t.Errorf("Box min = %v, want (-5, -10, -15)", min)
	}
	if max != (vecmath.Vec3{X: 5, Y: 10, Z: 15}) {
		t.Errorf("Box max = %v, want (5, 10, 15)", max)
	}
}

func TestStubKernelToMesh(t *testing.T) {
	var k Kernel = &stubKernel{}
	s := k.Translate(k.Box(2, 4, 6), 10, 0, 0)
	m, err := k.ToMesh(s)
	if err != nil {
		t.Fatalf("ToMesh() error = %v", err)
	}
	if m.TriangleCount() != 12 {
		t.Fatalf("TriangleCount() = %d, want 12", m.TriangleCount())
	}
	lo, hi, ok := m.Bounds()
	if !ok {
		t.Fatal("mesh has no bounds")
	}
	if !lo.ApproxEqual(vecmath.Vec3{X: 9, Y: -2, Z: -3}, 1e-12) || !hi.ApproxEqual(vecmath.Vec3{X: 11, Y: 2, Z: 3}, 1e-12) {
		t.Errorf("mesh bounds = %v..%v", lo, hi)
	}
}
