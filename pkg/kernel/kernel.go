// Package kernel defines the solid modeling interface used to build meshes
// procedurally, as an alternative to loading them from STL files.
// Implementations (sdfx) provide primitives, boolean operations and
// tessellation behind this interface.
package kernel

import (
	"github.com/chazu/meshslice/pkg/mesh"
	"github.com/chazu/meshslice/pkg/vecmath"
)

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max vecmath.Vec3)
}

// Kernel is the abstract geometry kernel interface. Primitives are centered
// on the origin.
type Kernel interface {
	// Primitives
	Box(x, y, z float64) Solid
	Cylinder(height, radius float64) Solid // axis along Z
	Sphere(radius float64) Solid

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees

	// ToMesh tessellates s into a triangle soup ready for slicing.
	ToMesh(s Solid) (*mesh.Mesh, error)
}
