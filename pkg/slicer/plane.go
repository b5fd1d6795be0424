package slicer

import (
	"errors"
	"fmt"
	"math"

	"github.com/chazu/meshslice/pkg/vecmath"
)

// Plane is the set of points p with Normal·p == Distance. Normal must be a
// unit vector; the engine does not check.
type Plane struct {
	Normal   vecmath.Vec3 `json:"normal" yaml:"normal"`
	Distance float64      `json:"distance" yaml:"distance"`
}

func (p Plane) String() string {
	return fmt.Sprintf("plane{n=%v d=%g}", p.Normal, p.Distance)
}

// Normalized rescales the plane so its normal has unit length.
func (p Plane) Normalized() Plane {
	l := p.Normal.Length()
	if l == 0 || l == 1 {
		return p
	}
	return Plane{Normal: p.Normal.Scale(1 / l), Distance: p.Distance / l}
}

// PlaneFromPoint returns the plane with the given normal passing through point.
func PlaneFromPoint(normal, point vecmath.Vec3) Plane {
	n := normal.Normalize()
	return Plane{Normal: n, Distance: n.Dot(point)}
}

// PlaneFromTransform derives the plane from an object transform whose local
// XZ plane is the cutting plane: the normal is the transformed +Y axis and
// the plane passes through the transform's origin.
func PlaneFromTransform(m vecmath.Mat4) Plane {
	return PlaneFromPoint(m.MulDirection(vecmath.UnitY), m.Translation())
}

// Basis returns the rotation taking p.Normal onto +Y. After applying it and
// subtracting (0, p.Distance, 0), a point lies on the plane iff its Y is 0.
func Basis(p Plane) vecmath.Mat3 {
	return vecmath.RotateUnitVector(p.Normal, vecmath.UnitY)
}

// MaxLayers bounds the number of planes Layers will produce.
const MaxLayers = 1_000_000

var (
	// ErrBadStep is returned by Layers for a non-positive step.
	ErrBadStep = errors.New("slicer: layer step must be positive")
	// ErrBadRange is returned by Layers for a non-finite bound or step.
	ErrBadRange = errors.New("slicer: layer range must be finite")
	// ErrTooManyLayers is returned by Layers when the range holds more than
	// MaxLayers planes.
	ErrTooManyLayers = errors.New("slicer: too many layers")
)

// Layers returns parallel planes at distances from, from+step, ... up to and
// including to, for layer-by-layer slicing. from > to yields no planes.
func Layers(normal vecmath.Vec3, from, to, step float64) ([]Plane, error) {
	if !(step > 0) {
		return nil, fmt.Errorf("%w (got %g)", ErrBadStep, step)
	}
	if !finite(from) || !finite(to) || !finite(step) {
		return nil, fmt.Errorf("%w (from %g, to %g, step %g)", ErrBadRange, from, to, step)
	}
	n := normal.Normalize()
	if from > to {
		return nil, nil
	}
	// Tolerance keeps rounding in (to-from)/step from dropping the last layer.
	steps := math.Floor((to-from)/step + 1e-9)
	if !(steps < MaxLayers) {
		return nil, fmt.Errorf("%w: %g from %g to %g by %g, limit %d",
			ErrTooManyLayers, steps+1, from, to, step, MaxLayers)
	}
	planes := make([]Plane, int(steps)+1)
	for i := range planes {
		planes[i] = Plane{Normal: n, Distance: from + float64(i)*step}
	}
	return planes, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
