package slicer

import "github.com/chazu/meshslice/pkg/vecmath"

// Segment is one line segment of a slice.
type Segment struct {
	A, B vecmath.Vec2
}

// Length returns the distance between the endpoints.
func (s Segment) Length() float64 {
	return s.B.Sub(s.A).Length()
}

// Segments pairs up a slice's points. A trailing unpaired point, which the
// engine never produces, is ignored.
func Segments(points []vecmath.Vec2) []Segment {
	out := make([]Segment, len(points)/2)
	for i := range out {
		out[i] = Segment{A: points[2*i], B: points[2*i+1]}
	}
	return out
}

// Bounds returns the 2-D bounding box of points. ok is false when empty.
func Bounds(points []vecmath.Vec2) (min, max vecmath.Vec2, ok bool) {
	if len(points) == 0 {
		return min, max, false
	}
	min, max = points[0], points[0]
	for _, p := range points[1:] {
		if p.X < min.X {
			min.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
		if p.X > max.X {
			max.X = p.X
		}
		if p.Y > max.Y {
			max.Y = p.Y
		}
	}
	return min, max, true
}
