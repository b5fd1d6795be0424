// Package slicer computes the cross-section of a triangle-soup mesh with a
// plane. The result is a flat list of 2-D points in plane coordinates,
// consumed in pairs: (p[0], p[1]) is one segment, (p[2], p[3]) the next, and
// so on. Segments are independent; they are not joined into loops.
package slicer

import (
	"fmt"
	"math"

	"github.com/chazu/meshslice/pkg/mesh"
	"github.com/chazu/meshslice/pkg/partition"
	"github.com/chazu/meshslice/pkg/vecmath"
)

// TieBreak decides the side of a vertex lying exactly on the plane.
type TieBreak int

const (
	// TieBelow puts on-plane vertices on the negative side, as if the plane
	// were lifted by an infinitesimal along its normal. A face lying in the
	// plane, or a solid resting on it from below, contributes nothing.
	TieBelow TieBreak = iota
	// TieAbove puts on-plane vertices on the positive side.
	TieAbove
)

func (tb TieBreak) String() string {
	switch tb {
	case TieBelow:
		return "below"
	case TieAbove:
		return "above"
	}
	return "unknown"
}

// ParseTieBreak converts "below" or "above" into a TieBreak. The empty
// string selects TieBelow.
func ParseTieBreak(s string) (TieBreak, error) {
	switch s {
	case "", "below":
		return TieBelow, nil
	case "above":
		return TieAbove, nil
	}
	return TieBelow, fmt.Errorf("slicer: unknown tie break %q (want below or above)", s)
}

// Slice intersects every triangle of m with p, in mesh order, using the
// default TieBelow policy. Engine with TieAbove reproduces the original
// positive nudge, under which a plane touching a vertex counts it as above.
func Slice(m *mesh.Mesh, p Plane) []vecmath.Vec2 {
	return sliceSequential(m, p, TieBelow)
}

// SliceParallel computes the same segments as Slice using workers
// goroutines, each handling one contiguous run of triangles. The output is
// grouped by run in run order and is identical across calls. workers < 2
// runs sequentially.
func SliceParallel(m *mesh.Mesh, p Plane, workers int) ([]vecmath.Vec2, error) {
	return sliceParallel(m, p, workers, TieBelow)
}

func sliceSequential(m *mesh.Mesh, p Plane, tb TieBreak) []vecmath.Vec2 {
	c := newCutter(p, tb)
	return c.cutRange(nil, m, 0, m.TriangleCount())
}

func sliceParallel(m *mesh.Mesh, p Plane, workers int, tb TieBreak) ([]vecmath.Vec2, error) {
	if workers < 2 {
		return sliceSequential(m, p, tb), nil
	}
	c := newCutter(p, tb)
	chunks := partition.Split(m.TriangleCount(), workers)
	return partition.Gather(chunks, func(ch partition.Chunk) []vecmath.Vec2 {
		return c.cutRange(nil, m, ch.Offset, ch.End())
	})
}

// cutter holds the per-call state shared read-only by every triangle.
type cutter struct {
	basis    vecmath.Mat3
	distance float64
	tie      TieBreak
}

func newCutter(p Plane, tb TieBreak) cutter {
	return cutter{basis: Basis(p), distance: p.Distance, tie: tb}
}

// cutRange appends the crossings of triangles [from, to) to dst.
func (c cutter) cutRange(dst []vecmath.Vec2, m *mesh.Mesh, from, to int) []vecmath.Vec2 {
	for t := from; t < to; t++ {
		dst = c.cut(dst, m.Position(3*t), m.Position(3*t+1), m.Position(3*t+2))
	}
	return dst
}

// cut appends 0 or 2 points for the triangle p0 p1 p2.
//
// Each vertex is classified as above or below the plane. Walking the closed
// edge cycle 0-1-2-0 the classification changes an even number of times,
// so exactly zero or two edges produce a point.
func (c cutter) cut(dst []vecmath.Vec2, p0, p1, p2 vecmath.Vec3) []vecmath.Vec2 {
	v := [3]vecmath.Vec3{c.local(p0), c.local(p1), c.local(p2)}
	var up [3]bool
	for i := range v {
		up[i] = c.above(v[i].Y)
	}
	for i := 0; i < 3; i++ {
		j := (i + 1) % 3
		if up[i] == up[j] {
			continue
		}
		a, b := v[i], v[j]
		t := math.Abs(a.Y / (b.Y - a.Y))
		dst = append(dst, vecmath.Vec2{
			X: a.X + (b.X-a.X)*t,
			Y: a.Z + (b.Z-a.Z)*t,
		})
	}
	return dst
}

// local maps p into plane space, where the plane is Y == 0.
func (c cutter) local(p vecmath.Vec3) vecmath.Vec3 {
	v := c.basis.MulVec(p)
	v.Y -= c.distance
	return v
}

func (c cutter) above(y float64) bool {
	if y == 0 {
		return c.tie == TieAbove
	}
	return y > 0
}
