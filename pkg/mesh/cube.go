package mesh

import "github.com/chazu/meshslice/pkg/vecmath"

// Cube returns the 2x2x2 cube centered on the origin as 12 triangles
// (36 vertices), two per face, each carrying its face normal.
func Cube() *Mesh {
	type face struct {
		normal vecmath.Vec3
		quad   [6][3]float64
	}
	faces := []face{
		{vecmath.Vec3{Y: -1}, [6][3]float64{ // bottom
			{-1, -1, -1}, {1, -1, -1}, {1, -1, 1},
			{1, -1, 1}, {-1, -1, 1}, {-1, -1, -1},
		}},
		{vecmath.Vec3{Y: 1}, [6][3]float64{ // top
			{1, 1, -1}, {-1, 1, -1}, {1, 1, 1},
			{-1, 1, 1}, {1, 1, 1}, {-1, 1, -1},
		}},
		{vecmath.Vec3{X: -1}, [6][3]float64{ // left
			{-1, 1, -1}, {-1, -1, -1}, {-1, 1, 1},
			{-1, -1, 1}, {-1, 1, 1}, {-1, -1, -1},
		}},
		{vecmath.Vec3{X: 1}, [6][3]float64{ // right
			{1, -1, -1}, {1, 1, -1}, {1, 1, 1},
			{1, 1, 1}, {1, -1, 1}, {1, -1, -1},
		}},
		{vecmath.Vec3{Z: -1}, [6][3]float64{ // front
			{-1, -1, -1}, {-1, 1, -1}, {1, 1, -1},
			{1, 1, -1}, {1, -1, -1}, {-1, -1, -1},
		}},
		{vecmath.Vec3{Z: 1}, [6][3]float64{ // back
			{-1, 1, 1}, {-1, -1, 1}, {1, 1, 1},
			{1, -1, 1}, {1, 1, 1}, {-1, -1, 1},
		}},
	}

	vertices := make([]Vertex, 0, 36)
	for _, f := range faces {
		for _, p := range f.quad {
			vertices = append(vertices, Vertex{
				Position: vecmath.Vec3{X: p[0], Y: p[1], Z: p[2]},
				Normal:   f.normal,
			})
		}
	}
	return wrap(vertices)
}
