package testbed

import (
	"github.com/micycle8778/mm3ds/engine/math"
	"github.com/micycle8778/mm3ds/engine/mesh"
)

// Each face: outward normal, origin corner and the two edge vectors
// spanning it.
var cubeFaces = [6]struct {
	n, o, u, v math.Vec3
}{
	{n: math.Vec3{Z: 1}, o: math.Vec3{X: -0.5, Y: -0.5, Z: 0.5}, u: math.Vec3{X: 1}, v: math.Vec3{Y: 1}},
	{n: math.Vec3{Z: -1}, o: math.Vec3{X: 0.5, Y: -0.5, Z: -0.5}, u: math.Vec3{X: -1}, v: math.Vec3{Y: 1}},
	{n: math.Vec3{X: 1}, o: math.Vec3{X: 0.5, Y: -0.5, Z: 0.5}, u: math.Vec3{Z: -1}, v: math.Vec3{Y: 1}},
	{n: math.Vec3{X: -1}, o: math.Vec3{X: -0.5, Y: -0.5, Z: -0.5}, u: math.Vec3{Z: 1}, v: math.Vec3{Y: 1}},
	{n: math.Vec3{Y: 1}, o: math.Vec3{X: -0.5, Y: 0.5, Z: 0.5}, u: math.Vec3{X: 1}, v: math.Vec3{Z: -1}},
	{n: math.Vec3{Y: -1}, o: math.Vec3{X: -0.5, Y: -0.5, Z: -0.5}, u: math.Vec3{X: 1}, v: math.Vec3{Z: 1}},
}

// cubeVertices builds a unit cube as 36 unindexed vertices, two
// triangles per face.
func cubeVertices() []mesh.Vertex {
	verts := make([]mesh.Vertex, 0, 36)
	for _, f := range cubeFaces {
		corners := [4]mesh.Vertex{
			{Position: f.o, UV: math.Vec2{X: 0, Y: 0}, Normal: f.n},
			{Position: f.o.Add(f.u), UV: math.Vec2{X: 1, Y: 0}, Normal: f.n},
			{Position: f.o.Add(f.u).Add(f.v), UV: math.Vec2{X: 1, Y: 1}, Normal: f.n},
			{Position: f.o.Add(f.v), UV: math.Vec2{X: 0, Y: 1}, Normal: f.n},
		}
		verts = append(verts,
			corners[0], corners[1], corners[2],
			corners[0], corners[2], corners[3],
		)
	}
	return verts
}
