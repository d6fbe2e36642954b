package soft

import (
	"github.com/micycle8778/mm3ds/engine/math"
	"github.com/micycle8778/mm3ds/engine/mesh"
	"github.com/micycle8778/mm3ds/engine/renderer"
)

// Triangles with any vertex this close to the eye plane are rejected
// whole rather than clipped.
const minClipW = 1e-5

type shadedVertex struct {
	clip  math.Vec4
	uv    math.Vec2
	color math.Vec4

	// Screen-space values, filled in after the clip-w check.
	sx, sy float32
	depth  float32
	invW   float32
}

// shade runs the fixed-function vertex stage: transform to clip space
// and evaluate per-vertex lighting against the session light.
func (b *Backend) shade(v *mesh.Vertex) shadedVertex {
	u := &b.uniforms
	eye := u.ModelView.MulPoint(v.Position)
	clip := u.Projection.MulVec4(math.Vec4{X: eye.X, Y: eye.Y, Z: eye.Z, W: 1})

	n := u.ModelView.MulDir(v.Normal).Normalized()
	l := u.LightVec.XYZ().Normalized()
	lambert := math.Max(n.Dot(l), 0)

	m := &u.Material
	color := m.Emission.
		Add(m.Ambient.Mul(u.LightColor)).
		Add(m.Diffuse.Mul(u.LightColor).Scale(lambert)).
		Clamp01()

	return shadedVertex{clip: clip, uv: v.UV, color: color}
}

func edge(ax, ay, bx, by, px, py float32) float32 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

func (b *Backend) drawTriangle(v0, v1, v2 *mesh.Vertex) {
	s := [3]shadedVertex{b.shade(v0), b.shade(v1), b.shade(v2)}
	for i := range s {
		if s[i].clip.W < minClipW {
			return
		}
	}

	fw, fh := float32(b.width), float32(b.height)
	for i := range s {
		invW := 1.0 / s[i].clip.W
		s[i].invW = invW
		s[i].depth = s[i].clip.Z * invW
		s[i].sx = (s[i].clip.X*invW*0.5 + 0.5) * fw
		s[i].sy = (0.5 - s[i].clip.Y*invW*0.5) * fh
	}

	area := edge(s[0].sx, s[0].sy, s[1].sx, s[1].sy, s[2].sx, s[2].sy)
	if area == 0 {
		return
	}
	// Screen y grows downward, so a triangle that winds counter-
	// clockwise in clip space has negative area here.
	switch b.raster.Cull {
	case renderer.CullBack:
		if area > 0 {
			return
		}
	case renderer.CullFront:
		if area < 0 {
			return
		}
	}
	if area < 0 {
		s[1], s[2] = s[2], s[1]
		area = -area
	}

	minX := int(math.Floor(math.Min(s[0].sx, math.Min(s[1].sx, s[2].sx))))
	maxX := int(math.Floor(math.Max(s[0].sx, math.Max(s[1].sx, s[2].sx))))
	minY := int(math.Floor(math.Min(s[0].sy, math.Min(s[1].sy, s[2].sy))))
	maxY := int(math.Floor(math.Max(s[0].sy, math.Max(s[1].sy, s[2].sy))))
	minX = math.Max(minX, 0)
	minY = math.Max(minY, 0)
	maxX = math.Min(maxX, b.width-1)
	maxY = math.Min(maxY, b.height-1)

	invArea := 1.0 / area
	for y := minY; y <= maxY; y++ {
		py := float32(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float32(x) + 0.5
			w0 := edge(s[1].sx, s[1].sy, s[2].sx, s[2].sy, px, py)
			w1 := edge(s[2].sx, s[2].sy, s[0].sx, s[0].sy, px, py)
			w2 := edge(s[0].sx, s[0].sy, s[1].sx, s[1].sy, px, py)
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			b0, b1, b2 := w0*invArea, w1*invArea, w2*invArea
			b.shadeFragment(y*b.width+x, &s, b0, b1, b2)
		}
	}
}

// shadeFragment interpolates the vertex outputs at one covered pixel
// and runs the depth test, the combiner and the alpha test.
func (b *Backend) shadeFragment(idx int, s *[3]shadedVertex, b0, b1, b2 float32) {
	depth := b0*s[0].depth + b1*s[1].depth + b2*s[2].depth
	if depth >= b.depth[idx] {
		return
	}

	// Attributes interpolate perspective-correct via 1/w.
	invW := b0*s[0].invW + b1*s[1].invW + b2*s[2].invW
	if invW <= 0 {
		return
	}
	persp := func(a, bb, c float32) float32 {
		return (b0*a*s[0].invW + b1*bb*s[1].invW + b2*c*s[2].invW) / invW
	}

	out := math.Vec4{
		X: persp(s[0].color.X, s[1].color.X, s[2].color.X),
		Y: persp(s[0].color.Y, s[1].color.Y, s[2].color.Y),
		Z: persp(s[0].color.Z, s[1].color.Z, s[2].color.Z),
		W: persp(s[0].color.W, s[1].color.W, s[2].color.W),
	}
	if b.combiner == renderer.CombinerTextured && b.bound != nil {
		u := persp(s[0].uv.X, s[1].uv.X, s[2].uv.X)
		v := persp(s[0].uv.Y, s[1].uv.Y, s[2].uv.Y)
		out = out.Mul(b.bound.sample(u, v))
	}

	if uint8(out.W*255) <= b.raster.AlphaTestRef {
		return
	}

	b.depth[idx] = depth
	o := idx * 4
	b.pixels[o+0] = uint8(out.X*255 + 0.5)
	b.pixels[o+1] = uint8(out.Y*255 + 0.5)
	b.pixels[o+2] = uint8(out.Z*255 + 0.5)
	b.pixels[o+3] = uint8(out.W*255 + 0.5)
}
