package soft

import (
	"errors"
	"testing"

	"github.com/micycle8778/mm3ds/engine/core"
	"github.com/micycle8778/mm3ds/engine/math"
	"github.com/micycle8778/mm3ds/engine/mesh"
	"github.com/micycle8778/mm3ds/engine/renderer"
)

// fullscreenTriangle covers the whole render target in clip space.
var fullscreenTriangle = []mesh.Vertex{
	{Position: math.Vec3{X: -1, Y: -1}, Normal: math.Vec3{Z: 1}},
	{Position: math.Vec3{X: 3, Y: -1}, UV: math.Vec2{X: 2}, Normal: math.Vec3{Z: 1}},
	{Position: math.Vec3{X: -1, Y: 3}, UV: math.Vec2{Y: 2}, Normal: math.Vec3{Z: 1}},
}

// emissive draws with a flat color regardless of the light.
func emissive(r, g, b, a float32) renderer.DrawUniforms {
	return renderer.DrawUniforms{
		Projection: math.NewIdentity(),
		ModelView:  math.NewIdentity(),
		LightVec:   math.Vec4{Z: 1},
		LightColor: math.Vec4{X: 1, Y: 1, Z: 1, W: 1},
		Material: renderer.Material{
			Emission: math.Vec4{X: r, Y: g, Z: b, W: a},
		},
	}
}

func pixelAt(b *Backend, x, y int) [4]byte {
	o := (y*b.width + x) * 4
	return [4]byte{b.pixels[o], b.pixels[o+1], b.pixels[o+2], b.pixels[o+3]}
}

func TestBeginFrameClearsToColor(t *testing.T) {
	b := New(16, 16)
	if err := b.BeginFrame(0x68b0d8ff); err != nil {
		t.Fatalf("BeginFrame() error = %v", err)
	}

	want := [4]byte{0x68, 0xb0, 0xd8, 0xff}
	for _, p := range [][2]int{{0, 0}, {15, 15}, {7, 8}} {
		if got := pixelAt(b, p[0], p[1]); got != want {
			t.Errorf("pixel %v = %v, want %v", p, got, want)
		}
	}
}

func TestDrawArraysFillsCoveredPixels(t *testing.T) {
	b := New(16, 16)
	vb, err := b.CreateVertexBuffer(fullscreenTriangle)
	if err != nil {
		t.Fatal(err)
	}

	b.BeginFrame(0x000000ff)
	b.SetRasterState(renderer.RasterState{AlphaTestRef: 0x10})
	u := emissive(1, 1, 1, 1)
	b.SetUniforms(&u)
	b.SetCombiner(renderer.CombinerUntextured)
	b.DrawArrays(vb)

	if got := pixelAt(b, 8, 8); got != [4]byte{255, 255, 255, 255} {
		t.Errorf("center pixel = %v, want solid white", got)
	}
}

func TestAlphaTestDiscardsTransparentFragments(t *testing.T) {
	b := New(16, 16)
	vb, _ := b.CreateVertexBuffer(fullscreenTriangle)

	b.BeginFrame(0x000000ff)
	b.SetRasterState(renderer.RasterState{AlphaTestRef: 0x10})
	u := emissive(1, 1, 1, 0)
	b.SetUniforms(&u)
	b.SetCombiner(renderer.CombinerUntextured)
	b.DrawArrays(vb)

	if got := pixelAt(b, 8, 8); got != [4]byte{0, 0, 0, 0xff} {
		t.Errorf("center pixel = %v, want untouched clear color", got)
	}
}

func TestDepthTestKeepsNearerFragment(t *testing.T) {
	near := make([]mesh.Vertex, len(fullscreenTriangle))
	far := make([]mesh.Vertex, len(fullscreenTriangle))
	for i, v := range fullscreenTriangle {
		near[i], far[i] = v, v
		near[i].Position.Z = -0.5
		far[i].Position.Z = 0.5
	}

	b := New(16, 16)
	nearVB, _ := b.CreateVertexBuffer(near)
	farVB, _ := b.CreateVertexBuffer(far)

	b.BeginFrame(0x000000ff)
	b.SetRasterState(renderer.RasterState{AlphaTestRef: 0x10})

	u := emissive(1, 0, 0, 1)
	b.SetUniforms(&u)
	b.SetCombiner(renderer.CombinerUntextured)
	b.DrawArrays(nearVB)

	u = emissive(0, 1, 0, 1)
	b.SetUniforms(&u)
	b.DrawArrays(farVB)

	if got := pixelAt(b, 8, 8); got != [4]byte{255, 0, 0, 255} {
		t.Errorf("center pixel = %v, want the nearer red fill", got)
	}
}

func TestTexturedCombinerModulatesTexel(t *testing.T) {
	b := New(16, 16)
	vb, _ := b.CreateVertexBuffer(fullscreenTriangle)

	container := buildContainer(t, 3, 3, formatRGBA8, solidRGBA8(0xFF, 0x00, 0x00, 0xFF))
	tex, err := b.ImportTexture(container, renderer.FilterLinear, renderer.FilterNearest)
	if err != nil {
		t.Fatalf("ImportTexture() error = %v", err)
	}

	b.BeginFrame(0x000000ff)
	b.SetRasterState(renderer.RasterState{AlphaTestRef: 0x10})
	u := emissive(1, 1, 1, 1)
	b.SetUniforms(&u)
	b.SetCombiner(renderer.CombinerTextured)
	b.BindTexture(tex)
	b.DrawArrays(vb)

	if got := pixelAt(b, 8, 8); got != [4]byte{255, 0, 0, 255} {
		t.Errorf("center pixel = %v, want the red texel", got)
	}
}

func TestEndFramePresentsPixels(t *testing.T) {
	b := New(8, 8)
	var presented []byte
	b.SetPresentFunc(func(pixels []byte) {
		presented = append(presented[:0], pixels...)
	})

	b.BeginFrame(0x11223344)
	if err := b.EndFrame(); err != nil {
		t.Fatalf("EndFrame() error = %v", err)
	}

	if len(presented) != 8*8*4 {
		t.Fatalf("presented %d bytes, want %d", len(presented), 8*8*4)
	}
	if presented[0] != 0x11 || presented[3] != 0x44 {
		t.Errorf("presented pixel 0 = %v, want clear color bytes", presented[:4])
	}
}

func TestImportTextureRespectsMemoryBudget(t *testing.T) {
	// 1024×1024 RGBA8 is 4 MiB decoded; a second one exceeds the
	// 6 MiB budget.
	big := buildContainer(t, 10, 10, formatRGBA8, make([]byte, 1024*1024*4))

	b := New(8, 8)
	tex, err := b.ImportTexture(big, renderer.FilterLinear, renderer.FilterNearest)
	if err != nil {
		t.Fatalf("first import error = %v", err)
	}
	if _, err := b.ImportTexture(big, renderer.FilterLinear, renderer.FilterNearest); !errors.Is(err, core.ErrHardware) {
		t.Fatalf("second import error = %v, want ErrHardware", err)
	}

	// Releasing the first texture frees its memory for reuse.
	b.DestroyTexture(tex)
	if _, err := b.ImportTexture(big, renderer.FilterLinear, renderer.FilterNearest); err != nil {
		t.Errorf("import after release error = %v", err)
	}
}

func TestVertexBufferKeepsItsOwnCopy(t *testing.T) {
	verts := []mesh.Vertex{{Position: math.Vec3{X: 1}}}
	b := New(8, 8)
	vb, _ := b.CreateVertexBuffer(verts)

	verts[0].Position.X = 99
	if got := vb.(*vertexBuffer).vertices[0].Position.X; got != 1 {
		t.Errorf("buffer vertex x = %v, want the value at creation time", got)
	}
	if vb.Len() != 1 {
		t.Errorf("Len() = %d, want 1", vb.Len())
	}
}
