package soft

import (
	"fmt"

	"github.com/micycle8778/mm3ds/engine/core"
	"github.com/micycle8778/mm3ds/engine/math"
	"github.com/micycle8778/mm3ds/engine/mesh"
	"github.com/micycle8778/mm3ds/engine/renderer"
)

// vramBudget mirrors the dedicated texture memory of the target
// hardware. Imports past it fail the way the real allocator would.
const vramBudget = 6 << 20

type texture struct {
	pixels        []byte
	width, height int
	mag, min      renderer.TextureFilter
}

func (t *texture) Size() (int, int) {
	return t.width, t.height
}

// sample reads the texel under (u, v) with repeat wrapping. The v axis
// grows upward while pixel rows are stored top-down.
func (t *texture) sample(u, v float32) math.Vec4 {
	x := wrap(int(math.Floor(u*float32(t.width))), t.width)
	y := t.height - 1 - wrap(int(math.Floor(v*float32(t.height))), t.height)
	o := (y*t.width + x) * 4
	const inv = 1.0 / 255.0
	return math.Vec4{
		X: float32(t.pixels[o+0]) * inv,
		Y: float32(t.pixels[o+1]) * inv,
		Z: float32(t.pixels[o+2]) * inv,
		W: float32(t.pixels[o+3]) * inv,
	}
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// vertexBuffer owns one fixed copy of the caller's vertices. The slice
// is allocated once at creation and never grows, so its header stays
// valid for the buffer's whole lifetime.
type vertexBuffer struct {
	vertices []mesh.Vertex
}

func (b *vertexBuffer) Len() int {
	return len(b.vertices)
}

// Backend rasterizes draw calls into an RGBA8 framebuffer on the CPU.
// It is the hardware seam for hosts without the real GPU: frames are
// handed to a present callback as raw pixels.
type Backend struct {
	width, height int
	pixels        []byte
	depth         []float32

	present func(pixels []byte)

	vramUsed int

	raster   renderer.RasterState
	uniforms renderer.DrawUniforms
	combiner renderer.CombinerMode
	bound    *texture
}

var _ renderer.Backend = (*Backend)(nil)

// New builds a backend with a width×height render target.
func New(width, height int) *Backend {
	return &Backend{
		width:  width,
		height: height,
		pixels: make([]byte, width*height*4),
		depth:  make([]float32, width*height),
	}
}

// SetPresentFunc registers the callback that receives the finished
// framebuffer on EndFrame. The slice is reused between frames; the
// callback must copy what it keeps.
func (b *Backend) SetPresentFunc(fn func(pixels []byte)) {
	b.present = fn
}

// Size reports the render target dimensions.
func (b *Backend) Size() (int, int) {
	return b.width, b.height
}

func (b *Backend) CreateVertexBuffer(vertices []mesh.Vertex) (renderer.VertexBuffer, error) {
	buf := &vertexBuffer{vertices: make([]mesh.Vertex, len(vertices))}
	copy(buf.vertices, vertices)
	return buf, nil
}

func (b *Backend) DestroyVertexBuffer(vb renderer.VertexBuffer) {
	if buf, ok := vb.(*vertexBuffer); ok {
		buf.vertices = nil
	}
}

func (b *Backend) ImportTexture(container []byte, mag, min renderer.TextureFilter) (renderer.Texture, error) {
	pixels, width, height, err := decodeT3X(container)
	if err != nil {
		return nil, err
	}
	size := len(pixels)
	if b.vramUsed+size > vramBudget {
		return nil, fmt.Errorf("%w: out of texture memory (%d of %d bytes in use)",
			core.ErrHardware, b.vramUsed, vramBudget)
	}
	b.vramUsed += size
	return &texture{
		pixels: pixels,
		width:  width,
		height: height,
		mag:    mag,
		min:    min,
	}, nil
}

func (b *Backend) DestroyTexture(t renderer.Texture) {
	if tex, ok := t.(*texture); ok && tex.pixels != nil {
		b.vramUsed -= len(tex.pixels)
		tex.pixels = nil
	}
}

// BeginFrame clears the color target to clearColor (0xRRGGBBAA) and
// resets the depth buffer.
func (b *Backend) BeginFrame(clearColor uint32) error {
	r := byte(clearColor >> 24)
	g := byte(clearColor >> 16)
	bl := byte(clearColor >> 8)
	a := byte(clearColor)
	for i := 0; i < len(b.pixels); i += 4 {
		b.pixels[i+0] = r
		b.pixels[i+1] = g
		b.pixels[i+2] = bl
		b.pixels[i+3] = a
	}
	for i := range b.depth {
		b.depth[i] = math.K_INFINITY
	}
	return nil
}

func (b *Backend) SetRasterState(s renderer.RasterState) {
	b.raster = s
}

func (b *Backend) SetUniforms(u *renderer.DrawUniforms) {
	b.uniforms = *u
}

func (b *Backend) SetCombiner(mode renderer.CombinerMode) {
	b.combiner = mode
}

func (b *Backend) BindTexture(t renderer.Texture) {
	b.bound, _ = t.(*texture)
}

// DrawArrays rasterizes consecutive vertex triples as triangles.
func (b *Backend) DrawArrays(vb renderer.VertexBuffer) {
	buf, ok := vb.(*vertexBuffer)
	if !ok {
		return
	}
	v := buf.vertices
	for i := 0; i+2 < len(v); i += 3 {
		b.drawTriangle(&v[i], &v[i+1], &v[i+2])
	}
}

// DrawElements rasterizes indexed triangles. Triples referencing a
// vertex past the buffer are skipped.
func (b *Backend) DrawElements(vb renderer.VertexBuffer, indices []uint16) {
	buf, ok := vb.(*vertexBuffer)
	if !ok {
		return
	}
	v := buf.vertices
	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := int(indices[i]), int(indices[i+1]), int(indices[i+2])
		if i0 >= len(v) || i1 >= len(v) || i2 >= len(v) {
			continue
		}
		b.drawTriangle(&v[i0], &v[i1], &v[i2])
	}
}

// EndFrame hands the finished framebuffer to the present callback.
func (b *Backend) EndFrame() error {
	if b.present != nil {
		b.present(b.pixels)
	}
	return nil
}

func (b *Backend) Shutdown() error {
	b.present = nil
	b.bound = nil
	return nil
}
