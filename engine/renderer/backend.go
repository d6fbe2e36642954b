package renderer

import (
	"github.com/micycle8778/mm3ds/engine/math"
	"github.com/micycle8778/mm3ds/engine/mesh"
)

// CombinerMode is the fixed-function rule deriving a fragment color
// from the interpolated primary color and the bound texture.
type CombinerMode int

const (
	// CombinerUntextured passes the primary color through.
	CombinerUntextured CombinerMode = iota
	// CombinerTextured modulates the primary color by texture unit 0.
	CombinerTextured
)

type CullMode int

const (
	CullNone CullMode = iota
	CullFront
	CullBack
)

type TextureFilter int

const (
	FilterNearest TextureFilter = iota
	FilterLinear
)

// Texture is an opaque resident texture created by a Backend.
type Texture interface {
	Size() (width, height int)
}

// VertexBuffer is the hardware-visible vertex storage for one mesh
// plus the buffer descriptor built over it. The storage never moves
// after creation; the descriptor is constructed once and reused every
// frame.
type VertexBuffer interface {
	Len() int
}

// DrawUniforms is the per-draw uniform block.
type DrawUniforms struct {
	Projection math.Mat4
	ModelView  math.Mat4
	LightVec   math.Vec4
	LightColor math.Vec4
	Material   Material
}

// RasterState is the global raster configuration set once per frame.
type RasterState struct {
	// AlphaTestRef discards fragments whose alpha is <= the reference.
	AlphaTestRef uint8
	Cull         CullMode
}

// Backend is the one hardware/display context of the process. It is
// constructed at startup and threaded by reference into every
// component that issues hardware calls; nothing reaches the hardware
// through ambient state.
type Backend interface {
	// CreateVertexBuffer copies vertices into storage suitable for
	// direct hardware access and builds the descriptor over it.
	CreateVertexBuffer(vertices []mesh.Vertex) (VertexBuffer, error)
	DestroyVertexBuffer(VertexBuffer)

	// ImportTexture decodes a compressed-texture container into a
	// resident texture with the given filtering configuration.
	ImportTexture(container []byte, mag, min TextureFilter) (Texture, error)
	DestroyTexture(Texture)

	// BeginFrame clears the render target to the 0xRRGGBBAA color and
	// prepares the frame.
	BeginFrame(clearColor uint32) error
	SetRasterState(RasterState)
	SetUniforms(*DrawUniforms)
	SetCombiner(CombinerMode)
	BindTexture(Texture)
	// DrawArrays draws the buffer's full vertex range as triangles.
	DrawArrays(VertexBuffer)
	// DrawElements draws indexed triangles over the buffer.
	DrawElements(VertexBuffer, []uint16)
	// EndFrame presents the completed frame.
	EndFrame() error

	Shutdown() error
}
