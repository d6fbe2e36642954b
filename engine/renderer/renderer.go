package renderer

import (
	"github.com/micycle8778/mm3ds/engine/math"
)

// Request pairs a registered mesh with a model-view transform. A
// request is valid only for the frame it was submitted into.
type Request struct {
	ID    MeshId
	Model math.Mat4
}

type frameState int

const (
	stateIdle frameState = iota
	stateDrawing
)

// Session-fixed light: shining along +z, white.
var (
	lightVec   = math.Vec4{X: 0, Y: 0, Z: 1, W: 0}
	lightColor = math.Vec4{X: 1, Y: 1, Z: 1, W: 1}
)

// Renderer drains the per-frame request queue into draw calls against
// one frame target. Submissions and frames happen on the engine's
// single logical thread.
type Renderer struct {
	backend  Backend
	registry *Registry

	projection math.Mat4
	clearColor uint32
	raster     RasterState

	state    frameState
	requests []Request
}

// NewRenderer builds the frame renderer. The projection is fixed for
// the session; the clear color comes from configuration.
func NewRenderer(b Backend, registry *Registry, aspect float32, clearColor uint32) *Renderer {
	return &Renderer{
		backend:    b,
		registry:   registry,
		projection: math.NewPerspective(80.0*math.K_DEG2RAD_MULTIPLIER, aspect, 0.01, 100.0),
		clearColor: clearColor,
		raster: RasterState{
			AlphaTestRef: 0x10,
			Cull:         CullNone,
		},
	}
}

// Submit queues one draw for the current frame. No deduplication,
// sorting or batching: draw order equals submission order.
func (r *Renderer) Submit(id MeshId, model math.Mat4) {
	r.requests = append(r.requests, Request{ID: id, Model: model})
}

// QueueLen reports how many requests are pending for this frame.
func (r *Renderer) QueueLen() int {
	return len(r.requests)
}

// BeginFrame opens a frame: clears the render target, binds the shader
// program state and the global raster state. Opening a frame while one
// is already open is a programming error and panics.
func (r *Renderer) BeginFrame() error {
	if r.state != stateIdle {
		panic("renderer: BeginFrame called while a frame is open")
	}
	if err := r.backend.BeginFrame(r.clearColor); err != nil {
		return err
	}
	r.backend.SetRasterState(r.raster)
	r.state = stateDrawing
	return nil
}

// DrawFrame issues the queued draws in submission order. A draw that
// cannot resolve its handle is skipped; the first such error is
// returned after the rest of the queue has been drawn.
func (r *Renderer) DrawFrame() error {
	if r.state != stateDrawing {
		panic("renderer: DrawFrame outside an open frame")
	}

	var firstErr error
	for i := range r.requests {
		req := &r.requests[i]
		asset, err := r.registry.Get(req.ID)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		r.drawOne(req, asset)
	}
	return firstErr
}

func (r *Renderer) drawOne(req *Request, asset *MeshAsset) {
	r.backend.SetUniforms(&DrawUniforms{
		Projection: r.projection,
		ModelView:  req.Model,
		LightVec:   lightVec,
		LightColor: lightColor,
		Material:   asset.Material,
	})

	if asset.HasTexture() {
		r.backend.SetCombiner(CombinerTextured)
		r.backend.BindTexture(asset.texture)
	} else {
		r.backend.SetCombiner(CombinerUntextured)
	}

	if asset.Indexed() {
		r.backend.DrawElements(asset.vbo, asset.indices)
	} else {
		r.backend.DrawArrays(asset.vbo)
	}
}

// EndFrame presents the completed frame and drains the queue. The
// drain is unconditional: it happens whether or not every draw in the
// frame succeeded.
func (r *Renderer) EndFrame() error {
	if r.state != stateDrawing {
		panic("renderer: EndFrame without an open frame")
	}
	err := r.backend.EndFrame()
	r.requests = r.requests[:0]
	r.state = stateIdle
	return err
}

// RenderFrame runs one whole frame: begin, draw every queued request,
// end. Draw errors are reported after the frame has been presented and
// the queue drained.
func (r *Renderer) RenderFrame() error {
	if err := r.BeginFrame(); err != nil {
		return err
	}
	drawErr := r.DrawFrame()
	if err := r.EndFrame(); err != nil {
		return err
	}
	return drawErr
}
