package engine

import (
	"fmt"
	"os"

	"github.com/micycle8778/mm3ds/engine/config"
	"github.com/micycle8778/mm3ds/engine/core"
	"github.com/micycle8778/mm3ds/engine/platform"
	"github.com/micycle8778/mm3ds/engine/renderer"
	"github.com/micycle8778/mm3ds/engine/renderer/soft"
)

// The host loop ticks at the display rate.
const frameSeconds = 1.0 / 60.0

// Engine wires the platform, the software backend, the mesh registry
// and the frame renderer together and owns their lifecycle.
type Engine struct {
	cfg  *config.Config
	game *Game

	platform *platform.Platform
	backend  *soft.Backend
	registry *renderer.Registry
	renderer *renderer.Renderer

	down bool
}

// New builds an engine from configuration. Nothing is shown until Run.
func New(cfg *config.Config, g *Game) (*Engine, error) {
	if g == nil || g.FnUpdate == nil {
		return nil, fmt.Errorf("engine: a game with an update hook is required")
	}
	core.SetLogLevel(cfg.App.LogLevel)

	b := soft.New(cfg.Render.Width, cfg.Render.Height)
	p := platform.New(cfg.App.Name, cfg.Render.Width, cfg.Render.Height, cfg.App.WindowScale)
	b.SetPresentFunc(p.Present)

	reg := renderer.NewRegistry(b)
	aspect := float32(cfg.Render.Width) / float32(cfg.Render.Height)
	r := renderer.NewRenderer(b, reg, aspect, cfg.Render.ClearColor)

	return &Engine{
		cfg:      cfg,
		game:     g,
		platform: p,
		backend:  b,
		registry: reg,
		renderer: r,
	}, nil
}

// Backend exposes the render backend for direct asset creation.
func (e *Engine) Backend() renderer.Backend {
	return e.backend
}

// Registry exposes the mesh registry for asset loading.
func (e *Engine) Registry() *renderer.Registry {
	return e.registry
}

// Renderer exposes the frame renderer for submissions.
func (e *Engine) Renderer() *renderer.Renderer {
	return e.renderer
}

// LoadMeshFile reads one binary mesh file, uploads every mesh in it
// and registers the results. Handles are returned in file order.
func (e *Engine) LoadMeshFile(path string) ([]renderer.MeshId, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", core.ErrIO, path, err)
	}

	assets, err := renderer.LoadMeshes(e.backend, data)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	ids := make([]renderer.MeshId, len(assets))
	for i, a := range assets {
		ids[i] = e.registry.Register(a)
	}
	core.LogInfo("loaded %d meshes from %s", len(assets), path)
	return ids, nil
}

// Run executes the main loop until the game or the user quits: poll
// for quit, run the game's update, render the frame. Blocks until the
// loop ends.
func (e *Engine) Run() error {
	if e.game.FnInitialize != nil {
		if err := e.game.FnInitialize(e); err != nil {
			return err
		}
	}

	clock := core.NewClock()
	metrics := core.NewFrameMetrics()
	clock.Start()
	lastTime := 0.0
	frames := 0

	e.platform.SetFrameCallback(func() error {
		if e.platform.QuitRequested() {
			e.platform.RequestQuit()
			return nil
		}

		clock.Update()
		currentTime := clock.Elapsed()

		if err := e.game.FnUpdate(e, frameSeconds); err != nil {
			core.LogError("game update failed: %v", err)
			return err
		}
		if err := e.renderer.RenderFrame(); err != nil {
			// Draw errors are per-frame; the frame was still presented.
			core.LogWarn("frame finished with error: %v", err)
		}

		metrics.Update(currentTime - lastTime)
		lastTime = currentTime
		frames++
		if frames%300 == 0 {
			core.LogDebug("frame avg %.2fms (%.1f fps)", metrics.AvgFrameMS(), metrics.AvgFPS())
		}
		return nil
	})

	err := e.platform.Run()
	e.Shutdown()
	return err
}

// Shutdown releases every registered resource. Safe to call twice.
func (e *Engine) Shutdown() {
	if e.down {
		return
	}
	e.down = true

	e.registry.Shutdown()
	if err := e.backend.Shutdown(); err != nil {
		core.LogError("backend shutdown: %v", err)
	}
	core.LogInfo("engine stopped")
}
