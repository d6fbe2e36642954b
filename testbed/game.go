/*
Package testbed is the demo application driving the engine: a lit
spinning cube plus any mesh files listed in the configuration.
*/
package testbed

import (
	"github.com/micycle8778/mm3ds/engine"
	"github.com/micycle8778/mm3ds/engine/core"
	"github.com/micycle8778/mm3ds/engine/math"
	"github.com/micycle8778/mm3ds/engine/renderer"
)

type gameState struct {
	meshFiles []string

	cube   renderer.MeshId
	actors []renderer.MeshId

	angleX float32
	angleY float32
}

// New builds the demo game. meshFiles lists binary mesh files to load
// at startup; missing files are skipped with a warning.
func New(meshFiles []string) *engine.Game {
	state := &gameState{meshFiles: meshFiles}
	return &engine.Game{
		State:        state,
		FnInitialize: state.initialize,
		FnUpdate:     state.update,
	}
}

func (s *gameState) initialize(e *engine.Engine) error {
	asset, err := renderer.NewMeshAsset(e.Backend(), cubeVertices(), nil, nil, renderer.DefaultMaterial())
	if err != nil {
		return err
	}
	s.cube = e.Registry().Register(asset)

	for _, path := range s.meshFiles {
		ids, err := e.LoadMeshFile(path)
		if err != nil {
			core.LogWarn("skipping %s: %v", path, err)
			continue
		}
		s.actors = append(s.actors, ids...)
	}
	return nil
}

func (s *gameState) update(e *engine.Engine, deltaTime float64) error {
	s.angleX += math.K_PI / 180
	s.angleY += math.K_PI / 360

	// The cube bobs gently while it tumbles.
	bob := math.Sin(s.angleX) * 0.5
	cube := math.NewTranslation(0, bob, -2).
		Mul(math.NewRotationX(s.angleX)).
		Mul(math.NewRotationY(s.angleY))
	e.Renderer().Submit(s.cube, cube)

	for i, id := range s.actors {
		x := float32(-1.5)
		if i%2 == 1 {
			x = 1.5
		}
		model := math.NewTranslation(x, -0.5, -3).
			Mul(math.NewRotationY(s.angleY * 2)).
			Mul(math.NewScale(0.3, 0.3, 0.3))
		e.Renderer().Submit(id, model)
	}
	return nil
}
