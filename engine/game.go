package engine

// Game is the application hook bundle handed to the engine. State is
// for the game's own use; the engine never touches it.
type Game struct {
	State        interface{}
	FnInitialize Initialize
	FnUpdate     Update
}

type Initialize func(e *Engine) error
type Update func(e *Engine, deltaTime float64) error
