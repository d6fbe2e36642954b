package platform

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Platform hosts the engine in a desktop window. The host loop ticks
// at the display rate; each tick drives one engine frame through the
// registered callback, and the engine hands back a finished RGBA8
// framebuffer via Present.
type Platform struct {
	title         string
	width, height int
	scale         int

	frame  func() error
	pixels []byte
	quit   bool
}

// New builds a platform presenting a width×height framebuffer in a
// window magnified by scale.
func New(title string, width, height, scale int) *Platform {
	if scale < 1 {
		scale = 1
	}
	return &Platform{
		title:  title,
		width:  width,
		height: height,
		scale:  scale,
		pixels: make([]byte, width*height*4),
	}
}

// SetFrameCallback registers the function run once per host tick.
func (p *Platform) SetFrameCallback(fn func() error) {
	p.frame = fn
}

// Present stores the framebuffer shown on the next draw. The data is
// copied, so the caller may reuse its slice.
func (p *Platform) Present(pixels []byte) {
	copy(p.pixels, pixels)
}

// RequestQuit ends the host loop after the current tick.
func (p *Platform) RequestQuit() {
	p.quit = true
}

// QuitRequested reports whether shutdown has been asked for, either
// programmatically or by the user pressing escape.
func (p *Platform) QuitRequested() bool {
	return p.quit || inpututil.IsKeyJustPressed(ebiten.KeyEscape)
}

// Run opens the window and blocks until the loop ends. The frame
// callback's error, if any, is returned as-is.
func (p *Platform) Run() error {
	ebiten.SetWindowTitle(p.title)
	ebiten.SetWindowSize(p.width*p.scale, p.height*p.scale)
	return ebiten.RunGame(&hostLoop{p: p})
}

// hostLoop adapts the platform to the windowing library's game
// interface.
type hostLoop struct {
	p *Platform
}

func (h *hostLoop) Update() error {
	if h.p.frame != nil {
		if err := h.p.frame(); err != nil {
			return err
		}
	}
	if h.p.quit {
		return ebiten.Termination
	}
	return nil
}

func (h *hostLoop) Draw(screen *ebiten.Image) {
	screen.WritePixels(h.p.pixels)
}

func (h *hostLoop) Layout(outsideWidth, outsideHeight int) (int, int) {
	return h.p.width, h.p.height
}
