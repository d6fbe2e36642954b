package config

import (
	"errors"
	"io/fs"
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

// Config is the application configuration, read from a TOML file.
type Config struct {
	App    AppConfig    `toml:"app"`
	Render RenderConfig `toml:"render"`
	Assets AssetsConfig `toml:"assets"`
}

type AppConfig struct {
	// The application name used in windowing, if applicable.
	Name     string `toml:"name"`
	LogLevel string `toml:"log_level"`
	// WindowScale multiplies the framebuffer size for the host window.
	WindowScale int `toml:"window_scale"`
}

type RenderConfig struct {
	// Framebuffer width, in pixels.
	Width int `toml:"width"`
	// Framebuffer height, in pixels.
	Height int `toml:"height"`
	// ClearColor is the 0xRRGGBBAA render target clear color.
	ClearColor uint32 `toml:"clear_color"`
}

type AssetsConfig struct {
	// Meshes lists binary mesh files registered at startup.
	Meshes []string `toml:"meshes"`
}

// Default returns the configuration used when no file is present:
// a top-screen sized framebuffer and the stock sky clear color.
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:        "mm3ds",
			LogLevel:    "info",
			WindowScale: 2,
		},
		Render: RenderConfig{
			Width:      400,
			Height:     240,
			ClearColor: 0x68b0d8ff,
		},
	}
}

// Load reads the configuration at path. A missing file is not an
// error; defaults are returned instead.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
