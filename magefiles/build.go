//go:build mage

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/magefile/mage/mg"

	"github.com/micycle8778/mm3ds/tools/texbatch"
)

type Build mg.Namespace

const (
	texCompressor = "tex3ds"
	gfxSource     = "gfx"
	gfxOutput     = "romfs/gfx"
)

// Compiles every texture descriptor under gfx/ into romfs/gfx/.
func (Build) Gfx() error {
	return texbatch.Build(texCompressor, gfxSource, gfxOutput)
}

// Recompiles texture descriptors as they change. Ctrl-C stops.
func (Build) GfxWatch() error {
	stop := make(chan struct{})
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		close(stop)
	}()
	return texbatch.Watch(texCompressor, gfxSource, gfxOutput, stop)
}

// Builds every package and command.
func (Build) All() error {
	_, err := executeCmd("go", withArgs("build", "./..."), withStream())
	return err
}
