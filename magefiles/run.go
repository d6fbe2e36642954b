//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Builds the assets and runs the viewer.
func (Run) Viewer() error {
	mg.Deps(Build.Gfx)
	fmt.Println("Run viewer...")
	if _, err := executeCmd("go", withArgs("run", "main.go"), withStream()); err != nil {
		return err
	}
	return nil
}

// Converts a glTF scene into a binary mesh file.
func (Run) Export(input, output string) error {
	_, err := executeCmd("go", withArgs("run", "./cmd/meshexport", input, output), withStream())
	return err
}
