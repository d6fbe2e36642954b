// Package texbatch compiles directories of texture descriptors with
// the external compressor, mirroring the source layout into the output
// tree. It backs the asset build targets and their watch mode.
package texbatch

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/micycle8778/mm3ds/engine/core"
)

const descriptorExt = ".t3s"

// Build compiles every descriptor under srcRoot into outRoot. The
// first failure stops the walk.
func Build(compressor, srcRoot, outRoot string) error {
	return filepath.WalkDir(srcRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != descriptorExt {
			return nil
		}
		return Compile(compressor, srcRoot, outRoot, path)
	})
}

// ReadDescriptor parses a descriptor file into compressor arguments.
// Arguments are separated by any whitespace, including newlines.
func ReadDescriptor(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrIO, err)
	}
	args := strings.Fields(string(data))
	if len(args) == 0 {
		return nil, fmt.Errorf("empty descriptor %s", path)
	}
	return args, nil
}

// OutputPath maps a descriptor under srcRoot to its compiled artifact
// under outRoot, swapping the extension.
func OutputPath(srcRoot, outRoot, descriptor string) (string, error) {
	rel, err := filepath.Rel(srcRoot, descriptor)
	if err != nil {
		return "", fmt.Errorf("%s is not under %s: %v", descriptor, srcRoot, err)
	}
	return filepath.Join(outRoot, strings.TrimSuffix(rel, descriptorExt)+".t3x"), nil
}

// Compile runs the compressor for one descriptor. Relative paths in
// the descriptor resolve against the descriptor's own directory.
func Compile(compressor, srcRoot, outRoot, descriptor string) error {
	args, err := ReadDescriptor(descriptor)
	if err != nil {
		return err
	}
	out, err := OutputPath(srcRoot, outRoot, descriptor)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("%w: %v", core.ErrIO, err)
	}
	absOut, err := filepath.Abs(out)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrIO, err)
	}

	cmd := exec.Command(compressor, append([]string{"-o", absOut}, args...)...)
	cmd.Dir = filepath.Dir(descriptor)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %s %s: %v: %s", core.ErrExternalTool, compressor, descriptor, err,
			strings.TrimSpace(stderr.String()))
	}
	core.LogInfo("compiled %s -> %s", descriptor, out)
	return nil
}

// Watch recompiles descriptors as they change, until stop closes.
// Individual compile failures are logged and do not end the watch.
func Watch(compressor, srcRoot, outRoot string, stop <-chan struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	err = filepath.WalkDir(srcRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	core.LogInfo("watching %s for descriptor changes", srcRoot)
	for {
		select {
		case <-stop:
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
				// New subdirectories join the watch set.
				if err := watcher.Add(event.Name); err != nil {
					core.LogWarn("cannot watch %s: %v", event.Name, err)
				}
				continue
			}
			if filepath.Ext(event.Name) != descriptorExt {
				continue
			}
			if err := Compile(compressor, srcRoot, outRoot, event.Name); err != nil {
				core.LogError("%v", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			core.LogWarn("watch error: %v", err)
		}
	}
}
