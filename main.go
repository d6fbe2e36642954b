/*
This is the viewer application: it loads the configuration, builds the
demo game and runs it on the engine.
*/
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/micycle8778/mm3ds/engine"
	"github.com/micycle8778/mm3ds/engine/config"
	"github.com/micycle8778/mm3ds/engine/core"
	"github.com/micycle8778/mm3ds/testbed"
)

func main() {
	cfg, err := config.Load("mm3ds.toml")
	if err != nil {
		core.LogFatal("loading configuration: %v", err)
	}

	eng, err := engine.New(cfg, testbed.New(cfg.Assets.Meshes))
	if err != nil {
		core.LogFatal("%v", err)
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	go func() {
		<-sigCh
		eng.Shutdown()
		os.Exit(0)
	}()

	if err := eng.Run(); err != nil {
		core.LogFatal("%v", err)
	}
}
