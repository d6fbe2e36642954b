package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/micycle8778/mm3ds/engine/core"
	"github.com/micycle8778/mm3ds/engine/gltfexport"
)

func main() {
	compressor := flag.String("compressor", "tex3ds", "texture compressor executable")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <input.gltf> <output.mesh>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(1)
	}
	if *verbose {
		core.SetLogLevel("debug")
	}

	bar := progressbar.Default(-1, "converting meshes")
	err := gltfexport.Export(flag.Arg(0), flag.Arg(1), gltfexport.Options{
		Compressor: *compressor,
		OnRecord:   func(int) { bar.Add(1) },
	})
	bar.Finish()
	if err != nil {
		core.LogFatal("export failed: %v", err)
	}
}
