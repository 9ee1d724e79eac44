package main

import (
	"flag"
	"fmt"
	"os"

	"vox-mesher/internal/scene"
	"vox-mesher/internal/vox"
)

func main() {
	showPalette := flag.Bool("palette", false, "Dump non-default palette slots")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: voxinspect [-palette] file.vox")
		os.Exit(1)
	}
	path := flag.Arg(0)

	f, err := vox.ParseFile(path)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Version: %d\n", f.Version)
	fmt.Printf("Models: %d\n", len(f.Models))
	for i, m := range f.Models {
		dx, dy, dz := m.Dims()
		fmt.Printf("  Model[%d]: %dx%dx%d, %d voxels\n", i, dx, dy, dz, m.Count())
	}

	fmt.Printf("Scene nodes: %d, layers: %d\n", len(f.Nodes), len(f.Layers))
	g, err := scene.Build(f)
	if err != nil {
		fmt.Printf("Scene graph: %v\n", err)
	} else {
		placements, err := scene.Resolve(g, len(f.Models), false)
		if err != nil {
			fmt.Printf("Resolve: %v\n", err)
		} else {
			fmt.Printf("Instances: %d\n", len(placements))
			for _, pl := range placements {
				fmt.Printf("  node=%d model=%d name=%q t=(%d,%d,%d)\n",
					pl.NodeID, pl.ModelID, pl.Name,
					pl.Translation[0], pl.Translation[1], pl.Translation[2])
			}
		}
	}

	materials := 0
	for i := range f.Materials {
		if f.Materials[i].Kind != vox.MaterialDiffuse || f.Materials[i].Weight != 0 {
			materials++
		}
	}
	fmt.Printf("Materials: %d, cameras: %d, render settings: %d\n",
		materials, len(f.Cameras), len(f.RenderSettings))

	if len(f.UnknownTags) > 0 {
		fmt.Printf("Unknown chunks: %v\n", f.UnknownTags)
	}

	if *showPalette {
		def := vox.DefaultPalette()
		for i := 1; i < 256; i++ {
			if f.Palette[i] != def[i] {
				c := f.Palette[i]
				fmt.Printf("  Palette[%d]: #%02x%02x%02x%02x\n", i, c.R, c.G, c.B, c.A)
			}
		}
	}
}
