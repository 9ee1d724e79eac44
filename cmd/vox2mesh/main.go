package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"vox-mesher/internal/batch"
	"vox-mesher/internal/config"
	"vox-mesher/internal/importer"
	"vox-mesher/internal/mesher"
	"vox-mesher/internal/texture"
	"vox-mesher/internal/vox"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	inputDir := flag.String("input", "", "Directory of .vox files (default: cwd)")
	outputDir := flag.String("output", "", "Output directory (default: <input>/meshes)")
	meshing := flag.String("meshing", "", "Meshing strategy: per-voxel-models, combined-cubes, surface-quads, greedy")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	testN := flag.Int("test", 0, "Convert only first N files for testing")

	flag.Parse()

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		InputDir:  *inputDir,
		OutputDir: *outputDir,
		Meshing:   *meshing,
		Workers:   *workers,
	})

	strategy, err := mesher.ParseStrategy(cfg.Meshing)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	matMode, err := importer.ParseMaterialMode(cfg.MaterialMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	files, err := collectVoxFiles(cfg.InputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error scanning %s: %v\n", cfg.InputDir, err)
		os.Exit(1)
	}
	if *testN > 0 && *testN < len(files) {
		files = files[:*testN]
	}
	if len(files) == 0 {
		fmt.Println("No .vox files to convert.")
		os.Exit(0)
	}

	var palette *vox.Palette
	if cfg.Palette != "" {
		p, err := texture.LoadPalette(cfg.Palette)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: palette override: %v\n", err)
		} else {
			palette = &p
		}
	}

	fmt.Printf("MagicaVoxel → OBJ converter (%s, %s)\n", strategy, matMode)
	fmt.Printf("Files: %d, Workers: %d\n", len(files), cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()

	batchCfg := batch.Config{
		OutputDir: cfg.OutputDir,
		Import: importer.Options{
			Meshing:      strategy,
			VoxelHull:    *cfg.VoxelHull,
			VoxelSize:    cfg.VoxelSize,
			Hierarchy:    cfg.Hierarchy,
			JoinModels:   cfg.JoinModels,
			MaterialMode: matMode,
		},
		TextureFormat: cfg.TextureFormat,
		Palette:       palette,
		Workers:       cfg.Workers,
	}

	results := batch.Run(ctx, batchCfg, files)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	success, failed := 0, 0
	var errors []batch.Result
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failed++
			errors = append(errors, r)
		}
	}

	fmt.Printf("Converted: %d/%d\n", success, len(files))

	if len(errors) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		limit := 20
		if len(errors) < limit {
			limit = len(errors)
		}
		for _, e := range errors[:limit] {
			fmt.Printf("  %s: %s\n", filepath.Base(e.File), e.Error)
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: create output dir: %v\n", err)
	}
	if err := batch.WriteManifest(manifestPath, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		os.Exit(1)
	}
}

func collectVoxFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".vox") {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
