// Package batch converts directories of .vox files into OBJ meshes with
// their palette textures, using a fixed worker pool.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"vox-mesher/internal/export"
	"vox-mesher/internal/importer"
	"vox-mesher/internal/mesher"
	"vox-mesher/internal/texture"
	"vox-mesher/internal/vox"
)

// Config holds all shared resources for a batch run.
type Config struct {
	OutputDir     string
	Import        importer.Options
	TextureFormat string       // png or webp
	Palette       *vox.Palette // optional override applied to every file
	Workers       int
}

// Result holds the outcome of processing one file.
type Result struct {
	File      string
	Instances int
	Faces     int
	Warnings  []string
	Success   bool
	Error     string
}

// Run processes all files using a worker pool and reports progress every
// two seconds.
func Run(ctx context.Context, cfg Config, files []string) []Result {
	total := len(files)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					rate := float64(p) / elapsed
					fmt.Printf("  [%d/%d] %.1f files/sec\n", p, total, rate)
				}
			}
		}
	}()

	// Worker pool
	fileChan := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range fileChan {
				if err := ctx.Err(); err != nil {
					results[idx] = Result{File: files[idx], Error: err.Error()}
				} else {
					results[idx] = processFile(ctx, cfg, files[idx])
				}
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range files {
		fileChan <- i
	}
	close(fileChan)

	wg.Wait()
	close(done)

	return results
}

func processFile(ctx context.Context, cfg Config, path string) Result {
	res := Result{File: path}

	imported, err := importer.ImportFile(ctx, path, cfg.Import)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	if cfg.Palette != nil {
		imported.Palette = *cfg.Palette
	}
	res.Warnings = imported.Warnings
	res.Instances = len(imported.Instances)
	for _, inst := range imported.Instances {
		for _, g := range inst.Geometries {
			res.Faces += len(g.Faces)
		}
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		res.Error = err.Error()
		return res
	}

	opts := export.OBJOptions{MaterialMode: cfg.Import.MaterialMode}
	textured := cfg.Import.MaterialMode.UVMode() != mesher.UVNone
	if textured {
		opts.TextureName = base + "_palette." + cfg.TextureFormat
	}
	perColor := !textured &&
		(cfg.Import.MaterialMode == importer.MaterialPerColor ||
			cfg.Import.MaterialMode == importer.MaterialPerColorProps)
	if textured || perColor {
		opts.MTLName = base + ".mtl"
	}

	if err := writeFile(filepath.Join(cfg.OutputDir, base+".obj"), func(f *os.File) error {
		return export.WriteOBJ(f, imported, opts)
	}); err != nil {
		res.Error = err.Error()
		return res
	}

	if opts.MTLName != "" {
		if err := writeFile(filepath.Join(cfg.OutputDir, opts.MTLName), func(f *os.File) error {
			return export.WriteMTL(f, imported, opts)
		}); err != nil {
			res.Error = err.Error()
			return res
		}
	}

	if textured {
		strip := texture.PaletteImage(&imported.Palette)
		if err := texture.Write(filepath.Join(cfg.OutputDir, opts.TextureName), strip); err != nil {
			res.Error = err.Error()
			return res
		}
		if cfg.Import.MaterialMode.WithProperties() {
			props := texture.PropertyImage(&imported.Materials)
			name := base + "_props." + cfg.TextureFormat
			if err := texture.Write(filepath.Join(cfg.OutputDir, name), props); err != nil {
				res.Error = err.Error()
				return res
			}
		}
	}

	res.Success = true
	return res
}

func writeFile(path string, fn func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return fn(f)
}
