// Package config holds the JSON configuration for batch conversion runs
// and its CLI flag overrides.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Config holds all configurable paths and import settings.
type Config struct {
	// Paths
	InputDir  string `json:"input_dir"`
	OutputDir string `json:"output_dir"`
	Palette   string `json:"palette"` // optional palette override image

	// Import settings
	Meshing      string  `json:"meshing"`
	VoxelHull    *bool   `json:"voxel_hull"` // pointer so false survives the default
	VoxelSize    float64 `json:"voxel_size"`
	Hierarchy    bool    `json:"import_hierarchy"`
	JoinModels   bool    `json:"join_models"`
	MaterialMode string  `json:"material_mode"`

	// Output settings
	TextureFormat string `json:"texture_format"` // png or webp
	Workers       int    `json:"workers"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	InputDir  string
	OutputDir string
	Meshing   string
	Workers   int
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.InputDir != "" {
		c.InputDir = flags.InputDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Meshing != "" {
		c.Meshing = flags.Meshing
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	if c.InputDir == "" {
		cwd, _ := os.Getwd()
		c.InputDir = cwd
	}
	if c.OutputDir == "" {
		c.OutputDir = filepath.Join(c.InputDir, "meshes")
	} else if !filepath.IsAbs(c.OutputDir) {
		c.OutputDir = filepath.Join(c.InputDir, c.OutputDir)
	}
	if c.Palette != "" && !filepath.IsAbs(c.Palette) {
		c.Palette = filepath.Join(c.InputDir, c.Palette)
	}

	if c.Meshing == "" {
		c.Meshing = "surface-quads"
	}
	if c.VoxelHull == nil {
		t := true
		c.VoxelHull = &t
	}
	if c.VoxelSize <= 0 {
		c.VoxelSize = 0.1
	}
	if c.MaterialMode == "" {
		c.MaterialMode = "vertex-color"
	}
	if c.TextureFormat == "" {
		c.TextureFormat = "webp"
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}
