package batch

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// ManifestEntry represents one converted file in the output manifest.
type ManifestEntry struct {
	File      string   `json:"file"`
	Mesh      string   `json:"mesh"`
	Instances int      `json:"instances"`
	Faces     int      `json:"faces"`
	Warnings  []string `json:"warnings,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// WriteManifest writes manifest.json describing a batch run's outputs.
func WriteManifest(path string, results []Result) error {
	entries := make([]ManifestEntry, len(results))
	for i, r := range results {
		base := strings.TrimSuffix(filepath.Base(r.File), filepath.Ext(r.File))
		e := ManifestEntry{
			File:      filepath.Base(r.File),
			Instances: r.Instances,
			Faces:     r.Faces,
			Warnings:  r.Warnings,
			Error:     r.Error,
		}
		if r.Success {
			e.Mesh = base + ".obj"
		}
		entries[i] = e
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
