package utils

import (
	"log/slog"
	"os"
	"sync"

	json "github.com/goccy/go-json"
)

// ManifestEntry represents a Vite manifest entry
type ManifestEntry struct {
	File    string `json:"file"`
	Name    string `json:"name"`
	Src     string `json:"src"`
	IsEntry bool   `json:"isEntry"`
}

// Assets resolves dashboard bundle paths from a Vite manifest, loaded once
type Assets struct {
	path     string
	fallback string
	logger   *slog.Logger

	once     sync.Once
	manifest map[string]ManifestEntry
	err      error
}

// NewAssets creates a resolver for the manifest at path
func NewAssets(path string, logger *slog.Logger) *Assets {
	return &Assets{
		path:     path,
		fallback: "/static/js/dashboard.js",
		logger:   logger,
	}
}

func (a *Assets) load() {
	data, err := os.ReadFile(a.path)
	if err != nil {
		a.err = err
		a.logger.Warn("dashboard manifest not found, using fallback script", "path", a.path, "error", err)
		return
	}

	var manifest map[string]ManifestEntry
	if err := json.Unmarshal(data, &manifest); err != nil {
		a.err = err
		a.logger.Error("failed to parse dashboard manifest", "path", a.path, "error", err)
		return
	}

	a.manifest = manifest
	a.logger.Info("dashboard manifest loaded", "entries", len(manifest))
}

// Script returns the public path of the bundle built from entry
func (a *Assets) Script(entry string) string {
	a.once.Do(a.load)

	if a.err != nil {
		return a.fallback
	}
	if e, ok := a.manifest[entry]; ok && e.IsEntry {
		return "/static/dist/" + e.File
	}
	return a.fallback
}
