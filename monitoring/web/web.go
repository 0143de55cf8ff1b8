// Package web includes the static pages of the monitoring dashboard.
package web

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"os"
)

// AssetsEnv names a directory that replaces the embedded dashboard.
const AssetsEnv = "CFGREPLAY_MONITOR_ASSETS"

//go:embed dist/*
var staticAssets embed.FS

// Embedded returns the dashboard compiled into the binary.
func Embedded() http.FileSystem {
	sub, err := fs.Sub(staticAssets, "dist")
	if err != nil {
		panic(err)
	}

	return http.FS(sub)
}

// Assets returns the directory named by AssetsEnv if set, or the embedded
// dashboard otherwise.
func Assets() (http.FileSystem, error) {
	dir := os.Getenv(AssetsEnv)
	if dir == "" {
		return Embedded(), nil
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("monitor assets: %w", err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("monitor assets: %s is not a directory", dir)
	}

	return http.Dir(dir), nil
}
