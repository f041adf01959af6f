// Package web holds the browser bundle for the user management UI.
package web

import (
	"embed"
	"io/fs"
	"os"
)

//go:embed dist
var distFS embed.FS

// Dist returns the UI bundle rooted at its index.html. When dir is set the
// bundle is read from disk instead, which is handy while editing assets.
func Dist(dir string) (fs.FS, error) {
	if dir != "" {
		return os.DirFS(dir), nil
	}
	return fs.Sub(distFS, "dist")
}
