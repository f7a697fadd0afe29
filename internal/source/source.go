// Package source loads the visual assets document scenes draw from:
// PDF pages rendered through MuPDF and plain image files. It also
// locates the busiest region of a page so the camera has something to
// push toward.
package source

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"
)

// Source is a paged visual asset. Pages are numbered from 1.
type Source interface {
	PageCount() int
	// RenderPage rasterizes a page, downscaled to maxWidth when the
	// native rendering is wider.
	RenderPage(page int, maxWidth int) (image.Image, error)
	Close() error
}

// Open picks a backend for the asset at path by file extension.
func Open(path string) (Source, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf", ".epub", ".xps":
		return NewPDFSource(path)
	case ".png", ".jpg", ".jpeg":
		return NewImageSource(path)
	case "":
		// Extensionless paths are image directories.
		return NewImageSource(path)
	default:
		return nil, fmt.Errorf("source: unsupported asset type %q", filepath.Ext(path))
	}
}
