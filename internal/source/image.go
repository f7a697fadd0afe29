package source

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"

	xdraw "golang.org/x/image/draw"
)

// ImageSource serves image files as pages. The path may be a single
// file or a directory, whose images become pages in name order.
type ImageSource struct {
	paths []string
}

// NewImageSource opens the image file or directory at path.
func NewImageSource(path string) (*ImageSource, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("source: stat %q: %w", path, err)
	}

	var paths []string
	if fi.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("source: read dir %q: %w", path, err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			switch filepath.Ext(entry.Name()) {
			case ".jpg", ".jpeg", ".png":
				paths = append(paths, filepath.Join(path, entry.Name()))
			}
		}
		sort.Strings(paths)
		if len(paths) == 0 {
			return nil, fmt.Errorf("source: no images in %q", path)
		}
	} else {
		paths = []string{path}
	}

	return &ImageSource{paths: paths}, nil
}

func (s *ImageSource) PageCount() int {
	return len(s.paths)
}

func (s *ImageSource) RenderPage(page int, maxWidth int) (image.Image, error) {
	if page < 1 || page > len(s.paths) {
		return nil, fmt.Errorf("source: page %d out of range 1..%d", page, len(s.paths))
	}

	f, err := os.Open(s.paths[page-1])
	if err != nil {
		return nil, fmt.Errorf("source: open %q: %w", s.paths[page-1], err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("source: decode %q: %w", s.paths[page-1], err)
	}
	return scaleToWidth(img, maxWidth), nil
}

func (s *ImageSource) Close() error {
	return nil
}

// scaleToWidth resizes img down to width w, preserving aspect ratio.
// Images already at or below the target come back untouched.
func scaleToWidth(img image.Image, w int) image.Image {
	b := img.Bounds()
	if w <= 0 || b.Dx() <= w {
		return img
	}
	h := b.Dy() * w / b.Dx()
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}
