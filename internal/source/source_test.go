package source

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writeTestPNG(t *testing.T, path string, w, h int, block image.Rectangle) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if image.Pt(x, y).In(block) {
				img.Set(x, y, color.RGBA{20, 20, 30, 255})
			} else {
				img.Set(x, y, color.RGBA{245, 245, 245, 255})
			}
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}

func TestImageSourceFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.png")
	writeTestPNG(t, path, 300, 200, image.Rect(200, 120, 280, 180))

	src, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer src.Close()

	if got := src.PageCount(); got != 1 {
		t.Errorf("Expected 1 page, got %d", got)
	}

	img, err := src.RenderPage(1, 150)
	if err != nil {
		t.Fatalf("RenderPage failed: %v", err)
	}
	if img.Bounds().Dx() != 150 {
		t.Errorf("Expected downscale to width 150, got %d", img.Bounds().Dx())
	}
	if img.Bounds().Dy() != 100 {
		t.Errorf("Expected height 100 after downscale, got %d", img.Bounds().Dy())
	}

	// Requests wider than the image come back untouched.
	img, err = src.RenderPage(1, 900)
	if err != nil {
		t.Fatalf("RenderPage failed: %v", err)
	}
	if img.Bounds().Dx() != 300 {
		t.Errorf("Expected native width 300, got %d", img.Bounds().Dx())
	}

	if _, err := src.RenderPage(0, 100); err == nil {
		t.Error("Expected error for page 0")
	}
	if _, err := src.RenderPage(2, 100); err == nil {
		t.Error("Expected error for page past the end")
	}
}

func TestImageSourceDir(t *testing.T) {
	dir := t.TempDir()
	writeTestPNG(t, filepath.Join(dir, "b.png"), 40, 40, image.Rectangle{})
	writeTestPNG(t, filepath.Join(dir, "a.png"), 60, 40, image.Rectangle{})

	src, err := NewImageSource(dir)
	if err != nil {
		t.Fatalf("NewImageSource failed: %v", err)
	}
	defer src.Close()

	if got := src.PageCount(); got != 2 {
		t.Fatalf("Expected 2 pages, got %d", got)
	}

	// Pages come in name order: a.png first.
	img, err := src.RenderPage(1, 0)
	if err != nil {
		t.Fatalf("RenderPage failed: %v", err)
	}
	if img.Bounds().Dx() != 60 {
		t.Errorf("Expected first page width 60, got %d", img.Bounds().Dx())
	}
}

func TestOpenRejectsUnknownTypes(t *testing.T) {
	if _, err := Open("narration.mp3"); err == nil {
		t.Error("Expected error for unsupported asset type")
	}
}

func TestDetectFocusRegions(t *testing.T) {
	block := image.Rect(200, 120, 280, 180)
	img := image.NewRGBA(image.Rect(0, 0, 300, 200))
	for y := 0; y < 200; y++ {
		for x := 0; x < 300; x++ {
			if image.Pt(x, y).In(block) {
				img.Set(x, y, color.RGBA{20, 20, 30, 255})
			} else {
				img.Set(x, y, color.RGBA{245, 245, 245, 255})
			}
		}
	}

	regions := DetectFocusRegions(img, 2)
	if len(regions) == 0 {
		t.Fatal("Expected at least one focus region")
	}
	if !regions[0].Overlaps(block) {
		t.Errorf("Densest region %v should overlap the ink block %v", regions[0], block)
	}
	t.Logf("Detected regions: %v", regions)
}

func TestDetectFocusRegionsBlankPage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 200, 200))
	for y := 0; y < 200; y++ {
		for x := 0; x < 200; x++ {
			img.Set(x, y, color.RGBA{245, 245, 245, 255})
		}
	}

	if regions := DetectFocusRegions(img, 3); len(regions) != 0 {
		t.Errorf("Blank page should yield no regions, got %v", regions)
	}
}
