package source

import (
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
)

// PDFSource renders document pages through MuPDF.
type PDFSource struct {
	doc  *fitz.Document
	path string
}

// NewPDFSource opens the document at path.
func NewPDFSource(path string) (*PDFSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("source: open %q: %w", path, err)
	}
	return &PDFSource{doc: doc, path: path}, nil
}

func (p *PDFSource) PageCount() int {
	return p.doc.NumPage()
}

// RenderPage rasterizes a 1-based page at a DPI chosen to land near
// maxWidth. MuPDF handles are not safe for concurrent use, so each
// render opens its own short-lived document handle.
func (p *PDFSource) RenderPage(page int, maxWidth int) (image.Image, error) {
	if page < 1 || page > p.doc.NumPage() {
		return nil, fmt.Errorf("source: page %d out of range 1..%d", page, p.doc.NumPage())
	}
	index := page - 1

	bound, err := p.doc.Bound(index)
	if err != nil {
		return nil, fmt.Errorf("source: bounds of page %d: %w", page, err)
	}

	// Bound reports points at 72 dpi.
	dpi := 144.0
	if maxWidth > 0 && bound.Dx() > 0 {
		dpi = 72 * float64(maxWidth) / float64(bound.Dx())
		if dpi < 36 {
			dpi = 36
		}
		if dpi > 288 {
			dpi = 288
		}
	}

	workerDoc, err := fitz.New(p.path)
	if err != nil {
		return nil, fmt.Errorf("source: reopen %q: %w", p.path, err)
	}
	defer workerDoc.Close()

	img, err := workerDoc.ImageDPI(index, dpi)
	if err != nil {
		return nil, fmt.Errorf("source: render page %d: %w", page, err)
	}
	return scaleToWidth(img, maxWidth), nil
}

func (p *PDFSource) Close() error {
	return p.doc.Close()
}
