// Package source loads the floor plan drawn under the stage: a page of a
// PDF or a plain image.
package source

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gen2brain/go-fitz"
	"github.com/ivlev/choreo/internal/system"
)

// Backdrop renders once and hands out the same image afterwards.
type Backdrop interface {
	Size() (width, height float64, err error)
	Image() (image.Image, error)
	Close() error
}

// Open picks a backdrop by extension. A directory resolves to its most
// recent image.
func Open(path string, dpi int) (Backdrop, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if fi.IsDir() {
		latest, err := system.FindLatestImage(path)
		if err != nil {
			return nil, err
		}
		return NewImageSource(latest), nil
	}
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return NewFitzPDFSource(path, 0, dpi)
	}
	return NewImageSource(path), nil
}

type FitzPDFSource struct {
	doc  *fitz.Document
	page int
	dpi  int

	once sync.Once
	img  image.Image
	err  error
}

// NewFitzPDFSource opens a PDF and uses the given page as backdrop.
func NewFitzPDFSource(path string, page, dpi int) (*FitzPDFSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	if page < 0 || page >= doc.NumPage() {
		doc.Close()
		return nil, fmt.Errorf("%s has no page %d", filepath.Base(path), page+1)
	}
	if dpi <= 0 {
		dpi = 150
	}
	return &FitzPDFSource{doc: doc, page: page, dpi: dpi}, nil
}

func (f *FitzPDFSource) Size() (float64, float64, error) {
	rect, err := f.doc.Bound(f.page)
	if err != nil {
		return 0, 0, err
	}
	return float64(rect.Dx()), float64(rect.Dy()), nil
}

func (f *FitzPDFSource) Image() (image.Image, error) {
	f.once.Do(func() {
		f.img, f.err = f.doc.ImageDPI(f.page, float64(f.dpi))
	})
	return f.img, f.err
}

func (f *FitzPDFSource) Close() error {
	return f.doc.Close()
}
