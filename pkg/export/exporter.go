package export

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"math"
	"strings"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	xdraw "golang.org/x/image/draw"

	"github.com/NewCodeOnDaBlock/the-pocket-advance-generator/internal/utils"
)

const (
	// MinScale is the lowest oversampling factor; lower values print blurry.
	MinScale = 2.0
	// BottomPadding is white space, in CSS pixels, added under the content
	// so rounding never clips the last row.
	BottomPadding = 24
	// DefaultFilename is used when the caller gives none.
	DefaultFilename = "export.pdf"
)

// Options tune a single export.
type Options struct {
	Filename string
	// Fit shrinks tall content toward a single page before slicing.
	Fit bool
	// Title is written to the PDF metadata.
	Title string
}

// Document is a finished PDF.
type Document struct {
	Filename string
	Pages    int
	Plan     Plan
	Data     []byte
}

// Exporter turns views into paginated PDFs. It runs one export at a time.
type Exporter struct {
	raster Rasterizer
	scale  float64
	page   PageSize
	busy   atomic.Bool
}

// NewExporter builds an exporter using r at the given oversampling factor.
// Factors under MinScale are raised to it.
func NewExporter(r Rasterizer, scale float64) *Exporter {
	if scale < MinScale {
		scale = MinScale
	}
	return &Exporter{raster: r, scale: scale, page: Letter}
}

// Scale is the oversampling factor in use.
func (e *Exporter) Scale() float64 { return e.scale }

// Export rasterizes v and writes it as a Letter PDF.
func (e *Exporter) Export(ctx context.Context, v View, opts Options) (*Document, error) {
	if !e.busy.CompareAndSwap(false, true) {
		return nil, ErrExportInProgress
	}
	defer e.busy.Store(false)

	filename := strings.TrimSpace(opts.Filename)
	if filename == "" {
		filename = DefaultFilename
	}

	// Views that fit themselves are shrunk before rasterizing so text stays
	// sharp; anything else is resampled after.
	resample := opts.Fit
	if f, ok := v.(Fitter); ok && opts.Fit {
		if fitted, ok := f.FitTo(e.page, BottomPadding); ok {
			v, resample = fitted, false
		}
	}

	img, err := e.raster.Rasterize(ctx, v, e.scale)
	if err != nil {
		return nil, fmt.Errorf("rasterizing view: %w", err)
	}
	canvas := padBottom(flatten(img), int(math.Round(BottomPadding*e.scale)))
	if resample {
		canvas = fitToPage(canvas, e.page)
	}

	b := canvas.Bounds()
	plan := Paginate(b.Dx(), b.Dy(), e.page)
	utils.Log.WithFields(logrus.Fields{
		"width":  b.Dx(),
		"height": b.Dy(),
		"pages":  plan.Pages(),
		"file":   filename,
	}).Debug("export: paginated")

	data, err := writePDF(canvas, plan, e.page, opts.Title)
	if err != nil {
		return nil, err
	}
	return &Document{Filename: filename, Pages: plan.Pages(), Plan: plan, Data: data}, nil
}

// fitToPage scales a finished bitmap down by FitScale, anchored top left. The bitmap
// keeps its width; the height shrinks with the content.
func fitToPage(src *image.RGBA, page PageSize) *image.RGBA {
	b := src.Bounds()
	s := FitScale(b.Dx(), b.Dy(), page)
	if s >= 1 {
		return src
	}
	h := int(math.Round(float64(b.Dy()) * s))
	dst := whiteCanvas(b.Dx(), h)
	target := image.Rect(0, 0, int(math.Round(float64(b.Dx())*s)), h)
	xdraw.CatmullRom.Scale(dst, target, src, b, draw.Over, nil)
	return dst
}

// padBottom extends a non-empty bitmap with px rows of white.
func padBottom(src *image.RGBA, px int) *image.RGBA {
	b := src.Bounds()
	if px <= 0 || b.Dx() == 0 || b.Dy() == 0 {
		return src
	}
	dst := whiteCanvas(b.Dx(), b.Dy()+px)
	draw.Draw(dst, b.Sub(b.Min), src, b.Min, draw.Src)
	return dst
}
