package export

import (
	"errors"
	"image/color"
	"math"
)

var (
	// ErrUnsupportedView is returned when a rasterizer cannot draw a view type.
	ErrUnsupportedView = errors.New("unsupported view")
	// ErrExportInProgress is returned when an export is already running.
	ErrExportInProgress = errors.New("export already in progress")
)

// View is a rendered document waiting to be rasterized. Sizes are CSS pixels.
type View interface {
	Dimensions() (width, height int)
}

// Box is a filled and/or stroked rectangle.
type Box struct {
	X, Y, W, H  float64
	Fill        color.Color
	Stroke      color.Color
	StrokeWidth float64
}

// Text is a single line of text drawn from its baseline.
type Text struct {
	X, Y  float64
	Size  float64
	Bold  bool
	Color color.Color
	Value string
}

// Layout is a flat box tree: boxes are painted first, then text, in order.
type Layout struct {
	Width  int
	Height int
	Boxes  []Box
	Texts  []Text
}

func (l *Layout) Dimensions() (int, int) { return l.Width, l.Height }

// AddBox appends a box and grows the layout height to contain it.
func (l *Layout) AddBox(b Box) {
	l.Boxes = append(l.Boxes, b)
	l.grow(b.Y + b.H)
}

// AddText appends a text run and grows the layout height past its descent.
func (l *Layout) AddText(t Text) {
	l.Texts = append(l.Texts, t)
	l.grow(t.Y + t.Size*0.3)
}

func (l *Layout) grow(bottom float64) {
	if h := int(math.Ceil(bottom)); h > l.Height {
		l.Height = h
	}
}

// Fitter is a view that can shrink its own content toward one page before
// rasterizing, so glyphs keep the full oversampling. ok is false when the
// view cannot fit itself and the bitmap has to be resampled instead.
type Fitter interface {
	FitTo(page PageSize, padding int) (v View, ok bool)
}

// contentFitScale is the factor that brings h CSS px of content plus
// padding unscaled rows within one page, clamped to the fit bounds.
func contentFitScale(w, h int, page PageSize, padding int) float64 {
	if w <= 0 || h <= 0 {
		return MaxFitScale
	}
	avail := page.PageHeightPx(w) - padding
	if avail <= 0 {
		return MinFitScale
	}
	return math.Min(MaxFitScale, math.Max(MinFitScale, float64(avail)/float64(h)))
}

func (l *Layout) FitTo(page PageSize, padding int) (View, bool) {
	if l.Width <= 0 || l.Height <= 0 {
		return l, false
	}
	s := contentFitScale(l.Width, l.Height, page, padding)
	if s >= 1 {
		return l, true
	}
	return l.Scaled(s), true
}

// Scaled returns a copy with every coordinate and size multiplied by s,
// anchored top left. The width is kept.
func (l *Layout) Scaled(s float64) *Layout {
	out := &Layout{
		Width:  l.Width,
		Height: int(math.Ceil(float64(l.Height)*s - 1e-6)),
		Boxes:  make([]Box, len(l.Boxes)),
		Texts:  make([]Text, len(l.Texts)),
	}
	for i, b := range l.Boxes {
		b.X, b.Y, b.W, b.H = b.X*s, b.Y*s, b.W*s, b.H*s
		b.StrokeWidth *= s
		out.Boxes[i] = b
	}
	for i, t := range l.Texts {
		t.X, t.Y, t.Size = t.X*s, t.Y*s, t.Size*s
		out.Texts[i] = t
	}
	return out
}

// HTMLView is a full HTML document rendered at a fixed viewport width.
// Its height is only known once a browser has laid it out.
type HTMLView struct {
	HTML  string
	Width int

	fit *fitSpec
}

type fitSpec struct {
	page    PageSize
	padding int
}

func (v HTMLView) Dimensions() (int, int) { return v.Width, 0 }

// FitTo asks the browser to zoom the document once its height is known.
func (v HTMLView) FitTo(page PageSize, padding int) (View, bool) {
	if v.Width <= 0 {
		return v, false
	}
	v.fit = &fitSpec{page: page, padding: padding}
	return v, true
}
