package render

import (
	"image/color"
	"math"
	"strings"

	"github.com/NewCodeOnDaBlock/the-pocket-advance-generator/pkg/advance"
	"github.com/NewCodeOnDaBlock/the-pocket-advance-generator/pkg/export"
)

// Geometry in CSS pixels.
const (
	pagePad    = 18.0
	gridGap    = 14.0
	sectionPad = 12.0
	entryGap   = 8.0
	rightGap   = 10.0
	lineHeight = 1.35

	titleSize   = 18.0
	bodySize    = 12.0
	smallSize   = 11.0
	captionSize = 10.0
)

var (
	ink       = color.RGBA{0x11, 0x11, 0x11, 0xff}
	muted     = color.RGBA{0x55, 0x55, 0x55, 0xff}
	faint     = color.RGBA{0x88, 0x88, 0x88, 0xff}
	border    = color.RGBA{0xe1, 0xe1, 0xe1, 0xff}
	ruleColor = color.RGBA{0xeb, 0xeb, 0xeb, 0xff}
)

// Layout lays the brief out as an export.Layout Width pixels wide.
func Layout(a advance.Advance, opts Options) *export.Layout {
	return layoutDocument(Build(a, opts))
}

// ForExport lays the brief out for a PDF. With fit set it switches to the
// compact BOLO style when even the shrunken page would run long.
func ForExport(a advance.Advance, opts Options, fit bool) *export.Layout {
	if fit && !opts.Compact && NeedsCompact(a, opts) {
		opts.Compact = true
	}
	return Layout(a, opts)
}

// NeedsCompact reports whether the full layout, once shrunk by the fit
// scale, is still taller than CompactThreshold.
func NeedsCompact(a advance.Advance, opts Options) bool {
	l := Layout(a, opts)
	s := export.FitScale(l.Width, l.Height, export.Letter)
	return float64(l.Height)*s > CompactThreshold
}

type painter struct {
	l *export.Layout
}

func layoutDocument(doc Document) *export.Layout {
	p := &painter{l: &export.Layout{Width: Width}}
	x := pagePad
	w := float64(Width) - 2*pagePad
	y := p.header(doc, x, pagePad, w)
	y += gridGap

	colW := (w - gridGap) / 2
	for i := 0; i < len(doc.Grid); i += 2 {
		left := p.section(doc.Grid[i], x, y, colW)
		right := 0.0
		if i+1 < len(doc.Grid) {
			right = p.section(doc.Grid[i+1], x+colW+gridGap, y, colW)
		}
		y += math.Max(left, right) + gridGap
	}
	for _, s := range doc.Wide {
		y += p.section(s, x, y, w) + gridGap
	}

	y -= gridGap
	y += 12
	for _, f := range doc.Footer {
		y = p.paragraph(f, x, y, w, captionSize, false, faint, 0) + 4
	}
	p.l.Height = int(math.Ceil(y + pagePad))
	return p.l
}

func (p *painter) header(doc Document, x, y, w float64) float64 {
	rightW := 180.0
	leftW := w - rightW - gridGap

	ly := p.paragraph(doc.Title, x, y, leftW, titleSize, true, ink, 0)
	ly = p.paragraph(doc.Subtitle, x, ly+6, leftW, bodySize, false, muted, 0)
	ly = p.paragraph(doc.Generated, x, ly+6, leftW, captionSize, false, faint, 0)

	rx := x + w
	ry := y
	for i, pair := range [][2]string{{"DATE", doc.Date}, {"SHIFT", doc.Shift}} {
		if i > 0 {
			ry += 8
		}
		ry = p.rightAligned(pair[0], rx, ry, bodySize, true, ink)
		ry = p.rightAligned(pair[1], rx, ry, bodySize, false, muted)
	}
	return math.Max(ly, ry)
}

// section draws s at (x, y) and returns its height.
func (p *painter) section(s Section, x, y, w float64) float64 {
	ix := x + sectionPad
	iw := w - 2*sectionPad
	cy := p.paragraph(s.Title, ix, y+sectionPad, iw, bodySize, true, ink, 0)
	for _, e := range s.Entries {
		cy += entryGap
		if e.Rule {
			p.l.AddBox(export.Box{X: ix, Y: cy, W: iw, H: 1, Fill: ruleColor})
			cy += entryGap
		}
		cy = p.entry(e, ix, cy, iw)
	}
	h := cy + sectionPad - y
	p.l.AddBox(export.Box{X: x, Y: y, W: w, H: h, Stroke: border, StrokeWidth: 1})
	return h
}

func (p *painter) entry(e Entry, x, y, w float64) float64 {
	if e.Heading != "" {
		headW := w
		if e.Right != "" {
			rw := export.MeasureText(e.Right, smallSize, false)
			p.text(e.Right, x+w-rw, y, smallSize, false, muted)
			headW = w - rw - rightGap
		}
		y = p.paragraph(e.Heading, x, y, headW, bodySize, true, ink, 1)
	}
	for _, ln := range e.Lines {
		size := bodySize
		if ln.Small {
			size = smallSize
		}
		y = p.labeled(ln, x, y, w, size)
	}
	return y
}

// labeled draws a bold label followed by wrapped text on the same first line.
func (p *painter) labeled(ln Line, x, y, w, size float64) float64 {
	if ln.Label == "" {
		return p.paragraph(ln.Text, x, y, w, size, false, ink, ln.MaxLines)
	}
	lw := export.MeasureText(ln.Label+" ", size, true)
	p.text(ln.Label, x, y, size, true, ink)
	lines := wrap(ln.Text, size, false, w-lw, w)
	if ln.MaxLines > 0 && len(lines) > ln.MaxLines {
		lines = lines[:ln.MaxLines]
	}
	if len(lines) == 0 {
		return y + size*lineHeight
	}
	for i, s := range lines {
		lx := x
		if i == 0 {
			lx += lw
		}
		p.text(s, lx, y, size, false, ink)
		y += size * lineHeight
	}
	return y
}

// paragraph draws wrapped text with its top at y and returns the y below it.
func (p *painter) paragraph(s string, x, y, w, size float64, bold bool, c color.Color, maxLines int) float64 {
	lines := wrap(s, size, bold, w, w)
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	for _, ln := range lines {
		p.text(ln, x, y, size, bold, c)
		y += size * lineHeight
	}
	return y
}

func (p *painter) rightAligned(s string, right, y, size float64, bold bool, c color.Color) float64 {
	p.text(s, right-export.MeasureText(s, size, bold), y, size, bold, c)
	return y + size*lineHeight
}

// text places one line; y is the top of the line box.
func (p *painter) text(s string, x, y, size float64, bold bool, c color.Color) {
	if strings.TrimSpace(s) == "" {
		return
	}
	p.l.AddText(export.Text{X: x, Y: y + size, Size: size, Bold: bold, Color: c, Value: s})
}
