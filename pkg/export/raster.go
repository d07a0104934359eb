package export

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Rasterizer draws a view into a bitmap, oversampled by scale.
type Rasterizer interface {
	Rasterize(ctx context.Context, v View, scale float64) (image.Image, error)
}

// BoxRasterizer draws Layout views with the bundled Go fonts.
type BoxRasterizer struct{}

func (BoxRasterizer) Rasterize(ctx context.Context, v View, scale float64) (image.Image, error) {
	l, ok := v.(*Layout)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedView, v)
	}
	w := int(math.Ceil(float64(l.Width) * scale))
	h := int(math.Ceil(float64(l.Height) * scale))
	dst := whiteCanvas(w, h)
	if w == 0 || h == 0 {
		return dst, nil
	}

	for _, b := range l.Boxes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		drawBox(dst, b, scale)
	}

	faces := faceCache{}
	defer faces.close()
	for _, t := range l.Texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if t.Value == "" || t.Size <= 0 {
			continue
		}
		face, err := faces.get(t.Size*scale, t.Bold)
		if err != nil {
			return nil, err
		}
		d := font.Drawer{
			Dst:  dst,
			Src:  image.NewUniform(colorOr(t.Color, color.Black)),
			Face: face,
			Dot:  fixed.P(int(math.Round(t.X*scale)), int(math.Round(t.Y*scale))),
		}
		d.DrawString(t.Value)
	}
	return dst, nil
}

func drawBox(dst draw.Image, b Box, scale float64) {
	r := scaledRect(b.X, b.Y, b.W, b.H, scale)
	if b.Fill != nil {
		draw.Draw(dst, r, image.NewUniform(b.Fill), image.Point{}, draw.Over)
	}
	if b.Stroke == nil || b.StrokeWidth <= 0 {
		return
	}
	sw := int(math.Max(1, math.Round(b.StrokeWidth*scale)))
	src := image.NewUniform(b.Stroke)
	for _, edge := range []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+sw),
		image.Rect(r.Min.X, r.Max.Y-sw, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+sw, r.Max.Y),
		image.Rect(r.Max.X-sw, r.Min.Y, r.Max.X, r.Max.Y),
	} {
		draw.Draw(dst, edge.Intersect(r), src, image.Point{}, draw.Over)
	}
}

func scaledRect(x, y, w, h, scale float64) image.Rectangle {
	return image.Rect(
		int(math.Round(x*scale)), int(math.Round(y*scale)),
		int(math.Round((x+w)*scale)), int(math.Round((y+h)*scale)),
	)
}

func colorOr(c, fallback color.Color) color.Color {
	if c == nil {
		return fallback
	}
	return c
}

func whiteCanvas(w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	return dst
}

// flatten composites img over white so transparent regions print as paper.
func flatten(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := whiteCanvas(b.Dx(), b.Dy())
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}
