package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/go-pdf/fpdf"
)

// writePDF lays each slice of img onto its own page at full page width,
// anchored at the top left.
func writePDF(img *image.RGBA, plan Plan, page PageSize, title string) ([]byte, error) {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: page.Width, Ht: page.Height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("Raden", true)
	if title != "" {
		pdf.SetTitle(title, true)
	}

	if len(plan.Slices) == 0 {
		pdf.AddPage()
	}
	w := img.Bounds().Dx()
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	for i, s := range plan.Slices {
		band := image.Rect(0, s.Y, w, s.Y+s.Height).Add(img.Bounds().Min)
		var buf bytes.Buffer
		if err := png.Encode(&buf, img.SubImage(band)); err != nil {
			return nil, fmt.Errorf("encoding page %d: %w", i+1, err)
		}
		name := fmt.Sprintf("page-%d", i+1)
		pdf.AddPage()
		pdf.RegisterImageOptionsReader(name, opts, &buf)
		pdf.ImageOptions(name, 0, 0, page.Width, float64(s.Height)*page.Width/float64(w), false, opts, 0, "")
		if err := pdf.Error(); err != nil {
			return nil, fmt.Errorf("adding page %d: %w", i+1, err)
		}
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("writing pdf: %w", err)
	}
	return out.Bytes(), nil
}
