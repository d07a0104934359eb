package export

import "math"

// PageSize is a page in PDF points.
type PageSize struct {
	Width  float64
	Height float64
}

// Letter is US Letter portrait.
var Letter = PageSize{Width: 612, Height: 792}

// Slice is one horizontal band of the source bitmap, in pixels.
type Slice struct {
	Y      int `json:"y"`
	Height int `json:"height"`
}

// Plan is how a bitmap is cut into pages.
type Plan struct {
	PageHeightPx int     `json:"page_height_px"`
	Slices       []Slice `json:"slices"`
}

// Pages is the number of PDF pages the plan produces. An empty plan still
// yields one blank page.
func (p Plan) Pages() int {
	if len(p.Slices) == 0 {
		return 1
	}
	return len(p.Slices)
}

// PageHeightPx is how many source pixels one page holds when a bitmap of
// width w is drawn at full page width.
func (p PageSize) PageHeightPx(w int) int {
	if w <= 0 || p.Width <= 0 {
		return 0
	}
	h := int(math.Floor(p.Height * float64(w) / p.Width))
	if h < 1 {
		h = 1
	}
	return h
}

// Paginate cuts a w x h bitmap into page tall slices. A bitmap that fits
// one page is a single slice; the last slice of a longer one may be short.
func Paginate(w, h int, page PageSize) Plan {
	if w <= 0 || h <= 0 {
		return Plan{}
	}
	plan := Plan{PageHeightPx: page.PageHeightPx(w)}
	if float64(h)*page.Width/float64(w) <= page.Height {
		plan.Slices = []Slice{{Y: 0, Height: h}}
		return plan
	}
	for y := 0; y < h; y += plan.PageHeightPx {
		plan.Slices = append(plan.Slices, Slice{Y: y, Height: min(plan.PageHeightPx, h-y)})
	}
	return plan
}

// Fit bounds for one-page fitting.
const (
	MinFitScale = 0.6
	MaxFitScale = 1.0
)

// FitScale is the factor that shrinks a w x h bitmap toward one page,
// clamped to [MinFitScale, MaxFitScale].
func FitScale(w, h int, page PageSize) float64 {
	if w <= 0 || h <= 0 {
		return MaxFitScale
	}
	s := float64(page.PageHeightPx(w)) / float64(h)
	return math.Min(MaxFitScale, math.Max(MinFitScale, s))
}
