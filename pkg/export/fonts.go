package export

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

var (
	fontsOnce sync.Once
	regular   *opentype.Font
	bold      *opentype.Font
	fontsErr  error
)

func loadFonts() error {
	fontsOnce.Do(func() {
		if regular, fontsErr = opentype.Parse(goregular.TTF); fontsErr != nil {
			fontsErr = fmt.Errorf("parsing regular font: %w", fontsErr)
			return
		}
		if bold, fontsErr = opentype.Parse(gobold.TTF); fontsErr != nil {
			fontsErr = fmt.Errorf("parsing bold font: %w", fontsErr)
		}
	})
	return fontsErr
}

type faceKey struct {
	size float64
	bold bool
}

// faceCache hands out faces by size and weight. Faces are not safe for
// concurrent use, so a cache belongs to one goroutine at a time.
type faceCache map[faceKey]font.Face

func (c faceCache) get(size float64, isBold bool) (font.Face, error) {
	k := faceKey{size, isBold}
	if f, ok := c[k]; ok {
		return f, nil
	}
	if err := loadFonts(); err != nil {
		return nil, err
	}
	src := regular
	if isBold {
		src = bold
	}
	f, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("creating %.1fpx face: %w", size, err)
	}
	c[k] = f
	return f, nil
}

func (c faceCache) close() {
	for k, f := range c {
		f.Close()
		delete(c, k)
	}
}

var (
	measureMu    sync.Mutex
	measureFaces = faceCache{}
)

// MeasureText returns the advance width of s in pixels at size.
func MeasureText(s string, size float64, isBold bool) float64 {
	measureMu.Lock()
	defer measureMu.Unlock()
	f, err := measureFaces.get(size, isBold)
	if err != nil {
		// rough fallback so layout can still proceed
		return float64(len([]rune(s))) * size * 0.55
	}
	return float64(font.MeasureString(f, s)) / 64
}
