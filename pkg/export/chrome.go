package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/NewCodeOnDaBlock/the-pocket-advance-generator/internal/utils"
)

// ChromeRasterizer renders HTML views in a headless Chrome. Each call starts
// a fresh browser and tears it down before returning.
type ChromeRasterizer struct {
	// Bin is the browser executable; empty lets the launcher find or fetch one.
	Bin string
}

func (c ChromeRasterizer) Rasterize(ctx context.Context, v View, scale float64) (_ image.Image, err error) {
	hv, ok := v.(HTMLView)
	if !ok {
		if p, isPtr := v.(*HTMLView); isPtr && p != nil {
			hv, ok = *p, true
		}
	}
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedView, v)
	}

	l := launcher.New().Headless(true).Leakless(false)
	if c.Bin != "" {
		l = l.Bin(c.Bin)
	}
	defer l.Cleanup()
	controlURL, err := l.Context(ctx).Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}
	defer func() {
		if cerr := browser.Close(); cerr != nil {
			utils.Log.WithError(cerr).Debug("export: closing browser")
		}
	}()

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("opening page: %w", err)
	}
	defer page.Close()

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             hv.Width,
		Height:            800,
		DeviceScaleFactor: scale,
	}); err != nil {
		return nil, fmt.Errorf("setting viewport: %w", err)
	}
	if err := page.SetDocumentContent(hv.HTML); err != nil {
		return nil, fmt.Errorf("loading document: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("waiting for document: %w", err)
	}
	if hv.fit != nil {
		if err := zoomToFit(page, hv); err != nil {
			return nil, err
		}
	}

	shot, err := page.Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, fmt.Errorf("capturing page: %w", err)
	}
	img, err := png.Decode(bytes.NewReader(shot))
	if err != nil {
		return nil, fmt.Errorf("decoding screenshot: %w", err)
	}
	return img, nil
}

func zoomToFit(page *rod.Page, hv HTMLView) error {
	res, err := page.Eval(`() => document.documentElement.scrollHeight`)
	if err != nil {
		return fmt.Errorf("measuring document: %w", err)
	}
	s := contentFitScale(hv.Width, res.Value.Int(), hv.fit.page, hv.fit.padding)
	if s >= 1 {
		return nil
	}
	if _, err := page.Eval(`s => { document.documentElement.style.zoom = s }`, s); err != nil {
		return fmt.Errorf("zooming document: %w", err)
	}
	return nil
}
