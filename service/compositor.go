package service

import (
	"image"

	"github.com/disintegration/imaging"

	"github.com/yassinebenk/bg-v2/config"
	"github.com/yassinebenk/bg-v2/model"
)

// Compositor places a transparent artwork inside a mockup's detected
// frame, leaving a margin on all sides.
type Compositor struct {
	dpi int
}

func NewCompositor(cfg *config.RenderConfig) *Compositor {
	return &Compositor{
		dpi: cfg.DPI,
	}
}

// Composite shrinks the frame by the margin, scales the foreground
// down (never up) to fit the inner rectangle, centers it and blends it
// onto the mockup using the foreground's own alpha channel. The output
// keeps the mockup's full dimensions.
func (c *Compositor) Composite(mockup image.Image, frame model.Frame, foreground image.Image, marginInch float64) (*image.NRGBA, error) {
	marginPx := int(marginInch * float64(c.dpi))

	innerX := frame.X + marginPx
	innerY := frame.Y + marginPx
	innerW := frame.Width - 2*marginPx
	innerH := frame.Height - 2*marginPx

	if innerW <= 0 || innerH <= 0 {
		return nil, &MarginError{InnerWidth: innerW, InnerHeight: innerH}
	}

	// Fit never upscales: a foreground already inside the inner
	// rectangle is placed at its original size.
	scaled := imaging.Fit(foreground, innerW, innerH, imaging.Lanczos)

	scaledW := scaled.Bounds().Dx()
	scaledH := scaled.Bounds().Dy()
	pos := image.Pt(
		innerX+(innerW-scaledW)/2,
		innerY+(innerH-scaledH)/2,
	)

	return imaging.Overlay(mockup, scaled, pos, 1.0), nil
}
