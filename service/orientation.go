package service

import (
	"github.com/yassinebenk/bg-v2/config"
	"github.com/yassinebenk/bg-v2/model"
)

// OrientationClassifier derives an artwork's orientation from its
// pixel dimensions under an assumed screen resolution.
type OrientationClassifier struct {
	ppi int
}

func NewOrientationClassifier(cfg *config.RenderConfig) *OrientationClassifier {
	return &OrientationClassifier{
		ppi: cfg.PPI,
	}
}

// Inches converts a pixel length to physical inches.
func (c *OrientationClassifier) Inches(px int) float64 {
	return float64(px) / float64(c.ppi)
}

// Classify returns vertical when the image is at least as tall as it
// is wide. A square image classifies as vertical; that tie-break is
// deliberate.
func (c *OrientationClassifier) Classify(widthPx, heightPx int) model.Orientation {
	if c.Inches(heightPx) >= c.Inches(widthPx) {
		return model.OrientationVertical
	}
	return model.OrientationHorizontal
}
