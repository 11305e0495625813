package service

import (
	"gocv.io/x/gocv"

	"github.com/yassinebenk/bg-v2/config"
	"github.com/yassinebenk/bg-v2/model"
)

// FrameDetector locates the blank frame interior of a mockup image.
type FrameDetector interface {
	Detect(imagePath string) (model.Frame, error)
}

// Detector finds the bounding rectangle of the largest contiguous
// near-white region in a reference image.
type Detector struct {
	threshold float32
}

func NewDetector(cfg *config.RenderConfig) *Detector {
	return &Detector{
		threshold: float32(cfg.FrameThreshold),
	}
}

// Detect thresholds the grayscale image at the configured intensity,
// extracts external contours of the bright regions and returns the
// bounding rectangle of the largest one.
func (d *Detector) Detect(imagePath string) (model.Frame, error) {
	img := gocv.IMRead(imagePath, gocv.IMReadColor)
	if img.Empty() {
		return model.Frame{}, &DetectionError{Image: imagePath}
	}
	defer img.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)

	binary := gocv.NewMat()
	defer binary.Close()
	gocv.Threshold(gray, &binary, d.threshold, 255, gocv.ThresholdBinary)

	contours := gocv.FindContours(binary, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	if contours.Size() == 0 {
		return model.Frame{}, &DetectionError{Image: imagePath}
	}

	maxArea := 0.0
	maxIndex := 0
	for i := 0; i < contours.Size(); i++ {
		area := gocv.ContourArea(contours.At(i))
		if area > maxArea {
			maxArea = area
			maxIndex = i
		}
	}

	rect := gocv.BoundingRect(contours.At(maxIndex))
	return model.Frame{
		X:      rect.Min.X,
		Y:      rect.Min.Y,
		Width:  rect.Dx(),
		Height: rect.Dy(),
	}, nil
}
