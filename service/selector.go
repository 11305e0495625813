package service

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/yassinebenk/bg-v2/model"
	"github.com/yassinebenk/bg-v2/utils"
)

// MockupSelector picks the catalog candidate whose detected frame
// ratio is closest to the artwork's aspect ratio.
type MockupSelector struct {
	catalog  model.Catalog
	detector FrameDetector
}

func NewMockupSelector(catalog model.Catalog, detector FrameDetector) *MockupSelector {
	return &MockupSelector{
		catalog:  catalog,
		detector: detector,
	}
}

// Select evaluates every candidate for the orientation and returns the
// one with the smallest |frame_ratio - art_ratio|. Ties keep the
// earliest candidate. A detection failure on any candidate aborts the
// whole selection; a broken mockup asset is a deployment problem, not
// something to paper over per request.
func (s *MockupSelector) Select(orientation model.Orientation, artWidth, artHeight float64) (*model.MockupMatch, error) {
	candidates := s.catalog[orientation]
	if len(candidates) == 0 {
		return nil, &ConfigurationError{Orientation: orientation}
	}

	artRatio := artWidth / artHeight

	var best *model.MockupMatch
	smallestDiff := math.Inf(1)

	for _, path := range candidates {
		frame, err := s.detector.Detect(path)
		if err != nil {
			return nil, fmt.Errorf("detect frame in %s: %w", path, err)
		}

		diff := math.Abs(frame.Ratio() - artRatio)
		utils.Logger.Debug("evaluated mockup candidate",
			zap.String("mockup", path),
			zap.Float64("frame_ratio", frame.Ratio()),
			zap.Float64("art_ratio", artRatio),
			zap.Float64("diff", diff))

		if diff < smallestDiff {
			best = &model.MockupMatch{Path: path, Frame: frame}
			smallestDiff = diff
		}
	}

	if best == nil {
		return nil, &NoMatchError{Orientation: orientation}
	}

	return best, nil
}
