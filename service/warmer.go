package service

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/yassinebenk/bg-v2/model"
	"github.com/yassinebenk/bg-v2/utils"
)

// Warmer validates the mockup catalog at startup, so a broken
// reference image fails loudly at boot instead of on the first
// request, and primes the detection cache along the way.
type Warmer struct {
	catalog  model.Catalog
	detector FrameDetector
	cron     *cron.Cron
}

func NewWarmer(catalog model.Catalog, detector FrameDetector) *Warmer {
	return &Warmer{
		catalog:  catalog,
		detector: detector,
	}
}

// WarmUp runs detection over every catalog entry and returns the first
// failure.
func (w *Warmer) WarmUp() error {
	start := time.Now()
	count := 0

	for orientation, candidates := range w.catalog {
		for _, path := range candidates {
			frame, err := w.detector.Detect(path)
			if err != nil {
				return fmt.Errorf("warm up mockup %s (%s): %w", path, orientation, err)
			}
			count++
			utils.Logger.Debug("mockup warmed",
				zap.String("mockup", path),
				zap.Int("frame_width", frame.Width),
				zap.Int("frame_height", frame.Height))
		}
	}

	utils.Logger.Info("mockup catalog warmed",
		zap.Int("mockups", count),
		zap.Duration("duration", time.Since(start)))
	return nil
}

// Schedule re-runs the sweep on a cron spec. Mockup files can be
// swapped on disk between sweeps; the content-hash cache key
// self-invalidates. Scheduled failures are logged, not fatal.
func (w *Warmer) Schedule(spec string) error {
	if spec == "" {
		return nil
	}

	w.cron = cron.New()
	if _, err := w.cron.AddFunc(spec, func() {
		if err := w.WarmUp(); err != nil {
			utils.Logger.Error("scheduled catalog rescan failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("schedule catalog rescan: %w", err)
	}

	w.cron.Start()
	utils.Logger.Info("catalog rescan scheduled", zap.String("spec", spec))
	return nil
}

func (w *Warmer) Stop() {
	if w.cron != nil {
		w.cron.Stop()
	}
}
