package service

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"github.com/yassinebenk/bg-v2/config"
	"github.com/yassinebenk/bg-v2/model"
	"github.com/yassinebenk/bg-v2/utils"
)

// Pipeline runs a composite job end to end: background removal,
// orientation classification, mockup selection and compositing.
type Pipeline struct {
	remover        Remover
	classifier     *OrientationClassifier
	selector       *MockupSelector
	compositor     *Compositor
	marginInch     float64
	semaphore      chan struct{}
	queueTimeout   time.Duration
	processTimeout time.Duration
}

// Result carries the composite plus the facts derived along the way,
// for response metadata and the CLI's progress output.
type Result struct {
	Image       *image.NRGBA
	Orientation model.Orientation
	WidthIn     float64
	HeightIn    float64
	Match       model.MockupMatch
}

func NewPipeline(cfg *config.Config, remover Remover, classifier *OrientationClassifier, selector *MockupSelector, compositor *Compositor) *Pipeline {
	return &Pipeline{
		remover:        remover,
		classifier:     classifier,
		selector:       selector,
		compositor:     compositor,
		marginInch:     cfg.Render.MarginInch,
		semaphore:      make(chan struct{}, cfg.Pipeline.MaxConcurrent),
		queueTimeout:   time.Duration(cfg.Pipeline.QueueTimeout) * time.Second,
		processTimeout: time.Duration(cfg.Pipeline.ProcessTimeout) * time.Second,
	}
}

// Process composites one foreground image. Jobs beyond the concurrency
// limit wait up to the queue timeout for a slot; the whole job runs
// under the process deadline, checked between stages.
func (p *Pipeline) Process(ctx context.Context, jobID string, foreground image.Image) (*Result, error) {
	queueCtx, cancel := context.WithTimeout(ctx, p.queueTimeout)
	defer cancel()

	select {
	case p.semaphore <- struct{}{}:
		defer func() { <-p.semaphore }()
	case <-queueCtx.Done():
		return nil, ErrQueueFull
	}

	ctx, cancelProcess := context.WithTimeout(ctx, p.processTimeout)
	defer cancelProcess()

	startTime := time.Now()

	transparent, err := p.remover.Remove(ctx, foreground)
	if err != nil {
		return nil, fmt.Errorf("remove background: %w", err)
	}

	utils.Logger.Info("background removed",
		zap.String("job_id", jobID),
		zap.Duration("duration", time.Since(startTime)))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	widthPx := transparent.Bounds().Dx()
	heightPx := transparent.Bounds().Dy()
	widthIn := p.classifier.Inches(widthPx)
	heightIn := p.classifier.Inches(heightPx)
	orientation := p.classifier.Classify(widthPx, heightPx)

	utils.Logger.Info("artwork classified",
		zap.String("job_id", jobID),
		zap.Int("width_px", widthPx),
		zap.Int("height_px", heightPx),
		zap.String("orientation", string(orientation)))

	selectStart := time.Now()
	match, err := p.selector.Select(orientation, widthIn, heightIn)
	if err != nil {
		return nil, err
	}

	utils.Logger.Info("mockup selected",
		zap.String("job_id", jobID),
		zap.String("mockup", match.Path),
		zap.Duration("duration", time.Since(selectStart)))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mockup, err := imaging.Open(match.Path)
	if err != nil {
		return nil, fmt.Errorf("open mockup %s: %w", match.Path, err)
	}

	composite, err := p.compositor.Composite(mockup, match.Frame, transparent, p.marginInch)
	if err != nil {
		return nil, err
	}

	utils.Logger.Info("composite finished",
		zap.String("job_id", jobID),
		zap.String("mockup", match.Path),
		zap.Duration("total_duration", time.Since(startTime)))

	return &Result{
		Image:       composite,
		Orientation: orientation,
		WidthIn:     widthIn,
		HeightIn:    heightIn,
		Match:       *match,
	}, nil
}
