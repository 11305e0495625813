package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/yassinebenk/bg-v2/model"
	"github.com/yassinebenk/bg-v2/utils"
)

// FrameStore is the slice of the redis service the cached detector
// needs; nil disables caching entirely.
type FrameStore interface {
	GetFrame(ctx context.Context, key string) (*model.Frame, error)
	SetFrame(ctx context.Context, key string, frame model.Frame) error
}

// CachedDetector wraps a FrameDetector with a cache-aside store.
// Every cache failure falls through to live detection, so behavior
// with the store absent or broken is identical, minus latency.
type CachedDetector struct {
	inner     FrameDetector
	store     FrameStore
	threshold int
}

func NewCachedDetector(inner FrameDetector, store FrameStore, threshold int) *CachedDetector {
	return &CachedDetector{
		inner:     inner,
		store:     store,
		threshold: threshold,
	}
}

func (d *CachedDetector) Detect(imagePath string) (model.Frame, error) {
	if d.store == nil {
		return d.inner.Detect(imagePath)
	}

	md5, err := utils.FileMD5(imagePath)
	if err != nil {
		utils.Logger.Warn("failed to hash mockup, skipping cache",
			zap.String("image", imagePath), zap.Error(err))
		return d.inner.Detect(imagePath)
	}

	ctx := context.Background()
	key := FrameKey(md5, d.threshold)

	cached, err := d.store.GetFrame(ctx, key)
	if err != nil {
		utils.Logger.Warn("failed to get cached frame", zap.Error(err))
	}
	if cached != nil {
		utils.Logger.Debug("frame cache hit", zap.String("key", key))
		return *cached, nil
	}

	frame, err := d.inner.Detect(imagePath)
	if err != nil {
		return model.Frame{}, err
	}

	if err := d.store.SetFrame(ctx, key, frame); err != nil {
		utils.Logger.Warn("failed to cache frame", zap.Error(err))
	}

	return frame, nil
}
