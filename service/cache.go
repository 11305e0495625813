package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/yassinebenk/bg-v2/config"
	"github.com/yassinebenk/bg-v2/model"
	"github.com/yassinebenk/bg-v2/utils"
)

// RedisService caches detected frame rectangles. Keys are derived from
// the mockup file's content hash, so swapping a file on disk
// invalidates its entry naturally.
type RedisService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisService(cfg *config.RedisConfig) *RedisService {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &RedisService{
		client: client,
		ttl:    cfg.TTL,
	}
}

func (s *RedisService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// FrameKey builds the cache key for a detected frame: content MD5 plus
// the threshold the detection ran with.
func FrameKey(md5 string, threshold int) string {
	return fmt.Sprintf("frame:%s:%d", md5, threshold)
}

// GetFrame returns the cached frame for a key, or nil on a miss.
func (s *RedisService) GetFrame(ctx context.Context, key string) (*model.Frame, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var frame model.Frame
	if err := json.Unmarshal(data, &frame); err != nil {
		utils.Logger.Error("failed to unmarshal cached frame",
			zap.String("key", key), zap.Error(err))
		return nil, err
	}

	return &frame, nil
}

// SetFrame stores a detected frame under the given key.
func (s *RedisService) SetFrame(ctx context.Context, key string, frame model.Frame) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, key, data, s.ttl).Err()
}

func (s *RedisService) Close() error {
	return s.client.Close()
}
