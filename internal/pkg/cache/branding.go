package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/editur/editur_server/internal/model"
)

const brandingKey = "editur:branding"

// BrandingCache 缓存公开的品牌配置；rdb 为 nil 时所有操作均为空操作
type BrandingCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewBrandingCache(rdb *redis.Client, ttl time.Duration) *BrandingCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &BrandingCache{rdb: rdb, ttl: ttl}
}

// Get 命中时返回 (branding, true, nil)
func (c *BrandingCache) Get(ctx context.Context) (*model.BrandingSettings, bool, error) {
	if c == nil || c.rdb == nil {
		return nil, false, nil
	}

	raw, err := c.rdb.Get(ctx, brandingKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var branding model.BrandingSettings
	if err := json.Unmarshal(raw, &branding); err != nil {
		// 旧格式数据直接丢弃
		_ = c.rdb.Del(ctx, brandingKey).Err()
		return nil, false, nil
	}
	return &branding, true, nil
}

func (c *BrandingCache) Set(ctx context.Context, branding *model.BrandingSettings) error {
	if c == nil || c.rdb == nil || branding == nil {
		return nil
	}

	raw, err := json.Marshal(branding)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, brandingKey, raw, c.ttl).Err()
}

func (c *BrandingCache) Invalidate(ctx context.Context) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, brandingKey).Err()
}
