package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Gvirgo2/touropia/config"
	"github.com/Gvirgo2/touropia/internal/domain"
)

type RedisCache struct {
	client   *redis.Client
	itemsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, itemsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:   redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		itemsTTL: itemsTTL,
	}
}

func (c *RedisCache) GetItems(ctx context.Context, kind domain.ItemKind) ([]domain.CatalogItem, error) {
	data, err := c.client.Get(ctx, itemsKey(kind)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var items []domain.CatalogItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *RedisCache) SetItems(ctx context.Context, kind domain.ItemKind, items []domain.CatalogItem) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, itemsKey(kind), payload, c.itemsTTL).Err()
}

func (c *RedisCache) InvalidateItems(ctx context.Context, kind domain.ItemKind) error {
	return c.client.Del(ctx, itemsKey(kind)).Err()
}

// AcquireHoldLock reserves one bookable item for a start date while a
// checkout is in flight. Returns false when another booking holds it.
func (c *RedisCache) AcquireHoldLock(ctx context.Context, itemRef, startDate string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, holdKey(itemRef, startDate), "held", ttl).Result()
}

func (c *RedisCache) ReleaseHoldLock(ctx context.Context, itemRef, startDate string) error {
	return c.client.Del(ctx, holdKey(itemRef, startDate)).Err()
}

func itemsKey(kind domain.ItemKind) string {
	return fmt.Sprintf("cache:catalog:%s", kind)
}

func holdKey(itemRef, startDate string) string {
	return fmt.Sprintf("hold:item:%s:%s", itemRef, startDate)
}
