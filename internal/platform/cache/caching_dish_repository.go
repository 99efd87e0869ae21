// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"nutriapp/internal/feature/dishes/domain/entity"
	"nutriapp/internal/feature/dishes/usecase"
)

// CachingDishRepository decorates a DishRepository with a Redis cache of owner lists.
//
// Each owner has a generation counter that every write increments. Lists are stored
// under the generation read before loading them, so a read that raced a write can only
// fill a key no later read will look at.
type CachingDishRepository struct {
	inner     usecase.DishRepository
	rdb       redis.UniversalClient
	ttl       time.Duration
	namespace string
}

var _ usecase.DishRepository = (*CachingDishRepository)(nil)

// NewCachingDishRepository decorates a DishRepository with Redis caching.
// A nil rdb disables caching. If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "dishes".
func NewCachingDishRepository(rdb redis.UniversalClient, ttl time.Duration, inner usecase.DishRepository, namespace string) *CachingDishRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "dishes"
	}
	return &CachingDishRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Create inserts the dish and retires the owner's cached list.
func (c *CachingDishRepository) Create(ctx context.Context, dish *entity.Dish) error {
	if err := c.inner.Create(ctx, dish); err != nil {
		return err
	}
	c.bump(ctx, dish.OwnerID)
	return nil
}

// FindByID always reads the store. It is a single primary-key lookup.
func (c *CachingDishRepository) FindByID(ctx context.Context, id uint) (*entity.Dish, error) {
	return c.inner.FindByID(ctx, id)
}

// ListByOwner reads through the per-owner list cache.
func (c *CachingDishRepository) ListByOwner(ctx context.Context, ownerID uint) ([]entity.Dish, error) {
	if c.rdb == nil {
		return c.inner.ListByOwner(ctx, ownerID)
	}

	gen, err := c.rdb.Get(ctx, c.genKey(ownerID)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		slog.Debug("dish cache generation read failed", "owner_id", ownerID, "error", err)
		return c.inner.ListByOwner(ctx, ownerID)
	}

	key := c.listKey(ownerID, gen)
	var cached []entity.Dish
	if c.load(ctx, key, &cached) {
		return cached, nil
	}

	dishes, err := c.inner.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, dishes)
	return dishes, nil
}

// Update writes through and retires the owner's cached list.
func (c *CachingDishRepository) Update(ctx context.Context, dish *entity.Dish) error {
	if err := c.inner.Update(ctx, dish); err != nil {
		return err
	}
	c.bump(ctx, dish.OwnerID)
	return nil
}

// Delete removes the dish and retires the owner's cached list.
func (c *CachingDishRepository) Delete(ctx context.Context, id, ownerID uint) error {
	if err := c.inner.Delete(ctx, id, ownerID); err != nil {
		return err
	}
	c.bump(ctx, ownerID)
	return nil
}

// load decodes key into dst. Corrupt entries are deleted.
func (c *CachingDishRepository) load(ctx context.Context, key string, dst any) bool {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil || len(b) == 0 {
		return false
	}
	if err := json.Unmarshal(b, dst); err != nil {
		_ = c.rdb.Del(ctx, key).Err()
		return false
	}
	return true
}

// store is best effort; a failed write only costs a cache miss.
func (c *CachingDishRepository) store(ctx context.Context, key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
		slog.Debug("dish cache write failed", "key", key, "error", err)
	}
}

// bump moves the owner to a new generation. Lists of older generations expire by ttl.
func (c *CachingDishRepository) bump(ctx context.Context, ownerID uint) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Incr(ctx, c.genKey(ownerID)).Err(); err != nil {
		slog.Warn("dish cache invalidation failed", "owner_id", ownerID, "error", err)
	}
}

func (c *CachingDishRepository) genKey(ownerID uint) string {
	return fmt.Sprintf("%s:owner:%d:gen", c.namespace, ownerID)
}

func (c *CachingDishRepository) listKey(ownerID uint, gen int64) string {
	return fmt.Sprintf("%s:owner:%d:v%d", c.namespace, ownerID, gen)
}
