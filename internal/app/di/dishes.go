package di

import (
	"time"

	dishadapters "nutriapp/internal/feature/dishes/adapters"
	"nutriapp/internal/feature/dishes/usecase"
	"nutriapp/internal/platform/cache"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// NewDishRepository returns the SQL dish store, wrapped in a Redis read-through
// cache when Redis is available.
func NewDishRepository(rdb *redis.Client, db *gorm.DB, ttl time.Duration) usecase.DishRepository {
	repo := dishadapters.NewDishGorm(db)
	if rdb == nil {
		return repo
	}
	return cache.NewCachingDishRepository(rdb, ttl, repo, "dishes")
}
