// Package di provides dependency injection factories for creating application components.
package di

import (
	authadapters "nutriapp/internal/feature/auth/adapters"
	"nutriapp/internal/feature/auth/usecase"
	"nutriapp/internal/platform/config"
	"nutriapp/internal/platform/session"
	"nutriapp/internal/platform/sessiontoken"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// NewSessionRepository creates a SessionRepository implementation.
// If Redis is available, it returns a Redis-backed implementation.
// Otherwise, it falls back to the SQL database.
func NewSessionRepository(rdb *redis.Client, db *gorm.DB) usecase.SessionRepository {
	if rdb != nil {
		return session.NewSessionRedis(rdb, "session")
	}
	return authadapters.NewSessionGorm(db)
}

// NewSessionUsecase wires the session store, the token signer and the user lookup
// that Resolve checks sessions against.
func NewSessionUsecase(cfg config.SessionConfig, repo usecase.SessionRepository, users usecase.UserLookup) *usecase.SessionUsecase {
	signer := sessiontoken.NewSigner(cfg.Secret, cfg.Issuer)
	return usecase.NewSessionUsecase(repo, signer, cfg.TTL, cfg.MaxPerUser).WithUserLookup(users)
}
