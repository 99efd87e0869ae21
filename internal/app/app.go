// Package app assembles the HTTP application from its configuration and stores.
package app

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"nutriapp/internal/app/di"
	"nutriapp/internal/app/router"
	authadapters "nutriapp/internal/feature/auth/adapters"
	authhandler "nutriapp/internal/feature/auth/transport/handler"
	"nutriapp/internal/feature/auth/transport/middleware"
	authusecase "nutriapp/internal/feature/auth/usecase"
	dishhandler "nutriapp/internal/feature/dishes/transport/handler"
	dishusecase "nutriapp/internal/feature/dishes/usecase"
	"nutriapp/internal/platform/config"
	healthhandler "nutriapp/internal/platform/http/handler"
	"nutriapp/internal/shared/ratelimiter"
)

// App is the assembled HTTP application.
type App struct {
	Engine   *gin.Engine
	Sessions *authusecase.SessionUsecase
}

// New wires repositories, usecases, handlers and routes. rdb may be nil, in which case
// sessions live in the SQL database and dish reads are not cached.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*App, error) {
	if db == nil {
		return nil, errors.New("app: database is required")
	}
	if cfg.Session.Secret == "" {
		return nil, errors.New("app: session secret is required")
	}

	// Repository
	userRepo := authadapters.NewUserGorm(db)
	sessionRepo := di.NewSessionRepository(rdb, db)
	dishRepo := di.NewDishRepository(rdb, db, cfg.Redis.CacheTTL)

	// Usecase
	sessionUC := di.NewSessionUsecase(cfg.Session, sessionRepo, userRepo)
	authUC := authusecase.NewAuthUsecase(userRepo, sessionUC)
	dishUC := dishusecase.NewDishUsecase(dishRepo)

	// Handler
	authH := authhandler.NewAuthHandler(authUC, authhandler.CookieConfig{
		Name:   cfg.Session.CookieName,
		Secure: cfg.Session.Secure,
	})
	dishH := dishhandler.NewDishHandler(dishUC)

	mw := router.Middleware{
		Session:     middleware.SessionRequired(sessionUC, cfg.Session.CookieName),
		CORSOrigins: cfg.HTTP.CORSOrigins,
	}
	if limiter := ratelimiter.NewKeyedLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst); limiter.Enabled() {
		mw.AuthLimit = ratelimiter.Middleware(limiter)
	}

	engine := router.NewRouter(router.Handlers{
		Auth:   authH,
		Dishes: dishH,
		Health: healthhandler.Health(healthChecks(db, rdb)...),
	}, mw)

	return &App{Engine: engine, Sessions: sessionUC}, nil
}

// ServeHTTP makes App an http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.Engine.ServeHTTP(w, r)
}

func healthChecks(db *gorm.DB, rdb *redis.Client) []healthhandler.Check {
	checks := []healthhandler.Check{{
		Name: "database",
		Ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}}
	if rdb != nil {
		checks = append(checks, healthhandler.Check{
			Name: "redis",
			Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		})
	}
	return checks
}
