// Package router mounts the HTTP routes of the API.
package router

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authhandler "nutriapp/internal/feature/auth/transport/handler"
	dishhandler "nutriapp/internal/feature/dishes/transport/handler"
)

// Handlers groups the endpoint handlers served by the router.
type Handlers struct {
	Auth   *authhandler.AuthHandler
	Dishes *dishhandler.DishHandler
	Health gin.HandlerFunc
}

// Middleware groups the request filters applied to route groups.
type Middleware struct {
	// Session gates /api/dishes.
	Session gin.HandlerFunc
	// AuthLimit throttles register and login. Optional.
	AuthLimit gin.HandlerFunc
	// CORSOrigins enables CORS for the listed origins; "*" allows any origin.
	CORSOrigins []string
}

func NewRouter(h Handlers, mw Middleware) *gin.Engine {
	r := gin.Default()

	if len(mw.CORSOrigins) > 0 {
		r.Use(cors.New(corsConfig(mw.CORSOrigins)))
	}

	// 導通確認用
	r.GET("/healthz", h.Health)
	r.HEAD("/healthz", h.Health)
	r.OPTIONS("/healthz", h.Health)

	api := r.Group("/api")
	{
		public := api.Group("")
		if mw.AuthLimit != nil {
			public.Use(mw.AuthLimit)
		}
		public.POST("/register", h.Auth.Register)
		public.POST("/login", h.Auth.Login)

		// セッションがなくても成功する
		api.POST("/logout", h.Auth.Logout)
	}

	dishes := api.Group("/dishes")
	dishes.Use(mw.Session)
	{
		dishes.GET("", h.Dishes.List)
		dishes.POST("", h.Dishes.Create)
		dishes.GET("/:id", h.Dishes.Get)
		dishes.PUT("/:id", h.Dishes.Update)
		dishes.DELETE("/:id", h.Dishes.Delete)
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if slices.Contains(origins, "*") {
		// Credentialed requests cannot use a literal "*", so echo the caller's origin.
		cfg.AllowOriginFunc = func(string) bool { return true }
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
