package router

import (
	"github.com/gin-gonic/gin"

	"github.com/MateusMartins/projetoPOS/internal/container"
	handlers "github.com/MateusMartins/projetoPOS/internal/interface/http"
	"github.com/MateusMartins/projetoPOS/internal/interface/middleware"
	"github.com/MateusMartins/projetoPOS/internal/router/modules"
)

// InitModules wires handlers from c and registers every feature module.
// Call once during startup, before RegisterAll.
func InitModules(r *Registry, c *container.Container) {
	guard := middleware.RequireSession(c.Auth, c.Logger)

	pages := handlers.NewPageHandler(c.Auth, c.Logger)
	r.Engine.NoRoute(pages.NotFound)

	r.Add(modules.NewPageModule(pages))
	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(c.Auth, c.Session, c.Logger), guard, authLimiter(c)))
	r.Add(modules.NewArticleModule(handlers.NewArticleHandler(c.Articles, c.Auth, c.Logger), guard))
	if c.Config.MetricsEnabled {
		r.Add(modules.NewMetricsModule())
	}
}

func authLimiter(c *container.Container) gin.HandlerFunc {
	if !c.Config.RateLimitEnabled || c.Redis == nil {
		return nil
	}
	return middleware.RateLimit(c.Redis, c.Config.RateLimitMax, c.Config.RateLimitWindow, middleware.KeyByIPAndPath(), c.Logger)
}
