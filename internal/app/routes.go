package app

import (
	"net/http"
	"time"

	"github.com/contentpilot/core/internal/middleware"
	"github.com/contentpilot/core/internal/modules/auth"
	"github.com/contentpilot/core/internal/modules/content"
	"github.com/contentpilot/core/internal/modules/health"
	"github.com/contentpilot/core/internal/modules/series"
	"github.com/contentpilot/core/internal/modules/site"
	"github.com/contentpilot/core/internal/modules/triage"
	"github.com/contentpilot/core/internal/pkg/response"
	"github.com/contentpilot/core/internal/pkg/slug"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const triageCacheTTL = 15 * time.Second

func (a *App) registerRoutes() {
	r := a.router
	db := a.db
	authMW := middleware.Auth(db)

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")

	appInfo := gin.H{
		"name":    "contentpilot-core",
		"version": "1.0.0",
	}
	api.GET("", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"data": "pong"}) })

	health.RegisterRoutes(api, db, a.rc.Raw())

	// Auth
	auth.NewHandler(auth.NewService(db)).RegisterRoutes(api, authMW)

	// Content management
	slugs := slug.NewResolver(slug.NewGormStore(db), a.logger)
	site.NewHandler(site.NewService(db, slugs)).RegisterRoutes(api, authMW)
	series.NewHandler(series.NewService(db, slugs)).RegisterRoutes(api, authMW)
	content.NewHandler(content.NewService(db, slugs, a.logger)).RegisterRoutes(api, authMW)

	// Triage dashboard. The report is pure read-side, so short-lived redis
	// caching absorbs dashboard polling without staleness anyone notices.
	var cacheMW gin.HandlerFunc
	if !a.cfg.CacheDisabled {
		cacheMW = middleware.HTTPCache(a.rc.Raw(), triageCacheTTL)
	}
	triage.NewHandler(triage.NewService(db, a.logger), a.logger).RegisterRoutes(api, authMW, cacheMW)
}
