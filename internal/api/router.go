package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/visit-tracker-go/internal/config"
	"github.com/jengzang/visit-tracker-go/internal/handler"
	"github.com/jengzang/visit-tracker-go/internal/middleware"
)

// SetupRouter 设置路由
func SetupRouter(ctx context.Context, cfg *config.Config, visits *handler.VisitHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger("/health", "/api/v1/overlays"))

	// CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Visit tracker is running",
		})
	})

	limiter := middleware.NewRateLimiter(ctx, cfg.RateLimit, cfg.RateWindow())

	api := r.Group("/api/v1")
	{
		api.POST("/viewport", middleware.RateLimit(limiter), visits.ReportViewport)
		api.GET("/overlays", visits.GetOverlays)
		api.GET("/cells", visits.GetVisitedCells)
		api.GET("/stats", visits.GetStats)
		api.GET("/viewer-config", visits.GetViewerConfig)
	}

	return r
}
