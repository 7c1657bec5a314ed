package server

import (
	"time"

	httpHandler "comment-insight/interfaces/http"
	"comment-insight/interfaces/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RouterConfig carries the optional pieces of the route table
type RouterConfig struct {
	AllowOrigins []string
	SecretKey    string
	// BatchStream serves GET /api/batch/stream when set
	BatchStream gin.HandlerFunc
	// Metrics serves GET /metrics when set
	Metrics gin.HandlerFunc
}

func InitiateRouter(
	analysisHandler httpHandler.IAnalysisHandler,
	healthHandler httpHandler.IHealthHandler,
	cfg RouterConfig,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.AllowOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.AllowOrigins
		corsConfig.AllowCredentials = true
	}
	router.Use(cors.New(corsConfig))

	router.GET("/healthz", healthHandler.Healthz)
	if cfg.Metrics != nil {
		router.GET("/metrics", cfg.Metrics)
	}

	api := router.Group("api")
	{
		api.GET("/last_updated", analysisHandler.LastUpdated)
		api.POST("/analyze", analysisHandler.Analyze)
		api.POST("/analyze_csv", analysisHandler.AnalyzeCSV)

		api.GET("/rankings", analysisHandler.Rankings)
		api.GET("/view_trends", analysisHandler.ViewTrends)
		api.GET("/monthly_comments_chart", analysisHandler.MonthlyCommentsChart)
		api.GET("/monthly_views_chart", analysisHandler.MonthlyViewsChart)
		api.GET("/database_management", analysisHandler.DatabaseManagement)

		admin := api.Group("", middleware.AdminAuth(cfg.SecretKey))
		admin.POST("/delete_video", analysisHandler.DeleteVideo)
		admin.POST("/clear_database", analysisHandler.ClearDatabase)

		if cfg.BatchStream != nil {
			api.GET("/batch/stream", cfg.BatchStream)
		}
	}

	return router
}
