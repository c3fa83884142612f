package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/kotoba/internal/logger"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}

	router := gin.New()
	router.Use(RequestLogger(log))
	router.Use(gin.Recovery())

	if len(cfg.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins: cfg.AllowedOrigins,
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Content-Type"},
			MaxAge:       12 * time.Hour,
		}))
	}

	health := NewHealthController(cfg.Database, cfg.Version)
	lessons := NewLessonsController(cfg.Lessons, cfg.Vocab, cfg.Kanji, log)
	progress := NewProgressController(cfg.Progress, cfg.Reviews, log)
	admin := NewAdminController(cfg.Renumberer, cfg.TaskQueue, log)

	router.GET("/health", health.Status)

	api := router.Group("/api")
	{
		api.GET("/lessons", lessons.List)
		api.GET("/lessons/:slug", lessons.Get)
		api.GET("/lessons/:slug/vocab", lessons.Vocab)
		api.GET("/lessons/:slug/kanji", lessons.Kanji)
		api.GET("/lessons/:slug/progress", progress.Lesson)
		api.GET("/progress", progress.All)
		api.POST("/reviews", progress.Review)
	}

	adminGroup := api.Group("/admin")
	{
		adminGroup.POST("/lessons/:slug/renumber", admin.Renumber)
		adminGroup.GET("/tasks/:id", admin.TaskStatus)
	}

	return router
}

// RequestLogger logs one line per request through the application logger.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		fields := []interface{}{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}

		switch {
		case status >= 500:
			log.Error("HTTP request", fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}
