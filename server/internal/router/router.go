package router

import (
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/navid-fn/spread-radar/server/internal/handler"
	"github.com/sirupsen/logrus"
)

type Config struct {
	OpportunityHandler *handler.OpportunityHandler
	HealthHandler      *handler.HealthHandler
	HistoryHandler     *handler.HistoryHandler
	PreferenceHandler  *handler.PreferenceHandler
	WebSocketHandler   *handler.WebSocketHandler

	CORSOrigins []string
	Logger      logrus.FieldLogger
}

func NewRouter(cfg *Config) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(cfg.Logger))

	router.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	api := router.Group("/v1/")
	api.GET("/health", cfg.HealthHandler.GetHealth)
	registerOpportunityRoutes(api, cfg.OpportunityHandler)
	registerHistoryRoutes(api, cfg.HistoryHandler)
	registerPreferenceRoutes(api, cfg.PreferenceHandler)
	if cfg.WebSocketHandler != nil {
		api.GET("/ws", cfg.WebSocketHandler.Stream)
	}

	return router
}

// corsConfig allows every origin when origins is empty or contains "*".
func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Upgrade", "Connection"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}

func requestLogger(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.FullPath(),
			"status":  c.Writer.Status(),
			"latency": time.Since(start),
		}).Debug("Request served")
	}
}
