package router

import (
	"github.com/gin-gonic/gin"
	"github.com/navid-fn/spread-radar/server/internal/handler"
)

func registerPreferenceRoutes(router *gin.RouterGroup, h *handler.PreferenceHandler) {
	preferences := router.Group("/preferences")
	{
		preferences.POST("", h.Create)
		preferences.POST("/:id/init", h.Init)
		preferences.GET("/:id", h.Get)
		preferences.PUT("/:id", h.Save)
		preferences.DELETE("/:id", h.Clear)
	}
}
