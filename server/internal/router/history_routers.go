package router

import (
	"github.com/gin-gonic/gin"
	"github.com/navid-fn/spread-radar/server/internal/handler"
)

func registerHistoryRoutes(router *gin.RouterGroup, h *handler.HistoryHandler) {
	history := router.Group("/history")
	{
		history.GET("", h.GetLatest)
		history.GET("/count", h.GetCount)
	}
}
