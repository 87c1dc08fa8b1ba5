package router

import (
	"github.com/gin-gonic/gin"
	"github.com/navid-fn/spread-radar/server/internal/handler"
)

func registerOpportunityRoutes(router *gin.RouterGroup, h *handler.OpportunityHandler) {
	router.GET("/quotes", h.GetQuotes)
	router.GET("/spread", h.GetSpread)
	router.POST("/calculator", h.PostCalculator)

	opportunities := router.Group("/opportunities")
	{
		opportunities.GET("", h.GetOpportunities)
		opportunities.GET("/best", h.GetBest)
		opportunities.GET("/views", h.GetViews)
	}
}
