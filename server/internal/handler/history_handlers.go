package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/navid-fn/spread-radar/server/internal/service"
)

type HistoryHandler struct {
	historyService *service.HistoryService
	defaultAsset   string
}

func NewHistoryHandler(service *service.HistoryService, defaultAsset string) *HistoryHandler {
	return &HistoryHandler{
		historyService: service,
		defaultAsset:   defaultAsset,
	}
}

type historyParams struct {
	Asset    string `form:"asset" binding:"omitempty,alphanum,max=16"`
	Exchange string `form:"exchange" binding:"omitempty,max=64"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=1000"`
}

func (h *HistoryHandler) GetLatest(c *gin.Context) {
	var params historyParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, err)
		return
	}
	if params.Asset == "" {
		params.Asset = h.defaultAsset
	}

	quotes, err := h.historyService.GetLatestQuotes(c.Request.Context(), params.Asset, params.Exchange, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"asset": params.Asset, "count": len(quotes), "quotes": quotes})
}

func (h *HistoryHandler) GetCount(c *gin.Context) {
	var params historyParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, err)
		return
	}
	if params.Asset == "" {
		params.Asset = h.defaultAsset
	}

	counts, err := h.historyService.GetCountPerExchange(c.Request.Context(), params.Asset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"asset": params.Asset, "exchanges": counts})
}
