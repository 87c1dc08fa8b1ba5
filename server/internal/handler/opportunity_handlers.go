package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/navid-fn/spread-radar/server/internal/service"
	"github.com/shopspring/decimal"
)

type OpportunityHandler struct {
	opportunityService *service.OpportunityService
}

func NewOpportunityHandler(service *service.OpportunityService) *OpportunityHandler {
	return &OpportunityHandler{
		opportunityService: service,
	}
}

// OpportunityParams are the query parameters shared by ranking endpoints.
type OpportunityParams struct {
	Asset         string   `form:"asset" binding:"omitempty,alphanum,max=16"`
	MinProfit     *float64 `form:"min_profit" binding:"omitempty,min=-100,max=100"`
	Limit         int      `form:"limit" binding:"omitempty,min=1,max=100"`
	PaymentMethod string   `form:"payment_method" binding:"omitempty,max=32"`
	View          string   `form:"view" binding:"omitempty,oneof=arbitrage cross-exchange verified best"`
}

func (p OpportunityParams) Query() service.OpportunityQuery {
	return service.OpportunityQuery{
		Asset:            p.Asset,
		MinProfitPercent: p.MinProfit,
		Limit:            p.Limit,
		PaymentMethod:    p.PaymentMethod,
		View:             p.View,
	}
}

type assetParams struct {
	Asset string `form:"asset" binding:"omitempty,alphanum,max=16"`
}

type CalculatorRequest struct {
	Asset   string          `json:"asset" binding:"omitempty,alphanum,max=16"`
	BuyFrom string          `json:"buyFrom" binding:"required"`
	SellTo  string          `json:"sellTo" binding:"required"`
	Amount  decimal.Decimal `json:"amount"`
}

func (h *OpportunityHandler) GetQuotes(c *gin.Context) {
	var params assetParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, err)
		return
	}

	snap, err := h.opportunityService.Snapshot(params.Asset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *OpportunityHandler) GetOpportunities(c *gin.Context) {
	var params OpportunityParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.opportunityService.Opportunities(params.Query())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *OpportunityHandler) GetBest(c *gin.Context) {
	var params OpportunityParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.opportunityService.Best(params.Asset, params.MinProfit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *OpportunityHandler) GetSpread(c *gin.Context) {
	var params assetParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.opportunityService.Spread(params.Asset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *OpportunityHandler) PostCalculator(c *gin.Context) {
	var req CalculatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.opportunityService.Calculate(req.Asset, req.BuyFrom, req.SellTo, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *OpportunityHandler) GetViews(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"views": h.opportunityService.Views()})
}
