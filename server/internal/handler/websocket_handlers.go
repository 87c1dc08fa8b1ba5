package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/navid-fn/spread-radar/server/internal/hub"
)

type WebSocketHandler struct {
	hub *hub.Hub
}

func NewWebSocketHandler(h *hub.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: h}
}

// Stream accepts the same query parameters as GET /opportunities.
func (h *WebSocketHandler) Stream(c *gin.Context) {
	var params OpportunityParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, err)
		return
	}
	h.hub.Serve(c.Writer, c.Request, params.Query())
}
