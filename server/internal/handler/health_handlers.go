package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/navid-fn/spread-radar/internal/faulttolerance"
	"github.com/navid-fn/spread-radar/server/internal/service"
)

// BreakerReporter exposes the per-source circuit state of the poller.
type BreakerReporter interface {
	Breakers() []faulttolerance.Stats
}

type HealthHandler struct {
	opportunityService *service.OpportunityService
	breakers           BreakerReporter
	startedAt          time.Time
}

// NewHealthHandler accepts a nil breakers reporter.
func NewHealthHandler(service *service.OpportunityService, breakers BreakerReporter) *HealthHandler {
	return &HealthHandler{
		opportunityService: service,
		breakers:           breakers,
		startedAt:          time.Now(),
	}
}

type assetStatus struct {
	Asset     string    `json:"asset"`
	Source    string    `json:"source"`
	Live      bool      `json:"live"`
	Quotes    int       `json:"quotes"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// GetHealth is "ok" once any snapshot is loaded and "starting" before that.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	assets := make([]assetStatus, 0)
	for _, asset := range h.opportunityService.Assets() {
		snap, err := h.opportunityService.Snapshot(asset)
		if err != nil {
			continue
		}
		assets = append(assets, assetStatus{
			Asset:     snap.Asset,
			Source:    snap.Source,
			Live:      snap.Live,
			Quotes:    len(snap.Quotes),
			FetchedAt: snap.FetchedAt,
		})
	}

	status := "ok"
	if len(assets) == 0 {
		status = "starting"
	}

	sources := make([]faulttolerance.Stats, 0)
	if h.breakers != nil {
		sources = h.breakers.Breakers()
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  status,
		"uptime":  time.Since(h.startedAt).Round(time.Second).String(),
		"assets":  assets,
		"sources": sources,
	})
}
