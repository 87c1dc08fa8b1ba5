package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/navid-fn/spread-radar/internal/prefs"
	"github.com/sirupsen/logrus"
)

type PreferenceHandler struct {
	store  prefs.Store
	logger logrus.FieldLogger
}

func NewPreferenceHandler(store prefs.Store, logger logrus.FieldLogger) *PreferenceHandler {
	return &PreferenceHandler{store: store, logger: logger.WithField("component", "preferences")}
}

type preferenceID struct {
	ID string `uri:"id" binding:"required,max=64,printascii"`
}

type PreferenceRequest struct {
	Asset            string  `json:"asset" binding:"omitempty,alphanum,max=16"`
	MinProfitPercent float64 `json:"minProfitPercent" binding:"min=-100,max=100"`
	TopK             int     `json:"topK" binding:"omitempty,min=1,max=100"`
	PaymentMethod    string  `json:"paymentMethod" binding:"omitempty,max=32"`
}

type preferenceResponse struct {
	ID string `json:"id"`
	prefs.Preferences
}

// Create starts a new visitor record under a generated id.
func (h *PreferenceHandler) Create(c *gin.Context) {
	h.init(c, uuid.NewString())
}

// Init is called on the first dashboard visit of a known visitor id.
func (h *PreferenceHandler) Init(c *gin.Context) {
	var id preferenceID
	if err := c.ShouldBindUri(&id); err != nil {
		badRequest(c, err)
		return
	}
	h.init(c, id.ID)
}

func (h *PreferenceHandler) init(c *gin.Context, id string) {
	p, err := h.store.Init(c.Request.Context(), id)
	if err != nil {
		h.logger.WithError(err).Error("Failed to init preferences")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, preferenceResponse{ID: id, Preferences: p})
}

func (h *PreferenceHandler) Get(c *gin.Context) {
	var id preferenceID
	if err := c.ShouldBindUri(&id); err != nil {
		badRequest(c, err)
		return
	}

	p, err := h.store.Get(c.Request.Context(), id.ID)
	if err != nil {
		if !errors.Is(err, prefs.ErrNotFound) {
			h.logger.WithError(err).Error("Failed to load preferences")
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, preferenceResponse{ID: id.ID, Preferences: p})
}

func (h *PreferenceHandler) Save(c *gin.Context) {
	var id preferenceID
	if err := c.ShouldBindUri(&id); err != nil {
		badRequest(c, err)
		return
	}
	var req PreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	p, err := h.store.Save(c.Request.Context(), id.ID, prefs.Preferences{
		Asset:            req.Asset,
		MinProfitPercent: req.MinProfitPercent,
		TopK:             req.TopK,
		PaymentMethod:    req.PaymentMethod,
	})
	if err != nil {
		h.logger.WithError(err).Error("Failed to save preferences")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, preferenceResponse{ID: id.ID, Preferences: p})
}

// Clear runs on explicit logout.
func (h *PreferenceHandler) Clear(c *gin.Context) {
	var id preferenceID
	if err := c.ShouldBindUri(&id); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.store.Clear(c.Request.Context(), id.ID); err != nil {
		h.logger.WithError(err).Error("Failed to clear preferences")
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
