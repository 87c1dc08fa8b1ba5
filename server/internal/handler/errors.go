package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/navid-fn/spread-radar/internal/prefs"
	"github.com/navid-fn/spread-radar/internal/ranker"
	"github.com/navid-fn/spread-radar/internal/snapshot"
	"github.com/navid-fn/spread-radar/server/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, snapshot.ErrNoSnapshot),
		errors.Is(err, service.ErrHistoryDisabled):
		return http.StatusServiceUnavailable
	case errors.Is(err, prefs.ErrNotFound),
		errors.Is(err, service.ErrExchangeNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrUnknownView),
		errors.Is(err, ranker.ErrInvalidAmount),
		errors.Is(err, ranker.ErrInvalidPrice):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusFor(err), errorResponse{Error: err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
}
