package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"megapost/internal/service/sweep"
	"megapost/pkg/utils"
)

// SweepHandler expiry sweep trigger handler
type SweepHandler struct {
	sweepService sweep.Service
}

// NewSweepHandler creates a sweep handler
func NewSweepHandler(sweepService sweep.Service) *SweepHandler {
	return &SweepHandler{
		sweepService: sweepService,
	}
}

// Run triggers one sweep pass and returns its summary
func (h *SweepHandler) Run(c *gin.Context) {
	summary, err := h.sweepService.Run(c.Request.Context())
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	utils.SuccessResponse(c, summary)
}
