package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"megapost/internal/service/reconcile"
	"megapost/pkg/utils"
)

// ReconcileHandler price reconciliation trigger handler
type ReconcileHandler struct {
	reconcileService reconcile.Service
}

// NewReconcileHandler creates a reconcile handler
func NewReconcileHandler(reconcileService reconcile.Service) *ReconcileHandler {
	return &ReconcileHandler{
		reconcileService: reconcileService,
	}
}

// Run triggers one reconciliation pass and returns its summary
func (h *ReconcileHandler) Run(c *gin.Context) {
	summary, err := h.reconcileService.Run(c.Request.Context())
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	utils.SuccessResponse(c, summary)
}
