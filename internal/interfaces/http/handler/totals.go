package handler

import (
	fulfillmentapp "github.com/erp/fulfillment/internal/application/fulfillment"
	"github.com/gin-gonic/gin"
)

// TotalsHandler handles the document totals computation endpoint
type TotalsHandler struct {
	BaseHandler
	totalsService *fulfillmentapp.TotalsService
}

// NewTotalsHandler creates a new TotalsHandler
func NewTotalsHandler(totalsService *fulfillmentapp.TotalsService) *TotalsHandler {
	return &TotalsHandler{
		totalsService: totalsService,
	}
}

// RegisterRoutes registers totals routes on the given router group
func (h *TotalsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/totals/compute", h.Compute)
}

// Compute computes subtotal, tax and grand total for a set of priced lines
// without persisting anything
func (h *TotalsHandler) Compute(c *gin.Context) {
	var req fulfillmentapp.ComputeTotalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	totals, err := h.totalsService.Compute(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, totals)
}
