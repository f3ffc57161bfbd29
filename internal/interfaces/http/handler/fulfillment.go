package handler

import (
	"net/http"
	"time"

	fulfillmentapp "github.com/erp/fulfillment/internal/application/fulfillment"
	"github.com/erp/fulfillment/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// FulfillmentHandler handles fulfillment API endpoints
type FulfillmentHandler struct {
	BaseHandler
	fulfillmentService *fulfillmentapp.FulfillmentService
}

// NewFulfillmentHandler creates a new FulfillmentHandler
func NewFulfillmentHandler(fulfillmentService *fulfillmentapp.FulfillmentService) *FulfillmentHandler {
	return &FulfillmentHandler{
		fulfillmentService: fulfillmentService,
	}
}

// RegisterRoutes registers fulfillment routes on the given router group
func (h *FulfillmentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders/:id")
	{
		orders.GET("/remaining", h.PreviewRemaining)
		orders.POST("/fulfillments/validate", h.Validate)
		orders.POST("/fulfillments", h.Create)
		orders.GET("/fulfillments", h.ListByOrder)
	}

	fulfillments := rg.Group("/fulfillments")
	{
		fulfillments.GET("/:id", h.GetByID)
	}
}

// PreviewRemaining reports the remaining open quantity per order line
func (h *FulfillmentHandler) PreviewRemaining(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	report, err := h.fulfillmentService.PreviewRemaining(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, report)
}

// Validate checks a fulfillment request against an order without recording it
func (h *FulfillmentHandler) Validate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req fulfillmentapp.FulfillmentRequestInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.fulfillmentService.Validate(c.Request.Context(), tenantID, orderID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Create validates and records a fulfillment against an order. A request that
// fails validation returns 422 with the per-line failures; nothing is recorded.
func (h *FulfillmentHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req fulfillmentapp.FulfillmentRequestInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	created, validation, err := h.fulfillmentService.Create(c.Request.Context(), tenantID, orderID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	if validation != nil {
		c.JSON(http.StatusUnprocessableEntity, dto.Response{
			Success: false,
			Data:    validation,
			Error: &dto.ErrorInfo{
				Code:      dto.ErrCodeExceedsRemaining,
				Message:   "Fulfillment request was rejected",
				RequestID: getRequestID(c),
				Timestamp: time.Now(),
			},
		})
		return
	}

	h.Created(c, created)
}

// GetByID retrieves a fulfillment record by its ID
func (h *FulfillmentHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	fulfillmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid fulfillment ID format")
		return
	}

	f, err := h.fulfillmentService.GetByID(c.Request.Context(), tenantID, fulfillmentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, f)
}

// ListByOrder retrieves all fulfillments recorded against an order
func (h *FulfillmentHandler) ListByOrder(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	fulfillments, err := h.fulfillmentService.ListByOrder(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, fulfillments)
}
