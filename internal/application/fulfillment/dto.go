package fulfillment

import (
	"time"

	"github.com/erp/fulfillment/internal/domain/document"
	"github.com/erp/fulfillment/internal/domain/fulfillment"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Order DTOs ====================

// CreateOrderRequest represents a request to create an order document
type CreateOrderRequest struct {
	Kind      document.OrderKind     `json:"kind" binding:"required"`
	PartyID   uuid.UUID              `json:"party_id" binding:"required"`
	PartyName string                 `json:"party_name" binding:"required,min=1,max=200"`
	Items     []CreateOrderItemInput `json:"items"`
	Discount  *decimal.Decimal       `json:"discount"`
	TaxRate   *decimal.Decimal       `json:"tax_rate"`
	Shipping  *decimal.Decimal       `json:"shipping"`
	Remark    string                 `json:"remark"`
}

// CreateOrderItemInput represents an item in the create order request
type CreateOrderItemInput struct {
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	ProductName string          `json:"product_name" binding:"required,min=1,max=200"`
	ProductCode string          `json:"product_code" binding:"required,min=1,max=50"`
	Quantity    int64           `json:"quantity" binding:"required,gt=0"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
}

// UpdateOrderRequest represents a request to update an order (only in DRAFT status)
type UpdateOrderRequest struct {
	Discount *decimal.Decimal `json:"discount"`
	TaxRate  *decimal.Decimal `json:"tax_rate"`
	Shipping *decimal.Decimal `json:"shipping"`
	Remark   *string          `json:"remark"`
}

// AddOrderItemRequest represents a request to add an item to an order
type AddOrderItemRequest struct {
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	ProductName string          `json:"product_name" binding:"required,min=1,max=200"`
	ProductCode string          `json:"product_code" binding:"required,min=1,max=50"`
	Quantity    int64           `json:"quantity" binding:"required,gt=0"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
}

// UpdateOrderItemRequest represents a request to update an order item
type UpdateOrderItemRequest struct {
	Quantity  *int64           `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// CancelOrderRequest represents a request to cancel an order
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// OrderListFilter represents filter options for the order list
type OrderListFilter struct {
	Search   string                `form:"search"`
	PartyID  *uuid.UUID            `form:"party_id"`
	Kind     *document.OrderKind   `form:"kind"`
	Status   *document.OrderStatus `form:"status"`
	Page     int                   `form:"page"`
	PageSize int                   `form:"page_size"`
	OrderBy  string                `form:"order_by"`
	OrderDir string                `form:"order_dir"`
}

// OrderItemResponse represents an order line item in API responses
type OrderItemResponse struct {
	ID                uuid.UUID       `json:"id"`
	ProductID         uuid.UUID       `json:"product_id"`
	ProductName       string          `json:"product_name"`
	ProductCode       string          `json:"product_code"`
	OrderedQuantity   int64           `json:"ordered_quantity"`
	FulfilledQuantity int64           `json:"fulfilled_quantity"`
	RemainingQuantity int64           `json:"remaining_quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	LineTotal         decimal.Decimal `json:"line_total"`
}

// OrderResponse represents an order document in API responses
type OrderResponse struct {
	ID             uuid.UUID            `json:"id"`
	OrderNumber    string               `json:"order_number"`
	Kind           document.OrderKind   `json:"kind"`
	PartyID        uuid.UUID            `json:"party_id"`
	PartyName      string               `json:"party_name"`
	Items          []OrderItemResponse  `json:"items"`
	Subtotal       decimal.Decimal      `json:"subtotal"`
	DiscountAmount decimal.Decimal      `json:"discount_amount"`
	TaxRate        decimal.Decimal      `json:"tax_rate"`
	TaxAmount      decimal.Decimal      `json:"tax_amount"`
	ShippingAmount decimal.Decimal      `json:"shipping_amount"`
	GrandTotal     decimal.Decimal      `json:"grand_total"`
	Status         document.OrderStatus `json:"status"`
	Remark         string               `json:"remark"`
	Version        int                  `json:"version"`
	ConfirmedAt    *time.Time           `json:"confirmed_at,omitempty"`
	FulfilledAt    *time.Time           `json:"fulfilled_at,omitempty"`
	CancelledAt    *time.Time           `json:"cancelled_at,omitempty"`
	CancelReason   string               `json:"cancel_reason,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// OrderListItemResponse represents an order in list responses
type OrderListItemResponse struct {
	ID          uuid.UUID            `json:"id"`
	OrderNumber string               `json:"order_number"`
	Kind        document.OrderKind   `json:"kind"`
	PartyID     uuid.UUID            `json:"party_id"`
	PartyName   string               `json:"party_name"`
	ItemCount   int                  `json:"item_count"`
	GrandTotal  decimal.Decimal      `json:"grand_total"`
	Status      document.OrderStatus `json:"status"`
	CreatedAt   time.Time            `json:"created_at"`
}

// ToOrderItemResponse converts an order item to its response representation
func ToOrderItemResponse(item *document.OrderItem) OrderItemResponse {
	return OrderItemResponse{
		ID:                item.ID,
		ProductID:         item.ProductID,
		ProductName:       item.ProductName,
		ProductCode:       item.ProductCode,
		OrderedQuantity:   item.OrderedQuantity,
		FulfilledQuantity: item.FulfilledQuantity,
		RemainingQuantity: item.RemainingQuantity(),
		UnitPrice:         item.UnitPrice,
		LineTotal:         item.LineTotal,
	}
}

// ToOrderResponse converts an order to its response representation
func ToOrderResponse(order *document.Order) OrderResponse {
	items := make([]OrderItemResponse, len(order.Items))
	for i := range order.Items {
		items[i] = ToOrderItemResponse(&order.Items[i])
	}

	return OrderResponse{
		ID:             order.ID,
		OrderNumber:    order.OrderNumber,
		Kind:           order.Kind,
		PartyID:        order.PartyID,
		PartyName:      order.PartyName,
		Items:          items,
		Subtotal:       order.Subtotal,
		DiscountAmount: order.DiscountAmount,
		TaxRate:        order.TaxRate,
		TaxAmount:      order.TaxAmount,
		ShippingAmount: order.ShippingAmount,
		GrandTotal:     order.GrandTotal,
		Status:         order.Status,
		Remark:         order.Remark,
		Version:        order.GetVersion(),
		ConfirmedAt:    order.ConfirmedAt,
		FulfilledAt:    order.FulfilledAt,
		CancelledAt:    order.CancelledAt,
		CancelReason:   order.CancelReason,
		CreatedAt:      order.CreatedAt,
		UpdatedAt:      order.UpdatedAt,
	}
}

// ToOrderListItemResponse converts an order to its list representation
func ToOrderListItemResponse(order *document.Order) OrderListItemResponse {
	return OrderListItemResponse{
		ID:          order.ID,
		OrderNumber: order.OrderNumber,
		Kind:        order.Kind,
		PartyID:     order.PartyID,
		PartyName:   order.PartyName,
		ItemCount:   order.ItemCount(),
		GrandTotal:  order.GrandTotal,
		Status:      order.Status,
		CreatedAt:   order.CreatedAt,
	}
}

// ToOrderListItemResponses converts a slice of orders to list responses
func ToOrderListItemResponses(orders []document.Order) []OrderListItemResponse {
	responses := make([]OrderListItemResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderListItemResponse(&orders[i])
	}
	return responses
}

// ==================== Fulfillment DTOs ====================

// FulfillmentLineInput represents a single requested line in a fulfillment request
type FulfillmentLineInput struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int64     `json:"quantity" binding:"required"`
}

// FulfillmentRequestInput represents a request to validate or create a fulfillment
type FulfillmentRequestInput struct {
	Lines  []FulfillmentLineInput `json:"lines" binding:"required,min=1"`
	Remark string                 `json:"remark"`
}

// ToDomainRequest converts the input lines to a domain fulfillment request
func (r FulfillmentRequestInput) ToDomainRequest() fulfillment.FulfillmentRequest {
	request := make(fulfillment.FulfillmentRequest, len(r.Lines))
	for i, line := range r.Lines {
		request[i] = fulfillment.RequestedLine{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		}
	}
	return request
}

// RemainingLineResponse represents a single line in the remaining report
type RemainingLineResponse struct {
	ProductID         uuid.UUID `json:"product_id"`
	RemainingQuantity int64     `json:"remaining_quantity"`
}

// IntegrityWarningResponse flags a line whose recorded fulfillment exceeds its
// ordered quantity
type IntegrityWarningResponse struct {
	ProductID              uuid.UUID `json:"product_id"`
	OrderedQuantity        int64     `json:"ordered_quantity"`
	PriorFulfilledQuantity int64     `json:"prior_fulfilled_quantity"`
}

// RemainingReportResponse represents the remaining quantities of an order
type RemainingReportResponse struct {
	OrderID     uuid.UUID                  `json:"order_id"`
	OrderNumber string                     `json:"order_number"`
	Lines       []RemainingLineResponse    `json:"lines"`
	Warnings    []IntegrityWarningResponse `json:"warnings,omitempty"`
}

// ValidationFailureResponse represents a single rejected line
type ValidationFailureResponse struct {
	ProductID         uuid.UUID               `json:"product_id"`
	Kind              fulfillment.FailureKind `json:"kind"`
	RequestedQuantity int64                   `json:"requested_quantity"`
	RemainingQuantity int64                   `json:"remaining_quantity"`
}

// AcceptedLineResponse represents a single accepted line
type AcceptedLineResponse struct {
	ProductID        uuid.UUID `json:"product_id"`
	AcceptedQuantity int64     `json:"accepted_quantity"`
}

// ValidationResultResponse represents the outcome of validating a fulfillment
// request against an order
type ValidationResultResponse struct {
	OK       bool                        `json:"ok"`
	Accepted []AcceptedLineResponse      `json:"accepted,omitempty"`
	Failures []ValidationFailureResponse `json:"failures,omitempty"`
	Warnings []IntegrityWarningResponse  `json:"warnings,omitempty"`
}

// FulfillmentLineResponse represents a fulfillment record line
type FulfillmentLineResponse struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int64     `json:"quantity"`
}

// FulfillmentResponse represents a fulfillment record in API responses
type FulfillmentResponse struct {
	ID                uuid.UUID                 `json:"id"`
	FulfillmentNumber string                    `json:"fulfillment_number"`
	OrderID           uuid.UUID                 `json:"order_id"`
	OrderNumber       string                    `json:"order_number"`
	Lines             []FulfillmentLineResponse `json:"lines"`
	Remark            string                    `json:"remark,omitempty"`
	CreatedAt         time.Time                 `json:"created_at"`
}

// CreateFulfillmentResponse bundles the created record with the updated order
type CreateFulfillmentResponse struct {
	Fulfillment FulfillmentResponse `json:"fulfillment"`
	Order       OrderResponse       `json:"order"`
}

func toIntegrityWarningResponses(warnings []fulfillment.IntegrityWarning) []IntegrityWarningResponse {
	if len(warnings) == 0 {
		return nil
	}
	responses := make([]IntegrityWarningResponse, len(warnings))
	for i, w := range warnings {
		responses[i] = IntegrityWarningResponse{
			ProductID:              w.ProductID,
			OrderedQuantity:        w.OrderedQuantity,
			PriorFulfilledQuantity: w.PriorFulfilledQuantity,
		}
	}
	return responses
}

// ToValidationResultResponse converts a domain validation result to its
// response representation
func ToValidationResultResponse(result *fulfillment.ValidationResult) ValidationResultResponse {
	response := ValidationResultResponse{
		OK:       result.OK(),
		Warnings: toIntegrityWarningResponses(result.Warnings),
	}
	for _, accepted := range result.Accepted {
		response.Accepted = append(response.Accepted, AcceptedLineResponse{
			ProductID:        accepted.ProductID,
			AcceptedQuantity: accepted.AcceptedQuantity,
		})
	}
	for _, failure := range result.Failures {
		response.Failures = append(response.Failures, ValidationFailureResponse{
			ProductID:         failure.ProductID,
			Kind:              failure.Kind,
			RequestedQuantity: failure.RequestedQuantity,
			RemainingQuantity: failure.RemainingQuantity,
		})
	}
	return response
}

// ToFulfillmentResponse converts a fulfillment record to its response representation
func ToFulfillmentResponse(f *document.Fulfillment) FulfillmentResponse {
	lines := make([]FulfillmentLineResponse, len(f.Lines))
	for i, line := range f.Lines {
		lines[i] = FulfillmentLineResponse{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		}
	}
	return FulfillmentResponse{
		ID:                f.ID,
		FulfillmentNumber: f.FulfillmentNumber,
		OrderID:           f.OrderID,
		OrderNumber:       f.OrderNumber,
		Lines:             lines,
		Remark:            f.Remark,
		CreatedAt:         f.CreatedAt,
	}
}

// ToFulfillmentResponses converts a slice of fulfillment records
func ToFulfillmentResponses(fulfillments []document.Fulfillment) []FulfillmentResponse {
	responses := make([]FulfillmentResponse, len(fulfillments))
	for i := range fulfillments {
		responses[i] = ToFulfillmentResponse(&fulfillments[i])
	}
	return responses
}

// ==================== Totals DTOs ====================

// TotalsLineInput represents a priced line in a totals computation request
type TotalsLineInput struct {
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// ComputeTotalsRequest represents a request to compute document totals
type ComputeTotalsRequest struct {
	Items    []TotalsLineInput `json:"items" binding:"required"`
	Discount *decimal.Decimal  `json:"discount"`
	TaxRate  *decimal.Decimal  `json:"tax_rate"`
	Shipping *decimal.Decimal  `json:"shipping"`
}

// TotalsResponse represents computed document totals
type TotalsResponse struct {
	Subtotal    decimal.Decimal   `json:"subtotal"`
	TaxableBase decimal.Decimal   `json:"taxable_base"`
	TaxAmount   decimal.Decimal   `json:"tax_amount"`
	GrandTotal  decimal.Decimal   `json:"grand_total"`
	LineTotals  []decimal.Decimal `json:"line_totals"`
}
