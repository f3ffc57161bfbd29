package document

import (
	"github.com/erp/fulfillment/internal/domain/fulfillment"
	"github.com/erp/fulfillment/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeOrder       = "Order"
	AggregateTypeFulfillment = "Fulfillment"
)

// Event type constants
const (
	EventTypeOrderCreated       = "OrderCreated"
	EventTypeOrderConfirmed     = "OrderConfirmed"
	EventTypeOrderFulfilled     = "OrderFulfilled"
	EventTypeOrderCancelled     = "OrderCancelled"
	EventTypeFulfillmentCreated = "FulfillmentCreated"
)

// OrderCreatedEvent is raised when a new order document is created
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	Kind        OrderKind `json:"kind"`
	PartyID     uuid.UUID `json:"party_id"`
	PartyName   string    `json:"party_name"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(order *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypeOrder, order.ID, order.TenantID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		Kind:            order.Kind,
		PartyID:         order.PartyID,
		PartyName:       order.PartyName,
	}
}

// EventType returns the event type name
func (e *OrderCreatedEvent) EventType() string {
	return EventTypeOrderCreated
}

// OrderItemInfo represents line item information for events
type OrderItemInfo struct {
	ItemID            uuid.UUID       `json:"item_id"`
	ProductID         uuid.UUID       `json:"product_id"`
	ProductName       string          `json:"product_name"`
	ProductCode       string          `json:"product_code"`
	OrderedQuantity   int64           `json:"ordered_quantity"`
	FulfilledQuantity int64           `json:"fulfilled_quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	LineTotal         decimal.Decimal `json:"line_total"`
}

func orderItemInfos(order *Order) []OrderItemInfo {
	items := make([]OrderItemInfo, len(order.Items))
	for i, item := range order.Items {
		items[i] = OrderItemInfo{
			ItemID:            item.ID,
			ProductID:         item.ProductID,
			ProductName:       item.ProductName,
			ProductCode:       item.ProductCode,
			OrderedQuantity:   item.OrderedQuantity,
			FulfilledQuantity: item.FulfilledQuantity,
			UnitPrice:         item.UnitPrice,
			LineTotal:         item.LineTotal,
		}
	}
	return items
}

// OrderConfirmedEvent is raised when an order is confirmed
type OrderConfirmedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	Kind        OrderKind       `json:"kind"`
	PartyID     uuid.UUID       `json:"party_id"`
	Items       []OrderItemInfo `json:"items"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	GrandTotal  decimal.Decimal `json:"grand_total"`
}

// NewOrderConfirmedEvent creates a new OrderConfirmedEvent
func NewOrderConfirmedEvent(order *Order) *OrderConfirmedEvent {
	return &OrderConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderConfirmed, AggregateTypeOrder, order.ID, order.TenantID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		Kind:            order.Kind,
		PartyID:         order.PartyID,
		Items:           orderItemInfos(order),
		Subtotal:        order.Subtotal,
		GrandTotal:      order.GrandTotal,
	}
}

// EventType returns the event type name
func (e *OrderConfirmedEvent) EventType() string {
	return EventTypeOrderConfirmed
}

// OrderFulfilledEvent is raised when a fulfillment is applied to an order
type OrderFulfilledEvent struct {
	shared.BaseDomainEvent
	OrderID        uuid.UUID                  `json:"order_id"`
	OrderNumber    string                     `json:"order_number"`
	AcceptedLines  []fulfillment.AcceptedLine `json:"accepted_lines"`
	Status         OrderStatus                `json:"status"`
	FullyFulfilled bool                       `json:"fully_fulfilled"`
}

// NewOrderFulfilledEvent creates a new OrderFulfilledEvent
func NewOrderFulfilledEvent(order *Order, accepted []fulfillment.AcceptedLine) *OrderFulfilledEvent {
	return &OrderFulfilledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderFulfilled, AggregateTypeOrder, order.ID, order.TenantID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		AcceptedLines:   accepted,
		Status:          order.Status,
		FullyFulfilled:  order.IsFulfilled(),
	}
}

// EventType returns the event type name
func (e *OrderFulfilledEvent) EventType() string {
	return EventTypeOrderFulfilled
}

// OrderCancelledEvent is raised when an order is cancelled
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderID      uuid.UUID `json:"order_id"`
	OrderNumber  string    `json:"order_number"`
	WasConfirmed bool      `json:"was_confirmed"`
	Reason       string    `json:"reason"`
}

// NewOrderCancelledEvent creates a new OrderCancelledEvent
func NewOrderCancelledEvent(order *Order, wasConfirmed bool) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, AggregateTypeOrder, order.ID, order.TenantID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		WasConfirmed:    wasConfirmed,
		Reason:          order.CancelReason,
	}
}

// EventType returns the event type name
func (e *OrderCancelledEvent) EventType() string {
	return EventTypeOrderCancelled
}

// FulfillmentCreatedEvent is raised when a fulfillment record is created
type FulfillmentCreatedEvent struct {
	shared.BaseDomainEvent
	FulfillmentID     uuid.UUID                  `json:"fulfillment_id"`
	FulfillmentNumber string                     `json:"fulfillment_number"`
	OrderID           uuid.UUID                  `json:"order_id"`
	Lines             []fulfillment.AcceptedLine `json:"lines"`
}

// NewFulfillmentCreatedEvent creates a new FulfillmentCreatedEvent
func NewFulfillmentCreatedEvent(f *Fulfillment) *FulfillmentCreatedEvent {
	lines := make([]fulfillment.AcceptedLine, len(f.Lines))
	for i, line := range f.Lines {
		lines[i] = fulfillment.AcceptedLine{
			ProductID:        line.ProductID,
			AcceptedQuantity: line.Quantity,
		}
	}

	return &FulfillmentCreatedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeFulfillmentCreated, AggregateTypeFulfillment, f.ID, f.TenantID),
		FulfillmentID:     f.ID,
		FulfillmentNumber: f.FulfillmentNumber,
		OrderID:           f.OrderID,
		Lines:             lines,
	}
}

// EventType returns the event type name
func (e *FulfillmentCreatedEvent) EventType() string {
	return EventTypeFulfillmentCreated
}
