package document

import (
	"fmt"
	"time"

	"github.com/erp/fulfillment/internal/domain/billing"
	"github.com/erp/fulfillment/internal/domain/fulfillment"
	"github.com/erp/fulfillment/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderKind distinguishes the commercial direction of an order document
type OrderKind string

const (
	OrderKindSales    OrderKind = "SALES"
	OrderKindPurchase OrderKind = "PURCHASE"
	OrderKindInvoice  OrderKind = "INVOICE"
)

// IsValid checks if the kind is a valid OrderKind
func (k OrderKind) IsValid() bool {
	switch k {
	case OrderKindSales, OrderKindPurchase, OrderKindInvoice:
		return true
	}
	return false
}

// String returns the string representation of OrderKind
func (k OrderKind) String() string {
	return string(k)
}

// OrderStatus represents the status of an order document
type OrderStatus string

const (
	OrderStatusDraft              OrderStatus = "DRAFT"
	OrderStatusConfirmed          OrderStatus = "CONFIRMED"
	OrderStatusPartiallyFulfilled OrderStatus = "PARTIALLY_FULFILLED"
	OrderStatusFulfilled          OrderStatus = "FULFILLED"
	OrderStatusCancelled          OrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusDraft, OrderStatusConfirmed, OrderStatusPartiallyFulfilled,
		OrderStatusFulfilled, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusDraft:
		return target == OrderStatusConfirmed || target == OrderStatusCancelled
	case OrderStatusConfirmed:
		return target == OrderStatusPartiallyFulfilled || target == OrderStatusFulfilled || target == OrderStatusCancelled
	case OrderStatusPartiallyFulfilled:
		return target == OrderStatusPartiallyFulfilled || target == OrderStatusFulfilled
	case OrderStatusFulfilled, OrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// CanFulfill returns true if fulfillment is allowed in this status
func (s OrderStatus) CanFulfill() bool {
	return s == OrderStatusConfirmed || s == OrderStatusPartiallyFulfilled
}

// OrderItem represents a line item in an order document
type OrderItem struct {
	ID                uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID         uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName       string          `gorm:"type:varchar(200);not null"`
	ProductCode       string          `gorm:"type:varchar(50);not null"`
	OrderedQuantity   int64           `gorm:"not null"`
	FulfilledQuantity int64           `gorm:"not null;default:0"`
	UnitPrice         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	LineTotal         decimal.Decimal `gorm:"type:decimal(18,4);not null"` // OrderedQuantity * UnitPrice
	Remark            string          `gorm:"type:varchar(500)"`
	CreatedAt         time.Time       `gorm:"not null"`
	UpdatedAt         time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// NewOrderItem creates a new order line item
func NewOrderItem(orderID, productID uuid.UUID, productName, productCode string, quantity int64, unitPrice decimal.Decimal) (*OrderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	now := time.Now()
	return &OrderItem{
		ID:                uuid.New(),
		OrderID:           orderID,
		ProductID:         productID,
		ProductName:       productName,
		ProductCode:       productCode,
		OrderedQuantity:   quantity,
		FulfilledQuantity: 0,
		UnitPrice:         unitPrice,
		LineTotal:         unitPrice.Mul(decimal.NewFromInt(quantity)),
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// UpdateQuantity updates the item ordered quantity and recalculates the line total
func (i *OrderItem) UpdateQuantity(quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if quantity < i.FulfilledQuantity {
		return shared.NewDomainError("INVALID_QUANTITY", "Ordered quantity cannot be less than fulfilled quantity")
	}

	i.OrderedQuantity = quantity
	i.LineTotal = i.UnitPrice.Mul(decimal.NewFromInt(quantity))
	i.UpdatedAt = time.Now()

	return nil
}

// UpdateUnitPrice updates the unit price and recalculates the line total
func (i *OrderItem) UpdateUnitPrice(unitPrice decimal.Decimal) error {
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	i.UnitPrice = unitPrice
	i.LineTotal = unitPrice.Mul(decimal.NewFromInt(i.OrderedQuantity))
	i.UpdatedAt = time.Now()

	return nil
}

// RemainingQuantity returns the quantity still to be fulfilled
func (i *OrderItem) RemainingQuantity() int64 {
	remaining := i.OrderedQuantity - i.FulfilledQuantity
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsFullyFulfilled returns true if all ordered quantity has been fulfilled
func (i *OrderItem) IsFullyFulfilled() bool {
	return i.FulfilledQuantity >= i.OrderedQuantity
}

// Order represents an order document aggregate root.
// It tracks ordered versus fulfilled quantities per line and the monetary
// totals derived from its items and order-level adjustments.
type Order struct {
	shared.TenantAggregateRoot
	OrderNumber    string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_order_tenant_number,priority:2"`
	Kind           OrderKind       `gorm:"type:varchar(20);not null"`
	PartyID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	PartyName      string          `gorm:"type:varchar(200);not null"`
	Items          []OrderItem     `gorm:"foreignKey:OrderID;references:ID"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TaxRate        decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ShippingAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	GrandTotal     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status         OrderStatus     `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	Remark         string          `gorm:"type:text"`
	ConfirmedAt    *time.Time      `gorm:"index"`
	FulfilledAt    *time.Time
	CancelledAt    *time.Time
	CancelReason   string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a new order document in DRAFT status
func NewOrder(tenantID uuid.UUID, orderNumber string, kind OrderKind, partyID uuid.UUID, partyName string) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if len(orderNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot exceed 50 characters")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_ORDER_KIND", fmt.Sprintf("Unknown order kind %q", kind))
	}
	if partyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARTY", "Party ID cannot be empty")
	}
	if partyName == "" {
		return nil, shared.NewDomainError("INVALID_PARTY_NAME", "Party name cannot be empty")
	}

	order := &Order{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		OrderNumber:         orderNumber,
		Kind:                kind,
		PartyID:             partyID,
		PartyName:           partyName,
		Items:               make([]OrderItem, 0),
		Subtotal:            decimal.Zero,
		DiscountAmount:      decimal.Zero,
		TaxRate:             decimal.Zero,
		TaxAmount:           decimal.Zero,
		ShippingAmount:      decimal.Zero,
		GrandTotal:          decimal.Zero,
		Status:              OrderStatusDraft,
	}

	order.AddDomainEvent(NewOrderCreatedEvent(order))

	return order, nil
}

// AddItem adds a new item to the order
// Only allowed in DRAFT status
func (o *Order) AddItem(productID uuid.UUID, productName, productCode string, quantity int64, unitPrice decimal.Decimal) (*OrderItem, error) {
	if o.Status != OrderStatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a non-draft order")
	}

	// Check if product already exists in order
	for _, item := range o.Items {
		if item.ProductID == productID {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Product already exists in order, update quantity instead")
		}
	}

	item, err := NewOrderItem(o.ID, productID, productName, productCode, quantity, unitPrice)
	if err != nil {
		return nil, err
	}

	o.Items = append(o.Items, *item)
	if err := o.recalculateTotals(); err != nil {
		return nil, err
	}
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return item, nil
}

// UpdateItemQuantity updates the ordered quantity of an existing item
// Only allowed in DRAFT status
func (o *Order) UpdateItemQuantity(itemID uuid.UUID, quantity int64) error {
	if o.Status != OrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot update items in a non-draft order")
	}

	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			if err := o.Items[idx].UpdateQuantity(quantity); err != nil {
				return err
			}
			if err := o.recalculateTotals(); err != nil {
				return err
			}
			o.UpdatedAt = time.Now()
			o.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
}

// UpdateItemPrice updates the unit price of an existing item
// Only allowed in DRAFT status
func (o *Order) UpdateItemPrice(itemID uuid.UUID, unitPrice decimal.Decimal) error {
	if o.Status != OrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot update items in a non-draft order")
	}

	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			if err := o.Items[idx].UpdateUnitPrice(unitPrice); err != nil {
				return err
			}
			if err := o.recalculateTotals(); err != nil {
				return err
			}
			o.UpdatedAt = time.Now()
			o.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
}

// RemoveItem removes an item from the order
// Only allowed in DRAFT status
func (o *Order) RemoveItem(itemID uuid.UUID) error {
	if o.Status != OrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove items from a non-draft order")
	}

	for idx, item := range o.Items {
		if item.ID == itemID {
			o.Items = append(o.Items[:idx], o.Items[idx+1:]...)
			if err := o.recalculateTotals(); err != nil {
				return err
			}
			o.UpdatedAt = time.Now()
			o.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
}

// SetAdjustments sets the order-level discount, tax rate and shipping fee
// Only allowed in DRAFT status
func (o *Order) SetAdjustments(adj billing.Adjustments) error {
	if o.Status != OrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot adjust a non-draft order")
	}

	previous := o.adjustments()
	o.DiscountAmount = adj.DiscountAmount
	o.TaxRate = adj.TaxRate
	o.ShippingAmount = adj.ShippingAmount
	if err := o.recalculateTotals(); err != nil {
		o.DiscountAmount = previous.DiscountAmount
		o.TaxRate = previous.TaxRate
		o.ShippingAmount = previous.ShippingAmount
		return err
	}
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// SetRemark sets the order remark
func (o *Order) SetRemark(remark string) {
	o.Remark = remark
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}

// Confirm confirms the order, transitioning from DRAFT to CONFIRMED
// Requires at least one item in the order
func (o *Order) Confirm() error {
	if !o.Status.CanTransitionTo(OrderStatusConfirmed) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot confirm order in %s status", o.Status))
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot confirm order without items")
	}

	now := time.Now()
	o.Status = OrderStatusConfirmed
	o.ConfirmedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderConfirmedEvent(o))

	return nil
}

// FulfillmentLines returns the order lines in the shape the fulfillment
// tracker consumes, preserving item order
func (o *Order) FulfillmentLines() []fulfillment.LineItem {
	lines := make([]fulfillment.LineItem, len(o.Items))
	for i, item := range o.Items {
		lines[i] = fulfillment.LineItem{
			ProductID:              item.ProductID,
			OrderedQuantity:        item.OrderedQuantity,
			PriorFulfilledQuantity: item.FulfilledQuantity,
		}
	}
	return lines
}

// ApplyFulfillment validates the request against the remaining quantities and,
// if every requested line is acceptable, advances the fulfilled quantities and
// the order status. The request is all-or-nothing: a single failing line
// leaves the order untouched.
func (o *Order) ApplyFulfillment(tracker *fulfillment.Tracker, request fulfillment.FulfillmentRequest) (*fulfillment.ValidationResult, error) {
	if !o.Status.CanFulfill() {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot fulfill order in %s status", o.Status))
	}
	if len(request) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Fulfillment request cannot be empty")
	}

	result := tracker.Validate(o.FulfillmentLines(), request)
	if !result.OK() {
		return result, nil
	}

	for _, accepted := range result.Accepted {
		item := o.GetItemByProduct(accepted.ProductID)
		if item == nil {
			return nil, shared.NewDomainError("ITEM_NOT_FOUND", fmt.Sprintf("Product %s not found in order", accepted.ProductID))
		}
		item.FulfilledQuantity += accepted.AcceptedQuantity
		item.UpdatedAt = time.Now()
	}

	if o.isFullyFulfilled() {
		o.Status = OrderStatusFulfilled
		now := time.Now()
		o.FulfilledAt = &now
	} else {
		o.Status = OrderStatusPartiallyFulfilled
	}

	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderFulfilledEvent(o, result.Accepted))

	return result, nil
}

// Cancel cancels the order
// Allowed only in DRAFT or CONFIRMED status (nothing fulfilled yet)
func (o *Order) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(OrderStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	if o.hasFulfilledAnyLine() {
		return shared.NewDomainError("ALREADY_FULFILLED", "Cannot cancel order after lines have been fulfilled")
	}

	wasConfirmed := o.Status == OrderStatusConfirmed
	now := time.Now()
	o.Status = OrderStatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderCancelledEvent(o, wasConfirmed))

	return nil
}

// adjustments returns the current order-level adjustments
func (o *Order) adjustments() billing.Adjustments {
	return billing.Adjustments{
		DiscountAmount: o.DiscountAmount,
		TaxRate:        o.TaxRate,
		ShippingAmount: o.ShippingAmount,
	}
}

// recalculateTotals recomputes the order totals from its items and adjustments
func (o *Order) recalculateTotals() error {
	items := make([]billing.PricedLineItem, len(o.Items))
	for i, item := range o.Items {
		items[i] = billing.PricedLineItem{
			Quantity:  item.OrderedQuantity,
			UnitPrice: item.UnitPrice,
		}
	}

	totals, err := billing.NewCalculator().Compute(items, o.adjustments())
	if err != nil {
		return err
	}

	o.Subtotal = totals.Subtotal
	o.TaxAmount = totals.TaxAmount
	o.GrandTotal = totals.GrandTotal

	return nil
}

// isFullyFulfilled checks if all items have been fully fulfilled
func (o *Order) isFullyFulfilled() bool {
	for _, item := range o.Items {
		if !item.IsFullyFulfilled() {
			return false
		}
	}
	return len(o.Items) > 0
}

// hasFulfilledAnyLine checks if any line has been fulfilled
func (o *Order) hasFulfilledAnyLine() bool {
	for _, item := range o.Items {
		if item.FulfilledQuantity > 0 {
			return true
		}
	}
	return false
}

// TotalOrderedQuantity returns the total ordered quantity across all lines
func (o *Order) TotalOrderedQuantity() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.OrderedQuantity
	}
	return total
}

// TotalFulfilledQuantity returns the total fulfilled quantity across all lines
func (o *Order) TotalFulfilledQuantity() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.FulfilledQuantity
	}
	return total
}

// TotalRemainingQuantity returns the total quantity still to be fulfilled
func (o *Order) TotalRemainingQuantity() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.RemainingQuantity()
	}
	return total
}

// ItemCount returns the number of items in the order
func (o *Order) ItemCount() int {
	return len(o.Items)
}

// IsDraft returns true if the order is in draft status
func (o *Order) IsDraft() bool {
	return o.Status == OrderStatusDraft
}

// IsConfirmed returns true if the order is confirmed
func (o *Order) IsConfirmed() bool {
	return o.Status == OrderStatusConfirmed
}

// IsPartiallyFulfilled returns true if the order is partially fulfilled
func (o *Order) IsPartiallyFulfilled() bool {
	return o.Status == OrderStatusPartiallyFulfilled
}

// IsFulfilled returns true if the order is fully fulfilled
func (o *Order) IsFulfilled() bool {
	return o.Status == OrderStatusFulfilled
}

// IsCancelled returns true if the order is cancelled
func (o *Order) IsCancelled() bool {
	return o.Status == OrderStatusCancelled
}

// IsTerminal returns true if the order is in a terminal state
func (o *Order) IsTerminal() bool {
	return o.IsFulfilled() || o.IsCancelled()
}

// CanModify returns true if the order items and adjustments can be modified
func (o *Order) CanModify() bool {
	return o.IsDraft()
}

// GetItem returns an item by its ID
func (o *Order) GetItem(itemID uuid.UUID) *OrderItem {
	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			return &o.Items[idx]
		}
	}
	return nil
}

// GetItemByProduct returns an item by product ID
func (o *Order) GetItemByProduct(productID uuid.UUID) *OrderItem {
	for idx := range o.Items {
		if o.Items[idx].ProductID == productID {
			return &o.Items[idx]
		}
	}
	return nil
}

// FulfillmentProgress returns the fulfillment progress as a percentage (0-100)
func (o *Order) FulfillmentProgress() decimal.Decimal {
	totalOrdered := o.TotalOrderedQuantity()
	if totalOrdered == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(o.TotalFulfilledQuantity()).
		Div(decimal.NewFromInt(totalOrdered)).
		Mul(decimal.NewFromInt(100)).
		Round(2)
}
