package document

import (
	"time"

	"github.com/erp/fulfillment/internal/domain/fulfillment"
	"github.com/erp/fulfillment/internal/domain/shared"
	"github.com/google/uuid"
)

// FulfillmentLine represents a single accepted line in a fulfillment record
type FulfillmentLine struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	FulfillmentID uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID     uuid.UUID `gorm:"type:uuid;not null"`
	Quantity      int64     `gorm:"not null"`
	CreatedAt     time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (FulfillmentLine) TableName() string {
	return "fulfillment_lines"
}

// Fulfillment represents a single accepted fulfillment operation against an
// order. It is immutable once created: corrections are modeled as new orders,
// never as edits to an existing fulfillment.
type Fulfillment struct {
	shared.TenantAggregateRoot
	FulfillmentNumber string            `gorm:"type:varchar(50);not null;uniqueIndex:idx_fulfillment_tenant_number,priority:2"`
	OrderID           uuid.UUID         `gorm:"type:uuid;not null;index"`
	OrderNumber       string            `gorm:"type:varchar(50);not null"`
	Lines             []FulfillmentLine `gorm:"foreignKey:FulfillmentID;references:ID"`
	Remark            string            `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Fulfillment) TableName() string {
	return "fulfillments"
}

// NewFulfillment creates a fulfillment record from the accepted lines of a
// validated request. The caller is responsible for having applied the same
// lines to the parent order first.
func NewFulfillment(tenantID uuid.UUID, fulfillmentNumber string, order *Order, accepted []fulfillment.AcceptedLine) (*Fulfillment, error) {
	if fulfillmentNumber == "" {
		return nil, shared.NewDomainError("INVALID_FULFILLMENT_NUMBER", "Fulfillment number cannot be empty")
	}
	if order == nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order cannot be nil")
	}
	if len(accepted) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Fulfillment must have at least one line")
	}

	f := &Fulfillment{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		FulfillmentNumber:   fulfillmentNumber,
		OrderID:             order.ID,
		OrderNumber:         order.OrderNumber,
		Lines:               make([]FulfillmentLine, 0, len(accepted)),
	}

	now := time.Now()
	for _, line := range accepted {
		f.Lines = append(f.Lines, FulfillmentLine{
			ID:            uuid.New(),
			FulfillmentID: f.ID,
			ProductID:     line.ProductID,
			Quantity:      line.AcceptedQuantity,
			CreatedAt:     now,
		})
	}

	f.AddDomainEvent(NewFulfillmentCreatedEvent(f))

	return f, nil
}

// TotalQuantity returns the total quantity across all lines
func (f *Fulfillment) TotalQuantity() int64 {
	var total int64
	for _, line := range f.Lines {
		total += line.Quantity
	}
	return total
}

// LineCount returns the number of lines in the fulfillment
func (f *Fulfillment) LineCount() int {
	return len(f.Lines)
}
