package document

import (
	"context"

	"github.com/erp/fulfillment/internal/domain/shared"
	"github.com/google/uuid"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByIDForTenant finds an order by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Order, error)

	// FindByOrderNumber finds an order by order number for a tenant
	FindByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*Order, error)

	// FindAllForTenant finds all orders for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Order, error)

	// FindByStatus finds orders by status for a tenant
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status OrderStatus, filter shared.Filter) ([]Order, error)

	// Save creates or updates an order
	Save(ctx context.Context, order *Order) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, order *Order) error

	// DeleteForTenant deletes an order for a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// CountForTenant counts orders for a tenant with optional filters
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// ExistsByOrderNumber checks if an order number exists for a tenant
	ExistsByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (bool, error)

	// GenerateOrderNumber generates a unique order number for a tenant
	GenerateOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}

// FulfillmentRepository defines the interface for fulfillment record persistence
type FulfillmentRepository interface {
	// FindByID finds a fulfillment by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Fulfillment, error)

	// FindByIDForTenant finds a fulfillment by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Fulfillment, error)

	// FindByOrder finds all fulfillments for an order
	FindByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]Fulfillment, error)

	// SaveWithOrder saves the fulfillment and the updated parent order in one
	// transaction, checking the order version for optimistic concurrency
	SaveWithOrder(ctx context.Context, f *Fulfillment, order *Order) error

	// GenerateFulfillmentNumber generates a unique fulfillment number for a tenant
	GenerateFulfillmentNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}
