package fulfillment

import (
	"context"

	"github.com/erp/fulfillment/internal/domain/billing"
	"github.com/erp/fulfillment/internal/domain/document"
	"github.com/erp/fulfillment/internal/domain/shared"
	"github.com/google/uuid"
)

// OrderService handles order document business operations
type OrderService struct {
	orderRepo document.OrderRepository
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo document.OrderRepository) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
	}
}

// Create creates a new order document
func (s *OrderService) Create(ctx context.Context, tenantID uuid.UUID, req CreateOrderRequest) (*OrderResponse, error) {
	orderNumber, err := s.orderRepo.GenerateOrderNumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	order, err := document.NewOrder(tenantID, orderNumber, req.Kind, req.PartyID, req.PartyName)
	if err != nil {
		return nil, err
	}

	for _, item := range req.Items {
		if _, err := order.AddItem(item.ProductID, item.ProductName, item.ProductCode, item.Quantity, item.UnitPrice); err != nil {
			return nil, err
		}
	}

	if req.Discount != nil || req.TaxRate != nil || req.Shipping != nil {
		adj := billing.ZeroAdjustments()
		if req.Discount != nil {
			adj.DiscountAmount = *req.Discount
		}
		if req.TaxRate != nil {
			adj.TaxRate = *req.TaxRate
		}
		if req.Shipping != nil {
			adj.ShippingAmount = *req.Shipping
		}
		if err := order.SetAdjustments(adj); err != nil {
			return nil, err
		}
	}

	if req.Remark != "" {
		order.SetRemark(req.Remark)
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// GetByID retrieves an order by ID
func (s *OrderService) GetByID(ctx context.Context, tenantID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// GetByOrderNumber retrieves an order by order number
func (s *OrderService) GetByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByOrderNumber(ctx, tenantID, orderNumber)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// List retrieves a list of orders with filtering and pagination
func (s *OrderService) List(ctx context.Context, tenantID uuid.UUID, filter OrderListFilter) ([]OrderListItemResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}

	if filter.PartyID != nil {
		domainFilter.Filters["party_id"] = *filter.PartyID
	}
	if filter.Kind != nil {
		domainFilter.Filters["kind"] = string(*filter.Kind)
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = string(*filter.Status)
	}

	orders, err := s.orderRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.orderRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToOrderListItemResponses(orders), total, nil
}

// Update updates an order (only allowed in DRAFT status)
func (s *OrderService) Update(ctx context.Context, tenantID, orderID uuid.UUID, req UpdateOrderRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	if !order.CanModify() {
		return nil, shared.NewDomainError("INVALID_STATE", "Order can only be modified in draft status")
	}

	if req.Discount != nil || req.TaxRate != nil || req.Shipping != nil {
		adj := billing.Adjustments{
			DiscountAmount: order.DiscountAmount,
			TaxRate:        order.TaxRate,
			ShippingAmount: order.ShippingAmount,
		}
		if req.Discount != nil {
			adj.DiscountAmount = *req.Discount
		}
		if req.TaxRate != nil {
			adj.TaxRate = *req.TaxRate
		}
		if req.Shipping != nil {
			adj.ShippingAmount = *req.Shipping
		}
		if err := order.SetAdjustments(adj); err != nil {
			return nil, err
		}
	}

	if req.Remark != nil {
		order.SetRemark(*req.Remark)
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// AddItem adds an item to an order
func (s *OrderService) AddItem(ctx context.Context, tenantID, orderID uuid.UUID, req AddOrderItemRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	if _, err := order.AddItem(req.ProductID, req.ProductName, req.ProductCode, req.Quantity, req.UnitPrice); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// UpdateItem updates an item in an order
func (s *OrderService) UpdateItem(ctx context.Context, tenantID, orderID, itemID uuid.UUID, req UpdateOrderItemRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	if req.Quantity != nil {
		if err := order.UpdateItemQuantity(itemID, *req.Quantity); err != nil {
			return nil, err
		}
	}

	if req.UnitPrice != nil {
		if err := order.UpdateItemPrice(itemID, *req.UnitPrice); err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// RemoveItem removes an item from an order
func (s *OrderService) RemoveItem(ctx context.Context, tenantID, orderID, itemID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.RemoveItem(itemID); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// Confirm confirms an order
func (s *OrderService) Confirm(ctx context.Context, tenantID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.Confirm(); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// Cancel cancels an order
func (s *OrderService) Cancel(ctx context.Context, tenantID, orderID uuid.UUID, req CancelOrderRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.Cancel(req.Reason); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// Delete deletes a draft order
func (s *OrderService) Delete(ctx context.Context, tenantID, orderID uuid.UUID) error {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return err
	}

	if !order.IsDraft() {
		return shared.NewDomainError("INVALID_STATE", "Only draft orders can be deleted")
	}

	return s.orderRepo.DeleteForTenant(ctx, tenantID, orderID)
}
