package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/erp/fulfillment/internal/domain/document"
	"github.com/erp/fulfillment/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order by its ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*document.Order, error) {
	var order document.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	order.MarkLoaded()
	return &order, nil
}

// FindByIDForTenant finds an order by ID within a tenant
func (r *GormOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*document.Order, error) {
	var order document.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	order.MarkLoaded()
	return &order, nil
}

// FindByOrderNumber finds an order by order number for a tenant
func (r *GormOrderRepository) FindByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*document.Order, error) {
	var order document.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND order_number = ?", tenantID, orderNumber).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	order.MarkLoaded()
	return &order, nil
}

// FindAllForTenant finds all orders for a tenant with filtering
func (r *GormOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]document.Order, error) {
	var orders []document.Order

	query := r.db.WithContext(ctx).Model(&document.Order{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)

	if err := query.Preload("Items").Find(&orders).Error; err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].MarkLoaded()
	}
	return orders, nil
}

// FindByStatus finds orders by status for a tenant
func (r *GormOrderRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status document.OrderStatus, filter shared.Filter) ([]document.Order, error) {
	var orders []document.Order

	query := r.db.WithContext(ctx).Model(&document.Order{}).
		Where("tenant_id = ? AND status = ?", tenantID, status)
	query = r.applyFilter(query, filter)

	if err := query.Preload("Items").Find(&orders).Error; err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].MarkLoaded()
	}
	return orders, nil
}

// Save creates or updates an order
func (r *GormOrderRepository) Save(ctx context.Context, order *document.Order) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(order).Error; err != nil {
			return err
		}
		return saveOrderItems(tx, order)
	})
	if err != nil {
		return err
	}
	order.MarkLoaded()
	return nil
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormOrderRepository) SaveWithLock(ctx context.Context, order *document.Order) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateOrderWithVersionCheck(tx, order); err != nil {
			return err
		}
		return saveOrderItems(tx, order)
	})
	if err != nil {
		return err
	}
	order.MarkLoaded()
	return nil
}

// updateOrderWithVersionCheck updates the order row only if the stored version
// still matches the version the aggregate was loaded at
func updateOrderWithVersionCheck(tx *gorm.DB, order *document.Order) error {
	var currentVersion int
	if err := tx.Model(&document.Order{}).
		Where("id = ?", order.ID).
		Select("version").
		Scan(&currentVersion).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shared.ErrNotFound
		}
		return err
	}

	if currentVersion != order.LoadedVersion() {
		return shared.ErrConcurrencyConflict
	}

	order.UpdatedAt = time.Now()

	result := tx.Model(&document.Order{}).
		Where("id = ? AND version = ?", order.ID, currentVersion).
		Updates(map[string]interface{}{
			"party_id":        order.PartyID,
			"party_name":      order.PartyName,
			"subtotal":        order.Subtotal,
			"discount_amount": order.DiscountAmount,
			"tax_rate":        order.TaxRate,
			"tax_amount":      order.TaxAmount,
			"shipping_amount": order.ShippingAmount,
			"grand_total":     order.GrandTotal,
			"status":          order.Status,
			"remark":          order.Remark,
			"confirmed_at":    order.ConfirmedAt,
			"fulfilled_at":    order.FulfilledAt,
			"cancelled_at":    order.CancelledAt,
			"cancel_reason":   order.CancelReason,
			"version":         order.Version,
			"updated_at":      order.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// saveOrderItems deletes removed items and saves or updates the current ones
func saveOrderItems(tx *gorm.DB, order *document.Order) error {
	if order.ID == uuid.Nil {
		return nil
	}

	currentItemIDs := make([]uuid.UUID, len(order.Items))
	for i, item := range order.Items {
		currentItemIDs[i] = item.ID
	}

	if len(currentItemIDs) > 0 {
		if err := tx.Where("order_id = ? AND id NOT IN ?", order.ID, currentItemIDs).
			Delete(&document.OrderItem{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("order_id = ?", order.ID).
			Delete(&document.OrderItem{}).Error; err != nil {
			return err
		}
	}

	for i := range order.Items {
		order.Items[i].OrderID = order.ID
		if err := tx.Save(&order.Items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// DeleteForTenant deletes an order for a tenant
func (r *GormOrderRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order document.Order
		if err := tx.Where("tenant_id = ? AND id = ?", tenantID, id).First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		if err := tx.Where("order_id = ?", id).Delete(&document.OrderItem{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&document.Order{}, "tenant_id = ? AND id = ?", tenantID, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// CountForTenant counts orders for a tenant with optional filters
func (r *GormOrderRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&document.Order{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByOrderNumber checks if an order number exists for a tenant
func (r *GormOrderRepository) ExistsByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&document.Order{}).
		Where("tenant_id = ? AND order_number = ?", tenantID, orderNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GenerateOrderNumber generates a unique order number for a tenant.
// Format: SO-YYYY-NNNNN (e.g., SO-2026-00001)
func (r *GormOrderRepository) GenerateOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("SO-%d-", year)

	var lastOrder document.Order
	err := r.db.WithContext(ctx).
		Model(&document.Order{}).
		Where("tenant_id = ? AND order_number LIKE ?", tenantID, prefix+"%").
		Order("order_number DESC").
		First(&lastOrder).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	nextNum := nextSequenceNumber(lastOrder.OrderNumber)
	orderNumber := fmt.Sprintf("%s%05d", prefix, nextNum)

	exists, err := r.ExistsByOrderNumber(ctx, tenantID, orderNumber)
	if err != nil {
		return "", err
	}
	if exists {
		for i := 0; i < 100; i++ {
			nextNum++
			orderNumber = fmt.Sprintf("%s%05d", prefix, nextNum)
			exists, err = r.ExistsByOrderNumber(ctx, tenantID, orderNumber)
			if err != nil {
				return "", err
			}
			if !exists {
				break
			}
		}
	}

	return orderNumber, nil
}

// nextSequenceNumber parses the trailing sequence of a document number and
// returns the next value, or 1 if the number is empty or unparseable
func nextSequenceNumber(lastNumber string) int64 {
	if lastNumber == "" {
		return 1
	}
	parts := strings.Split(lastNumber, "-")
	if len(parts) != 3 {
		return 1
	}
	var num int64
	if _, err := fmt.Sscanf(parts[2], "%d", &num); err != nil {
		return 1
	}
	return num + 1
}

// applyFilter applies filter options to the query
func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	// Sort field is whitelist validated to prevent SQL injection
	sortField := ValidateSortField(filter.OrderBy, OrderSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(sortField + " " + sortOrder)

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("order_number ILIKE ? OR party_name ILIKE ?",
			searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "party_id":
			query = query.Where("party_id = ?", value)
		case "kind":
			query = query.Where("kind = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "statuses":
			if statuses, ok := value.([]string); ok && len(statuses) > 0 {
				query = query.Where("status IN ?", statuses)
			}
		case "start_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at >= ?", t)
			}
		case "end_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at <= ?", t)
			}
		}
	}

	return query
}

// Ensure GormOrderRepository implements OrderRepository
var _ document.OrderRepository = (*GormOrderRepository)(nil)
