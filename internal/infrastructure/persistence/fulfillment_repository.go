package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erp/fulfillment/internal/domain/document"
	"github.com/erp/fulfillment/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormFulfillmentRepository implements FulfillmentRepository using GORM
type GormFulfillmentRepository struct {
	db *gorm.DB
}

// NewGormFulfillmentRepository creates a new GormFulfillmentRepository
func NewGormFulfillmentRepository(db *gorm.DB) *GormFulfillmentRepository {
	return &GormFulfillmentRepository{db: db}
}

// FindByID finds a fulfillment by its ID
func (r *GormFulfillmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*document.Fulfillment, error) {
	var f document.Fulfillment
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&f, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	f.MarkLoaded()
	return &f, nil
}

// FindByIDForTenant finds a fulfillment by ID within a tenant
func (r *GormFulfillmentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*document.Fulfillment, error) {
	var f document.Fulfillment
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&f).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	f.MarkLoaded()
	return &f, nil
}

// FindByOrder finds all fulfillments recorded against an order, oldest first
func (r *GormFulfillmentRepository) FindByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]document.Fulfillment, error) {
	var fulfillments []document.Fulfillment
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("tenant_id = ? AND order_id = ?", tenantID, orderID).
		Order("created_at ASC").
		Find(&fulfillments).Error; err != nil {
		return nil, err
	}
	for i := range fulfillments {
		fulfillments[i].MarkLoaded()
	}
	return fulfillments, nil
}

// SaveWithOrder saves the fulfillment and the updated parent order in one
// transaction. The order row is updated with a version check so a concurrent
// fulfillment against the same order fails instead of double-counting.
func (r *GormFulfillmentRepository) SaveWithOrder(ctx context.Context, f *document.Fulfillment, order *document.Order) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateOrderWithVersionCheck(tx, order); err != nil {
			return err
		}
		if err := saveOrderItems(tx, order); err != nil {
			return err
		}

		if err := tx.Omit("Lines").Save(f).Error; err != nil {
			return err
		}
		for i := range f.Lines {
			f.Lines[i].FulfillmentID = f.ID
			if err := tx.Save(&f.Lines[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	order.MarkLoaded()
	f.MarkLoaded()
	return nil
}

// GenerateFulfillmentNumber generates a unique fulfillment number for a tenant.
// Format: FF-YYYY-NNNNN (e.g., FF-2026-00001)
func (r *GormFulfillmentRepository) GenerateFulfillmentNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("FF-%d-", year)

	var last document.Fulfillment
	err := r.db.WithContext(ctx).
		Model(&document.Fulfillment{}).
		Where("tenant_id = ? AND fulfillment_number LIKE ?", tenantID, prefix+"%").
		Order("fulfillment_number DESC").
		First(&last).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	nextNum := nextSequenceNumber(last.FulfillmentNumber)
	number := fmt.Sprintf("%s%05d", prefix, nextNum)

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&document.Fulfillment{}).
		Where("tenant_id = ? AND fulfillment_number = ?", tenantID, number).
		Count(&count).Error; err != nil {
		return "", err
	}
	if count > 0 {
		nextNum++
		number = fmt.Sprintf("%s%05d", prefix, nextNum)
	}

	return number, nil
}

// Ensure GormFulfillmentRepository implements FulfillmentRepository
var _ document.FulfillmentRepository = (*GormFulfillmentRepository)(nil)
