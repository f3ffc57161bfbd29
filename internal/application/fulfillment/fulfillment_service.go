package fulfillment

import (
	"context"

	"github.com/erp/fulfillment/internal/domain/document"
	"github.com/erp/fulfillment/internal/domain/fulfillment"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FulfillmentService handles fulfillment reconciliation operations: reporting
// remaining quantities, validating requests and recording accepted fulfillments
type FulfillmentService struct {
	orderRepo       document.OrderRepository
	fulfillmentRepo document.FulfillmentRepository
	tracker         *fulfillment.Tracker
	logger          *zap.Logger
}

// NewFulfillmentService creates a new FulfillmentService
func NewFulfillmentService(orderRepo document.OrderRepository, fulfillmentRepo document.FulfillmentRepository, logger *zap.Logger) *FulfillmentService {
	return &FulfillmentService{
		orderRepo:       orderRepo,
		fulfillmentRepo: fulfillmentRepo,
		tracker:         fulfillment.NewTracker(),
		logger:          logger,
	}
}

// PreviewRemaining reports the remaining quantity for every line of an order
func (s *FulfillmentService) PreviewRemaining(ctx context.Context, tenantID, orderID uuid.UUID) (*RemainingReportResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	result := s.tracker.Remaining(order.FulfillmentLines())
	s.logIntegrityWarnings(order, result.Warnings)

	response := &RemainingReportResponse{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Lines:       make([]RemainingLineResponse, len(result.Lines)),
		Warnings:    toIntegrityWarningResponses(result.Warnings),
	}
	for i, line := range result.Lines {
		response.Lines[i] = RemainingLineResponse{
			ProductID:         line.ProductID,
			RemainingQuantity: line.RemainingQuantity,
		}
	}
	return response, nil
}

// Validate checks a fulfillment request against an order without applying it
func (s *FulfillmentService) Validate(ctx context.Context, tenantID, orderID uuid.UUID, req FulfillmentRequestInput) (*ValidationResultResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	result := s.tracker.Validate(order.FulfillmentLines(), req.ToDomainRequest())
	s.logIntegrityWarnings(order, result.Warnings)

	response := ToValidationResultResponse(result)
	return &response, nil
}

// Create validates a fulfillment request and, if every line is acceptable,
// applies it to the order and records it as a fulfillment document. The order
// and the record are saved in one transaction with a version check, so a
// concurrent fulfillment against the same order fails with a conflict instead
// of over-fulfilling.
func (s *FulfillmentService) Create(ctx context.Context, tenantID, orderID uuid.UUID, req FulfillmentRequestInput) (*CreateFulfillmentResponse, *ValidationResultResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, nil, err
	}

	result, err := order.ApplyFulfillment(s.tracker, req.ToDomainRequest())
	if err != nil {
		return nil, nil, err
	}
	s.logIntegrityWarnings(order, result.Warnings)

	if !result.OK() {
		response := ToValidationResultResponse(result)
		return nil, &response, nil
	}

	number, err := s.fulfillmentRepo.GenerateFulfillmentNumber(ctx, tenantID)
	if err != nil {
		return nil, nil, err
	}

	record, err := document.NewFulfillment(tenantID, number, order, result.Accepted)
	if err != nil {
		return nil, nil, err
	}
	if req.Remark != "" {
		record.Remark = req.Remark
	}

	if err := s.fulfillmentRepo.SaveWithOrder(ctx, record, order); err != nil {
		return nil, nil, err
	}

	s.logger.Info("fulfillment recorded",
		zap.String("tenant_id", tenantID.String()),
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("fulfillment_number", record.FulfillmentNumber),
		zap.Int64("total_quantity", record.TotalQuantity()),
		zap.String("order_status", order.Status.String()),
	)

	return &CreateFulfillmentResponse{
		Fulfillment: ToFulfillmentResponse(record),
		Order:       ToOrderResponse(order),
	}, nil, nil
}

// GetByID retrieves a fulfillment record by ID
func (s *FulfillmentService) GetByID(ctx context.Context, tenantID, fulfillmentID uuid.UUID) (*FulfillmentResponse, error) {
	record, err := s.fulfillmentRepo.FindByIDForTenant(ctx, tenantID, fulfillmentID)
	if err != nil {
		return nil, err
	}
	response := ToFulfillmentResponse(record)
	return &response, nil
}

// ListByOrder retrieves all fulfillment records for an order
func (s *FulfillmentService) ListByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]FulfillmentResponse, error) {
	records, err := s.fulfillmentRepo.FindByOrder(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	return ToFulfillmentResponses(records), nil
}

// logIntegrityWarnings logs corrupted lines where prior fulfillment exceeds
// the ordered quantity. The report itself stays usable, the log is the signal
// for operators to investigate the data.
func (s *FulfillmentService) logIntegrityWarnings(order *document.Order, warnings []fulfillment.IntegrityWarning) {
	for _, w := range warnings {
		s.logger.Warn("fulfilled quantity exceeds ordered quantity",
			zap.String("order_id", order.ID.String()),
			zap.String("order_number", order.OrderNumber),
			zap.String("product_id", w.ProductID.String()),
			zap.Int64("ordered_quantity", w.OrderedQuantity),
			zap.Int64("prior_fulfilled_quantity", w.PriorFulfilledQuantity),
		)
	}
}
