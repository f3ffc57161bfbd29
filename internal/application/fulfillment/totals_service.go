package fulfillment

import (
	"context"

	"github.com/erp/fulfillment/internal/domain/billing"
)

// TotalsService computes document totals for ad-hoc line and adjustment input,
// without touching any stored order
type TotalsService struct {
	calculator *billing.Calculator
}

// NewTotalsService creates a new TotalsService
func NewTotalsService() *TotalsService {
	return &TotalsService{
		calculator: billing.NewCalculator(),
	}
}

// Compute calculates subtotal, tax and grand total for the given lines
func (s *TotalsService) Compute(_ context.Context, req ComputeTotalsRequest) (*TotalsResponse, error) {
	items := make([]billing.PricedLineItem, len(req.Items))
	for i, line := range req.Items {
		items[i] = billing.PricedLineItem{
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		}
	}

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

	totals, err := s.calculator.Compute(items, adj)
	if err != nil {
		return nil, err
	}

	return &TotalsResponse{
		Subtotal:    totals.Subtotal,
		TaxableBase: totals.TaxableBase,
		TaxAmount:   totals.TaxAmount,
		GrandTotal:  totals.GrandTotal,
		LineTotals:  totals.LineTotals,
	}, nil
}
