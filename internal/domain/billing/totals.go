package billing

import (
	"fmt"

	"github.com/erp/fulfillment/internal/domain/shared"
	"github.com/erp/fulfillment/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// moneyPlaces is the rounding precision for monetary outputs
const moneyPlaces int32 = 2

// PricedLineItem is one priced line of an order-like document
type PricedLineItem struct {
	Quantity  int64
	UnitPrice decimal.Decimal
}

// Adjustments holds the document-level monetary adjustments. DiscountAmount
// is an absolute amount, not a percentage; TaxRate is a percentage where 10
// means 10%.
type Adjustments struct {
	DiscountAmount decimal.Decimal
	TaxRate        decimal.Decimal
	ShippingAmount decimal.Decimal
}

// ZeroAdjustments returns adjustments with all amounts zero
func ZeroAdjustments() Adjustments {
	return Adjustments{
		DiscountAmount: decimal.Zero,
		TaxRate:        decimal.Zero,
		ShippingAmount: decimal.Zero,
	}
}

// TotalsResult holds the computed monetary summary. Discount is applied
// before tax and tax never applies to a negative base:
//
//	taxableBase = max(0, subtotal - discount)
//	taxAmount   = taxableBase * taxRate / 100
//	grandTotal  = subtotal - discount + taxAmount + shipping
//
// Subtotal, TaxAmount and GrandTotal are each rounded to 2 decimal places,
// half up, once at the end. LineTotals preserves the supply order of items.
type TotalsResult struct {
	Subtotal    decimal.Decimal
	TaxableBase decimal.Decimal
	TaxAmount   decimal.Decimal
	GrandTotal  decimal.Decimal
	LineTotals  []decimal.Decimal
}

// Calculator computes monetary summary figures from priced line items and
// adjustments. It holds no state; Compute is a pure function of its inputs.
type Calculator struct{}

// NewCalculator creates a new Calculator
func NewCalculator() *Calculator {
	return &Calculator{}
}

// Compute derives subtotal, tax amount and grand total from the given items
// and adjustments. Returns INVALID_ADJUSTMENT if any adjustment, unit price
// or quantity is negative.
func (c *Calculator) Compute(items []PricedLineItem, adj Adjustments) (*TotalsResult, error) {
	if adj.DiscountAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_ADJUSTMENT", "Discount amount cannot be negative")
	}
	if adj.TaxRate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_ADJUSTMENT", "Tax rate cannot be negative")
	}
	if adj.ShippingAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_ADJUSTMENT", "Shipping amount cannot be negative")
	}

	subtotal := valueobject.ZeroMoney()
	lineTotals := make([]decimal.Decimal, 0, len(items))
	for i, item := range items {
		if item.Quantity < 0 {
			return nil, shared.NewDomainError("INVALID_ADJUSTMENT",
				fmt.Sprintf("Quantity cannot be negative (line %d)", i+1))
		}
		if item.UnitPrice.IsNegative() {
			return nil, shared.NewDomainError("INVALID_ADJUSTMENT",
				fmt.Sprintf("Unit price cannot be negative (line %d)", i+1))
		}
		lineTotal := valueobject.NewMoney(item.UnitPrice).MultiplyByInt(item.Quantity)
		lineTotals = append(lineTotals, lineTotal.Amount())
		subtotal = subtotal.Add(lineTotal)
	}

	// Money.RoundHalfUp rounds half away from zero, which is half-up on the
	// non-negative amounts this domain allows.
	roundedSubtotal := subtotal.RoundHalfUp(moneyPlaces)
	discount := valueobject.NewMoney(adj.DiscountAmount)
	shipping := valueobject.NewMoney(adj.ShippingAmount)

	taxableBase := roundedSubtotal.Subtract(discount)
	if taxableBase.IsNegative() {
		taxableBase = valueobject.ZeroMoney()
	}
	taxAmount := taxableBase.Percentage(adj.TaxRate).RoundHalfUp(moneyPlaces)
	grandTotal := roundedSubtotal.
		Subtract(discount).
		Add(taxAmount).
		Add(shipping).
		RoundHalfUp(moneyPlaces)

	return &TotalsResult{
		Subtotal:    roundedSubtotal.Amount(),
		TaxableBase: taxableBase.Amount(),
		TaxAmount:   taxAmount.Amount(),
		GrandTotal:  grandTotal.Amount(),
		LineTotals:  lineTotals,
	}, nil
}
