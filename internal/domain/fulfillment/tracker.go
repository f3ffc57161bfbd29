package fulfillment

import (
	"github.com/google/uuid"
)

// LineItem describes one ordered line of a parent document together with the
// cumulative quantity already satisfied by prior child documents. Quantities
// are discrete units; fractional fulfillment is not representable.
type LineItem struct {
	ProductID              uuid.UUID
	OrderedQuantity        int64
	PriorFulfilledQuantity int64
}

// RemainingLine is the derived remaining balance for one line. It is computed
// on demand and never persisted; the parent document and its children stay
// the source of truth.
type RemainingLine struct {
	ProductID         uuid.UUID
	RemainingQuantity int64
}

// IntegrityWarning flags a line whose prior fulfilled quantity exceeds its
// ordered quantity. The remainder is clamped to zero; the condition is
// surfaced so upstream corruption can be investigated.
type IntegrityWarning struct {
	ProductID              uuid.UUID
	OrderedQuantity        int64
	PriorFulfilledQuantity int64
}

// RemainingResult holds the per-line remaining balances plus any integrity
// warnings encountered while computing them.
type RemainingResult struct {
	Lines    []RemainingLine
	Warnings []IntegrityWarning
}

// RequestedLine is one entry of a fulfillment request: a quantity the caller
// proposes to fulfill now against a parent document line.
type RequestedLine struct {
	ProductID uuid.UUID
	Quantity  int64
}

// FulfillmentRequest is a proposed, not-yet-committed set of per-line
// quantities. Entries for the same product are treated cumulatively: the
// request describes a single atomic child document.
type FulfillmentRequest []RequestedLine

// FailureKind classifies why a requested line was rejected
type FailureKind string

const (
	// FailureUnknownLine means the requested product has no matching line
	// in the parent document; not retryable without correcting the request.
	FailureUnknownLine FailureKind = "UNKNOWN_LINE"
	// FailureNonPositiveQuantity means the requested quantity was zero or
	// negative; a user input error.
	FailureNonPositiveQuantity FailureKind = "NON_POSITIVE_QUANTITY"
	// FailureExceedsRemaining means the requested quantity is greater than
	// the line's current remaining balance. It may become valid after the
	// caller refreshes state; the engine never retries on its own.
	FailureExceedsRemaining FailureKind = "EXCEEDS_REMAINING"
)

// String returns the string representation of FailureKind
func (k FailureKind) String() string {
	return string(k)
}

// ValidationFailure identifies one rejected request entry and why
type ValidationFailure struct {
	ProductID         uuid.UUID
	Kind              FailureKind
	RequestedQuantity int64
	// RemainingQuantity is the line's remaining balance at validation time,
	// populated for EXCEEDS_REMAINING failures
	RemainingQuantity int64
}

// AcceptedLine is a validated request entry passed through unchanged,
// signaling the caller may construct the child document from it
type AcceptedLine struct {
	ProductID        uuid.UUID
	AcceptedQuantity int64
}

// ValidationResult is the outcome of validating a fulfillment request.
// Validation is all-or-nothing: Accepted is populated only when every entry
// passed, mirroring the rule that a dispatch/receipt/payment document is a
// single atomic unit.
type ValidationResult struct {
	Accepted []AcceptedLine
	Failures []ValidationFailure
	Warnings []IntegrityWarning
}

// OK returns true if every entry in the request was accepted
func (r *ValidationResult) OK() bool {
	return len(r.Failures) == 0
}

// Tracker answers how much of each ordered line can still be fulfilled and
// validates fulfillment proposals against that balance. It is stateless and
// recomputes from the supplied prior-fulfilled quantities on every call, so
// callers must supply data read no earlier than immediately before
// validation (optimistic concurrency; see Order.ApplyFulfillment for the
// commit-side version check).
type Tracker struct{}

// NewTracker creates a new Tracker
func NewTracker() *Tracker {
	return &Tracker{}
}

// Remaining computes the remaining fulfillable quantity for every line,
// floored at zero. A line whose remainder would be negative indicates
// upstream corruption: the returned quantity is clamped to zero and the
// line is reported in Warnings.
func (t *Tracker) Remaining(lines []LineItem) RemainingResult {
	result := RemainingResult{
		Lines: make([]RemainingLine, 0, len(lines)),
	}

	for _, line := range lines {
		remaining := line.OrderedQuantity - line.PriorFulfilledQuantity
		if remaining < 0 {
			remaining = 0
			result.Warnings = append(result.Warnings, IntegrityWarning{
				ProductID:              line.ProductID,
				OrderedQuantity:        line.OrderedQuantity,
				PriorFulfilledQuantity: line.PriorFulfilledQuantity,
			})
		}
		result.Lines = append(result.Lines, RemainingLine{
			ProductID:         line.ProductID,
			RemainingQuantity: remaining,
		})
	}

	return result
}

// Validate checks a fulfillment request against the current remaining
// balances. Every entry is checked so callers can display all failures at
// once; acceptance is all-or-nothing. On success the accepted quantities are
// the requested quantities, passed through unchanged.
func (t *Tracker) Validate(lines []LineItem, request FulfillmentRequest) *ValidationResult {
	remaining := t.Remaining(lines)

	remainingByProduct := make(map[uuid.UUID]int64, len(remaining.Lines))
	for _, line := range remaining.Lines {
		remainingByProduct[line.ProductID] = line.RemainingQuantity
	}

	result := &ValidationResult{Warnings: remaining.Warnings}

	// Entries for the same product count against the balance cumulatively:
	// the request is one atomic document, not independent proposals.
	requestedSoFar := make(map[uuid.UUID]int64, len(request))

	for _, entry := range request {
		if entry.Quantity <= 0 {
			result.Failures = append(result.Failures, ValidationFailure{
				ProductID:         entry.ProductID,
				Kind:              FailureNonPositiveQuantity,
				RequestedQuantity: entry.Quantity,
			})
			continue
		}

		available, known := remainingByProduct[entry.ProductID]
		if !known {
			result.Failures = append(result.Failures, ValidationFailure{
				ProductID:         entry.ProductID,
				Kind:              FailureUnknownLine,
				RequestedQuantity: entry.Quantity,
			})
			continue
		}

		requestedSoFar[entry.ProductID] += entry.Quantity
		if requestedSoFar[entry.ProductID] > available {
			result.Failures = append(result.Failures, ValidationFailure{
				ProductID:         entry.ProductID,
				Kind:              FailureExceedsRemaining,
				RequestedQuantity: entry.Quantity,
				RemainingQuantity: available,
			})
		}
	}

	if len(result.Failures) > 0 {
		return result
	}

	result.Accepted = make([]AcceptedLine, 0, len(request))
	for _, entry := range request {
		result.Accepted = append(result.Accepted, AcceptedLine{
			ProductID:        entry.ProductID,
			AcceptedQuantity: entry.Quantity,
		})
	}

	return result
}
