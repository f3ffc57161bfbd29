package fulfillment

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(ordered, fulfilled int64) LineItem {
	return LineItem{
		ProductID:              uuid.New(),
		OrderedQuantity:        ordered,
		PriorFulfilledQuantity: fulfilled,
	}
}

// ============================================
// Remaining Tests
// ============================================

func TestTracker_Remaining(t *testing.T) {
	tracker := NewTracker()

	t.Run("computes ordered minus prior fulfilled per line", func(t *testing.T) {
		tests := []struct {
			name      string
			ordered   int64
			fulfilled int64
			want      int64
		}{
			{"nothing fulfilled", 10, 0, 10},
			{"partially fulfilled", 10, 4, 6},
			{"fully fulfilled", 10, 10, 0},
			{"zero ordered", 0, 0, 0},
			{"single unit left", 3, 2, 1},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				result := tracker.Remaining([]LineItem{line(tt.ordered, tt.fulfilled)})
				require.Len(t, result.Lines, 1)
				assert.Equal(t, tt.want, result.Lines[0].RemainingQuantity)
				assert.Empty(t, result.Warnings)
			})
		}
	})

	t.Run("preserves line order and product IDs", func(t *testing.T) {
		lines := []LineItem{line(10, 4), line(5, 0), line(7, 7)}

		result := tracker.Remaining(lines)
		require.Len(t, result.Lines, 3)

		for i, l := range lines {
			assert.Equal(t, l.ProductID, result.Lines[i].ProductID)
		}
		assert.Equal(t, int64(6), result.Lines[0].RemainingQuantity)
		assert.Equal(t, int64(5), result.Lines[1].RemainingQuantity)
		assert.Equal(t, int64(0), result.Lines[2].RemainingQuantity)
	})

	t.Run("clamps corrupted line to zero and flags a warning", func(t *testing.T) {
		corrupted := line(10, 12)

		result := tracker.Remaining([]LineItem{corrupted})
		require.Len(t, result.Lines, 1)
		assert.Equal(t, int64(0), result.Lines[0].RemainingQuantity)

		require.Len(t, result.Warnings, 1)
		assert.Equal(t, corrupted.ProductID, result.Warnings[0].ProductID)
		assert.Equal(t, int64(10), result.Warnings[0].OrderedQuantity)
		assert.Equal(t, int64(12), result.Warnings[0].PriorFulfilledQuantity)
	})

	t.Run("healthy lines are unaffected by a corrupted sibling", func(t *testing.T) {
		lines := []LineItem{line(10, 4), line(5, 8)}

		result := tracker.Remaining(lines)
		require.Len(t, result.Lines, 2)
		assert.Equal(t, int64(6), result.Lines[0].RemainingQuantity)
		assert.Equal(t, int64(0), result.Lines[1].RemainingQuantity)
		assert.Len(t, result.Warnings, 1)
	})

	t.Run("never returns a negative remainder", func(t *testing.T) {
		for _, fulfilled := range []int64{11, 100, 1 << 40} {
			result := tracker.Remaining([]LineItem{line(10, fulfilled)})
			assert.GreaterOrEqual(t, result.Lines[0].RemainingQuantity, int64(0))
		}
	})

	t.Run("is idempotent for identical inputs", func(t *testing.T) {
		lines := []LineItem{line(10, 4), line(5, 8), line(0, 0)}

		first := tracker.Remaining(lines)
		second := tracker.Remaining(lines)

		assert.Equal(t, first, second)
	})

	t.Run("empty input yields empty result", func(t *testing.T) {
		result := tracker.Remaining(nil)
		assert.Empty(t, result.Lines)
		assert.Empty(t, result.Warnings)
	})
}

// ============================================
// Validate Tests
// ============================================

func TestTracker_Validate(t *testing.T) {
	tracker := NewTracker()

	t.Run("accepts request up to remaining balance", func(t *testing.T) {
		l := line(10, 4) // remaining 6

		result := tracker.Validate([]LineItem{l}, FulfillmentRequest{
			{ProductID: l.ProductID, Quantity: 6},
		})

		require.True(t, result.OK())
		require.Len(t, result.Accepted, 1)
		assert.Equal(t, l.ProductID, result.Accepted[0].ProductID)
		assert.Equal(t, int64(6), result.Accepted[0].AcceptedQuantity)
	})

	t.Run("rejects request exceeding remaining balance", func(t *testing.T) {
		l := line(10, 4) // remaining 6

		result := tracker.Validate([]LineItem{l}, FulfillmentRequest{
			{ProductID: l.ProductID, Quantity: 7},
		})

		require.False(t, result.OK())
		assert.Empty(t, result.Accepted)
		require.Len(t, result.Failures, 1)
		assert.Equal(t, FailureExceedsRemaining, result.Failures[0].Kind)
		assert.Equal(t, int64(7), result.Failures[0].RequestedQuantity)
		assert.Equal(t, int64(6), result.Failures[0].RemainingQuantity)
	})

	t.Run("rejects unknown line", func(t *testing.T) {
		l := line(10, 0)

		result := tracker.Validate([]LineItem{l}, FulfillmentRequest{
			{ProductID: uuid.New(), Quantity: 1},
		})

		require.False(t, result.OK())
		require.Len(t, result.Failures, 1)
		assert.Equal(t, FailureUnknownLine, result.Failures[0].Kind)
	})

	t.Run("rejects non-positive quantities", func(t *testing.T) {
		l := line(10, 0)

		for _, qty := range []int64{0, -1, -100} {
			result := tracker.Validate([]LineItem{l}, FulfillmentRequest{
				{ProductID: l.ProductID, Quantity: qty},
			})
			require.False(t, result.OK())
			require.Len(t, result.Failures, 1)
			assert.Equal(t, FailureNonPositiveQuantity, result.Failures[0].Kind)
		}
	})

	t.Run("is all-or-nothing across a multi-line request", func(t *testing.T) {
		ok := line(10, 0)
		unknown := uuid.New()

		result := tracker.Validate([]LineItem{ok}, FulfillmentRequest{
			{ProductID: ok.ProductID, Quantity: 5}, // individually valid
			{ProductID: unknown, Quantity: 1},
		})

		require.False(t, result.OK())
		assert.Empty(t, result.Accepted)
		require.Len(t, result.Failures, 1)
		assert.Equal(t, FailureUnknownLine, result.Failures[0].Kind)
		assert.Equal(t, unknown, result.Failures[0].ProductID)
	})

	t.Run("reports every failure in the request", func(t *testing.T) {
		l := line(10, 8) // remaining 2

		result := tracker.Validate([]LineItem{l}, FulfillmentRequest{
			{ProductID: l.ProductID, Quantity: 5},
			{ProductID: uuid.New(), Quantity: 1},
			{ProductID: l.ProductID, Quantity: 0},
		})

		require.False(t, result.OK())
		require.Len(t, result.Failures, 3)
		assert.Equal(t, FailureExceedsRemaining, result.Failures[0].Kind)
		assert.Equal(t, FailureUnknownLine, result.Failures[1].Kind)
		assert.Equal(t, FailureNonPositiveQuantity, result.Failures[2].Kind)
	})

	t.Run("duplicate product entries count cumulatively", func(t *testing.T) {
		l := line(10, 4) // remaining 6

		result := tracker.Validate([]LineItem{l}, FulfillmentRequest{
			{ProductID: l.ProductID, Quantity: 4},
			{ProductID: l.ProductID, Quantity: 4}, // 8 total, only 6 remaining
		})

		require.False(t, result.OK())
		require.Len(t, result.Failures, 1)
		assert.Equal(t, FailureExceedsRemaining, result.Failures[0].Kind)
	})

	t.Run("any request against a zero-ordered line fails", func(t *testing.T) {
		l := line(0, 0)

		result := tracker.Validate([]LineItem{l}, FulfillmentRequest{
			{ProductID: l.ProductID, Quantity: 1},
		})

		require.False(t, result.OK())
		require.Len(t, result.Failures, 1)
		assert.Equal(t, FailureExceedsRemaining, result.Failures[0].Kind)
		assert.Equal(t, int64(0), result.Failures[0].RemainingQuantity)
	})

	t.Run("validates against clamped balance of a corrupted line", func(t *testing.T) {
		l := line(10, 12)

		result := tracker.Validate([]LineItem{l}, FulfillmentRequest{
			{ProductID: l.ProductID, Quantity: 1},
		})

		require.False(t, result.OK())
		require.Len(t, result.Failures, 1)
		assert.Equal(t, FailureExceedsRemaining, result.Failures[0].Kind)
		assert.Len(t, result.Warnings, 1)
	})

	t.Run("accepted quantities pass through unchanged in request order", func(t *testing.T) {
		l1 := line(10, 0)
		l2 := line(5, 2)

		result := tracker.Validate([]LineItem{l1, l2}, FulfillmentRequest{
			{ProductID: l2.ProductID, Quantity: 3},
			{ProductID: l1.ProductID, Quantity: 10},
		})

		require.True(t, result.OK())
		require.Len(t, result.Accepted, 2)
		assert.Equal(t, l2.ProductID, result.Accepted[0].ProductID)
		assert.Equal(t, int64(3), result.Accepted[0].AcceptedQuantity)
		assert.Equal(t, l1.ProductID, result.Accepted[1].ProductID)
		assert.Equal(t, int64(10), result.Accepted[1].AcceptedQuantity)
	})

	t.Run("empty request is trivially accepted", func(t *testing.T) {
		result := tracker.Validate([]LineItem{line(10, 0)}, FulfillmentRequest{})
		assert.True(t, result.OK())
		assert.Empty(t, result.Accepted)
	})
}
