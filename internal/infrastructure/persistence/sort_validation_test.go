package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// ============================================================================
// Sort Validation Tests
// ============================================================================

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"asc lowercase", "asc", "ASC"},
		{"asc uppercase", "ASC", "ASC"},
		{"asc with spaces", "  asc  ", "ASC"},
		{"desc", "desc", "DESC"},
		{"empty defaults to desc", "", "DESC"},
		{"garbage defaults to desc", "ascending; DROP TABLE orders", "DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	t.Run("allows whitelisted field", func(t *testing.T) {
		assert.Equal(t, "order_number", ValidateSortField("order_number", OrderSortFields, "created_at"))
	})

	t.Run("rejects unknown field", func(t *testing.T) {
		assert.Equal(t, "created_at", ValidateSortField("order_number; --", OrderSortFields, "created_at"))
	})

	t.Run("empty input returns default", func(t *testing.T) {
		assert.Equal(t, "created_at", ValidateSortField("", OrderSortFields, "created_at"))
	})

	t.Run("fulfillment fields", func(t *testing.T) {
		assert.Equal(t, "fulfillment_number", ValidateSortField("fulfillment_number", FulfillmentSortFields, "created_at"))
	})
}

func TestNextSequenceNumber(t *testing.T) {
	assert.Equal(t, int64(1), nextSequenceNumber(""))
	assert.Equal(t, int64(1), nextSequenceNumber("garbage"))
	assert.Equal(t, int64(2), nextSequenceNumber("SO-2026-00001"))
	assert.Equal(t, int64(100), nextSequenceNumber("FF-2026-00099"))
}
