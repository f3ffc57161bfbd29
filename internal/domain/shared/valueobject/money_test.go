package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	m := NewMoney(decimal.NewFromFloat(100.50))
	assert.True(t, m.Amount().Equal(decimal.NewFromFloat(100.50)))
}

func TestNewMoneyFromString(t *testing.T) {
	t.Run("valid string", func(t *testing.T) {
		m, err := NewMoneyFromString("123.45")
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(123.45)))
	})

	t.Run("invalid string", func(t *testing.T) {
		_, err := NewMoneyFromString("not-a-number")
		assert.Error(t, err)
	})
}

func TestMoneyArithmetic(t *testing.T) {
	a := NewMoneyFromFloat(10.50)
	b := NewMoneyFromFloat(4.25)

	t.Run("add", func(t *testing.T) {
		assert.Equal(t, "14.75", a.Add(b).String())
	})

	t.Run("subtract", func(t *testing.T) {
		assert.Equal(t, "6.25", a.Subtract(b).String())
	})

	t.Run("subtract below zero", func(t *testing.T) {
		result := b.Subtract(a)
		assert.True(t, result.IsNegative())
	})

	t.Run("multiply by int", func(t *testing.T) {
		assert.Equal(t, "31.50", a.MultiplyByInt(3).String())
	})

	t.Run("percentage", func(t *testing.T) {
		base := NewMoneyFromFloat(200)
		assert.Equal(t, "20.00", base.Percentage(decimal.NewFromInt(10)).String())
	})
}

func TestMoneyRoundHalfUp(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		expected string
	}{
		{"rounds half up", "10.005", "10.01"},
		{"rounds down below half", "10.004", "10.00"},
		{"no-op on two places", "10.25", "10.25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMoneyFromString(tt.amount)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, m.RoundHalfUp(2).String())
		})
	}
}

func TestMoneyComparison(t *testing.T) {
	a := NewMoneyFromFloat(10)
	b := NewMoneyFromFloat(10)
	c := NewMoneyFromFloat(20)

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
	assert.True(t, c.GreaterThan(a))
	assert.False(t, a.GreaterThan(c))
	assert.True(t, ZeroMoney().IsZero())
}

func TestMoneyJSON(t *testing.T) {
	m := NewMoneyFromFloat(99.99)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `"99.99"`, string(data))

	var decoded Money
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, m.Equals(decoded))
}

func TestMoneyScan(t *testing.T) {
	t.Run("scans string", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan("12.34"))
		assert.Equal(t, "12.34", m.String())
	})

	t.Run("scans bytes", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan([]byte("56.78")))
		assert.Equal(t, "56.78", m.String())
	})

	t.Run("nil becomes zero", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan(nil))
		assert.True(t, m.IsZero())
	})

	t.Run("rejects unsupported type", func(t *testing.T) {
		var m Money
		assert.Error(t, m.Scan(42))
	})
}
