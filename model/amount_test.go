package model

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestNewAmount(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		status   string
		currency string
		want     string
	}{
		{"credit stays positive", "100,50", "C", "EUR", "100.5"},
		{"debit negates", "100,50", "D", "EUR", "-100.5"},
		{"dot separator accepted", "12.34", "C", "USD", "12.34"},
		{"reversal debit stays positive", "5,00", "RD", "EUR", "5"},
		{"reversal credit stays positive", "5,00", "RC", "EUR", "5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewAmount(tt.amount, tt.status, tt.currency)
			require.NoError(t, err)
			assert.True(t, a.Amount.Equal(dec(tt.want)), "got %s, want %s", a.Amount, tt.want)
			assert.Equal(t, tt.currency, a.Currency)
		})
	}
}

func TestNewAmountInvalid(t *testing.T) {
	_, err := NewAmount("not-a-number", "C", "EUR")
	assert.Error(t, err)
}

func TestAmountEqual(t *testing.T) {
	a, err := NewAmount("1,00", "C", "EUR")
	require.NoError(t, err)
	b, err := NewAmount("1.00", "C", "EUR")
	require.NoError(t, err)
	c, err := NewAmount("1,00", "C", "USD")
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c), "currency must match")
}

func TestAmountJSON(t *testing.T) {
	a, err := NewAmount("123,45", "D", "EUR")
	require.NoError(t, err)

	raw, err := json.Marshal(a)
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount": "-123.45", "currency": "EUR"}`, string(raw))
}

func TestNewSumAmount(t *testing.T) {
	s, err := NewSumAmount("500,00", "D", "EUR", "20")
	require.NoError(t, err)
	assert.True(t, s.Amount.Amount.Equal(dec("-500")))
	assert.Equal(t, 20, s.Number)
	assert.Equal(t, "-500 EUR in 20 entries", s.String())
}

func TestNewSumAmountEmptyNumber(t *testing.T) {
	s, err := NewSumAmount("1,00", "C", "EUR", "")
	require.NoError(t, err)
	assert.Equal(t, 0, s.Number)
}
