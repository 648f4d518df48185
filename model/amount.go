package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a signed decimal quantity with a currency code. The sign encodes
// the direction: debit amounts are stored negated.
type Amount struct {
	Amount   decimal.Decimal
	Currency string
}

// NewAmount parses a textual amount. Comma decimal separators are normalized
// to dots. A status of "D" negates the value, "C" keeps it as written.
func NewAmount(amount, status, currency string) (Amount, error) {
	value, err := decimal.NewFromString(strings.ReplaceAll(amount, ",", "."))
	if err != nil {
		return Amount{}, fmt.Errorf("parsing amount %q: %w", amount, err)
	}
	if status == "D" {
		value = value.Neg()
	}
	return Amount{Amount: value, Currency: currency}, nil
}

// Equal compares value and currency only.
func (a Amount) Equal(other Amount) bool {
	return a.Amount.Equal(other.Amount) && a.Currency == other.Currency
}

func (a Amount) String() string {
	return fmt.Sprintf("%s %s", a.Amount, a.Currency)
}

// MarshalJSON renders the amount as {"amount": "...", "currency": "..."}.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{
		"amount":   a.Amount.String(),
		"currency": a.Currency,
	})
}

// SumAmount is an aggregate amount carrying the number of statement entries
// that contributed to it.
type SumAmount struct {
	Amount
	Number int
}

// NewSumAmount parses an aggregate debit or credit total.
func NewSumAmount(amount, status, currency, number string) (SumAmount, error) {
	a, err := NewAmount(amount, status, currency)
	if err != nil {
		return SumAmount{}, err
	}
	n := 0
	if number != "" {
		n, err = strconv.Atoi(number)
		if err != nil {
			return SumAmount{}, fmt.Errorf("parsing entry count %q: %w", number, err)
		}
	}
	return SumAmount{Amount: a, Number: n}, nil
}

func (s SumAmount) String() string {
	return fmt.Sprintf("%s %s in %d entries", s.Amount.Amount, s.Currency, s.Number)
}

// MarshalJSON adds the entry count to the amount rendering.
func (s SumAmount) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"amount":   s.Amount.Amount.String(),
		"currency": s.Currency,
		"number":   s.Number,
	})
}
