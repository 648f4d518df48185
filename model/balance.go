package model

import (
	"encoding/json"
	"fmt"
)

// Balance is a dated account balance. Equality deliberately ignores the
// date: two balances match when their financial value and direction match.
type Balance struct {
	Status string
	Amount *Amount
	Date   *Date
}

// NewBalance builds a Balance from raw field strings.
func NewBalance(status, amount, currency string, date Date) (Balance, error) {
	a, err := NewAmount(amount, status, currency)
	if err != nil {
		return Balance{}, err
	}
	return Balance{Status: status, Amount: &a, Date: &date}, nil
}

// Equal compares amount and status only, never the date.
func (b Balance) Equal(other Balance) bool {
	if b.Status != other.Status {
		return false
	}
	if b.Amount == nil || other.Amount == nil {
		return b.Amount == other.Amount
	}
	return b.Amount.Equal(*other.Amount)
}

func (b Balance) String() string {
	amount := "none"
	if b.Amount != nil {
		amount = b.Amount.String()
	}
	date := "none"
	if b.Date != nil {
		date = b.Date.String()
	}
	return fmt.Sprintf("%s @ %s", amount, date)
}

// MarshalJSON renders status, amount and date as a nested mapping.
func (b Balance) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"status": b.Status,
		"amount": b.Amount,
		"date":   b.Date,
	})
}
