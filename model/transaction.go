package model

import (
	"encoding/json"
	"strings"
)

// Transaction is a single statement entry. Its data mapping has no fixed
// schema: tags and processors add keys as they are folded in, and absent
// optional fields are stored as nil.
type Transaction struct {
	parent *Transactions

	Data map[string]any
}

// NewTransaction creates a Transaction belonging to parent, seeded with data.
func NewTransaction(parent *Transactions, data map[string]any) *Transaction {
	t := &Transaction{parent: parent, Data: make(map[string]any)}
	t.Update(data)
	return t
}

// Transactions returns the owning collection.
func (t *Transaction) Transactions() *Transactions {
	return t.parent
}

// Update overwrites transaction data with the provided mapping.
func (t *Transaction) Update(data map[string]any) {
	for k, v := range data {
		t.Data[k] = v
	}
}

// Merge folds data into the transaction. When a key already holds a string
// and the new value is a string, the values are joined with a newline; banks
// emit multiple detail tags per transaction and both halves must survive.
func (t *Transaction) Merge(data map[string]any) {
	for k, v := range data {
		s, isString := v.(string)
		existing, seen := t.Data[k]
		if !seen || !isString {
			t.Data[k] = v
			continue
		}
		switch prev := existing.(type) {
		case nil:
			t.Data[k] = strings.TrimSpace(s)
		case string:
			t.Data[k] = prev + "\n" + strings.TrimSpace(s)
		default:
			t.Data[k] = v
		}
	}
}

// MarshalJSON renders the open-ended data mapping.
func (t *Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Data)
}

// currencyKeys is the fixed priority order used to derive the collection
// currency from balance-bearing data keys.
var currencyKeys = []string{
	"final_opening_balance",
	"opening_balance",
	"intermediate_opening_balance",
	"available_balance",
	"forward_available_balance",
	"final_closing_balance",
	"closing_balance",
	"intermediate_closing_balance",
	"c_floor_limit",
	"d_floor_limit",
}

// Transactions is the parse result: an ordered sequence of Transaction plus
// collection-level data such as balances and account identification.
type Transactions struct {
	Transactions []*Transaction

	Data map[string]any
}

// NewTransactions creates an empty collection.
func NewTransactions() *Transactions {
	return &Transactions{Data: make(map[string]any)}
}

// Len returns the number of transactions.
func (t *Transactions) Len() int {
	return len(t.Transactions)
}

// Last returns the most recently started transaction, or nil.
func (t *Transactions) Last() *Transaction {
	if len(t.Transactions) == 0 {
		return nil
	}
	return t.Transactions[len(t.Transactions)-1]
}

// Append adds a transaction to the end of the collection.
func (t *Transactions) Append(tx *Transaction) {
	t.Transactions = append(t.Transactions, tx)
}

// Currency derives the collection currency by coalescing balance-bearing
// data keys in a fixed priority order. It is never stored directly.
func (t *Transactions) Currency() string {
	for _, key := range currencyKeys {
		switch v := t.Data[key].(type) {
		case Balance:
			if v.Amount != nil {
				return v.Amount.Currency
			}
		case *Balance:
			if v != nil && v.Amount != nil {
				return v.Amount.Currency
			}
		case Amount:
			return v.Currency
		case SumAmount:
			return v.Currency
		}
	}
	return ""
}

// MarshalJSON renders the collection data with the transaction list inlined
// under a "transactions" key.
func (t *Transactions) MarshalJSON() ([]byte, error) {
	data := make(map[string]any, len(t.Data)+1)
	for k, v := range t.Data {
		data[k] = v
	}
	txns := t.Transactions
	if txns == nil {
		txns = []*Transaction{}
	}
	data["transactions"] = txns
	return json.Marshal(data)
}
