// Package export renders parsed statement collections into flat formats
// for spreadsheet and reconciliation tooling.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/wolph/mt940/model"
)

// Header is the CSV header for exported transactions.
const Header = "date,entry_date,amount,currency,status,type,customer_reference,bank_reference,purpose,extra_details"

const (
	numFields   = 10
	colDate     = 0
	colEntry    = 1
	colAmount   = 2
	colCurrency = 3
	colStatus   = 4
	colType     = 5
	colCustRef  = 6
	colBankRef  = 7
	colPurpose  = 8
	colExtra    = 9
)

// WriteTransactions writes the collection's transactions as CSV rows,
// including the header.
func WriteTransactions(w io.Writer, trans *model.Transactions) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, tx := range trans.Transactions {
		if err := cw.Write(MarshalTransaction(tx)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalTransaction converts a Transaction to a CSV row. Absent fields
// render as empty cells; the data mapping has no fixed schema.
func MarshalTransaction(tx *model.Transaction) []string {
	row := make([]string, numFields)

	if date, ok := tx.Data["date"].(model.Date); ok {
		row[colDate] = date.String()
	}
	if entry, ok := tx.Data["guessed_entry_date"].(model.Date); ok {
		row[colEntry] = entry.String()
	}
	if amount, ok := tx.Data["amount"].(model.Amount); ok {
		row[colAmount] = amount.Amount.String()
		row[colCurrency] = amount.Currency
	}

	row[colStatus] = stringField(tx.Data, "status")
	row[colType] = stringField(tx.Data, "id")
	row[colCustRef] = stringField(tx.Data, "customer_reference")
	row[colBankRef] = stringField(tx.Data, "bank_reference")
	row[colPurpose] = stringField(tx.Data, "purpose")
	row[colExtra] = stringField(tx.Data, "extra_details")

	return row
}

func stringField(data map[string]any, key string) string {
	s, _ := data[key].(string)
	return s
}
