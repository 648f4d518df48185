package tag

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolph/mt940/model"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

// run parses a tag value and feeds the fields through the tag's transform.
func run(t *testing.T, tg *Tag, value string) map[string]any {
	t.Helper()
	fields, err := tg.Parse(value)
	require.NoError(t, err)
	result, err := tg.Transform(model.NewTransactions(), fields)
	require.NoError(t, err)
	return result
}

func TestDateTimeIndication(t *testing.T) {
	result := run(t, DateTimeIndication(), "1602011337+0100")

	dt, ok := result["date"].(model.DateTime)
	require.True(t, ok)
	assert.Equal(t, "2016-02-01 13:37:00", dt.String())

	_, offset := dt.Zone()
	assert.Equal(t, 100*60, offset)
}

func TestTransactionReferenceNumber(t *testing.T) {
	result := run(t, TransactionReferenceNumber(), "0000000000001111")
	assert.Equal(t, "0000000000001111", result["transaction_reference"])
}

func TestAccountIdentification(t *testing.T) {
	result := run(t, AccountIdentification(), "NL69INGB0123456789")
	assert.Equal(t, "NL69INGB0123456789", result["account_identification"])
}

func TestStatementNumber(t *testing.T) {
	result := run(t, StatementNumber(), "31/1")
	assert.Equal(t, "31", result["statement_number"])
	assert.Equal(t, "1", result["sequence_number"])
}

func TestFloorLimitIndicator(t *testing.T) {
	t.Run("explicit debit", func(t *testing.T) {
		result := run(t, FloorLimitIndicator(), "EURD5,00")

		limit, ok := result["d_floor_limit"].(model.Amount)
		require.True(t, ok)
		assert.True(t, limit.Amount.Equal(dec("-5")))
		assert.Equal(t, "EUR", limit.Currency)
		assert.NotContains(t, result, "c_floor_limit")
	})

	t.Run("no direction limits both", func(t *testing.T) {
		result := run(t, FloorLimitIndicator(), "EUR5,00")

		debit, ok := result["d_floor_limit"].(model.Amount)
		require.True(t, ok)
		credit, ok := result["c_floor_limit"].(model.Amount)
		require.True(t, ok)
		assert.True(t, debit.Amount.Equal(dec("-5")))
		assert.True(t, credit.Amount.Equal(dec("5")))
	})

	t.Run("space counts as no direction", func(t *testing.T) {
		result := run(t, FloorLimitIndicator(), "EUR 5,00")
		assert.Contains(t, result, "d_floor_limit")
		assert.Contains(t, result, "c_floor_limit")
	})
}

func TestBalanceTag(t *testing.T) {
	result := run(t, FinalOpeningBalance(), "C090406EUR100,00")

	balance, ok := result["final_opening_balance"].(model.Balance)
	require.True(t, ok)
	assert.Equal(t, "C", balance.Status)
	require.NotNil(t, balance.Amount)
	assert.True(t, balance.Amount.Amount.Equal(dec("100")))
	assert.Equal(t, "EUR", balance.Amount.Currency)
	require.NotNil(t, balance.Date)
	assert.Equal(t, "2009-04-06", balance.Date.String())
}

func TestBalanceTagDebit(t *testing.T) {
	result := run(t, ClosingBalance(), "D160229EUR15,67")

	balance := result["closing_balance"].(model.Balance)
	assert.True(t, balance.Amount.Amount.Equal(dec("-15.67")))
}

func TestNonSwiftStructured(t *testing.T) {
	result := run(t, NonSwift(), "22MORE INFORMATION\n23MORE INFO")

	assert.Equal(t, "MORE INFORMATION", result["non_swift_22"])
	assert.Equal(t, "MORE INFO", result["non_swift_23"])
	assert.Equal(t, "MORE INFORMATION\nMORE INFO", result["non_swift_text"])
}

func TestNonSwiftFreeForm(t *testing.T) {
	result := run(t, NonSwift(), "Some free form text")
	assert.Equal(t, "Some free form text", result["non_swift_text"])
	assert.Equal(t, "Some free form text", result["non_swift"])
}

func TestTransactionDetailsCapture(t *testing.T) {
	result := run(t, TransactionDetails(), "NL69INGB0123456789 hr gjlm paulissen\nbetaling van rekening")
	assert.Equal(t,
		"NL69INGB0123456789 hr gjlm paulissen\nbetaling van rekening",
		result["transaction_details"])
}

func TestSumEntries(t *testing.T) {
	result := run(t, SumDebitEntries(), "4EUR5782,63")

	sum, ok := result["sum_debit_entries"].(model.SumAmount)
	require.True(t, ok)
	assert.Equal(t, 4, sum.Number)
	assert.True(t, sum.Amount.Amount.Equal(dec("-5782.63")))

	result = run(t, SumCreditEntries(), "1EUR100,00")
	credit := result["sum_credit_entries"].(model.SumAmount)
	assert.True(t, credit.Amount.Amount.Equal(dec("100")))
}

func TestSumEntriesWithoutDirection(t *testing.T) {
	tg := SumEntries()
	fields, err := tg.Parse("4EUR5782,63")
	require.NoError(t, err)

	_, err = tg.Transform(model.NewTransactions(), fields)
	assert.Error(t, err)
}
