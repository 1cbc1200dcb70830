package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freshBooksIDs() RoutingIDs {
	return RoutingIDs{VendorID: "V-77"}
}

func TestTranslateFreshBooks(t *testing.T) {
	payload, err := TranslateFreshBooks(sampleInvoice(), freshBooksIDs())

	require.NoError(t, err)
	assert.Equal(t, "V-77", payload.VendorID)
	assert.Equal(t, "2024-03-01", payload.IssueDate)
	assert.Equal(t, "INV-1001", payload.BillNumber)
	assert.Equal(t, "USD", payload.CurrencyCode)
	assert.Equal(t, "Imported from invoice: INV-1001", payload.Notes)
	assert.Equal(t, FreshBooksAmount{Amount: "1200.00", Code: "USD"}, payload.Amount)
}

func TestTranslateFreshBooks_MoneyObjects(t *testing.T) {
	payload, err := TranslateFreshBooks(sampleInvoice(), freshBooksIDs())
	require.NoError(t, err)

	require.Len(t, payload.Lines, 2)
	assert.Equal(t, FreshBooksAmount{Amount: "100.00", Code: "USD"}, payload.Lines[0].UnitCost)
	assert.Equal(t, FreshBooksAmount{Amount: "1000.00", Code: "USD"}, payload.Lines[0].Amount)

	// Missing unit price falls back to the line total.
	assert.Equal(t, FreshBooksAmount{Amount: "50.00", Code: "USD"}, payload.Lines[1].UnitCost)
	assert.Equal(t, "1.00", payload.Lines[1].Quantity)
}

func TestTranslateFreshBooks_DedicatedTaxField(t *testing.T) {
	inv := sampleInvoice()
	payload, err := TranslateFreshBooks(inv, freshBooksIDs())
	require.NoError(t, err)

	require.NotNil(t, payload.TaxAmount)
	assert.Equal(t, FreshBooksAmount{Amount: "150.00", Code: "USD"}, *payload.TaxAmount)
	assert.Len(t, payload.Lines, len(inv.LineItems), "tax must never appear as a synthetic line")
}

func TestTranslateFreshBooks_NoTaxOmitsField(t *testing.T) {
	inv := sampleInvoice()
	inv.Tax = nil
	inv.Total = 1050

	payload, err := TranslateFreshBooks(inv, freshBooksIDs())
	require.NoError(t, err)

	assert.Nil(t, payload.TaxAmount)
	assertNoJSONKey(t, payload, "tax_amount")
}

func TestTranslateFreshBooks_MissingVendorID(t *testing.T) {
	_, err := TranslateFreshBooks(sampleInvoice(), RoutingIDs{})

	var translationErr *TranslationError
	require.ErrorAs(t, err, &translationErr)
	assert.Equal(t, TargetFreshBooks, translationErr.Target)
	assert.Contains(t, translationErr.Reason, "vendor id")
}

func TestTranslateFreshBooks_IgnoresDueDate(t *testing.T) {
	// The FreshBooks shape is date-only: the due date has no field to land
	// in, with or without a value.
	inv := sampleInvoice()
	payload, err := TranslateFreshBooks(inv, freshBooksIDs())
	require.NoError(t, err)
	assertNoJSONKey(t, payload, "due_date")

	inv.DueDate = ""
	payload, err = TranslateFreshBooks(inv, freshBooksIDs())
	require.NoError(t, err)
	assertNoJSONKey(t, payload, "due_date")
}
