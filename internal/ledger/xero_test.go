package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func xeroIDs() RoutingIDs {
	return RoutingIDs{ContactID: "C-55"}
}

func TestTranslateXero(t *testing.T) {
	payload, err := TranslateXero(sampleInvoice(), xeroIDs(), DefaultProviderDefaults())

	require.NoError(t, err)
	assert.Equal(t, "ACCPAY", payload.Type)
	assert.Equal(t, "C-55", payload.Contact.ContactID)
	assert.Equal(t, "INV-1001", payload.InvoiceNumber)
	assert.Equal(t, "2024-03-01", payload.Date)
	assert.Equal(t, "2024-03-31", payload.DueDate)
	assert.Equal(t, "USD", payload.CurrencyCode)
	assert.Equal(t, "Invoice INV-1001", payload.Reference)
	assert.Equal(t, 1050.0, payload.SubTotal)
	assert.Equal(t, 1200.0, payload.Total)
}

func TestTranslateXero_TaxInDedicatedField(t *testing.T) {
	inv := sampleInvoice()
	payload, err := TranslateXero(inv, xeroIDs(), DefaultProviderDefaults())
	require.NoError(t, err)

	assert.Equal(t, 150.0, payload.TotalTax)
	assert.Len(t, payload.LineItems, len(inv.LineItems), "tax must never appear as a synthetic line")
}

func TestTranslateXero_NoTaxOmitsField(t *testing.T) {
	inv := sampleInvoice()
	inv.Tax = nil
	inv.Total = 1050

	payload, err := TranslateXero(inv, xeroIDs(), DefaultProviderDefaults())
	require.NoError(t, err)

	assertNoJSONKey(t, payload, "TotalTax")
}

func TestTranslateXero_LineDefaults(t *testing.T) {
	payload, err := TranslateXero(sampleInvoice(), xeroIDs(), DefaultProviderDefaults())
	require.NoError(t, err)

	// Stated quantity and unit price pass through.
	assert.Equal(t, 10.0, payload.LineItems[0].Quantity)
	assert.Equal(t, 100.0, payload.LineItems[0].UnitAmount)

	// Missing quantity defaults to 1; missing unit price to the line total.
	assert.Equal(t, 1.0, payload.LineItems[1].Quantity)
	assert.Equal(t, 50.0, payload.LineItems[1].UnitAmount)

	for _, line := range payload.LineItems {
		assert.Equal(t, "400", line.AccountCode)
	}
}

func TestTranslateXero_MissingContactID(t *testing.T) {
	_, err := TranslateXero(sampleInvoice(), RoutingIDs{}, DefaultProviderDefaults())

	var translationErr *TranslationError
	require.ErrorAs(t, err, &translationErr)
	assert.Equal(t, TargetXero, translationErr.Target)
	assert.Contains(t, translationErr.Reason, "contact id")
}

func TestTranslateXero_DueDateOmittedWhenAbsent(t *testing.T) {
	inv := sampleInvoice()
	inv.DueDate = ""

	payload, err := TranslateXero(inv, xeroIDs(), DefaultProviderDefaults())
	require.NoError(t, err)

	assertNoJSONKey(t, payload, "DueDate")
}
