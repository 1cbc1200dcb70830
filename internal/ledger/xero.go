package ledger

import (
	"fmt"

	"github.com/ledgerpipe/ledgerpipe/internal/models"
)

const xeroReferenceTemplate = "Invoice %s"

// XeroContact addresses the supplier record in Xero.
type XeroContact struct {
	ContactID string `json:"ContactID"`
}

// XeroLineItem is a single accounts-payable invoice line. Money fields are
// native numbers.
type XeroLineItem struct {
	Description string  `json:"Description"`
	Quantity    float64 `json:"Quantity"`
	UnitAmount  float64 `json:"UnitAmount"`
	LineAmount  float64 `json:"LineAmount"`
	AccountCode string  `json:"AccountCode"`
}

// XeroInvoice is the Xero-shaped accounts-payable invoice payload. Tax is
// carried in the dedicated TotalTax field, never as a synthetic line.
type XeroInvoice struct {
	Type            string         `json:"Type"`
	Contact         XeroContact    `json:"Contact"`
	InvoiceNumber   string         `json:"InvoiceNumber"`
	Date            string         `json:"Date"`
	DueDate         string         `json:"DueDate,omitempty"`
	CurrencyCode    string         `json:"CurrencyCode"`
	LineAmountTypes string         `json:"LineAmountTypes"`
	Reference       string         `json:"Reference"`
	LineItems       []XeroLineItem `json:"LineItems"`
	SubTotal        float64        `json:"SubTotal"`
	TotalTax        float64        `json:"TotalTax,omitempty"`
	Total           float64        `json:"Total"`
}

// Ledger implements Payload.
func (x *XeroInvoice) Ledger() Target { return TargetXero }

// TranslateXero maps the canonical invoice onto a Xero ACCPAY invoice.
func TranslateXero(inv models.Invoice, ids RoutingIDs, defaults Defaults) (*XeroInvoice, error) {
	if ids.ContactID == "" {
		return nil, &TranslationError{Target: TargetXero, Reason: "contact id is required"}
	}

	lines := make([]XeroLineItem, 0, len(inv.LineItems))
	for _, item := range inv.LineItems {
		lines = append(lines, XeroLineItem{
			Description: item.Description,
			Quantity:    item.EffectiveQuantity(),
			UnitAmount:  item.EffectiveUnitPrice(),
			LineAmount:  item.Total,
			AccountCode: defaults.XeroAccountCode,
		})
	}

	payload := &XeroInvoice{
		Type:            "ACCPAY",
		Contact:         XeroContact{ContactID: ids.ContactID},
		InvoiceNumber:   inv.InvoiceNumber,
		Date:            inv.InvoiceDate,
		DueDate:         inv.DueDate,
		CurrencyCode:    inv.Currency,
		LineAmountTypes: "Exclusive",
		Reference:       fmt.Sprintf(xeroReferenceTemplate, inv.InvoiceNumber),
		LineItems:       lines,
		SubTotal:        inv.Subtotal,
		Total:           inv.Total,
	}
	if inv.HasTax() {
		payload.TotalTax = *inv.Tax
	}

	if err := payload.validate(); err != nil {
		return nil, err
	}
	return payload, nil
}

// validate checks the payload against the fixed Xero invoice shape.
func (x *XeroInvoice) validate() error {
	if x.Type != "ACCPAY" {
		return &TranslationError{Target: TargetXero, Reason: fmt.Sprintf("unexpected invoice type %q", x.Type)}
	}
	if x.Date == "" {
		return &TranslationError{Target: TargetXero, Reason: "invoice date is missing"}
	}
	if x.CurrencyCode == "" {
		return &TranslationError{Target: TargetXero, Reason: "currency code is missing"}
	}
	for i, line := range x.LineItems {
		if line.AccountCode == "" {
			return &TranslationError{
				Target: TargetXero,
				Reason: fmt.Sprintf("line %d has no account code", i),
			}
		}
	}
	return nil
}
