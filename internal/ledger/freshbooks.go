package ledger

import (
	"fmt"

	"github.com/ledgerpipe/ledgerpipe/internal/models"
)

const freshBooksNotesTemplate = "Imported from invoice: %s"

// FreshBooksAmount is FreshBooks' money object: a fixed-point string with
// two decimal places plus the currency code.
type FreshBooksAmount struct {
	Amount string `json:"amount"`
	Code   string `json:"code"`
}

// FreshBooksLine is a single bill line.
type FreshBooksLine struct {
	Description string           `json:"description"`
	Quantity    string           `json:"qty"`
	UnitCost    FreshBooksAmount `json:"unit_cost"`
	Amount      FreshBooksAmount `json:"amount"`
}

// FreshBooksBill is the FreshBooks-shaped bill payload. The issue date is
// date-only and always present; there is no due-date field in this shape.
// Tax is carried in the dedicated tax_amount field, emitted only when the
// invoice has a positive tax.
type FreshBooksBill struct {
	VendorID     string            `json:"vendorid"`
	IssueDate    string            `json:"issue_date"`
	BillNumber   string            `json:"bill_number"`
	CurrencyCode string            `json:"currency_code"`
	Notes        string            `json:"notes"`
	Lines        []FreshBooksLine  `json:"lines"`
	TaxAmount    *FreshBooksAmount `json:"tax_amount,omitempty"`
	Amount       FreshBooksAmount  `json:"amount"`
}

// Ledger implements Payload.
func (f *FreshBooksBill) Ledger() Target { return TargetFreshBooks }

// TranslateFreshBooks maps the canonical invoice onto a FreshBooks bill.
func TranslateFreshBooks(inv models.Invoice, ids RoutingIDs) (*FreshBooksBill, error) {
	if ids.VendorID == "" {
		return nil, &TranslationError{Target: TargetFreshBooks, Reason: "vendor id is required"}
	}

	lines := make([]FreshBooksLine, 0, len(inv.LineItems))
	for _, item := range inv.LineItems {
		lines = append(lines, FreshBooksLine{
			Description: item.Description,
			Quantity:    money(item.EffectiveQuantity()),
			UnitCost:    FreshBooksAmount{Amount: money(item.EffectiveUnitPrice()), Code: inv.Currency},
			Amount:      FreshBooksAmount{Amount: money(item.Total), Code: inv.Currency},
		})
	}

	bill := &FreshBooksBill{
		VendorID:     ids.VendorID,
		IssueDate:    inv.InvoiceDate,
		BillNumber:   inv.InvoiceNumber,
		CurrencyCode: inv.Currency,
		Notes:        fmt.Sprintf(freshBooksNotesTemplate, inv.InvoiceNumber),
		Lines:        lines,
		Amount:       FreshBooksAmount{Amount: money(inv.Total), Code: inv.Currency},
	}
	if inv.HasTax() {
		bill.TaxAmount = &FreshBooksAmount{Amount: money(*inv.Tax), Code: inv.Currency}
	}

	if err := bill.validate(); err != nil {
		return nil, err
	}
	return bill, nil
}

// validate checks the payload against the fixed FreshBooks bill shape.
func (f *FreshBooksBill) validate() error {
	if f.IssueDate == "" {
		return &TranslationError{Target: TargetFreshBooks, Reason: "issue date is missing"}
	}
	if f.CurrencyCode == "" {
		return &TranslationError{Target: TargetFreshBooks, Reason: "currency code is missing"}
	}
	if f.Amount.Amount == "" {
		return &TranslationError{Target: TargetFreshBooks, Reason: "total amount is unrendered"}
	}
	for i, line := range f.Lines {
		if line.Amount.Code != f.CurrencyCode {
			return &TranslationError{
				Target: TargetFreshBooks,
				Reason: fmt.Sprintf("line %d currency %q does not match bill currency", i, line.Amount.Code),
			}
		}
	}
	return nil
}
