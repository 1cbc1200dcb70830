package ledger

import (
	"fmt"

	"github.com/ledgerpipe/ledgerpipe/internal/models"
)

const waveMemoTemplate = "Imported from invoice: %s"

// WaveItem is a single bill item. Money fields are fixed-point strings
// with two decimal places. The synthetic tax item carries the taxCode
// marker; regular items do not.
type WaveItem struct {
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	UnitPrice   string `json:"unitPrice"`
	Total       string `json:"total"`
	AccountID   string `json:"accountId,omitempty"`
	TaxCode     string `json:"taxCode,omitempty"`
}

// WaveBill is the Wave-shaped bill payload. DueDate is an optional field:
// when the invoice has none, the key is absent from the payload entirely.
type WaveBill struct {
	BusinessID string     `json:"businessId"`
	VendorID   string     `json:"vendorId"`
	BillNumber string     `json:"billNumber"`
	BillDate   string     `json:"billDate"`
	DueDate    string     `json:"dueDate,omitempty"`
	Currency   string     `json:"currency"`
	Memo       string     `json:"memo"`
	Items      []WaveItem `json:"items"`
	Subtotal   string     `json:"subtotal"`
	Total      string     `json:"total"`
}

// Ledger implements Payload.
func (w *WaveBill) Ledger() Target { return TargetWave }

// TranslateWave maps the canonical invoice onto a Wave bill. A positive
// tax becomes an extra "Tax" item carrying the tax-code marker.
func TranslateWave(inv models.Invoice, ids RoutingIDs, defaults Defaults) (*WaveBill, error) {
	if ids.BusinessID == "" {
		return nil, &TranslationError{Target: TargetWave, Reason: "business id is required"}
	}
	if ids.VendorID == "" {
		return nil, &TranslationError{Target: TargetWave, Reason: "vendor id is required"}
	}

	items := make([]WaveItem, 0, len(inv.LineItems)+1)
	for _, item := range inv.LineItems {
		items = append(items, WaveItem{
			Description: item.Description,
			Quantity:    money(item.EffectiveQuantity()),
			UnitPrice:   money(item.EffectiveUnitPrice()),
			Total:       money(item.Total),
			AccountID:   defaults.WaveExpenseAccount,
		})
	}

	if inv.HasTax() {
		items = append(items, WaveItem{
			Description: "Tax",
			Quantity:    money(1),
			UnitPrice:   money(*inv.Tax),
			Total:       money(*inv.Tax),
			AccountID:   defaults.WaveExpenseAccount,
			TaxCode:     "TAX",
		})
	}

	bill := &WaveBill{
		BusinessID: ids.BusinessID,
		VendorID:   ids.VendorID,
		BillNumber: inv.InvoiceNumber,
		BillDate:   inv.InvoiceDate,
		DueDate:    inv.DueDate,
		Currency:   inv.Currency,
		Memo:       fmt.Sprintf(waveMemoTemplate, inv.InvoiceNumber),
		Items:      items,
		Subtotal:   money(inv.Subtotal),
		Total:      money(inv.Total),
	}

	if err := bill.validate(); err != nil {
		return nil, err
	}
	return bill, nil
}

// validate checks the payload against the fixed Wave bill shape.
func (w *WaveBill) validate() error {
	if w.BillDate == "" {
		return &TranslationError{Target: TargetWave, Reason: "bill date is missing"}
	}
	if w.Currency == "" {
		return &TranslationError{Target: TargetWave, Reason: "currency is missing"}
	}
	for i, item := range w.Items {
		if item.Total == "" || item.UnitPrice == "" {
			return &TranslationError{
				Target: TargetWave,
				Reason: fmt.Sprintf("item %d has unrendered amounts", i),
			}
		}
	}
	return nil
}
