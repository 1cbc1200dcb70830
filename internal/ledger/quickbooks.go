package ledger

import (
	"fmt"
	"strconv"

	"github.com/ledgerpipe/ledgerpipe/internal/models"
)

const quickBooksMemoTemplate = "Invoice: %s"

// QuickBooksRef is a QuickBooks entity reference.
type QuickBooksRef struct {
	Value string `json:"value"`
}

// QuickBooksExpenseDetail is the account-based expense detail attached to
// every bill line.
type QuickBooksExpenseDetail struct {
	AccountRef QuickBooksRef  `json:"AccountRef"`
	TaxCodeRef *QuickBooksRef `json:"TaxCodeRef,omitempty"`
}

// QuickBooksLine is a single bill line. Ids are assigned sequentially as
// strings ("1", "2", ...) across all emitted lines.
type QuickBooksLine struct {
	ID          string                  `json:"Id"`
	DetailType  string                  `json:"DetailType"`
	Amount      float64                 `json:"Amount"`
	Description string                  `json:"Description"`
	Detail      QuickBooksExpenseDetail `json:"AccountBasedExpenseLineDetail"`
}

// QuickBooksBill is the QuickBooks-shaped bill payload. Money fields are
// native numbers.
type QuickBooksBill struct {
	VendorRef   QuickBooksRef    `json:"VendorRef"`
	TxnDate     string           `json:"TxnDate"`
	DueDate     string           `json:"DueDate,omitempty"`
	CurrencyRef QuickBooksRef    `json:"CurrencyRef"`
	DocNumber   string           `json:"DocNumber"`
	PrivateNote string           `json:"PrivateNote"`
	TotalAmt    float64          `json:"TotalAmt"`
	Line        []QuickBooksLine `json:"Line"`
}

// Ledger implements Payload.
func (b *QuickBooksBill) Ledger() Target { return TargetQuickBooks }

// TranslateQuickBooks maps the canonical invoice onto a QuickBooks bill.
// A positive tax is represented as an extra line with description "Tax"
// and the configured tax-code marker; it always receives the final
// sequential line id.
func TranslateQuickBooks(inv models.Invoice, ids RoutingIDs, defaults Defaults) (*QuickBooksBill, error) {
	if ids.VendorID == "" {
		return nil, &TranslationError{Target: TargetQuickBooks, Reason: "vendor id is required"}
	}
	if ids.AccountID == "" {
		return nil, &TranslationError{Target: TargetQuickBooks, Reason: "expense account id is required"}
	}

	lines := make([]QuickBooksLine, 0, len(inv.LineItems)+1)
	for i, item := range inv.LineItems {
		lines = append(lines, QuickBooksLine{
			ID:          strconv.Itoa(i + 1),
			DetailType:  "AccountBasedExpenseLineDetail",
			Amount:      item.Total,
			Description: item.Description,
			Detail: QuickBooksExpenseDetail{
				AccountRef: QuickBooksRef{Value: ids.AccountID},
			},
		})
	}

	if inv.HasTax() {
		lines = append(lines, QuickBooksLine{
			ID:          strconv.Itoa(len(lines) + 1),
			DetailType:  "AccountBasedExpenseLineDetail",
			Amount:      *inv.Tax,
			Description: "Tax",
			Detail: QuickBooksExpenseDetail{
				AccountRef: QuickBooksRef{Value: ids.AccountID},
				TaxCodeRef: &QuickBooksRef{Value: defaults.QuickBooksTaxCode},
			},
		})
	}

	bill := &QuickBooksBill{
		VendorRef:   QuickBooksRef{Value: ids.VendorID},
		TxnDate:     inv.InvoiceDate,
		DueDate:     inv.DueDate,
		CurrencyRef: QuickBooksRef{Value: inv.Currency},
		DocNumber:   inv.InvoiceNumber,
		PrivateNote: fmt.Sprintf(quickBooksMemoTemplate, inv.InvoiceNumber),
		TotalAmt:    inv.Total,
		Line:        lines,
	}

	if err := bill.validate(); err != nil {
		return nil, err
	}
	return bill, nil
}

// validate checks the payload against the fixed QuickBooks bill shape.
func (b *QuickBooksBill) validate() error {
	if b.TxnDate == "" {
		return &TranslationError{Target: TargetQuickBooks, Reason: "transaction date is missing"}
	}
	if b.CurrencyRef.Value == "" {
		return &TranslationError{Target: TargetQuickBooks, Reason: "currency is missing"}
	}
	for i, line := range b.Line {
		if line.ID != strconv.Itoa(i+1) {
			return &TranslationError{
				Target: TargetQuickBooks,
				Reason: fmt.Sprintf("line %d has non-sequential id %q", i, line.ID),
			}
		}
		if line.DetailType != "AccountBasedExpenseLineDetail" {
			return &TranslationError{
				Target: TargetQuickBooks,
				Reason: fmt.Sprintf("line %d has unexpected detail type %q", i, line.DetailType),
			}
		}
	}
	return nil
}
