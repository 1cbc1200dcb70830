package models

// Invoice is the canonical, provider-agnostic representation of a vendor
// bill. It is produced once by the extractor and flows unchanged through
// validation and ledger translation.
type Invoice struct {
	VendorName    string     `json:"vendor_name"`
	InvoiceNumber string     `json:"invoice_number"`
	InvoiceDate   string     `json:"invoice_date"`       // YYYY-MM-DD
	DueDate       string     `json:"due_date,omitempty"` // YYYY-MM-DD, empty when not stated
	Currency      string     `json:"currency"`           // 3-letter code
	LineItems     []LineItem `json:"line_items"`
	Subtotal      float64    `json:"subtotal"`
	Tax           *float64   `json:"tax"` // nil when the document carries no tax figure
	Total         float64    `json:"total"`
}

// LineItem is a single billed line. Quantity and UnitPrice are nil when the
// document does not state them; Total is always required.
type LineItem struct {
	Description string   `json:"description"`
	Quantity    *float64 `json:"quantity"`
	UnitPrice   *float64 `json:"unit_price"`
	Total       float64  `json:"total"`
}

// TaxAmount returns the invoice tax, treating a missing tax as zero.
func (inv Invoice) TaxAmount() float64 {
	if inv.Tax == nil {
		return 0
	}
	return *inv.Tax
}

// HasTax reports whether the invoice carries a positive tax amount.
// A nil or non-positive tax produces no tax representation downstream.
func (inv Invoice) HasTax() bool {
	return inv.Tax != nil && *inv.Tax > 0
}

// EffectiveQuantity returns the stated quantity, or 1 when not specified.
func (li LineItem) EffectiveQuantity() float64 {
	if li.Quantity == nil {
		return 1
	}
	return *li.Quantity
}

// EffectiveUnitPrice returns the stated unit price, or the line total when
// not specified (the line is treated as a single unit at that price).
func (li LineItem) EffectiveUnitPrice() float64 {
	if li.UnitPrice == nil {
		return li.Total
	}
	return *li.UnitPrice
}
