// Package validation implements the reconciliation checks that decide
// whether an extracted invoice is internally consistent. Validation is a
// pure function: no I/O, no mutation, deterministic for identical input.
package validation

import (
	"fmt"
	"math"
	"strings"

	"github.com/ledgerpipe/ledgerpipe/internal/models"
)

// Tolerance is the absolute tolerance for all money comparisons. The same
// threshold applies regardless of invoice magnitude; a difference of
// exactly the tolerance still passes.
const Tolerance = 0.01

// Result is the outcome of reconciling an invoice. Any error makes the
// invoice invalid; warnings never do. Both lists are complete rather than
// fail-fast so a reviewer sees every problem at once.
type Result struct {
	IsValid  bool     `json:"is_valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Validate checks the invoice against arithmetic and presence rules, and
// its invoice number against the caller-supplied set of already-seen
// numbers (exact, case-sensitive match).
func Validate(inv models.Invoice, existingNumbers map[string]struct{}) Result {
	result := Result{
		Errors:   []string{},
		Warnings: []string{},
	}

	if strings.TrimSpace(inv.VendorName) == "" {
		result.Errors = append(result.Errors, "vendor name is missing")
	}

	currency := strings.TrimSpace(inv.Currency)
	if currency == "" {
		result.Errors = append(result.Errors, "currency is missing")
	} else if len(currency) != 3 {
		result.Errors = append(result.Errors,
			fmt.Sprintf("currency %q must be a 3-letter code", inv.Currency))
	}

	if inv.Total <= 0 {
		result.Errors = append(result.Errors,
			fmt.Sprintf("total must be greater than zero, got %.2f", inv.Total))
	}

	if _, seen := existingNumbers[inv.InvoiceNumber]; seen {
		result.Errors = append(result.Errors,
			fmt.Sprintf("duplicate invoice number: %s", inv.InvoiceNumber))
	}

	tax := inv.TaxAmount()
	if math.Abs(inv.Subtotal+tax-inv.Total) > Tolerance {
		result.Errors = append(result.Errors,
			fmt.Sprintf("subtotal (%.2f) plus tax (%.2f) does not equal total (%.2f)",
				inv.Subtotal, tax, inv.Total))
	}

	if strings.TrimSpace(inv.InvoiceNumber) == "" {
		result.Warnings = append(result.Warnings, "invoice number is missing")
	}
	if inv.DueDate == "" {
		result.Warnings = append(result.Warnings, "due date is not specified")
	}

	if len(inv.LineItems) == 0 {
		result.Warnings = append(result.Warnings, "invoice has no line items")
	} else {
		var lineSum float64
		for _, item := range inv.LineItems {
			lineSum += item.Total
		}
		// Accept a match against either subtotal or total: vendors price
		// lines both tax-exclusive and tax-inclusive.
		if math.Abs(lineSum-inv.Subtotal) > Tolerance && math.Abs(lineSum-inv.Total) > Tolerance {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("line items sum to %.2f, which matches neither subtotal (%.2f) nor total (%.2f)",
					lineSum, inv.Subtotal, inv.Total))
		}
	}

	result.IsValid = len(result.Errors) == 0
	return result
}
