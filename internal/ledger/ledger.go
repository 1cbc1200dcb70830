// Package ledger maps the canonical invoice onto the wire payloads of the
// supported accounting providers. Each translator is a pure function:
// identical input always produces an identical payload.
package ledger

import (
	"fmt"

	"github.com/ledgerpipe/ledgerpipe/internal/models"
)

// Target identifies a supported accounting ledger.
type Target string

const (
	TargetQuickBooks Target = "quickbooks"
	TargetXero       Target = "xero"
	TargetWave       Target = "wave"
	TargetFreshBooks Target = "freshbooks"
)

// RoutingIDs carries the caller-supplied provider identifiers needed to
// address a payload. Each translator requires its own subset; a missing
// required identifier is fatal for that invoice and never retried.
type RoutingIDs struct {
	VendorID   string // QuickBooks, Wave, FreshBooks
	AccountID  string // QuickBooks expense account
	ContactID  string // Xero
	BusinessID string // Wave
}

// Defaults holds provider-side defaults that are configuration, not
// invoice data: expense account codes and tax-code markers.
type Defaults struct {
	QuickBooksTaxCode  string // TaxCodeRef on the synthetic tax line
	XeroAccountCode    string // account code applied to every Xero line
	WaveExpenseAccount string // expense account id applied to Wave items
}

// DefaultProviderDefaults returns the defaults used when configuration
// does not override them.
func DefaultProviderDefaults() Defaults {
	return Defaults{
		QuickBooksTaxCode:  "TAX",
		XeroAccountCode:    "400",
		WaveExpenseAccount: "",
	}
}

// Payload is a provider-shaped wire payload.
type Payload interface {
	Ledger() Target
}

// TranslationError reports that an invoice could not be mapped onto a
// provider payload. The caller must fix the input (usually by supplying
// routing identifiers) before resubmission.
type TranslationError struct {
	Target Target
	Reason string
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("cannot translate invoice for %s: %s", e.Target, e.Reason)
}

// Translate maps the invoice onto the payload for the given target.
func Translate(target Target, inv models.Invoice, ids RoutingIDs, defaults Defaults) (Payload, error) {
	switch target {
	case TargetQuickBooks:
		return TranslateQuickBooks(inv, ids, defaults)
	case TargetXero:
		return TranslateXero(inv, ids, defaults)
	case TargetWave:
		return TranslateWave(inv, ids, defaults)
	case TargetFreshBooks:
		return TranslateFreshBooks(inv, ids)
	default:
		return nil, &TranslationError{Target: target, Reason: "unsupported ledger"}
	}
}

// money renders an amount as a fixed-point string with exactly two decimal
// places, for providers whose wire contracts use string-typed money.
func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
