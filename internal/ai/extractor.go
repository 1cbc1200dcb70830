package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"

	"github.com/ledgerpipe/ledgerpipe/internal/models"
	"github.com/ledgerpipe/ledgerpipe/internal/resilience"
)

const (
	extractorMaxTokens = 2000
	dateLayout         = "2006-01-02"
)

// Extractor turns unstructured invoice text into the canonical Invoice
// record via the language model.
type Extractor struct {
	client  ChatCompleter
	model   string
	invoker *resilience.Invoker
	logger  *zap.Logger
}

// NewExtractor creates a new invoice extractor.
func NewExtractor(client ChatCompleter, model string, invoker *resilience.Invoker, logger *zap.Logger) *Extractor {
	return &Extractor{
		client:  client,
		model:   model,
		invoker: invoker,
		logger:  logger,
	}
}

// rawInvoice mirrors the expected model output with pointer fields so that
// a missing key is distinguishable from a zero value. Nothing is coerced:
// any deviation from the declared shape fails extraction.
type rawInvoice struct {
	VendorName    *string       `json:"vendor_name"`
	InvoiceNumber *string       `json:"invoice_number"`
	InvoiceDate   *string       `json:"invoice_date"`
	DueDate       *string       `json:"due_date"`
	Currency      *string       `json:"currency"`
	LineItems     []rawLineItem `json:"line_items"`
	Subtotal      *float64      `json:"subtotal"`
	Tax           *float64      `json:"tax"`
	Total         *float64      `json:"total"`
}

type rawLineItem struct {
	Description *string  `json:"description"`
	Quantity    *float64 `json:"quantity"`
	UnitPrice   *float64 `json:"unit_price"`
	Total       *float64 `json:"total"`
}

// Extract produces a canonical Invoice from document text. The text must
// be non-empty. The model call goes through the resilient invoker; a
// response that is not valid JSON or violates the canonical shape fails
// with a SchemaError carrying the raw response.
func (e *Extractor) Extract(ctx context.Context, text string) (*models.Invoice, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyDocument
	}

	userPrompt := fmt.Sprintf(extractorUserTemplate, text)

	content, err := resilience.Invoke(ctx, e.invoker, "extract_invoice", func(ctx context.Context) (string, error) {
		return completeJSON(ctx, e.client, e.model, extractorSystemPrompt, userPrompt, extractorMaxTokens)
	})
	if err != nil {
		return nil, fmt.Errorf("extraction call failed: %w", err)
	}

	invoice, err := parseInvoice(content)
	if err != nil {
		e.logger.Error("Failed to parse extraction response",
			zap.Error(err),
			zap.String("content", content))
		return nil, err
	}

	e.logger.Info("Invoice extracted",
		zap.String("vendor_name", invoice.VendorName),
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.Float64("total", invoice.Total))

	return invoice, nil
}

// parseInvoice decodes the model output and checks it against the
// canonical invoice shape.
func parseInvoice(content string) (*models.Invoice, error) {
	var raw rawInvoice
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, &SchemaError{Reason: "response is not valid JSON", Raw: content, Err: err}
	}

	required := []struct {
		name    string
		present bool
	}{
		{"vendor_name", raw.VendorName != nil},
		{"invoice_number", raw.InvoiceNumber != nil},
		{"invoice_date", raw.InvoiceDate != nil},
		{"currency", raw.Currency != nil},
		{"subtotal", raw.Subtotal != nil},
		{"total", raw.Total != nil},
	}
	for _, field := range required {
		if !field.present {
			return nil, &SchemaError{Reason: "missing required field: " + field.name, Raw: content}
		}
	}

	if _, err := time.Parse(dateLayout, *raw.InvoiceDate); err != nil {
		return nil, &SchemaError{
			Reason: fmt.Sprintf("invoice_date %q is not an ISO-8601 calendar date", *raw.InvoiceDate),
			Raw:    content,
			Err:    err,
		}
	}

	dueDate := ""
	if raw.DueDate != nil && *raw.DueDate != "" {
		if _, err := time.Parse(dateLayout, *raw.DueDate); err != nil {
			return nil, &SchemaError{
				Reason: fmt.Sprintf("due_date %q is not an ISO-8601 calendar date", *raw.DueDate),
				Raw:    content,
				Err:    err,
			}
		}
		dueDate = *raw.DueDate
	}

	if !isCurrencyCode(*raw.Currency) {
		return nil, &SchemaError{
			Reason: fmt.Sprintf("currency %q is not a 3-letter code", *raw.Currency),
			Raw:    content,
		}
	}

	items := make([]models.LineItem, 0, len(raw.LineItems))
	for i, rawItem := range raw.LineItems {
		if rawItem.Description == nil {
			return nil, &SchemaError{
				Reason: fmt.Sprintf("line_items[%d] is missing description", i),
				Raw:    content,
			}
		}
		if rawItem.Total == nil {
			return nil, &SchemaError{
				Reason: fmt.Sprintf("line_items[%d] is missing total", i),
				Raw:    content,
			}
		}
		items = append(items, models.LineItem{
			Description: *rawItem.Description,
			Quantity:    rawItem.Quantity,
			UnitPrice:   rawItem.UnitPrice,
			Total:       *rawItem.Total,
		})
	}

	return &models.Invoice{
		VendorName:    *raw.VendorName,
		InvoiceNumber: *raw.InvoiceNumber,
		InvoiceDate:   *raw.InvoiceDate,
		DueDate:       dueDate,
		Currency:      *raw.Currency,
		LineItems:     items,
		Subtotal:      *raw.Subtotal,
		Tax:           raw.Tax,
		Total:         *raw.Total,
	}, nil
}

// isCurrencyCode reports whether s is exactly 3 letters.
func isCurrencyCode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
