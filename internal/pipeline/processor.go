// Package pipeline orchestrates the invoice flow: classify the raw
// document, extract the canonical invoice, reconcile it, and report a
// decision the caller can branch on.
package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ledgerpipe/ledgerpipe/internal/models"
	"github.com/ledgerpipe/ledgerpipe/internal/validation"
)

// Decision summarizes the pipeline outcome for a single document.
type Decision string

const (
	DecisionNotInvoice  Decision = "NOT_INVOICE"
	DecisionAccepted    Decision = "ACCEPTED"
	DecisionNeedsReview Decision = "NEEDS_REVIEW"
)

// Classifier is the advisory invoice/not-invoice gate.
type Classifier interface {
	Classify(ctx context.Context, doc models.RawDocument) (*models.Classification, error)
}

// Extractor produces the canonical invoice from document text.
type Extractor interface {
	Extract(ctx context.Context, text string) (*models.Invoice, error)
}

// ProcessResult captures everything the pipeline learned about one
// document. Invoice and Validation are nil when classification stopped
// the flow.
type ProcessResult struct {
	ProcessingID   string                 `json:"processing_id"`
	Classification *models.Classification `json:"classification"`
	Invoice        *models.Invoice        `json:"invoice,omitempty"`
	Validation     *validation.Result     `json:"validation,omitempty"`
	Decision       Decision               `json:"decision"`
}

// Processor runs the classify → extract → validate flow.
type Processor struct {
	classifier Classifier
	extractor  Extractor
	logger     *zap.Logger
}

// NewProcessor creates a new pipeline processor.
func NewProcessor(classifier Classifier, extractor Extractor, logger *zap.Logger) *Processor {
	return &Processor{
		classifier: classifier,
		extractor:  extractor,
		logger:     logger,
	}
}

// Process runs one document through the pipeline. The existingNumbers set
// is supplied by the caller and consulted for duplicate detection only;
// the pipeline itself persists nothing. Reconciliation failures are not
// errors: they surface in the result so the caller can route the invoice
// to review.
func (p *Processor) Process(ctx context.Context, doc models.RawDocument, existingNumbers map[string]struct{}) (*ProcessResult, error) {
	processingID := uuid.New().String()
	logger := p.logger.With(zap.String("processing_id", processingID))

	logger.Info("Processing document", zap.String("subject", doc.Subject))

	classification, err := p.classifier.Classify(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("classification failed: %w", err)
	}

	result := &ProcessResult{
		ProcessingID:   processingID,
		Classification: classification,
	}

	// Confidence is advisory only; the gate is the flag itself.
	if !classification.IsInvoice {
		result.Decision = DecisionNotInvoice
		logger.Info("Document is not an invoice",
			zap.Float64("confidence", classification.Confidence))
		return result, nil
	}

	invoice, err := p.extractor.Extract(ctx, doc.Text())
	if err != nil {
		return nil, fmt.Errorf("extraction failed: %w", err)
	}
	result.Invoice = invoice

	validationResult := validation.Validate(*invoice, existingNumbers)
	result.Validation = &validationResult

	if validationResult.IsValid {
		result.Decision = DecisionAccepted
	} else {
		result.Decision = DecisionNeedsReview
	}

	logger.Info("Document processed",
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("decision", string(result.Decision)),
		zap.Int("errors", len(validationResult.Errors)),
		zap.Int("warnings", len(validationResult.Warnings)))

	return result, nil
}
