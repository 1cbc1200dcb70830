package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/ledgerpipe/ledgerpipe/internal/models"
	"github.com/ledgerpipe/ledgerpipe/internal/resilience"
)

const classifierMaxTokens = 500

// Classifier asks the language model whether a document is a genuine
// vendor invoice. Its confidence and signals are advisory; downstream
// processing gates only on the is_invoice flag.
type Classifier struct {
	client  ChatCompleter
	model   string
	invoker *resilience.Invoker
	logger  *zap.Logger
}

// NewClassifier creates a new document classifier.
func NewClassifier(client ChatCompleter, model string, invoker *resilience.Invoker, logger *zap.Logger) *Classifier {
	return &Classifier{
		client:  client,
		model:   model,
		invoker: invoker,
		logger:  logger,
	}
}

// rawClassification mirrors the expected model output with pointer fields
// so missing keys can be distinguished from zero values.
type rawClassification struct {
	IsInvoice  *bool    `json:"is_invoice"`
	VendorName *string  `json:"vendor_name"`
	Confidence *float64 `json:"confidence"`
	Signals    []string `json:"signals"`
}

// Classify decides whether the document is a vendor invoice. The model
// call goes through the resilient invoker; shape violations surface as a
// SchemaError and are never retried.
func (c *Classifier) Classify(ctx context.Context, doc models.RawDocument) (*models.Classification, error) {
	attachmentSection := ""
	if doc.AttachmentText != "" {
		attachmentSection = fmt.Sprintf("\nAttachment text:\n%s\n", doc.AttachmentText)
	}
	userPrompt := fmt.Sprintf(classifierUserTemplate, doc.Subject, doc.Body, attachmentSection)

	content, err := resilience.Invoke(ctx, c.invoker, "classify_document", func(ctx context.Context) (string, error) {
		return completeJSON(ctx, c.client, c.model, classifierSystemPrompt, userPrompt, classifierMaxTokens)
	})
	if err != nil {
		return nil, fmt.Errorf("classification call failed: %w", err)
	}

	classification, err := parseClassification(content)
	if err != nil {
		c.logger.Error("Failed to parse classification response",
			zap.Error(err),
			zap.String("content", content))
		return nil, err
	}

	c.logger.Info("Document classified",
		zap.Bool("is_invoice", classification.IsInvoice),
		zap.String("vendor_name", classification.VendorName),
		zap.Float64("confidence", classification.Confidence))

	return classification, nil
}

// parseClassification decodes and shape-checks the model output.
func parseClassification(content string) (*models.Classification, error) {
	var raw rawClassification
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, &SchemaError{Reason: "response is not valid JSON", Raw: content, Err: err}
	}

	if raw.IsInvoice == nil {
		return nil, &SchemaError{Reason: "missing required field: is_invoice", Raw: content}
	}
	if raw.Confidence == nil {
		return nil, &SchemaError{Reason: "missing required field: confidence", Raw: content}
	}
	if *raw.Confidence < 0 || *raw.Confidence > 1 {
		return nil, &SchemaError{
			Reason: fmt.Sprintf("confidence %v is outside [0, 1]", *raw.Confidence),
			Raw:    content,
		}
	}

	classification := &models.Classification{
		IsInvoice:  *raw.IsInvoice,
		Confidence: *raw.Confidence,
		Signals:    raw.Signals,
	}
	if raw.VendorName != nil {
		classification.VendorName = *raw.VendorName
	}
	if classification.Signals == nil {
		classification.Signals = []string{}
	}
	return classification, nil
}
