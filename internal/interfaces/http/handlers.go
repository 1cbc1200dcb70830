package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ledgerpipe/ledgerpipe/internal/ai"
	"github.com/ledgerpipe/ledgerpipe/internal/ledger"
	"github.com/ledgerpipe/ledgerpipe/internal/models"
	"github.com/ledgerpipe/ledgerpipe/internal/pipeline"
)

// NumberRegistry supplies the set of already-seen invoice numbers and
// records newly accepted ones.
type NumberRegistry interface {
	Existing(ctx context.Context) (map[string]struct{}, error)
	Record(ctx context.Context, invoiceNumber string) error
}

// ReportWriter renders processed results into a review workbook.
type ReportWriter interface {
	Write(results []*pipeline.ProcessResult, outputPath string) error
}

// Handlers contains all HTTP request handlers
type Handlers struct {
	processor *pipeline.Processor
	registry  NumberRegistry
	routing   map[ledger.Target]ledger.RoutingIDs
	defaults  ledger.Defaults
	reports   ReportWriter
	reportDir string
	logger    *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	processor *pipeline.Processor,
	registry NumberRegistry,
	routing map[ledger.Target]ledger.RoutingIDs,
	defaults ledger.Defaults,
	reports ReportWriter,
	reportDir string,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		processor: processor,
		registry:  registry,
		routing:   routing,
		defaults:  defaults,
		reports:   reports,
		reportDir: reportDir,
		logger:    logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Health handles GET /health
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// ProcessInvoice handles POST /api/v1/invoices/process. It runs the
// document through the pipeline and records the invoice number when the
// invoice is accepted.
func (h *Handlers) ProcessInvoice(c *gin.Context) {
	var doc models.RawDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body: " + err.Error()})
		return
	}

	existing, err := h.registry.Existing(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to load invoice numbers", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to load invoice registry"})
		return
	}

	result, err := h.processor.Process(c.Request.Context(), doc, existing)
	if err != nil {
		h.logger.Error("Pipeline processing failed", zap.Error(err))

		var schemaErr *ai.SchemaError
		if errors.As(err, &schemaErr) {
			c.JSON(http.StatusUnprocessableEntity, Response{Success: false, Error: schemaErr.Error()})
			return
		}
		if errors.Is(err, ai.ErrEmptyDocument) {
			c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, Response{Success: false, Error: "processing failed"})
		return
	}

	if result.Decision == pipeline.DecisionAccepted {
		if err := h.registry.Record(c.Request.Context(), result.Invoice.InvoiceNumber); err != nil {
			h.logger.Error("Failed to record invoice number", zap.Error(err))
			c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to record invoice number"})
			return
		}
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: result})
}

// ProcessBatchRequest is the body for POST /api/v1/invoices/process-batch.
type ProcessBatchRequest struct {
	Documents []models.RawDocument `json:"documents" binding:"required"`
}

// ProcessBatchResponse carries the per-document results and the path of
// the review workbook written for the batch.
type ProcessBatchResponse struct {
	Results    []*pipeline.ProcessResult `json:"results"`
	ReportPath string                    `json:"report_path"`
}

// ProcessBatch handles POST /api/v1/invoices/process-batch. Documents are
// processed in order; numbers accepted earlier in the batch count as
// duplicates for later documents. A document that fails processing stops
// the batch; nothing is partially reported.
func (h *Handlers) ProcessBatch(c *gin.Context) {
	var req ProcessBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body: " + err.Error()})
		return
	}
	if len(req.Documents) == 0 {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "documents must not be empty"})
		return
	}

	existing, err := h.registry.Existing(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to load invoice numbers", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to load invoice registry"})
		return
	}

	results := make([]*pipeline.ProcessResult, 0, len(req.Documents))
	for i, doc := range req.Documents {
		result, err := h.processor.Process(c.Request.Context(), doc, existing)
		if err != nil {
			h.logger.Error("Batch processing failed",
				zap.Int("document", i),
				zap.Error(err))
			c.JSON(http.StatusBadGateway, Response{Success: false,
				Error: fmt.Sprintf("processing failed at document %d", i)})
			return
		}

		if result.Decision == pipeline.DecisionAccepted {
			if err := h.registry.Record(c.Request.Context(), result.Invoice.InvoiceNumber); err != nil {
				h.logger.Error("Failed to record invoice number", zap.Error(err))
				c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to record invoice number"})
				return
			}
			existing[result.Invoice.InvoiceNumber] = struct{}{}
		}
		results = append(results, result)
	}

	reportPath := filepath.Join(h.reportDir,
		fmt.Sprintf("review-%s.xlsx", time.Now().UTC().Format("20060102-150405")))
	if err := h.reports.Write(results, reportPath); err != nil {
		h.logger.Error("Failed to write review workbook", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to write review workbook"})
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: ProcessBatchResponse{
		Results:    results,
		ReportPath: reportPath,
	}})
}

// TranslateRequest is the body for POST /api/v1/invoices/translate.
type TranslateRequest struct {
	Target  string         `json:"target" binding:"required"`
	Invoice models.Invoice `json:"invoice" binding:"required"`
}

// TranslateInvoice handles POST /api/v1/invoices/translate. Translation
// failures are fatal for the invoice and reported to the caller, never
// retried.
func (h *Handlers) TranslateInvoice(c *gin.Context) {
	var req TranslateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body: " + err.Error()})
		return
	}

	target := ledger.Target(req.Target)
	ids, ok := h.routing[target]
	if !ok {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "unknown ledger target: " + req.Target})
		return
	}

	payload, err := ledger.Translate(target, req.Invoice, ids, h.defaults)
	if err != nil {
		var translationErr *ledger.TranslationError
		if errors.As(err, &translationErr) {
			c.JSON(http.StatusUnprocessableEntity, Response{Success: false, Error: translationErr.Error()})
			return
		}
		h.logger.Error("Translation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "translation failed"})
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: payload})
}
