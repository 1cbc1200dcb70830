// Package report renders processed-invoice results into a review workbook
// for the human approver.
package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/ledgerpipe/ledgerpipe/internal/pipeline"
)

const sheetName = "Review"

var headers = []string{
	"Processing ID", "Invoice Number", "Vendor", "Date", "Currency",
	"Total", "Decision", "Errors", "Warnings",
}

// Writer produces review workbooks from pipeline results.
type Writer struct {
	logger *zap.Logger
}

// NewWriter creates a new review report writer.
func NewWriter(logger *zap.Logger) *Writer {
	return &Writer{logger: logger}
}

// Write renders one row per processed document and saves the workbook to
// outputPath.
func (w *Writer) Write(results []*pipeline.ProcessResult, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to compute header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, result := range results {
		row := i + 2
		values := rowValues(result)
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return fmt.Errorf("failed to compute cell: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return fmt.Errorf("failed to write row %d: %w", row, err)
			}
		}
	}

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("failed to save review workbook: %w", err)
	}

	w.logger.Info("Review workbook written",
		zap.String("path", outputPath),
		zap.Int("rows", len(results)))
	return nil
}

// rowValues flattens a pipeline result into workbook columns.
func rowValues(result *pipeline.ProcessResult) []interface{} {
	values := []interface{}{result.ProcessingID, "", "", "", "", "", string(result.Decision), "", ""}

	if result.Invoice != nil {
		values[1] = result.Invoice.InvoiceNumber
		values[2] = result.Invoice.VendorName
		values[3] = result.Invoice.InvoiceDate
		values[4] = result.Invoice.Currency
		values[5] = result.Invoice.Total
	}
	if result.Validation != nil {
		values[7] = strings.Join(result.Validation.Errors, "; ")
		values[8] = strings.Join(result.Validation.Warnings, "; ")
	}
	return values
}
