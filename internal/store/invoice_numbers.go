// Package store keeps the registry of invoice numbers already accepted by
// the system. The reconciliation engine itself stays pure: it receives a
// plain set built from this registry.
package store

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ledgerpipe/ledgerpipe/pkg/database"
)

const schema = `
CREATE TABLE IF NOT EXISTS invoice_numbers (
    invoice_number TEXT PRIMARY KEY,
    recorded_at    TIMESTAMP NOT NULL
);`

// InvoiceNumberStore persists accepted invoice numbers for duplicate
// detection. Matching is exact and case-sensitive, so numbers are stored
// verbatim.
type InvoiceNumberStore struct {
	db     *database.DB
	logger *zap.Logger
}

// NewInvoiceNumberStore creates a new invoice number store.
func NewInvoiceNumberStore(db *database.DB, logger *zap.Logger) *InvoiceNumberStore {
	return &InvoiceNumberStore{db: db, logger: logger}
}

// Init creates the backing table if it does not exist.
func (s *InvoiceNumberStore) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create invoice_numbers table: %w", err)
	}
	return nil
}

// Existing returns the set of all recorded invoice numbers.
func (s *InvoiceNumberStore) Existing(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT invoice_number FROM invoice_numbers")
	if err != nil {
		return nil, fmt.Errorf("failed to query invoice numbers: %w", err)
	}
	defer rows.Close()

	numbers := make(map[string]struct{})
	for rows.Next() {
		var number string
		if err := rows.Scan(&number); err != nil {
			return nil, fmt.Errorf("failed to scan invoice number: %w", err)
		}
		numbers[number] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate invoice numbers: %w", err)
	}
	return numbers, nil
}

// Record stores an accepted invoice number. Recording the same number
// twice is not an error; the first entry wins.
func (s *InvoiceNumberStore) Record(ctx context.Context, invoiceNumber string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO invoice_numbers (invoice_number, recorded_at) VALUES (?, ?)",
		invoiceNumber, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to record invoice number: %w", err)
	}

	s.logger.Debug("Invoice number recorded", zap.String("invoice_number", invoiceNumber))
	return nil
}
