package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"invoscan/internal/domain"
	"invoscan/internal/port"
)

type invoiceRepo struct {
	db *sqlx.DB
}

// NewInvoiceRepo creates a new PostgreSQL-backed InvoiceRepository.
func NewInvoiceRepo(db *sqlx.DB) port.InvoiceRepository {
	return &invoiceRepo{db: db}
}

func (r *invoiceRepo) Create(ctx context.Context, inv *domain.StoredInvoice) error {
	inv.CreatedAt = time.Now().UTC()

	query := `INSERT INTO invoices (
		id, vendor_name, document_type, confidence,
		data, data_confidence, source_bucket, source_key, created_at
	) VALUES (
		$1, $2, $3, $4,
		$5, $6, $7, $8, $9
	)`

	_, err := r.db.ExecContext(ctx, query,
		inv.ID, inv.VendorName, inv.DocumentType, inv.Confidence,
		inv.Data, inv.DataConfidence, inv.SourceBucket, inv.SourceKey, inv.CreatedAt)
	if err != nil {
		return fmt.Errorf("invoiceRepo.Create: %w", err)
	}
	return nil
}

func (r *invoiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.StoredInvoice, error) {
	var inv domain.StoredInvoice
	err := r.db.GetContext(ctx, &inv,
		"SELECT * FROM invoices WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("invoiceRepo.GetByID: %w", err)
	}
	return &inv, nil
}

// ListByVendor matches the vendor name exactly, case-sensitive. A vendor
// with no invoices yields an empty slice, not an error.
func (r *invoiceRepo) ListByVendor(ctx context.Context, vendorName string) ([]domain.StoredInvoice, error) {
	invoices := []domain.StoredInvoice{}
	err := r.db.SelectContext(ctx, &invoices,
		`SELECT * FROM invoices WHERE vendor_name = $1 ORDER BY created_at DESC`,
		vendorName)
	if err != nil {
		return nil, fmt.Errorf("invoiceRepo.ListByVendor: %w", err)
	}
	return invoices, nil
}
