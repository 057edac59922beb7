package port

import (
	"context"

	"github.com/google/uuid"

	"invoscan/internal/domain"
)

// InvoiceRepository persists normalized invoice records. Records are
// write-once; there is no update or delete.
type InvoiceRepository interface {
	Create(ctx context.Context, inv *domain.StoredInvoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.StoredInvoice, error)
	ListByVendor(ctx context.Context, vendorName string) ([]domain.StoredInvoice, error)
}
