package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	// LineItemsKey is the reserved field name the document-AI service uses
	// for the repeated line-item group on an invoice.
	LineItemsKey = "Items"

	// VendorNameKey is the conventional field name carrying the vendor.
	VendorNameKey = "VendorName"

	// UnlabeledFieldKey is the shared key that extracted fields without a
	// label collapse onto. Last writer wins.
	UnlabeledFieldKey = "_unlabeled"
)

// InvoiceRecord is the normalized, flat representation of one invoice as
// produced by the field normalizer. Fields holds scalar values keyed by the
// labels the extraction service returned, plus the "Items" key holding the
// line-item slice. FieldConfidence is keyed identically to the scalar
// entries in Fields; a nil value means the service returned no label (and
// therefore no confidence) for that field.
type InvoiceRecord struct {
	Confidence      float64             `json:"confidence"`
	Fields          map[string]any      `json:"data"`
	FieldConfidence map[string]*float64 `json:"dataConfidence"`
	LineItems       []map[string]string `json:"-"`
}

// VendorName returns the extracted vendor name, or "" when the service did
// not return a VendorName field.
func (r *InvoiceRecord) VendorName() string {
	if v, ok := r.Fields[VendorNameKey].(string); ok {
		return v
	}
	return ""
}

// StoredInvoice is an InvoiceRecord with a system-assigned identity and
// vendor attribute, persisted for later retrieval. Records are immutable
// after creation. Data and DataConfidence are the JSON-encoded Fields and
// FieldConfidence maps of the normalized record.
type StoredInvoice struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	VendorName     string          `db:"vendor_name" json:"vendor_name"`
	DocumentType   string          `db:"document_type" json:"document_type,omitempty"`
	Confidence     float64         `db:"confidence" json:"confidence"`
	Data           json.RawMessage `db:"data" json:"data"`
	DataConfidence json.RawMessage `db:"data_confidence" json:"dataConfidence"`
	SourceBucket   string          `db:"source_bucket" json:"-"`
	SourceKey      string          `db:"source_key" json:"-"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}
