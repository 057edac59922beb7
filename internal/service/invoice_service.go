package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"

	"invoscan/internal/config"
	"invoscan/internal/domain"
	"invoscan/internal/normalizer"
	"invoscan/internal/port"
)

const pdfContentType = "application/pdf"

// ExtractInput carries one uploaded document through the extraction pipeline.
type ExtractInput struct {
	FileName    string
	ContentType string
	FileBytes   []byte
}

// InvoiceService defines the invoice extraction and lookup contract.
type InvoiceService interface {
	ExtractAndStore(ctx context.Context, input *ExtractInput) (*domain.StoredInvoice, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.StoredInvoice, error)
	GetSourcePDF(ctx context.Context, id uuid.UUID) ([]byte, error)
	ListByVendor(ctx context.Context, vendorName string) ([]domain.StoredInvoice, error)
}

type invoiceService struct {
	repo     port.InvoiceRepository
	analyzer port.DocumentAnalyzer
	storage  port.ObjectStorage // nil disables source PDF archiving
	s3cfg    *config.S3Config
}

// NewInvoiceService creates a new InvoiceService implementation. The
// analyzer and storage clients are injected so tests can substitute fakes.
func NewInvoiceService(
	repo port.InvoiceRepository,
	analyzer port.DocumentAnalyzer,
	storage port.ObjectStorage,
	s3cfg *config.S3Config,
) InvoiceService {
	return &invoiceService{
		repo:     repo,
		analyzer: analyzer,
		storage:  storage,
		s3cfg:    s3cfg,
	}
}

// ExtractAndStore runs one submission end to end: validate, analyze,
// normalize, persist. Nothing is persisted unless the whole pipeline
// succeeds; an analyzer failure surfaces as ErrExtractionUnavailable
// without touching the store.
func (s *invoiceService) ExtractAndStore(ctx context.Context, input *ExtractInput) (*domain.StoredInvoice, error) {
	if input.ContentType != pdfContentType {
		return nil, domain.ErrUnsupportedContentType
	}
	if s.s3cfg != nil && s.s3cfg.MaxFileSizeMB > 0 &&
		int64(len(input.FileBytes)) > s.s3cfg.MaxFileSizeMB*1024*1024 {
		return nil, domain.ErrFileTooLarge
	}

	result, err := s.analyzer.Analyze(ctx, port.AnalyzeInput{
		FileBytes:   input.FileBytes,
		ContentType: input.ContentType,
	})
	if err != nil {
		log.Printf("invoiceService.ExtractAndStore: analyze failed: %v", err)
		return nil, domain.ErrExtractionUnavailable
	}

	record, err := normalizer.Normalize(result)
	if err != nil {
		return nil, fmt.Errorf("normalizing analysis result: %w", err)
	}

	data, err := json.Marshal(record.Fields)
	if err != nil {
		return nil, fmt.Errorf("marshaling fields: %w", err)
	}
	dataConfidence, err := json.Marshal(record.FieldConfidence)
	if err != nil {
		return nil, fmt.Errorf("marshaling confidence: %w", err)
	}

	inv := &domain.StoredInvoice{
		ID:             uuid.New(),
		VendorName:     record.VendorName(),
		DocumentType:   topDocumentType(result),
		Confidence:     record.Confidence,
		Data:           data,
		DataConfidence: dataConfidence,
	}

	// Best-effort archive of the source PDF; a storage failure must not
	// fail the extraction.
	if s.storage != nil && s.s3cfg != nil && s.s3cfg.Bucket != "" {
		key := fmt.Sprintf("invoices/%s.pdf", inv.ID)
		_, upErr := s.storage.Upload(ctx, port.UploadInput{
			Bucket:      s.s3cfg.Bucket,
			Key:         key,
			Body:        bytes.NewReader(input.FileBytes),
			ContentType: input.ContentType,
		})
		if upErr != nil {
			log.Printf("invoiceService.ExtractAndStore: archiving %s failed: %v", inv.ID, upErr)
		} else {
			inv.SourceBucket = s.s3cfg.Bucket
			inv.SourceKey = key
		}
	}

	if err := s.repo.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("saving invoice: %w", err)
	}
	return inv, nil
}

func (s *invoiceService) GetByID(ctx context.Context, id uuid.UUID) (*domain.StoredInvoice, error) {
	return s.repo.GetByID(ctx, id)
}

// GetSourcePDF fetches the archived source document for an invoice. Archiving
// is best-effort, so a stored invoice may legitimately have no source PDF;
// that absence is ErrSourcePDFNotFound, distinct from a storage failure.
func (s *invoiceService) GetSourcePDF(ctx context.Context, id uuid.UUID) ([]byte, error) {
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.storage == nil || inv.SourceBucket == "" || inv.SourceKey == "" {
		return nil, domain.ErrSourcePDFNotFound
	}

	data, err := s.storage.Download(ctx, inv.SourceBucket, inv.SourceKey)
	if err != nil {
		return nil, fmt.Errorf("downloading source pdf for %s: %w", id, err)
	}
	return data, nil
}

func (s *invoiceService) ListByVendor(ctx context.Context, vendorName string) ([]domain.StoredInvoice, error) {
	return s.repo.ListByVendor(ctx, vendorName)
}

// topDocumentType returns the highest-confidence classification candidate.
func topDocumentType(result *port.AnalysisResult) string {
	best := ""
	bestScore := -1.0
	for _, dt := range result.DocumentTypes {
		if dt.Confidence > bestScore {
			best = dt.DocumentType
			bestScore = dt.Confidence
		}
	}
	return best
}
