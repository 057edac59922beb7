package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"invoscan/internal/config"
	"invoscan/internal/domain"
	"invoscan/internal/normalizer"
	"invoscan/internal/port"
	"invoscan/internal/service"
	"invoscan/mocks"
)

func floatPtr(v float64) *float64 { return &v }

func setupInvoiceService(s3cfg *config.S3Config) (
	service.InvoiceService,
	*mocks.MockInvoiceRepo,
	*mocks.MockDocumentAnalyzer,
	*mocks.MockObjectStorage,
) {
	repo := new(mocks.MockInvoiceRepo)
	analyzer := new(mocks.MockDocumentAnalyzer)
	storage := new(mocks.MockObjectStorage)
	if s3cfg == nil {
		s3cfg = &config.S3Config{MaxFileSizeMB: 50}
	}
	svc := service.NewInvoiceService(repo, analyzer, storage, s3cfg)
	return svc, repo, analyzer, storage
}

func analysisResultFixture() *port.AnalysisResult {
	return &port.AnalysisResult{
		Pages: []port.Page{{
			PageNumber: 1,
			Fields: []port.DocumentField{
				{
					Label: &port.FieldLabel{Name: "VendorName", Confidence: floatPtr(0.95)},
					Value: &port.FieldValue{Kind: port.ValueScalar, Text: "Acme Corp"},
				},
			},
		}},
		DocumentTypes: []port.DocumentTypeScore{
			{DocumentType: "RECEIPT", Confidence: 0.40},
			{DocumentType: "INVOICE", Confidence: 0.99},
		},
	}
}

func TestExtractAndStore_Success(t *testing.T) {
	svc, repo, analyzer, _ := setupInvoiceService(nil)

	analyzer.On("Analyze", mock.Anything, mock.AnythingOfType("port.AnalyzeInput")).
		Return(analysisResultFixture(), nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.StoredInvoice")).Return(nil)

	inv, err := svc.ExtractAndStore(context.Background(), &service.ExtractInput{
		FileName:    "invoice.pdf",
		ContentType: "application/pdf",
		FileBytes:   []byte("%PDF-1.4"),
	})

	require.NoError(t, err)
	require.NotNil(t, inv)
	assert.NotEqual(t, uuid.Nil, inv.ID)
	assert.Equal(t, "Acme Corp", inv.VendorName)
	assert.Equal(t, "INVOICE", inv.DocumentType)
	assert.Equal(t, 1.0, inv.Confidence)

	var data map[string]any
	require.NoError(t, json.Unmarshal(inv.Data, &data))
	assert.Equal(t, "Acme Corp", data["VendorName"])
	assert.Equal(t, []any{}, data["Items"])

	var confidence map[string]*float64
	require.NoError(t, json.Unmarshal(inv.DataConfidence, &confidence))
	require.Contains(t, confidence, "VendorName")
	assert.InDelta(t, 0.95, *confidence["VendorName"], 1e-9)

	repo.AssertExpectations(t)
	analyzer.AssertExpectations(t)
}

func TestExtractAndStore_RejectsNonPDF(t *testing.T) {
	svc, repo, analyzer, _ := setupInvoiceService(nil)

	_, err := svc.ExtractAndStore(context.Background(), &service.ExtractInput{
		FileName:    "scan.png",
		ContentType: "image/png",
		FileBytes:   []byte("png bytes"),
	})

	assert.ErrorIs(t, err, domain.ErrUnsupportedContentType)
	analyzer.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestExtractAndStore_RejectsOversizedFile(t *testing.T) {
	svc, _, analyzer, _ := setupInvoiceService(&config.S3Config{MaxFileSizeMB: 1})

	_, err := svc.ExtractAndStore(context.Background(), &service.ExtractInput{
		FileName:    "big.pdf",
		ContentType: "application/pdf",
		FileBytes:   make([]byte, 2*1024*1024),
	})

	assert.ErrorIs(t, err, domain.ErrFileTooLarge)
	analyzer.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything)
}

func TestExtractAndStore_AnalyzerFailureDoesNotPersist(t *testing.T) {
	svc, repo, analyzer, _ := setupInvoiceService(nil)

	analyzer.On("Analyze", mock.Anything, mock.Anything).
		Return(nil, errors.New("upstream down"))

	_, err := svc.ExtractAndStore(context.Background(), &service.ExtractInput{
		FileName:    "invoice.pdf",
		ContentType: "application/pdf",
		FileBytes:   []byte("%PDF-1.4"),
	})

	assert.ErrorIs(t, err, domain.ErrExtractionUnavailable)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestExtractAndStore_MalformedResultDoesNotPersist(t *testing.T) {
	svc, repo, analyzer, _ := setupInvoiceService(nil)

	malformed := &port.AnalysisResult{Pages: []port.Page{{
		PageNumber: 1,
		Fields: []port.DocumentField{
			{Label: &port.FieldLabel{Name: "VendorName"}}, // no value
		},
	}}}
	analyzer.On("Analyze", mock.Anything, mock.Anything).Return(malformed, nil)

	_, err := svc.ExtractAndStore(context.Background(), &service.ExtractInput{
		FileName:    "invoice.pdf",
		ContentType: "application/pdf",
		FileBytes:   []byte("%PDF-1.4"),
	})

	var structErr *normalizer.StructureError
	require.ErrorAs(t, err, &structErr)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestExtractAndStore_ArchivesSourcePDF(t *testing.T) {
	s3cfg := &config.S3Config{Bucket: "invoscan-archive", MaxFileSizeMB: 50}
	svc, repo, analyzer, storage := setupInvoiceService(s3cfg)

	analyzer.On("Analyze", mock.Anything, mock.Anything).Return(analysisResultFixture(), nil)
	storage.On("Upload", mock.Anything, mock.MatchedBy(func(input port.UploadInput) bool {
		return input.Bucket == "invoscan-archive" && input.ContentType == "application/pdf"
	})).Return(&port.UploadOutput{Location: "s3://invoscan-archive/x"}, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.StoredInvoice")).Return(nil)

	inv, err := svc.ExtractAndStore(context.Background(), &service.ExtractInput{
		FileName:    "invoice.pdf",
		ContentType: "application/pdf",
		FileBytes:   []byte("%PDF-1.4"),
	})

	require.NoError(t, err)
	assert.Equal(t, "invoscan-archive", inv.SourceBucket)
	assert.Equal(t, "invoices/"+inv.ID.String()+".pdf", inv.SourceKey)
	storage.AssertExpectations(t)
}

func TestExtractAndStore_ArchiveFailureStillPersists(t *testing.T) {
	s3cfg := &config.S3Config{Bucket: "invoscan-archive", MaxFileSizeMB: 50}
	svc, repo, analyzer, storage := setupInvoiceService(s3cfg)

	analyzer.On("Analyze", mock.Anything, mock.Anything).Return(analysisResultFixture(), nil)
	storage.On("Upload", mock.Anything, mock.Anything).
		Return(nil, errors.New("bucket unreachable"))
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.StoredInvoice")).Return(nil)

	inv, err := svc.ExtractAndStore(context.Background(), &service.ExtractInput{
		FileName:    "invoice.pdf",
		ContentType: "application/pdf",
		FileBytes:   []byte("%PDF-1.4"),
	})

	require.NoError(t, err)
	assert.Empty(t, inv.SourceBucket)
	assert.Empty(t, inv.SourceKey)
	repo.AssertExpectations(t)
}

func TestExtractAndStore_RepoFailure(t *testing.T) {
	svc, repo, analyzer, _ := setupInvoiceService(nil)

	analyzer.On("Analyze", mock.Anything, mock.Anything).Return(analysisResultFixture(), nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))

	_, err := svc.ExtractAndStore(context.Background(), &service.ExtractInput{
		FileName:    "invoice.pdf",
		ContentType: "application/pdf",
		FileBytes:   []byte("%PDF-1.4"),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "saving invoice")
}

func TestGetByID_Idempotent(t *testing.T) {
	svc, repo, _, _ := setupInvoiceService(nil)

	id := uuid.New()
	stored := &domain.StoredInvoice{ID: id, VendorName: "Acme Corp"}
	repo.On("GetByID", mock.Anything, id).Return(stored, nil).Twice()

	first, err := svc.GetByID(context.Background(), id)
	require.NoError(t, err)
	second, err := svc.GetByID(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	repo.AssertExpectations(t)
}

func TestGetByID_NotFound(t *testing.T) {
	svc, repo, _, _ := setupInvoiceService(nil)

	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(nil, domain.ErrInvoiceNotFound)

	_, err := svc.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrInvoiceNotFound)
}

func TestGetSourcePDF_Success(t *testing.T) {
	svc, repo, _, storage := setupInvoiceService(nil)

	id := uuid.New()
	stored := &domain.StoredInvoice{
		ID:           id,
		VendorName:   "Acme Corp",
		SourceBucket: "invoscan-archive",
		SourceKey:    "invoices/" + id.String() + ".pdf",
	}
	repo.On("GetByID", mock.Anything, id).Return(stored, nil)
	storage.On("Download", mock.Anything, "invoscan-archive", stored.SourceKey).
		Return([]byte("%PDF-1.4"), nil)

	data, err := svc.GetSourcePDF(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), data)
	storage.AssertExpectations(t)
}

func TestGetSourcePDF_NotArchived(t *testing.T) {
	svc, repo, _, storage := setupInvoiceService(nil)

	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).
		Return(&domain.StoredInvoice{ID: id, VendorName: "Acme Corp"}, nil)

	_, err := svc.GetSourcePDF(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrSourcePDFNotFound)
	storage.AssertNotCalled(t, "Download", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetSourcePDF_StorageDisabled(t *testing.T) {
	repo := new(mocks.MockInvoiceRepo)
	svc := service.NewInvoiceService(repo, new(mocks.MockDocumentAnalyzer), nil,
		&config.S3Config{MaxFileSizeMB: 50})

	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).
		Return(&domain.StoredInvoice{ID: id, SourceBucket: "b", SourceKey: "k"}, nil)

	_, err := svc.GetSourcePDF(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrSourcePDFNotFound)
}

func TestGetSourcePDF_InvoiceMissing(t *testing.T) {
	svc, repo, _, storage := setupInvoiceService(nil)

	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(nil, domain.ErrInvoiceNotFound)

	_, err := svc.GetSourcePDF(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrInvoiceNotFound)
	storage.AssertNotCalled(t, "Download", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetSourcePDF_DownloadFailure(t *testing.T) {
	svc, repo, _, storage := setupInvoiceService(nil)

	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).
		Return(&domain.StoredInvoice{ID: id, SourceBucket: "b", SourceKey: "k"}, nil)
	storage.On("Download", mock.Anything, "b", "k").
		Return(nil, errors.New("bucket unreachable"))

	_, err := svc.GetSourcePDF(context.Background(), id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "downloading source pdf")
}

func TestListByVendor_Empty(t *testing.T) {
	svc, repo, _, _ := setupInvoiceService(nil)

	repo.On("ListByVendor", mock.Anything, "Nobody").Return([]domain.StoredInvoice{}, nil)

	invoices, err := svc.ListByVendor(context.Background(), "Nobody")
	require.NoError(t, err)
	assert.Empty(t, invoices)
}
