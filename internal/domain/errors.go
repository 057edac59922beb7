package domain

import "errors"

var (
	ErrInvoiceNotFound        = errors.New("invoice not found")
	ErrUnsupportedContentType = errors.New("unsupported content type")
	ErrFileTooLarge           = errors.New("file exceeds maximum allowed size")
	ErrExtractionUnavailable  = errors.New("document extraction service unavailable")
	ErrSourcePDFNotFound      = errors.New("source pdf not found")
)
