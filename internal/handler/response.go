package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"invoscan/internal/domain"
	"invoscan/internal/normalizer"
)

// ErrorResponse is the error payload for all endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, msg string) {
	c.JSON(status, ErrorResponse{Error: msg})
}

// MapDomainError translates domain errors to HTTP status codes and
// user-facing messages. A StructureError means the upstream service
// returned a shape we do not understand; that is a defect, not user error.
func MapDomainError(err error) (status int, msg string) {
	var structErr *normalizer.StructureError
	switch {
	case errors.Is(err, domain.ErrUnsupportedContentType):
		return http.StatusBadRequest, "Invalid document. Please upload a valid PDF invoice."
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "File exceeds the maximum allowed size."
	case errors.Is(err, domain.ErrExtractionUnavailable):
		return http.StatusServiceUnavailable, "The service is currently unavailable. Please try again later."
	case errors.Is(err, domain.ErrInvoiceNotFound):
		return http.StatusNotFound, "Invoice not found"
	case errors.Is(err, domain.ErrSourcePDFNotFound):
		return http.StatusNotFound, "Source PDF not found"
	case errors.As(err, &structErr):
		return http.StatusInternalServerError, "Extracted document had an unexpected structure."
	default:
		return http.StatusInternalServerError, "An internal error occurred."
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, msg := MapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get("request_id")
		log.Printf("[%s] internal error: %v", requestID, err)
	}
	RespondError(c, status, msg)
}
