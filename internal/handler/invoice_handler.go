package handler

import (
	"bytes"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"invoscan/internal/domain"
	"invoscan/internal/export"
	"invoscan/internal/service"
)

// unknownVendorLabel is the sentinel vendor name returned when a vendor
// lookup matches no invoices.
const unknownVendorLabel = "Unknown Vendor"

// VendorInvoicesResponse is the payload of the vendor lookup endpoint. The
// field casing mirrors the legacy API this service replaces.
type VendorInvoicesResponse struct {
	VendorName    string                 `json:"VendorName"`
	TotalInvoices int                    `json:"TotalInvoices"`
	Invoices      []domain.StoredInvoice `json:"invoices"`
}

// InvoiceHandler handles invoice extraction and lookup endpoints.
type InvoiceHandler struct {
	invoiceService service.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoiceService service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// Extract handles POST /extract: a multipart PDF upload submitted to the
// document-AI service, normalized and persisted in one synchronous pass.
func (h *InvoiceHandler) Extract(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "could not read uploaded file")
		return
	}

	inv, err := h.invoiceService.ExtractAndStore(c.Request.Context(), &service.ExtractInput{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		FileBytes:   fileBytes,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, inv)
}

// GetByID handles GET /invoice/:id.
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid invoice id")
		return
	}

	inv, err := h.invoiceService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, inv)
}

// GetSourcePDF handles GET /invoice/:id/pdf, serving the archived source
// document. Invoices extracted with archiving disabled have no source PDF
// and yield a 404.
func (h *InvoiceHandler) GetSourcePDF(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid invoice id")
		return
	}

	data, err := h.invoiceService.GetSourcePDF(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+id.String()+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

// ListByVendor handles GET /invoices/vendor/:name. A vendor with no
// invoices is not an error: the response carries a sentinel vendor label
// and a zero count.
func (h *InvoiceHandler) ListByVendor(c *gin.Context) {
	name := c.Param("name")

	invoices, err := h.invoiceService.ListByVendor(c.Request.Context(), name)
	if err != nil {
		HandleError(c, err)
		return
	}

	if len(invoices) == 0 {
		c.JSON(http.StatusOK, VendorInvoicesResponse{
			VendorName:    unknownVendorLabel,
			TotalInvoices: 0,
			Invoices:      []domain.StoredInvoice{},
		})
		return
	}

	c.JSON(http.StatusOK, VendorInvoicesResponse{
		VendorName:    name,
		TotalInvoices: len(invoices),
		Invoices:      invoices,
	})
}

// ExportByVendor handles GET /invoices/vendor/:name/export?format=csv|xlsx.
func (h *InvoiceHandler) ExportByVendor(c *gin.Context) {
	name := c.Param("name")
	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "xlsx" {
		RespondError(c, http.StatusBadRequest, "format must be csv or xlsx")
		return
	}

	invoices, err := h.invoiceService.ListByVendor(c.Request.Context(), name)
	if err != nil {
		HandleError(c, err)
		return
	}

	var buf bytes.Buffer
	switch format {
	case "csv":
		buf.Write(export.BOM)
		w := export.NewCSVWriter(&buf)
		if err := w.WriteHeader(); err == nil {
			err = w.WriteInvoices(invoices)
		}
		w.Flush()
		if err == nil {
			err = w.Error()
		}
		if err != nil {
			HandleError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+export.BuildFilename(name, "csv")+`"`)
		c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
	case "xlsx":
		if err := export.WriteXLSX(&buf, invoices); err != nil {
			HandleError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+export.BuildFilename(name, "xlsx")+`"`)
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
	}
}
