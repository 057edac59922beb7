// Package export renders stored invoices as CSV or XLSX spreadsheets for
// the vendor export endpoint.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"invoscan/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the export header row.
var columns = []string{
	"Invoice ID",
	"Vendor Name",
	"Document Type",
	"Invoice Number",
	"Invoice Date",
	"Total Amount",
	"Line Item Count",
	"Confidence",
	"Created At",
}

// CSVWriter wraps csv.Writer for exporting invoices as CSV.
type CSVWriter struct {
	csv *csv.Writer
}

// NewCSVWriter creates a CSVWriter that writes to w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *CSVWriter) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteInvoices converts a batch of invoices to CSV rows and writes them.
func (w *CSVWriter) WriteInvoices(invoices []domain.StoredInvoice) error {
	for i := range invoices {
		if err := w.csv.Write(invoiceToRow(&invoices[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *CSVWriter) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *CSVWriter) Error() error {
	return w.csv.Error()
}

// invoiceToRow converts a single stored invoice to a row. Invoice columns
// come from the normalized data map; unrecognized or missing fields are
// left empty rather than failing the export.
func invoiceToRow(inv *domain.StoredInvoice) []string {
	row := make([]string, len(columns))
	row[0] = inv.ID.String()
	row[1] = inv.VendorName
	row[2] = inv.DocumentType
	row[7] = strconv.FormatFloat(inv.Confidence, 'f', 2, 64)
	row[8] = inv.CreatedAt.Format(time.RFC3339)

	var data map[string]any
	if err := json.Unmarshal(inv.Data, &data); err != nil {
		return row
	}
	row[3] = stringField(data, "InvoiceNumber")
	row[4] = stringField(data, "InvoiceDate")
	row[5] = stringField(data, "TotalAmount")
	if items, ok := data[domain.LineItemsKey].([]any); ok {
		row[6] = strconv.Itoa(len(items))
	}
	return row
}

func stringField(data map[string]any, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a vendor name for use in Content-Disposition.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for the Content-Disposition
// header. Format: {sanitized_vendor_name}_{YYYY-MM-DD}.{ext}
func BuildFilename(vendorName, ext string) string {
	sanitized := SanitizeFilename(vendorName)
	if sanitized == "" {
		sanitized = "invoices"
	}
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_%s.%s", sanitized, date, ext)
}
