package router

import (
	"github.com/gin-gonic/gin"

	"invoscan/internal/handler"
	"invoscan/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	invoiceH *handler.InvoiceHandler,
	healthH *handler.HealthHandler,
	corsOrigins []string,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(corsOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	// Extraction and lookups
	r.POST("/extract", invoiceH.Extract)
	r.GET("/invoice/:id", invoiceH.GetByID)
	r.GET("/invoice/:id/pdf", invoiceH.GetSourcePDF)
	r.GET("/invoices/vendor/:name", invoiceH.ListByVendor)
	r.GET("/invoices/vendor/:name/export", invoiceH.ExportByVendor)

	return r
}
