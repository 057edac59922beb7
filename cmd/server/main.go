package main

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"invoscan/internal/config"
	"invoscan/internal/docai"
	"invoscan/internal/handler"
	"invoscan/internal/port"
	"invoscan/internal/repository/postgres"
	"invoscan/internal/router"
	"invoscan/internal/service"
	s3storage "invoscan/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Optional .env for local development; env vars win either way.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories and clients
	invoiceRepo := postgres.NewInvoiceRepo(db)
	analyzer := docai.NewClient(&cfg.DocAI)

	var storage port.ObjectStorage
	if cfg.S3.Bucket != "" {
		storage, err = s3storage.NewS3Client(&cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
	}

	// Initialize services and handlers
	invoiceSvc := service.NewInvoiceService(invoiceRepo, analyzer, storage, &cfg.S3)
	invoiceH := handler.NewInvoiceHandler(invoiceSvc)
	healthH := handler.NewHealthHandler(db)

	r := router.Setup(invoiceH, healthH, cfg.CORS.AllowedOrigins)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
