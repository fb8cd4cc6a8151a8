package main

import (
	"log"

	"github.com/billsnap/receipt-ocr-tracker/client"
	"github.com/billsnap/receipt-ocr-tracker/config"
	"github.com/billsnap/receipt-ocr-tracker/database"
	"github.com/billsnap/receipt-ocr-tracker/handler"
	"github.com/billsnap/receipt-ocr-tracker/service"

	"github.com/gin-gonic/gin"
)

func main() {
	// Initialize configuration
	cfg := config.LoadConfig()

	// Initialize Tesseract client
	tesseractClient := client.NewTesseractClient(cfg.TesseractDataPath)
	defer tesseractClient.Close()

	// Initialize PDF processor
	pdfProcessor := service.NewPDFProcessor()

	// Gemini is an optional rescue path for receipts the heuristics cannot read
	var geminiClient *client.GeminiClient
	if cfg.GeminiAPIKey != "" {
		gc, err := client.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Printf("Warning: Gemini client initialization failed: %v. Continuing without it.", err)
		} else {
			geminiClient = gc
			defer geminiClient.Close()
		}
	}

	// Open the receipt store
	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	// Initialize service layer
	receiptService := service.NewReceiptService(tesseractClient, pdfProcessor, geminiClient, db)

	// Initialize handler layer
	receiptHandler := handler.NewReceiptHandler(receiptService, cfg.MaxFileSize)

	// Setup Gin router
	router := gin.Default()

	// Configure max multipart memory (32 MB)
	router.MaxMultipartMemory = 32 << 20

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "Receipt OCR Tracker",
		})
	})

	// API routes
	api := router.Group("/api/v1")
	{
		receipts := api.Group("/receipts")
		{
			receipts.POST("/parse", receiptHandler.ParseText)
			receipts.POST("/upload", receiptHandler.Upload)
			receipts.GET("", receiptHandler.List)
			receipts.GET("/:bill_id", receiptHandler.Get)
			receipts.PATCH("/:bill_id/category", receiptHandler.UpdateCategory)
			receipts.DELETE("/:bill_id", receiptHandler.Delete)
		}
	}

	// Start server
	log.Printf("Starting Receipt OCR Tracker on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
