package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"mime/multipart"
	"os"
	"strings"
	"time"

	"github.com/billsnap/receipt-ocr-tracker/client"
	"github.com/billsnap/receipt-ocr-tracker/database"
	"github.com/billsnap/receipt-ocr-tracker/dto"
	"github.com/billsnap/receipt-ocr-tracker/utils"

	_ "image/jpeg"
)

// Tesseract word confidence below this triggers the PaddleOCR retry.
const minOCRConfidence = 60.0

// ReceiptService turns uploaded receipt files into stored financial records.
type ReceiptService struct {
	tesseractClient *client.TesseractClient
	paddleClient    *client.PaddleClient
	geminiClient    *client.GeminiClient
	pdfProcessor    PDFProcessor
	db              *database.DB
	parser          *utils.ReceiptParser
}

// NewReceiptService creates a new ReceiptService instance
func NewReceiptService(tesseractClient *client.TesseractClient, pdfProcessor PDFProcessor, geminiClient *client.GeminiClient, db *database.DB) *ReceiptService {
	// PaddleOCR is optional, falls back to Tesseract if unavailable
	paddle, err := client.NewPaddleClient()
	if err != nil {
		log.Printf("Warning: PaddleOCR client initialization failed: %v. Will use Tesseract only.", err)
		paddle = nil
	}

	return &ReceiptService{
		tesseractClient: tesseractClient,
		paddleClient:    paddle,
		geminiClient:    geminiClient,
		pdfProcessor:    pdfProcessor,
		db:              db,
		parser:          utils.NewReceiptParser(),
	}
}

// ParseText parses already-extracted receipt text without touching OCR or storage.
func (s *ReceiptService) ParseText(text string) (dto.ParsedReceipt, []dto.LineItem) {
	return s.parser.Parse(text)
}

// ProcessUpload runs the full pipeline for an uploaded receipt file:
// text extraction, parsing, duplicate detection and persistence.
func (s *ReceiptService) ProcessUpload(ctx context.Context, fileHeader *multipart.FileHeader, userEmail string) (*dto.UploadResponse, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	fileData, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	var text, ocrSource string
	if isPDF(fileHeader.Filename) {
		text, ocrSource, err = s.extractFromPDF(fileData)
	} else {
		text, ocrSource, err = s.extractFromImage(fileData, fileHeader.Filename)
	}
	if err != nil {
		return nil, err
	}

	receipt, items := s.parser.Parse(text)

	// A GST e-invoice QR carries the authoritative document number, which
	// beats a synthesized id.
	if strings.HasPrefix(receipt.BillID, dto.BillIDFallbackPrefix) {
		if qrID := s.billIDFromImage(fileData); qrID != "" {
			receipt.BillID = qrID
		}
	}

	// Gemini rescue: heuristics found nothing usable in the OCR text
	if receipt.Amount == 0 && len(items) == 0 && s.geminiClient != nil && !isPDF(fileHeader.Filename) {
		log.Println("Heuristic parse produced no amounts, trying Gemini extraction")
		if gReceipt, gItems, gErr := s.geminiClient.ExtractReceipt(fileData, imageFormat(fileHeader.Filename)); gErr == nil {
			receipt, items = gReceipt, gItems
			ocrSource = "gemini"
		} else {
			log.Printf("Gemini extraction failed: %v", gErr)
		}
	}

	resp := &dto.UploadResponse{
		Receipt:     receipt,
		Items:       items,
		OCRSource:   ocrSource,
		ProcessedAt: time.Now().UTC().Format(time.RFC3339),
	}

	duplicate, err := s.db.IsDuplicate(ctx, receipt.BillID, receipt.Vendor, receipt.Date, receipt.Amount)
	if err != nil {
		return nil, fmt.Errorf("duplicate check failed: %w", err)
	}
	if duplicate {
		resp.Duplicate = true
		return resp, nil
	}

	stored := dto.StoredReceipt{
		BillID:    receipt.BillID,
		UserEmail: userEmail,
		Vendor:    receipt.Vendor,
		Date:      receipt.Date,
		Amount:    receipt.Amount,
		Tax:       receipt.Tax,
		Subtotal:  receipt.Subtotal,
		Category:  receipt.Category,
	}
	if err := s.db.SaveReceipt(ctx, stored, items); err != nil {
		// A concurrent upload of the same receipt can win the insert race
		if errors.Is(err, dto.ErrDuplicateReceipt) {
			resp.Duplicate = true
			return resp, nil
		}
		return nil, fmt.Errorf("failed to save receipt: %w", err)
	}
	if _, err := s.db.RecordUpload(ctx, receipt.BillID, fileHeader.Filename, ocrSource); err != nil {
		log.Printf("Warning: failed to record upload audit row: %v", err)
	}
	resp.Saved = true

	return resp, nil
}

// ListReceipts returns all stored receipts for a user, newest first.
func (s *ReceiptService) ListReceipts(ctx context.Context, userEmail string) ([]dto.StoredReceipt, error) {
	return s.db.FetchAll(ctx, userEmail)
}

// GetReceipt returns one stored receipt with its line items.
func (s *ReceiptService) GetReceipt(ctx context.Context, billID, userEmail string) (*dto.StoredReceipt, []dto.LineItem, error) {
	return s.db.GetByBillID(ctx, billID, userEmail)
}

// UpdateCategory overrides the auto-detected category of a stored receipt.
func (s *ReceiptService) UpdateCategory(ctx context.Context, billID, userEmail, category string) error {
	return s.db.UpdateCategory(ctx, billID, userEmail, category)
}

// DeleteReceipt removes a stored receipt and its line items.
func (s *ReceiptService) DeleteReceipt(ctx context.Context, billID, userEmail string) error {
	return s.db.DeleteReceipt(ctx, billID, userEmail)
}

func (s *ReceiptService) extractFromPDF(fileData []byte) (string, string, error) {
	log.Println("Processing PDF receipt")

	text, err := s.pdfProcessor.ExtractText(fileData)
	if err == nil && hasUsableText(text) {
		return text, "pdf-text", nil
	}

	// Scanned PDF: no text layer, OCR the embedded page images instead
	images, err := s.pdfProcessor.ExtractImages(fileData, "")
	if err != nil {
		return "", "", fmt.Errorf("failed to extract images from PDF: %w", err)
	}
	if len(images) == 0 {
		return "", "", fmt.Errorf("PDF contains no text layer and no images")
	}

	var sb strings.Builder
	source := "tesseract"
	for _, img := range images {
		pageText, pageSource, err := s.ocrImage(img)
		if err != nil {
			log.Printf("Warning: OCR failed for a PDF page: %v", err)
			continue
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
		source = pageSource
	}
	return sb.String(), source, nil
}

func (s *ReceiptService) extractFromImage(fileData []byte, filename string) (string, string, error) {
	tempPath, err := saveTempFile(fileData, filename)
	if err != nil {
		return "", "", err
	}
	defer os.Remove(tempPath)

	text, confidence, err := s.tesseractClient.ExtractTextAndQuality(tempPath)
	if err != nil {
		return "", "", fmt.Errorf("tesseract extraction failed: %w", err)
	}

	if confidence < minOCRConfidence && s.paddleClient != nil {
		log.Printf("Tesseract confidence %.1f below %.1f, retrying with PaddleOCR", confidence, minOCRConfidence)
		paddleText, paddleErr := s.paddleClient.ExtractTextFromPath(tempPath)
		if paddleErr == nil && len(paddleText) > len(text) {
			return paddleText, "paddleocr", nil
		}
		if paddleErr != nil {
			log.Printf("PaddleOCR fallback failed: %v", paddleErr)
		}
	}

	return text, "tesseract", nil
}

// ocrImage handles pages rendered out of scanned PDFs. These are clean
// embedded scans, so the confidence-driven retry used for photos is
// skipped; Paddle only steps in when Tesseract reads nothing at all.
func (s *ReceiptService) ocrImage(img image.Image) (string, string, error) {
	tempPath, err := saveImagePNG(img)
	if err != nil {
		return "", "", err
	}
	defer os.Remove(tempPath)

	text, err := s.tesseractClient.ExtractText(tempPath)
	if err == nil && strings.TrimSpace(text) != "" {
		return text, "tesseract", nil
	}
	if s.paddleClient != nil {
		if paddleText, paddleErr := s.paddleClient.ExtractText(img); paddleErr == nil {
			return paddleText, "paddleocr", nil
		}
	}
	if err != nil {
		return "", "", err
	}
	return text, "tesseract", nil
}

func (s *ReceiptService) billIDFromImage(fileData []byte) string {
	img, _, err := image.Decode(bytes.NewReader(fileData))
	if err != nil {
		return ""
	}
	qrText, err := client.DecodeReceiptQR(img)
	if err != nil {
		return ""
	}
	return client.BillIDFromQR(qrText)
}

// hasUsableText reports whether a PDF text layer is worth parsing at all.
func hasUsableText(text string) bool {
	letters := 0
	for _, r := range text {
		if r > ' ' {
			letters++
		}
	}
	return letters >= 20
}

func isPDF(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".pdf")
}

func imageFormat(filename string) string {
	lower := strings.ToLower(filename)
	if strings.HasSuffix(lower, ".png") {
		return "png"
	}
	return "jpeg"
}

func saveTempFile(data []byte, filename string) (string, error) {
	ext := ".png"
	if idx := strings.LastIndex(filename, "."); idx >= 0 {
		ext = filename[idx:]
	}
	tempFile, err := os.CreateTemp("", "receipt-*"+ext)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer tempFile.Close()

	if _, err := tempFile.Write(data); err != nil {
		os.Remove(tempFile.Name())
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	return tempFile.Name(), nil
}

func saveImagePNG(img image.Image) (string, error) {
	tempFile, err := os.CreateTemp("", "receipt-page-*.png")
	if err != nil {
		return "", fmt.Errorf("failed to create temp image: %w", err)
	}
	defer tempFile.Close()

	if err := png.Encode(tempFile, img); err != nil {
		os.Remove(tempFile.Name())
		return "", fmt.Errorf("failed to encode temp image: %w", err)
	}
	return tempFile.Name(), nil
}
